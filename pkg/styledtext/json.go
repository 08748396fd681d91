package styledtext

import (
	"encoding/json"

	"github.com/pkg/errors"
)

type runJSON struct {
	Start      int                     `json:"start"`
	Length     int                     `json:"length"`
	Attributes map[Key]json.RawMessage `json:"attributes,omitempty"`
}

type styledTextJSON struct {
	Text string    `json:"text"`
	Runs []runJSON `json:"runs"`
}

// MarshalJSON encodes the text and its attribute runs.
func (s StyledText) MarshalJSON() ([]byte, error) {
	out := styledTextJSON{Text: s.String(), Runs: make([]runJSON, 0, len(s.spans))}
	for run := range s.AllRuns() {
		rj := runJSON{Start: run.Range.Start, Length: run.Range.Length}
		if len(run.Attributes) > 0 {
			rj.Attributes = make(map[Key]json.RawMessage, len(run.Attributes))
			for k, v := range run.Attributes {
				raw, err := json.Marshal(v)
				if err != nil {
					return nil, errors.Wrapf(err, "encode attribute %q", k)
				}
				rj.Attributes[k] = raw
			}
		}
		out.Runs = append(out.Runs, rj)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the form written by MarshalJSON. Known keys decode
// to their typed values; unknown keys decode as generic JSON values.
func (s *StyledText) UnmarshalJSON(data []byte) error {
	var in styledTextJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return errors.Wrap(err, "decode styled text")
	}
	text := []rune(in.Text)
	spans := make([]span, 0, len(in.Runs))
	pos := 0
	for _, rj := range in.Runs {
		if _, err := NewRange(rj.Start, rj.Length, len(text)); err != nil {
			return err
		}
		if rj.Start != pos {
			return errors.Errorf("decode styled text: run at %d does not follow previous run ending at %d", rj.Start, pos)
		}
		attrs := make(Attributes, len(rj.Attributes))
		for k, raw := range rj.Attributes {
			v, err := decodeValue(k, raw)
			if err != nil {
				return errors.Wrapf(err, "decode attribute %q", k)
			}
			attrs[k] = v
		}
		spans = append(spans, span{length: rj.Length, attrs: attrs})
		pos += rj.Length
	}
	if pos != len(text) {
		return errors.Errorf("decode styled text: runs cover %d of %d characters", pos, len(text))
	}
	*s = StyledText{text: text, spans: normalize(spans)}
	if len(text) == 0 {
		*s = StyledText{}
	}
	return nil
}

func decodeValue(k Key, raw json.RawMessage) (any, error) {
	switch k {
	case KeyFont:
		var f Font
		err := json.Unmarshal(raw, &f)
		return f, err
	case KeyParagraphStyle:
		var p ParagraphStyle
		err := json.Unmarshal(raw, &p)
		return p, err
	case KeyUnderline, KeyStrikethrough, KeyCode, KeyBlockquote, KeyAllUsersMention:
		var b bool
		err := json.Unmarshal(raw, &b)
		return b, err
	case KeyBaselineOffset, KeyHeadingLevel:
		var n int
		err := json.Unmarshal(raw, &n)
		return n, err
	case KeyLink, KeyForegroundColor, KeyBackgroundColor:
		var str string
		err := json.Unmarshal(raw, &str)
		return str, err
	}
	var v any
	err := json.Unmarshal(raw, &v)
	return v, err
}
