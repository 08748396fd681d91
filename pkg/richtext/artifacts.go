package richtext

import (
	"strings"
	"unicode"

	"github.com/athapong/aio-richtext/pkg/styledtext"
)

// region identifies the structural context of a character. Line breaks
// separating two different regions are never all removed.
type region struct {
	marker bool
	quote  bool
	code   bool
}

func regionOf(a styledtext.Attributes) region {
	return region{
		marker: isMarker(a),
		quote:  a.Bool(styledtext.KeyBlockquote),
		code:   a.Bool(styledtext.KeyCode),
	}
}

func (r region) structural() bool {
	return r != region{}
}

// RemoveConversionArtifacts undoes the layout the converter adds around
// blocks. Paragraph styles are dropped, blank lines collapse to a single
// line break outside code, doubled spaces collapse outside code and trailing
// whitespace is trimmed. Applying it twice gives the same result as once.
func RemoveConversionArtifacts(st styledtext.StyledText) styledtext.StyledText {
	if st.IsEmpty() {
		return st
	}
	st = st.RemoveAttribute(styledtext.KeyParagraphStyle, st.FullRange())

	text := st.Runes()
	attrs := make([]styledtext.Attributes, len(text))
	for run := range st.AllRuns() {
		for i := run.Range.Start; i < run.Range.End(); i++ {
			attrs[i] = run.Attributes
		}
	}

	drop := make([]bool, len(text))
	collapseLineBreaks(text, attrs, drop)
	collapseSpaces(text, attrs, drop)
	trimTrailing(text, drop)

	return filter(st, text, drop)
}

func collapseLineBreaks(text []rune, attrs []styledtext.Attributes, drop []bool) {
	for i := 0; i < len(text); {
		if text[i] != '\n' {
			i++
			continue
		}
		j := i
		for j < len(text) && text[j] == '\n' {
			j++
		}
		if j-i > 1 {
			collapseLineBreakRun(attrs, drop, i, j)
		}
		i = j
	}
}

func collapseLineBreakRun(attrs []styledtext.Attributes, drop []bool, start, end int) {
	allCode, allStructural := true, true
	keep := -1
	for i := start; i < end; i++ {
		r := regionOf(attrs[i])
		allCode = allCode && r.code
		if !r.structural() {
			allStructural = false
			if keep < 0 {
				keep = i
			}
		}
	}
	if allCode {
		return
	}

	if !allStructural {
		for i := start; i < end; i++ {
			drop[i] = i != keep
		}
		return
	}

	// One break per region, so neighbouring quotes or code blocks stay apart.
	prev := regionOf(attrs[start])
	for i := start + 1; i < end; i++ {
		r := regionOf(attrs[i])
		drop[i] = r == prev
		prev = r
	}
}

func collapseSpaces(text []rune, attrs []styledtext.Attributes, drop []bool) {
	for i := 1; i < len(text); i++ {
		if text[i] == ' ' && text[i-1] == ' ' &&
			!attrs[i].Bool(styledtext.KeyCode) && !attrs[i-1].Bool(styledtext.KeyCode) {
			drop[i] = true
		}
	}
}

func trimTrailing(text []rune, drop []bool) {
	for i := len(text) - 1; i >= 0 && unicode.IsSpace(text[i]); i-- {
		drop[i] = true
	}
}

// filter rebuilds st without the characters flagged in drop.
func filter(st styledtext.StyledText, text []rune, drop []bool) styledtext.StyledText {
	var (
		b       styledtext.Builder
		sb      strings.Builder
		removed bool
	)
	for run := range st.AllRuns() {
		sb.Reset()
		for i := run.Range.Start; i < run.Range.End(); i++ {
			if drop[i] {
				removed = true
				continue
			}
			sb.WriteRune(text[i])
		}
		b.WriteString(sb.String(), run.Attributes)
	}
	if !removed {
		return st
	}
	return b.StyledText()
}
