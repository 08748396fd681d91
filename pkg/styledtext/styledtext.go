// Package styledtext implements an immutable styled-text value: a sequence of
// characters where every character carries a set of attributes. Characters
// are Unicode code points and all offsets count code points.
//
// Attribute runs are always kept maximal, so two StyledText values holding
// the same characters and the same per-character attributes compare Equal
// regardless of how they were built.
package styledtext

import (
	"iter"
	"reflect"
	"slices"
)

type span struct {
	length int
	attrs  Attributes
}

// StyledText is a value type. Every method leaves the receiver untouched and
// returns a new value when it changes something; the zero value is empty.
type StyledText struct {
	text  []rune
	spans []span
}

// Run is a maximal range of characters sharing one attribute set.
type Run struct {
	Range      Range
	Attributes Attributes
}

// New returns text with attrs applied to every character.
func New(text string, attrs Attributes) StyledText {
	r := []rune(text)
	if len(r) == 0 {
		return StyledText{}
	}
	return StyledText{text: r, spans: []span{{length: len(r), attrs: attrs.Clone()}}}
}

// Plain returns text without attributes.
func Plain(text string) StyledText {
	return New(text, nil)
}

// Len returns the number of characters.
func (s StyledText) Len() int {
	return len(s.text)
}

// IsEmpty reports whether the text has no characters.
func (s StyledText) IsEmpty() bool {
	return len(s.text) == 0
}

// String returns the characters without attributes.
func (s StyledText) String() string {
	return string(s.text)
}

// Runes returns a copy of the characters.
func (s StyledText) Runes() []rune {
	return slices.Clone(s.text)
}

// FullRange covers every character.
func (s StyledText) FullRange() Range {
	return Range{Start: 0, Length: len(s.text)}
}

// Range validates a range against this text.
func (s StyledText) Range(start, length int) (Range, error) {
	return NewRange(start, length, len(s.text))
}

// Substring returns the characters covered by r.
func (s StyledText) Substring(r Range) string {
	r = r.clamp(len(s.text))
	return string(s.text[r.Start:r.End()])
}

// Runs returns the attribute runs in order.
func (s StyledText) Runs() []Run {
	runs := make([]Run, 0, len(s.spans))
	for r := range s.AllRuns() {
		runs = append(runs, r)
	}
	return runs
}

// AllRuns iterates over the attribute runs in order. The yielded attribute
// sets are shared with the text and must not be modified.
func (s StyledText) AllRuns() iter.Seq[Run] {
	return func(yield func(Run) bool) {
		pos := 0
		for _, sp := range s.spans {
			if !yield(Run{Range: Range{Start: pos, Length: sp.length}, Attributes: sp.attrs}) {
				return
			}
			pos += sp.length
		}
	}
}

// AttributesAt returns the attributes of character i, or nil when i is out
// of bounds.
func (s StyledText) AttributesAt(i int) Attributes {
	if i < 0 || i >= len(s.text) {
		return nil
	}
	pos := 0
	for _, sp := range s.spans {
		if i < pos+sp.length {
			return sp.attrs.Clone()
		}
		pos += sp.length
	}
	return nil
}

// EnumerateAttribute yields maximal sub-ranges of r over which key has one
// value. The value is nil where the key is absent.
func (s StyledText) EnumerateAttribute(key Key, r Range) iter.Seq2[Range, any] {
	r = r.clamp(len(s.text))
	return func(yield func(Range, any) bool) {
		var (
			cur     Range
			value   any
			started bool
		)
		pos := 0
		for _, sp := range s.spans {
			start, end := pos, pos+sp.length
			pos = end
			lo, hi := max(start, r.Start), min(end, r.End())
			if lo >= hi {
				continue
			}
			v := sp.attrs[key]
			if started && reflect.DeepEqual(v, value) {
				cur.Length += hi - lo
				continue
			}
			if started && !yield(cur, value) {
				return
			}
			cur, value, started = Range{Start: lo, Length: hi - lo}, v, true
		}
		if started {
			yield(cur, value)
		}
	}
}

// HasAttribute reports whether any character in r carries key.
func (s StyledText) HasAttribute(key Key, r Range) bool {
	for _, v := range s.EnumerateAttribute(key, r) {
		if v != nil {
			return true
		}
	}
	return false
}

// SetAttribute sets key to value on every character in r.
func (s StyledText) SetAttribute(key Key, value any, r Range) StyledText {
	return s.mapRange(r, func(a Attributes) Attributes {
		return a.With(key, value)
	})
}

// AddAttributes merges attrs into every character in r.
func (s StyledText) AddAttributes(attrs Attributes, r Range) StyledText {
	if len(attrs) == 0 {
		return s
	}
	return s.mapRange(r, func(a Attributes) Attributes {
		return a.Merge(attrs)
	})
}

// RemoveAttribute deletes key from every character in r.
func (s StyledText) RemoveAttribute(key Key, r Range) StyledText {
	return s.mapRange(r, func(a Attributes) Attributes {
		return a.Without(key)
	})
}

// MapAttributes replaces the attributes of every character in r with fn's
// result. fn must not modify its argument.
func (s StyledText) MapAttributes(r Range, fn func(Attributes) Attributes) StyledText {
	return s.mapRange(r, fn)
}

// Slice returns the characters and attributes covered by r.
func (s StyledText) Slice(r Range) StyledText {
	r = r.clamp(len(s.text))
	if r.Length == 0 {
		return StyledText{}
	}
	out := make([]span, 0, len(s.spans))
	pos := 0
	for _, sp := range s.spans {
		start, end := pos, pos+sp.length
		pos = end
		lo, hi := max(start, r.Start), min(end, r.End())
		if lo < hi {
			out = append(out, span{length: hi - lo, attrs: sp.attrs})
		}
	}
	return StyledText{text: slices.Clone(s.text[r.Start:r.End()]), spans: out}
}

// Delete removes the characters covered by r.
func (s StyledText) Delete(r Range) StyledText {
	r = r.clamp(len(s.text))
	if r.Length == 0 {
		return s
	}
	text := make([]rune, 0, len(s.text)-r.Length)
	text = append(text, s.text[:r.Start]...)
	text = append(text, s.text[r.End():]...)

	out := make([]span, 0, len(s.spans))
	pos := 0
	for _, sp := range s.spans {
		start, end := pos, pos+sp.length
		pos = end
		kept := sp.length
		if lo, hi := max(start, r.Start), min(end, r.End()); lo < hi {
			kept -= hi - lo
		}
		out = append(out, span{length: kept, attrs: sp.attrs})
	}
	return StyledText{text: text, spans: normalize(out)}
}

// Append returns s followed by o.
func (s StyledText) Append(o StyledText) StyledText {
	if o.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return o
	}
	text := make([]rune, 0, len(s.text)+len(o.text))
	text = append(append(text, s.text...), o.text...)
	spans := make([]span, 0, len(s.spans)+len(o.spans))
	spans = append(append(spans, s.spans...), o.spans...)
	return StyledText{text: text, spans: normalize(spans)}
}

// Equal reports whether both texts hold the same characters with the same
// attributes at every position.
func (s StyledText) Equal(o StyledText) bool {
	if !slices.Equal(s.text, o.text) || len(s.spans) != len(o.spans) {
		return false
	}
	for i := range s.spans {
		if s.spans[i].length != o.spans[i].length || !s.spans[i].attrs.Equal(o.spans[i].attrs) {
			return false
		}
	}
	return true
}

func (s StyledText) mapRange(r Range, fn func(Attributes) Attributes) StyledText {
	r = r.clamp(len(s.text))
	if r.Length == 0 {
		return s
	}
	out := make([]span, 0, len(s.spans)+2)
	pos := 0
	for _, sp := range s.spans {
		start, end := pos, pos+sp.length
		pos = end
		lo, hi := max(start, r.Start), min(end, r.End())
		if lo >= hi {
			out = append(out, sp)
			continue
		}
		if lo > start {
			out = append(out, span{length: lo - start, attrs: sp.attrs})
		}
		out = append(out, span{length: hi - lo, attrs: fn(sp.attrs)})
		if hi < end {
			out = append(out, span{length: end - hi, attrs: sp.attrs})
		}
	}
	return StyledText{text: s.text, spans: normalize(out)}
}

// normalize drops empty spans and merges neighbours with equal attributes.
func normalize(spans []span) []span {
	out := spans[:0:0]
	for _, sp := range spans {
		if sp.length <= 0 {
			continue
		}
		if n := len(out); n > 0 && out[n-1].attrs.Equal(sp.attrs) {
			out[n-1].length += sp.length
			continue
		}
		if len(sp.attrs) == 0 {
			sp.attrs = nil
		}
		out = append(out, sp)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
