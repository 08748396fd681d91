package styledtext

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrOutOfRange is matched by every *RangeError via errors.Is.
var ErrOutOfRange = errors.New("styledtext: range out of bounds")

// Range is a half-open span of characters: [Start, Start+Length).
type Range struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// RangeError reports a Range that cannot describe a text of TextLen characters.
type RangeError struct {
	Start   int
	Length  int
	TextLen int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("styledtext: range {start: %d, length: %d} out of bounds for text of length %d",
		e.Start, e.Length, e.TextLen)
}

// Is makes errors.Is(err, ErrOutOfRange) hold for range errors.
func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// NewRange validates start and length against a text of textLen characters.
// Nothing is constructed when the range is negative or exceeds the text.
func NewRange(start, length, textLen int) (Range, error) {
	if start < 0 || length < 0 || start > textLen || length > textLen-start {
		return Range{}, &RangeError{Start: start, Length: length, TextLen: textLen}
	}
	return Range{Start: start, Length: length}, nil
}

// End returns the exclusive end offset.
func (r Range) End() int {
	return r.Start + r.Length
}

// IsEmpty reports whether the range covers no characters.
func (r Range) IsEmpty() bool {
	return r.Length == 0
}

// Contains reports whether offset i lies inside the range.
func (r Range) Contains(i int) bool {
	return i >= r.Start && i < r.End()
}

// Overlaps reports whether the two ranges share at least one character.
func (r Range) Overlaps(o Range) bool {
	return r.Start < o.End() && o.Start < r.End()
}

func (r Range) String() string {
	return fmt.Sprintf("{%d, %d}", r.Start, r.Length)
}

// clamp trims r to [0, n). Methods on StyledText clamp instead of failing so
// that malformed upstream ranges degrade to no-ops.
func (r Range) clamp(n int) Range {
	start, end := r.Start, r.End()
	if r.Length < 0 {
		end = start
	}
	start = min(max(start, 0), n)
	end = min(max(end, start), n)
	return Range{Start: start, Length: end - start}
}
