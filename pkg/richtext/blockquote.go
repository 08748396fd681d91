package richtext

import (
	"iter"
	"strconv"

	"github.com/google/uuid"

	"github.com/athapong/aio-richtext/pkg/styledtext"
)

// blockquoteNamespace scopes the name-based blockquote IDs.
var blockquoteNamespace = uuid.MustParse("6f1f4a5e-2b4c-5d8e-9a71-3c0b7e2d9f10")

// BlockquoteRange is a recovered blockquote region.
type BlockquoteRange struct {
	styledtext.Range

	// ID depends only on the offsets, so enumerating the same text twice
	// yields the same IDs.
	ID uuid.UUID `json:"id"`
}

func newBlockquoteRange(r styledtext.Range) BlockquoteRange {
	name := strconv.Itoa(r.Start) + ":" + strconv.Itoa(r.Length)
	return BlockquoteRange{Range: r, ID: uuid.NewSHA1(blockquoteNamespace, []byte(name))}
}

// EnumerateBlockquotes yields the marked blockquote regions of st from left
// to right. Neighbouring runs that both carry the marker form one region
// whatever their other attributes; st is not modified.
func EnumerateBlockquotes(st styledtext.StyledText) iter.Seq[BlockquoteRange] {
	return func(yield func(BlockquoteRange) bool) {
		var (
			cur  styledtext.Range
			open bool
		)
		for run := range st.AllRuns() {
			if run.Range.IsEmpty() {
				continue
			}
			if isMarker(run.Attributes) {
				if open {
					cur.Length += run.Range.Length
				} else {
					cur, open = run.Range, true
				}
				continue
			}
			if open {
				if !yield(newBlockquoteRange(cur)) {
					return
				}
				open = false
			}
		}
		if open {
			yield(newBlockquoteRange(cur))
		}
	}
}

// Blockquotes collects EnumerateBlockquotes.
func Blockquotes(st styledtext.StyledText) []BlockquoteRange {
	var out []BlockquoteRange
	for bq := range EnumerateBlockquotes(st) {
		out = append(out, bq)
	}
	return out
}

// StripBlockquoteMarkers removes the marker from every character. Offsets
// are unchanged, so ranges enumerated before stripping stay valid.
func StripBlockquoteMarkers(st styledtext.StyledText) styledtext.StyledText {
	return st.RemoveAttribute(MarkerKey, st.FullRange())
}

// ReplaceMarkedBlockquotes flags every marked region with the blockquote
// attribute and strips the markers.
func ReplaceMarkedBlockquotes(st styledtext.StyledText) styledtext.StyledText {
	for bq := range EnumerateBlockquotes(st) {
		st = st.SetAttribute(styledtext.KeyBlockquote, true, bq.Range)
	}
	return StripBlockquoteMarkers(st)
}
