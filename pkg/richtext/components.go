package richtext

import (
	"github.com/athapong/aio-richtext/pkg/styledtext"
)

// Component is a slice of text that is either entirely inside a blockquote
// or entirely outside one.
type Component struct {
	Text         styledtext.StyledText
	Range        styledtext.Range
	IsBlockquote bool
}

// Components splits st into consecutive components by the blockquote
// attribute, for surfaces that lay quotes out as separate views.
func Components(st styledtext.StyledText) []Component {
	var out []Component
	for r, v := range st.EnumerateAttribute(styledtext.KeyBlockquote, st.FullRange()) {
		quote, _ := v.(bool)
		if n := len(out); n > 0 && out[n-1].IsBlockquote == quote {
			last := &out[n-1]
			last.Range.Length += r.Length
			last.Text = st.Slice(last.Range)
			continue
		}
		out = append(out, Component{Text: st.Slice(r), Range: r, IsBlockquote: quote})
	}
	return out
}
