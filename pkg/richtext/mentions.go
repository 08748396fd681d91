package richtext

import (
	"regexp"

	"github.com/athapong/aio-richtext/pkg/styledtext"
)

var allUsersPattern = regexp.MustCompile(`@room\b`)

// AddAllUsersMentions flags every standalone "@room" with
// KeyAllUsersMention. Occurrences inside links, code or a user ID such as
// @room:example.org are skipped.
func AddAllUsersMentions(st styledtext.StyledText) styledtext.StyledText {
	st, _ = addAllUsersMentions(st)
	return st
}

func addAllUsersMentions(st styledtext.StyledText) (styledtext.StyledText, int) {
	if st.IsEmpty() {
		return st, 0
	}
	s := st.String()
	offsets := runeOffsets(s)

	added := 0
	for _, m := range allUsersPattern.FindAllStringIndex(s, -1) {
		if !identifierBoundary(s, m[0]) || (m[1] < len(s) && (s[m[1]] == ':' || s[m[1]] == '-')) {
			continue
		}
		r := styledtext.Range{Start: offsets[m[0]], Length: offsets[m[1]] - offsets[m[0]]}
		if st.HasAttribute(styledtext.KeyLink, r) || st.HasAttribute(styledtext.KeyCode, r) {
			continue
		}
		st = st.SetAttribute(styledtext.KeyAllUsersMention, true, r)
		added++
	}
	return st, added
}
