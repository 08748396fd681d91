package richtext

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/athapong/aio-richtext/pkg/styledtext"
)

func mentionRanges(st styledtext.StyledText) []styledtext.Range {
	var out []styledtext.Range
	for r, v := range st.EnumerateAttribute(styledtext.KeyAllUsersMention, st.FullRange()) {
		if v == true {
			out = append(out, r)
		}
	}
	return out
}

func TestAddAllUsersMentions(t *testing.T) {
	tests := []struct {
		name string
		in   styledtext.StyledText
		want []styledtext.Range
	}{
		{
			name: "standalone",
			in:   styledtext.Plain("hey @room!"),
			want: []styledtext.Range{{Start: 4, Length: 5}},
		},
		{
			name: "twice",
			in:   styledtext.Plain("@room and @room"),
			want: []styledtext.Range{{Start: 0, Length: 5}, {Start: 10, Length: 5}},
		},
		{
			name: "after multibyte text",
			in:   styledtext.Plain("héllo @room"),
			want: []styledtext.Range{{Start: 6, Length: 5}},
		},
		{name: "longer word", in: styledtext.Plain("hi @roommate")},
		{name: "user id", in: styledtext.Plain("ask @room:example.org")},
		{name: "inside word", in: styledtext.Plain("mail me@room")},
		{
			name: "code",
			in:   build(seg{"run ", plainAttrs}, seg{"@room", codeAttrs}),
		},
		{
			name: "link",
			in:   build(seg{"@room", plainAttrs.With(styledtext.KeyLink, "https://example.org")}),
		},
		{name: "empty", in: styledtext.Plain("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AddAllUsersMentions(tt.in)
			if diff := cmp.Diff(tt.want, mentionRanges(got)); diff != "" {
				t.Errorf("mentions mismatch (-want +got):\n%s", diff)
			}
			if got.String() != tt.in.String() {
				t.Errorf("text changed to %q", got.String())
			}
		})
	}
}

func TestFromPlainMentionsAndUserLinks(t *testing.T) {
	b := newTestBuilder(t, Options{})

	res := b.FromPlain("@room see @room:example.org")
	if diff := cmp.Diff([]styledtext.Range{{Start: 0, Length: 5}}, mentionRanges(res.Text)); diff != "" {
		t.Errorf("mentions mismatch (-want +got):\n%s", diff)
	}
	if !res.Text.AttributesAt(10).Has(styledtext.KeyLink) {
		t.Errorf("room alias not linked")
	}
	if res.Text.AttributesAt(0).Has(styledtext.KeyLink) {
		t.Errorf("mention linked")
	}
}
