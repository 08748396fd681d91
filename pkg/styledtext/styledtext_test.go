package styledtext

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var bold = Attributes{KeyFont: Font{Family: "Inter", Size: 17, Bold: true}}

func TestNewRange(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		length  int
		textLen int
		wantErr bool
	}{
		{name: "whole text", start: 0, length: 5, textLen: 5},
		{name: "empty at end", start: 5, length: 0, textLen: 5},
		{name: "empty text", start: 0, length: 0, textLen: 0},
		{name: "negative start", start: -1, length: 1, textLen: 5, wantErr: true},
		{name: "negative length", start: 1, length: -1, textLen: 5, wantErr: true},
		{name: "past the end", start: 3, length: 3, textLen: 5, wantErr: true},
		{name: "start past the end", start: 6, length: 0, textLen: 5, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRange(tt.start, tt.length, tt.textLen)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if r.Start != tt.start || r.Length != tt.length {
					t.Errorf("got %v, want {%d, %d}", r, tt.start, tt.length)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected an error, got range %v", r)
			}
			if r != (Range{}) {
				t.Errorf("expected zero range on error, got %v", r)
			}
			var rangeErr *RangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("expected *RangeError, got %T", err)
			}
			if !errors.Is(err, ErrOutOfRange) {
				t.Errorf("expected errors.Is(err, ErrOutOfRange)")
			}
		})
	}
}

func TestRunsAreMaximal(t *testing.T) {
	var b Builder
	b.WriteString("plain ", nil)
	b.WriteString("more ", Attributes{})
	b.WriteString("bold", bold)
	b.WriteString("er", bold.Clone())

	st := b.StyledText()
	want := []Run{
		{Range: Range{Start: 0, Length: 11}},
		{Range: Range{Start: 11, Length: 6}, Attributes: bold},
	}
	if diff := cmp.Diff(want, st.Runs()); diff != "" {
		t.Errorf("runs mismatch (-want +got):\n%s", diff)
	}
	if st.String() != "plain more bolder" {
		t.Errorf("unexpected text %q", st.String())
	}
}

func TestSetAndRemoveAttribute(t *testing.T) {
	st := Plain("hello world")
	linked := st.SetAttribute(KeyLink, "https://example.com", Range{Start: 6, Length: 5})

	if got := len(linked.Runs()); got != 2 {
		t.Fatalf("expected 2 runs, got %d", got)
	}
	if st.HasAttribute(KeyLink, st.FullRange()) {
		t.Errorf("receiver was mutated")
	}
	if v, _ := linked.AttributesAt(6).String(KeyLink); v != "https://example.com" {
		t.Errorf("link not set, got %q", v)
	}

	cleared := linked.RemoveAttribute(KeyLink, linked.FullRange())
	if !cleared.Equal(st) {
		t.Errorf("removing the only attribute should restore the original text")
	}
}

func TestMapAttributesClampsRange(t *testing.T) {
	st := Plain("abc")
	got := st.SetAttribute(KeyCode, true, Range{Start: 2, Length: 10})
	if got.AttributesAt(1).Bool(KeyCode) || !got.AttributesAt(2).Bool(KeyCode) {
		t.Errorf("unexpected attributes: %v", got.Runs())
	}
	if same := st.SetAttribute(KeyCode, true, Range{Start: -4, Length: 2}); !same.Equal(st) {
		t.Errorf("out of bounds range should be a no-op")
	}
}

func TestEnumerateAttribute(t *testing.T) {
	var b Builder
	b.WriteString("a", Attributes{KeyBlockquote: true})
	b.WriteString("b", Attributes{KeyBlockquote: true, KeyCode: true})
	b.WriteString("c", nil)
	b.WriteString("d", Attributes{KeyBlockquote: true})
	st := b.StyledText()

	type item struct {
		Range Range
		Value any
	}
	var got []item
	for r, v := range st.EnumerateAttribute(KeyBlockquote, st.FullRange()) {
		got = append(got, item{r, v})
	}
	want := []item{
		{Range{0, 2}, true},
		{Range{2, 1}, nil},
		{Range{3, 1}, true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("enumeration mismatch (-want +got):\n%s", diff)
	}
}

func TestSliceDeleteAppend(t *testing.T) {
	var b Builder
	b.WriteString("one ", nil)
	b.WriteString("two", bold)
	b.WriteString(" three", nil)
	st := b.StyledText()

	mid := st.Slice(Range{Start: 2, Length: 6})
	if mid.String() != "e two " {
		t.Errorf("slice text %q", mid.String())
	}
	if got := len(mid.Runs()); got != 3 {
		t.Errorf("slice runs %d", got)
	}

	deleted := st.Delete(Range{Start: 4, Length: 3})
	if deleted.String() != "one  three" {
		t.Errorf("delete text %q", deleted.String())
	}
	if got := len(deleted.Runs()); got != 1 {
		t.Errorf("expected neighbouring plain runs to merge, got %d runs", got)
	}

	rejoined := st.Slice(Range{0, 4}).Append(st.Slice(Range{4, st.Len() - 4}))
	if !rejoined.Equal(st) {
		t.Errorf("slice+append did not round trip")
	}
}

func TestEmptyText(t *testing.T) {
	var st StyledText
	if !st.IsEmpty() || st.Len() != 0 || len(st.Runs()) != 0 {
		t.Fatalf("zero value should be empty")
	}
	if !New("", bold).Equal(st) {
		t.Errorf("empty text with attributes should equal the zero value")
	}
	if got := st.SetAttribute(KeyLink, "x", st.FullRange()); !got.Equal(st) {
		t.Errorf("setting on empty text should be a no-op")
	}
}

func TestJSONRoundTrip(t *testing.T) {
	var b Builder
	b.WriteString("quote ", Attributes{KeyBlockquote: true, KeyFont: Font{Family: "Inter", Size: 17}})
	b.WriteString("link", Attributes{KeyLink: "https://example.com", KeyHeadingLevel: 2})
	b.WriteString(" ✓", Attributes{CSSKey("-x-test"): "on"})
	st := b.StyledText()

	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded StyledText
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(st, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalRejectsBadRuns(t *testing.T) {
	tests := []string{
		`{"text":"abc","runs":[{"start":0,"length":5}]}`,
		`{"text":"abc","runs":[{"start":1,"length":2}]}`,
		`{"text":"abc","runs":[{"start":0,"length":2}]}`,
	}
	for _, in := range tests {
		var st StyledText
		if err := json.Unmarshal([]byte(in), &st); err == nil {
			t.Errorf("expected error for %s", in)
		}
	}
}
