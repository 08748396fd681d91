package richtext

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/athapong/aio-richtext/pkg/styledtext"
)

func TestFromHTML(t *testing.T) {
	b := newTestBuilder(t, Options{CacheSize: 10})

	res, err := b.FromHTML(`<p>Hello <a href="https://example.org">there</a></p>` +
		`<blockquote>plain <b>bold</b> www.example.com</blockquote>` +
		`<p>See https://example.com/path. Thanks</p>`)
	if err != nil {
		t.Fatalf("FromHTML: %v", err)
	}

	if got, want := res.Text.String(), "Hello there\nplain bold www.example.com\nSee https://example.com/path. Thanks"; got != want {
		t.Fatalf("text %q, want %q", got, want)
	}
	if diff := cmp.Diff([]string{"plain bold www.example.com"}, substrings(res.Text, res.Blockquotes)); diff != "" {
		t.Errorf("blockquotes mismatch (-want +got):\n%s", diff)
	}

	for run := range res.Text.AllRuns() {
		if run.Attributes.Has(MarkerKey) {
			t.Errorf("marker leaked at %v", run.Range)
		}
		if run.Attributes.Has(styledtext.KeyParagraphStyle) {
			t.Errorf("paragraph style left at %v", run.Range)
		}
	}
	if !res.Text.AttributesAt(res.Blockquotes[0].Start).Bool(styledtext.KeyBlockquote) {
		t.Errorf("blockquote attribute not set")
	}

	want := []linkSpan{
		{"there", "https://example.org"},
		{"www.example.com", "https://www.example.com"},
		{"https://example.com/path", "https://example.com/path"},
	}
	if diff := cmp.Diff(want, linkSpans(res.Text)); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestFromHTMLBlockquoteCount(t *testing.T) {
	b := newTestBuilder(t, Options{})
	res, err := b.FromHTML(fixtures["separated quotes"])
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"first quote", "second\nparagraph"}
	if diff := cmp.Diff(want, substrings(res.Text, res.Blockquotes)); diff != "" {
		t.Errorf("blockquotes mismatch (-want +got):\n%s", diff)
	}

	var quoted []string
	for _, c := range Components(res.Text) {
		if c.IsBlockquote {
			quoted = append(quoted, c.Text.String())
		}
	}
	if diff := cmp.Diff(want, quoted); diff != "" {
		t.Errorf("components mismatch (-want +got):\n%s", diff)
	}
}

func TestFromHTMLIgnoresInlineMarker(t *testing.T) {
	b := newTestBuilder(t, Options{})
	res, err := b.FromHTML(`<p style="` + MarkerProperty + `: ` + MarkerValue + `">not quoted</p>`)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Blockquotes) != 0 {
		t.Errorf("inline marker produced blockquotes %v", substrings(res.Text, res.Blockquotes))
	}
	if res.Text.HasAttribute(styledtext.KeyBlockquote, res.Text.FullRange()) {
		t.Errorf("blockquote attribute set on %q", res.Text.String())
	}
}

func TestFromHTMLEmpty(t *testing.T) {
	b := newTestBuilder(t, Options{})
	for _, in := range []string{"", "   ", "<p></p>", "<script>x()</script>"} {
		res, err := b.FromHTML(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if !res.Text.IsEmpty() || len(res.Blockquotes) != 0 {
			t.Errorf("%q: expected empty result, got %q %v", in, res.Text.String(), res.Blockquotes)
		}
	}
}

func TestFromMarkdown(t *testing.T) {
	b := newTestBuilder(t, Options{})
	res, err := b.FromMarkdown("> quoted **bold**\n\nafter https://example.com")
	if err != nil {
		t.Fatalf("FromMarkdown: %v", err)
	}
	if got, want := res.Text.String(), "quoted bold\nafter https://example.com"; got != want {
		t.Fatalf("text %q, want %q", got, want)
	}
	if diff := cmp.Diff([]string{"quoted bold"}, substrings(res.Text, res.Blockquotes)); diff != "" {
		t.Errorf("blockquotes mismatch (-want +got):\n%s", diff)
	}
	if f, _ := res.Text.AttributesAt(8).Font(); !f.Bold {
		t.Errorf("strong text should be bold")
	}
	if diff := cmp.Diff([]linkSpan{{"https://example.com", "https://example.com"}}, linkSpans(res.Text)); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestFromPlain(t *testing.T) {
	b := newTestBuilder(t, Options{FontFamily: "Mono", FontSize: 12, TextColor: "#111111"})
	res := b.FromPlain("hi @bob:example.org  ")

	if res.Text.String() != "hi @bob:example.org  " {
		t.Errorf("plain text must not be cleaned, got %q", res.Text.String())
	}
	attrs := res.Text.AttributesAt(0)
	if f, _ := attrs.Font(); f.Family != "Mono" || f.Size != 12 {
		t.Errorf("font %+v", f)
	}
	if v, _ := attrs.String(styledtext.KeyForegroundColor); v != "#111111" {
		t.Errorf("color %q", v)
	}
	want := []linkSpan{{"@bob:example.org", "https://matrix.to/#/@bob:example.org"}}
	if diff := cmp.Diff(want, linkSpans(res.Text)); diff != "" {
		t.Errorf("links mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilderCacheReturnsCopies(t *testing.T) {
	b := newTestBuilder(t, Options{CacheSize: 2})
	html := "<blockquote>q</blockquote>"

	first, err := b.FromHTML(html)
	if err != nil {
		t.Fatal(err)
	}
	first.Blockquotes[0].Start = 99

	second, err := b.FromHTML(html)
	if err != nil {
		t.Fatal(err)
	}
	if second.Blockquotes[0].Start != 0 {
		t.Errorf("cached result was mutated through a returned slice")
	}

	md, err := b.FromMarkdown(html)
	if err != nil {
		t.Fatal(err)
	}
	if md.Text.Equal(second.Text) && len(md.Blockquotes) == 1 {
		t.Errorf("markdown and html inputs must not share cache entries")
	}
}

func TestNewBuilderRejectsNegativeCache(t *testing.T) {
	if _, err := NewBuilder(Options{CacheSize: -1, Logger: quietLogger()}); err == nil {
		t.Errorf("expected an error")
	}
}

func TestRender(t *testing.T) {
	b := newTestBuilder(t, Options{})
	if _, err := b.Render("rtf", "x"); err == nil {
		t.Errorf("expected an error for an unknown source")
	}
	res, err := b.Render(SourcePlain, "a")
	if err != nil || res.Text.String() != "a" {
		t.Errorf("got %q, %v", res.Text.String(), err)
	}
}

func TestRenderBatch(t *testing.T) {
	b := newTestBuilder(t, Options{BatchSize: 4, CacheSize: 8})

	var reqs []Request
	for i := 0; i < 23; i++ {
		src := []Source{SourceHTML, SourceMarkdown, SourcePlain}[i%3]
		reqs = append(reqs, Request{ID: fmt.Sprint(i), Source: src, Input: fmt.Sprintf("doc %d", i)})
	}

	results, err := b.RenderBatch(context.Background(), reqs)
	if err != nil {
		t.Fatalf("RenderBatch: %v", err)
	}
	if len(results) != len(reqs) {
		t.Fatalf("got %d results", len(results))
	}
	for i, res := range results {
		if want := fmt.Sprintf("doc %d", i); res.Text.String() != want {
			t.Errorf("result %d is %q, want %q", i, res.Text.String(), want)
		}
	}
}

func TestRenderBatchErrors(t *testing.T) {
	b := newTestBuilder(t, Options{})

	if _, err := b.RenderBatch(context.Background(), []Request{{ID: "x", Source: "rtf"}}); err == nil {
		t.Errorf("expected an error for an unknown source")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := b.RenderBatch(ctx, []Request{{ID: "a", Source: SourcePlain, Input: "a"}}); err == nil {
		t.Errorf("expected an error for a cancelled context")
	}

	results, err := b.RenderBatch(context.Background(), nil)
	if err != nil || len(results) != 0 {
		t.Errorf("empty batch: %v, %v", results, err)
	}
}
