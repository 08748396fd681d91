package richtext

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/athapong/aio-richtext/pkg/htmlconv"
	"github.com/athapong/aio-richtext/pkg/styledtext"
)

var (
	plainAttrs  = styledtext.Attributes{styledtext.KeyFont: styledtext.Font{Family: "Inter", Size: 17}}
	boldAttrs   = styledtext.Attributes{styledtext.KeyFont: styledtext.Font{Family: "Inter", Size: 17, Bold: true}}
	markerAttrs = plainAttrs.With(MarkerKey, MarkerValue)
	quoteAttrs  = plainAttrs.With(styledtext.KeyBlockquote, true)
	codeAttrs   = plainAttrs.With(styledtext.KeyCode, true)
)

type seg struct {
	text  string
	attrs styledtext.Attributes
}

func build(segs ...seg) styledtext.StyledText {
	var b styledtext.Builder
	for _, s := range segs {
		b.WriteString(s.text, s.attrs)
	}
	return b.StyledText()
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// convertMarked runs the reference converter with the marker style sheet.
func convertMarked(t *testing.T, html string) styledtext.StyledText {
	t.Helper()
	c := htmlconv.New(htmlconv.Options{
		DefaultFont: styledtext.Font{Family: "Inter", Size: 17},
		StyleSheet:  DefaultStyleSheet(),
		Logger:      quietLogger(),
	})
	st, err := c.Convert(html)
	if err != nil {
		t.Fatalf("convert %q: %v", html, err)
	}
	return st
}

func newTestBuilder(t *testing.T, opts Options) *Builder {
	t.Helper()
	opts.Logger = quietLogger()
	b, err := NewBuilder(opts)
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	return b
}

// substrings returns the text covered by each range.
func substrings(st styledtext.StyledText, ranges []BlockquoteRange) []string {
	var out []string
	for _, r := range ranges {
		out = append(out, st.Substring(r.Range))
	}
	return out
}

// Documents shaped like the messages the pipeline sees.
var fixtures = map[string]string{
	"paragraphs":     "<p>Hello</p><p>world</p>",
	"headers":        "<h1>Title</h1><h2>Sub</h2><p>Body text</p><h3>Small</h3>",
	"grouped quotes": "<blockquote>one</blockquote><blockquote>two <b>bold</b></blockquote>",
	"separated quotes": "<p>intro</p><blockquote>first <i>quote</i></blockquote><p>middle</p>" +
		"<blockquote><p>second</p><p>paragraph</p></blockquote><p>end</p>",
	"code":   "<p>run</p><pre><code>go test  ./...\n\n\nok\n</code></pre><p>done  now</p>",
	"lists":  "<ul><li>a</li><li>b<ol><li>c</li></ol></li></ul><p>after</p>",
	"links":  `<p>See <a href="https://example.org">here</a> or https://example.com/path. Thanks</p>`,
	"mixed":  "<div>  spaced   text  </div><br><br><blockquote>q<br><br>uote</blockquote>\n\n",
	"empty":  "",
	"spaces": "<p>   </p>",
}
