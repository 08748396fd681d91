// Package htmlconv converts HTML into styled text.
//
// The converter behaves like a layout-oriented renderer: every block carries
// a paragraph style, paragraphs and headings are followed by a spacing line
// and a document that ends in inline content gets a final newline. Callers
// that need portable output post-process the result (see package richtext).
package htmlconv

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html"

	"github.com/athapong/aio-richtext/pkg/styledtext"
)

// Elements removed before conversion. mx-reply holds Matrix reply fallbacks.
const droppedElements = "head, script, style, title, iframe, object, embed, template, noscript, img, mx-reply"

// Options configures a Converter.
type Options struct {
	// DefaultFont is applied to all text before element and CSS styling.
	DefaultFont styledtext.Font

	// DefaultColor is the foreground color of unstyled text. Empty leaves
	// the foreground unset.
	DefaultColor string

	// LinkColor is applied to anchors. Empty leaves the foreground unset.
	LinkColor string

	// StyleSheet is CSS applied to every document.
	StyleSheet string

	// SheetOnlyProperties are honored from StyleSheet but ignored in inline
	// style attributes, so documents cannot forge them.
	SheetOnlyProperties []string

	Logger *logrus.Logger
}

// Converter turns HTML into styled text. It is safe for concurrent use.
type Converter struct {
	opts      Options
	sheet     *StyleSheet
	sheetOnly mapset.Set[string]
	logger    *logrus.Logger
}

// New creates a Converter and parses its style sheet.
func New(opts Options) *Converter {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	sheet := ParseStyleSheet(opts.StyleSheet)
	for _, w := range sheet.Warnings {
		logger.WithField("warning", w).Debug("Ignoring style sheet rule")
	}

	sheetOnly := mapset.NewThreadUnsafeSet[string]()
	for _, p := range opts.SheetOnlyProperties {
		sheetOnly.Add(strings.ToLower(p))
	}

	return &Converter{
		opts:      opts,
		sheet:     sheet,
		sheetOnly: sheetOnly,
		logger:    logger,
	}
}

// Convert parses an HTML document or fragment.
func (c *Converter) Convert(source string) (styledtext.StyledText, error) {
	return c.ConvertReader(strings.NewReader(source))
}

// ConvertReader parses HTML read from r. Malformed markup never fails; only
// errors from r are returned.
func (c *Converter) ConvertReader(r io.Reader) (styledtext.StyledText, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return styledtext.StyledText{}, errors.Wrap(err, "failed to parse html")
	}
	doc.Find(droppedElements).Remove()

	root := doc.Find("body")
	if root.Length() == 0 {
		root = doc.Selection
	}

	w := &walker{conv: c}
	base := c.baseAttributes()
	for _, n := range root.Nodes {
		w.children(n, state{attrs: base})
	}

	// Inline content at the end of the document still gets a line terminator.
	if last, _, ok := w.b.Last(); ok && last != '\n' {
		w.pending = false
		w.b.WriteRune('\n', base)
	}

	out := w.b.StyledText()
	c.logger.WithFields(logrus.Fields{
		"characters": out.Len(),
		"runs":       len(out.Runs()),
	}).Debug("Converted html")
	return out, nil
}

func (c *Converter) baseAttributes() styledtext.Attributes {
	attrs := styledtext.Attributes{
		styledtext.KeyFont:           c.opts.DefaultFont,
		styledtext.KeyParagraphStyle: styledtext.ParagraphStyle{Block: "body"},
	}
	if c.opts.DefaultColor != "" {
		attrs[styledtext.KeyForegroundColor] = c.opts.DefaultColor
	}
	return attrs
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}
