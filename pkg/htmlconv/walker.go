package htmlconv

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/athapong/aio-richtext/pkg/styledtext"
)

const (
	indentStep     = 20
	paragraphSpace = 12
)

// state is what an element passes down to its children.
type state struct {
	attrs     styledtext.Attributes
	pre       bool
	listDepth int
}

type walker struct {
	conv *Converter
	b    styledtext.Builder

	// A collapsed space is held back until more inline text follows, so
	// that line breaks and block boundaries can drop it.
	pending      bool
	pendingAttrs styledtext.Attributes

	// Set right after a list marker so a leading block inside the item
	// does not push its content onto a new line.
	afterMarker bool
}

func (w *walker) children(n *html.Node, st state) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		w.node(ch, st)
	}
}

func (w *walker) node(n *html.Node, st state) {
	switch n.Type {
	case html.TextNode:
		w.text(n.Data, st)
	case html.ElementNode:
		w.element(n, st)
	case html.DocumentNode:
		w.children(n, st)
	}
}

func (w *walker) element(n *html.Node, st state) {
	tag := strings.ToLower(n.Data)
	inner := st
	inner.attrs = elementAttributes(n, tag, st.attrs, w.conv.opts.LinkColor)
	if tag == "pre" {
		inner.pre = true
	}
	inner = w.conv.applyCSS(n, inner)

	switch tag {
	case "br":
		w.lineBreak(inner.attrs)
	case "hr":
		w.openBlock(st.attrs)
		w.lineBreak(st.attrs)
	case "p":
		w.block(n, st, inner, styledtext.ParagraphStyle{Block: tag, ParagraphSpacing: paragraphSpace}, true)
	case "h1", "h2", "h3", "h4", "h5", "h6":
		w.block(n, st, inner, styledtext.ParagraphStyle{Block: tag, ParagraphSpacing: paragraphSpace}, true)
	case "div", "section", "article", "header", "footer", "main", "nav", "aside",
		"figure", "figcaption", "address", "details", "summary", "dl", "dt", "dd", "table", "tr", "caption":
		w.block(n, st, inner, styledtext.ParagraphStyle{Block: tag}, false)
	case "pre":
		w.block(n, st, inner, styledtext.ParagraphStyle{Block: tag}, false)
	case "blockquote":
		w.block(n, st, inner, styledtext.ParagraphStyle{Block: tag, HeadIndent: indentStep}, false)
	case "ul", "ol":
		w.list(n, st, inner, tag)
	case "li":
		inner.listDepth = max(inner.listDepth, 1)
		w.listItem(n, st, inner, "• ")
	case "td", "th":
		w.children(n, inner)
		w.space(inner.attrs)
	default:
		w.children(n, inner)
	}
}

func (w *walker) block(n *html.Node, outer, inner state, ps styledtext.ParagraphStyle, spacing bool) {
	inner.attrs = inner.attrs.With(styledtext.KeyParagraphStyle, ps)
	w.openBlock(outer.attrs)
	w.children(n, inner)
	w.closeBlock(outer.attrs, spacing)
}

func (w *walker) list(n *html.Node, outer, inner state, tag string) {
	inner.listDepth++
	inner.attrs = inner.attrs.With(styledtext.KeyParagraphStyle, styledtext.ParagraphStyle{
		Block:      tag,
		HeadIndent: float64(indentStep * inner.listDepth),
		ListLevel:  inner.listDepth,
	})

	counter := 0
	if tag == "ol" {
		if v, ok := attr(n, "start"); ok {
			if start, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				counter = start - 1
			}
		}
	}

	w.openBlock(outer.attrs)
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type != html.ElementNode || strings.ToLower(ch.Data) != "li" {
			w.node(ch, inner)
			continue
		}
		counter++
		marker := "• "
		if tag == "ol" {
			marker = fmt.Sprintf("%d. ", counter)
		}
		item := inner
		item.attrs = elementAttributes(ch, "li", inner.attrs, w.conv.opts.LinkColor)
		item = w.conv.applyCSS(ch, item)
		w.listItem(ch, inner, item, marker)
	}
	w.closeBlock(outer.attrs, false)
}

func (w *walker) listItem(n *html.Node, outer, inner state, marker string) {
	inner.attrs = inner.attrs.With(styledtext.KeyParagraphStyle, styledtext.ParagraphStyle{
		Block:      "li",
		HeadIndent: float64(indentStep * inner.listDepth),
		ListLevel:  inner.listDepth,
	})
	w.openBlock(outer.attrs)
	w.b.WriteString(strings.Repeat("\t", inner.listDepth-1)+marker, inner.attrs)
	w.afterMarker = true
	w.children(n, inner)
	w.closeBlock(outer.attrs, false)
}

// openBlock starts a new line unless the output already is at one.
func (w *walker) openBlock(outer styledtext.Attributes) {
	w.pending = false
	if w.afterMarker {
		return
	}
	if last, _, ok := w.b.Last(); ok && last != '\n' {
		w.b.WriteRune('\n', outer)
	}
}

// closeBlock terminates a block with a newline carrying the enclosing
// attributes, so the terminator never belongs to the block itself.
func (w *walker) closeBlock(outer styledtext.Attributes, spacing bool) {
	w.pending = false
	w.afterMarker = false
	last, attrs, ok := w.b.Last()
	if !ok {
		return
	}
	if last != '\n' || !attrs.Equal(outer) {
		w.b.WriteRune('\n', outer)
	}
	if spacing {
		w.b.WriteRune('\n', outer)
	}
}

func (w *walker) lineBreak(attrs styledtext.Attributes) {
	w.pending = false
	w.afterMarker = false
	w.b.WriteRune('\n', attrs)
}

// space separates table cells.
func (w *walker) space(attrs styledtext.Attributes) {
	if !w.atLineStart() && !w.pending {
		w.pending, w.pendingAttrs = true, attrs
	}
}

func (w *walker) text(s string, st state) {
	if s == "" {
		return
	}
	if st.pre {
		w.flush()
		w.b.WriteString(s, st.attrs)
		w.afterMarker = false
		return
	}

	var sb strings.Builder
	space := w.pending || w.atLineStart() || w.lastIsSpace()
	for _, r := range s {
		if isHTMLSpace(r) {
			if !space {
				sb.WriteByte(' ')
			}
			space = true
			continue
		}
		sb.WriteRune(r)
		space = false
	}

	out := sb.String()
	trailing := strings.HasSuffix(out, " ")
	out = strings.TrimSuffix(out, " ")
	if out != "" {
		w.flush()
		w.b.WriteString(out, st.attrs)
		w.afterMarker = false
	}
	if trailing {
		w.pending, w.pendingAttrs = true, st.attrs
	}
}

func (w *walker) flush() {
	if w.pending {
		w.b.WriteRune(' ', w.pendingAttrs)
		w.pending = false
	}
}

func (w *walker) atLineStart() bool {
	last, _, ok := w.b.Last()
	return !ok || last == '\n'
}

func (w *walker) lastIsSpace() bool {
	last, _, ok := w.b.Last()
	return ok && (last == ' ' || last == '\t')
}

func isHTMLSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

// elementAttributes applies the built-in meaning of an element on top of
// the inherited attributes.
func elementAttributes(n *html.Node, tag string, attrs styledtext.Attributes, linkColor string) styledtext.Attributes {
	switch tag {
	case "b", "strong":
		return withFont(attrs, func(f *styledtext.Font) { f.Bold = true })
	case "i", "em", "cite", "var", "dfn":
		return withFont(attrs, func(f *styledtext.Font) { f.Italic = true })
	case "u", "ins":
		return attrs.With(styledtext.KeyUnderline, true)
	case "s", "del", "strike":
		return attrs.With(styledtext.KeyStrikethrough, true)
	case "sup", "sub":
		offset := 6
		if tag == "sub" {
			offset = -4
		}
		attrs = withFont(attrs, func(f *styledtext.Font) { f.Size *= 0.7 })
		return attrs.With(styledtext.KeyBaselineOffset, offset)
	case "code", "kbd", "samp", "tt", "pre":
		attrs = withFont(attrs, func(f *styledtext.Font) { f.Monospace = true })
		return attrs.With(styledtext.KeyCode, true)
	case "h1", "h2", "h3", "h4", "h5", "h6":
		attrs = withFont(attrs, func(f *styledtext.Font) { f.Bold = true })
		return attrs.With(styledtext.KeyHeadingLevel, int(tag[1]-'0'))
	case "a":
		href, _ := attr(n, "href")
		if href = strings.TrimSpace(href); href == "" {
			return attrs
		}
		attrs = attrs.With(styledtext.KeyLink, href)
		if linkColor != "" {
			attrs = attrs.With(styledtext.KeyForegroundColor, linkColor)
		}
		return attrs
	case "font":
		if color, ok := attr(n, "color"); ok && strings.TrimSpace(color) != "" {
			return attrs.With(styledtext.KeyForegroundColor, strings.TrimSpace(color))
		}
	case "span":
		if color, ok := attr(n, "data-mx-color"); ok && color != "" {
			attrs = attrs.With(styledtext.KeyForegroundColor, color)
		}
		if color, ok := attr(n, "data-mx-bg-color"); ok && color != "" {
			attrs = attrs.With(styledtext.KeyBackgroundColor, color)
		}
	}
	return attrs
}

func withFont(attrs styledtext.Attributes, fn func(*styledtext.Font)) styledtext.Attributes {
	f, _ := attrs.Font()
	fn(&f)
	return attrs.With(styledtext.KeyFont, f)
}
