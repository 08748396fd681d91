package htmlconv

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/athapong/aio-richtext/pkg/styledtext"
)

// applyCSS overlays the style sheet declarations for n, then its inline
// style attribute minus the sheet-only properties, on st.
func (c *Converter) applyCSS(n *html.Node, st state) state {
	decls := c.sheet.Declarations(n)
	if inline, ok := attr(n, "style"); ok {
		for _, d := range parseDeclarations(inline) {
			if c.sheetOnly.Contains(d.Property) {
				c.logger.WithField("property", d.Property).Debug("Ignoring inline sheet-only property")
				continue
			}
			decls = append(decls, d)
		}
	}
	if len(decls) == 0 {
		return st
	}

	parent, _ := st.attrs.Font()
	for _, d := range decls {
		switch d.Property {
		case "font-family":
			family := firstFamily(d.Value)
			st.attrs = withFont(st.attrs, func(f *styledtext.Font) {
				f.Family = family
				f.Monospace = strings.Contains(strings.ToLower(d.Value), "mono")
			})
		case "font-size":
			if size, ok := parseSize(d.Value, parent.Size); ok {
				st.attrs = withFont(st.attrs, func(f *styledtext.Font) { f.Size = size })
			}
		case "font-weight":
			bold := isBold(d.Value)
			st.attrs = withFont(st.attrs, func(f *styledtext.Font) { f.Bold = bold })
		case "font-style":
			italic := d.Value == "italic" || d.Value == "oblique"
			st.attrs = withFont(st.attrs, func(f *styledtext.Font) { f.Italic = italic })
		case "color":
			st.attrs = st.attrs.With(styledtext.KeyForegroundColor, d.Value)
		case "background", "background-color":
			st.attrs = st.attrs.With(styledtext.KeyBackgroundColor, d.Value)
		case "text-decoration", "text-decoration-line":
			switch {
			case strings.Contains(d.Value, "underline"):
				st.attrs = st.attrs.With(styledtext.KeyUnderline, true)
			case strings.Contains(d.Value, "line-through"):
				st.attrs = st.attrs.With(styledtext.KeyStrikethrough, true)
			case d.Value == "none":
				st.attrs = st.attrs.Without(styledtext.KeyUnderline).Without(styledtext.KeyStrikethrough)
			}
		case "white-space":
			switch d.Value {
			case "pre", "pre-wrap", "break-spaces":
				st.pre = true
			case "normal", "nowrap", "pre-line":
				st.pre = false
			}
		default:
			if strings.HasPrefix(d.Property, "-") {
				st.attrs = st.attrs.With(styledtext.CSSKey(d.Property), d.Value)
			}
		}
	}
	return st
}

// parseSize resolves a font-size value against the inherited size.
func parseSize(value string, parent float64) (float64, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	unit := ""
	for _, u := range []string{"rem", "em", "px", "pt", "%"} {
		if strings.HasSuffix(value, u) {
			unit = u
			value = strings.TrimSpace(strings.TrimSuffix(value, u))
			break
		}
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	switch unit {
	case "em", "rem":
		return parent * n, parent > 0
	case "%":
		return parent * n / 100, parent > 0
	case "pt":
		return n * 4 / 3, true
	default:
		return n, true
	}
}

func isBold(value string) bool {
	switch value {
	case "bold", "bolder":
		return true
	}
	n, err := strconv.Atoi(value)
	return err == nil && n >= 600
}

func firstFamily(value string) string {
	family, _, _ := strings.Cut(value, ",")
	return strings.Trim(strings.TrimSpace(family), `"'`)
}
