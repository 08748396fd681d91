package richtext

import (
	"fmt"

	"github.com/athapong/aio-richtext/pkg/styledtext"
)

const (
	// MarkerProperty is the private CSS property that tags blockquote content
	// during conversion.
	MarkerProperty = "-x-blockquote-marker"

	// MarkerValue is the sentinel value of MarkerProperty.
	MarkerValue = "present"
)

// MarkerKey is the attribute under which a converter surfaces MarkerProperty.
var MarkerKey = styledtext.CSSKey(MarkerProperty)

// Code and heading rules applied to every document the Builder converts.
const defaultCSS = `
code, pre { font-family: monospace; white-space: pre; }
h1, h2, h3 { font-size: 1.2em; }
`

// CSSForMarkingBlockquotes returns the rule that makes a converter tag every
// character inside a blockquote with MarkerKey set to MarkerValue.
func CSSForMarkingBlockquotes() string {
	return fmt.Sprintf("blockquote { display: block; %s: %s; }", MarkerProperty, MarkerValue)
}

// DefaultStyleSheet is the marker rule followed by the default code and
// heading styling.
func DefaultStyleSheet() string {
	return CSSForMarkingBlockquotes() + "\n" + defaultCSS
}

func isMarker(a styledtext.Attributes) bool {
	v, ok := a.String(MarkerKey)
	return ok && v == MarkerValue
}
