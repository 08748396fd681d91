package styledtext

import (
	"reflect"
	"sort"
	"strings"
)

// Key names an attribute carried by characters of a StyledText.
type Key string

const (
	KeyFont            Key = "font"
	KeyParagraphStyle  Key = "paragraphStyle"
	KeyForegroundColor Key = "foregroundColor"
	KeyBackgroundColor Key = "backgroundColor"
	KeyLink            Key = "link"
	KeyUnderline       Key = "underline"
	KeyStrikethrough   Key = "strikethrough"
	KeyBaselineOffset  Key = "baselineOffset"
	KeyHeadingLevel    Key = "headingLevel"

	// KeyCode flags inline code and preformatted blocks.
	KeyCode Key = "code"

	// KeyBlockquote marks membership in a recovered blockquote region.
	KeyBlockquote Key = "blockquote"

	// KeyAllUsersMention flags an @room mention of everyone in a room.
	KeyAllUsersMention Key = "allUsersMention"
)

const cssKeyPrefix = "css:"

// CSSKey returns the key under which a converter surfaces a custom CSS
// property it has no dedicated attribute for.
func CSSKey(property string) Key {
	return Key(cssKeyPrefix + strings.ToLower(property))
}

// IsCSS reports whether k was produced by CSSKey.
func (k Key) IsCSS() bool {
	return strings.HasPrefix(string(k), cssKeyPrefix)
}

// Font describes the typeface of a run.
type Font struct {
	Family    string  `json:"family,omitempty"`
	Size      float64 `json:"size,omitempty"`
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	Monospace bool    `json:"monospace,omitempty"`
}

// ParagraphStyle carries block layout information that only makes sense to
// the renderer that produced it.
type ParagraphStyle struct {
	Block            string  `json:"block,omitempty"`
	HeadIndent       float64 `json:"headIndent,omitempty"`
	ParagraphSpacing float64 `json:"paragraphSpacing,omitempty"`
	ListLevel        int     `json:"listLevel,omitempty"`
}

// Attributes maps keys to values. Values must be comparable; Font,
// ParagraphStyle, string, bool, int and float64 are the values used here.
type Attributes map[Key]any

// Clone returns a shallow copy; nil stays nil.
func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// With returns a copy of a with key set to value.
func (a Attributes) With(key Key, value any) Attributes {
	out := make(Attributes, len(a)+1)
	for k, v := range a {
		out[k] = v
	}
	out[key] = value
	return out
}

// Without returns a copy of a without key. a itself is returned when the key
// is absent.
func (a Attributes) Without(key Key) Attributes {
	if _, ok := a[key]; !ok {
		return a
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		if k != key {
			out[k] = v
		}
	}
	return out
}

// Merge returns a copy of a overlaid with every entry of b.
func (a Attributes) Merge(b Attributes) Attributes {
	out := a.Clone()
	if out == nil {
		out = make(Attributes, len(b))
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Has reports whether key is present.
func (a Attributes) Has(key Key) bool {
	_, ok := a[key]
	return ok
}

// Bool returns the value of key when it is a bool, false otherwise.
func (a Attributes) Bool(key Key) bool {
	v, _ := a[key].(bool)
	return v
}

// String returns the value of key when it is a string.
func (a Attributes) String(key Key) (string, bool) {
	v, ok := a[key].(string)
	return v, ok
}

// Font returns the font attribute, if any.
func (a Attributes) Font() (Font, bool) {
	f, ok := a[KeyFont].(Font)
	return f, ok
}

// Equal reports whether both sets hold the same keys with equal values. A nil
// set equals an empty one.
func (a Attributes) Equal(b Attributes) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || !reflect.DeepEqual(v, w) {
			return false
		}
	}
	return true
}

// Keys returns the keys in lexical order.
func (a Attributes) Keys() []Key {
	keys := make([]Key, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
