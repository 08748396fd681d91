package styledtext

// Builder accumulates styled text. The zero value is ready to use.
type Builder struct {
	text  []rune
	spans []span
}

// WriteString appends text with attrs.
func (b *Builder) WriteString(text string, attrs Attributes) {
	r := []rune(text)
	if len(r) == 0 {
		return
	}
	b.text = append(b.text, r...)
	b.push(span{length: len(r), attrs: attrs.Clone()})
}

// WriteRune appends a single character with attrs.
func (b *Builder) WriteRune(c rune, attrs Attributes) {
	b.text = append(b.text, c)
	b.push(span{length: 1, attrs: attrs.Clone()})
}

// WriteStyled appends st unchanged.
func (b *Builder) WriteStyled(st StyledText) {
	b.text = append(b.text, st.text...)
	for _, sp := range st.spans {
		b.push(sp)
	}
}

// Len returns the number of characters written so far.
func (b *Builder) Len() int {
	return len(b.text)
}

// LastRune returns the last character written, if any.
func (b *Builder) LastRune() (rune, bool) {
	if len(b.text) == 0 {
		return 0, false
	}
	return b.text[len(b.text)-1], true
}

// Last returns the last character written and its attributes.
func (b *Builder) Last() (rune, Attributes, bool) {
	if len(b.text) == 0 {
		return 0, nil, false
	}
	return b.text[len(b.text)-1], b.spans[len(b.spans)-1].attrs, true
}

// StyledText returns the accumulated text. The builder may keep being used.
func (b *Builder) StyledText() StyledText {
	if len(b.text) == 0 {
		return StyledText{}
	}
	text := make([]rune, len(b.text))
	copy(text, b.text)
	spans := make([]span, len(b.spans))
	copy(spans, b.spans)
	return StyledText{text: text, spans: normalize(spans)}
}

// Reset discards everything written.
func (b *Builder) Reset() {
	b.text = b.text[:0]
	b.spans = b.spans[:0]
}

func (b *Builder) push(sp span) {
	if n := len(b.spans); n > 0 && b.spans[n-1].attrs.Equal(sp.attrs) {
		b.spans[n-1].length += sp.length
		return
	}
	b.spans = append(b.spans, sp)
}
