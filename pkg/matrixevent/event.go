// Package matrixevent renders the content of Matrix m.room.message events.
package matrixevent

import (
	"html"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/athapong/aio-richtext/pkg/richtext"
)

// FormatHTML is the only rich body format Matrix defines.
const FormatHTML = "org.matrix.custom.html"

const (
	MsgTypeText   = "m.text"
	MsgTypeNotice = "m.notice"
	MsgTypeEmote  = "m.emote"
)

// ErrInvalidEvent is returned for input that is not a JSON object or that
// carries no body at all.
var ErrInvalidEvent = errors.New("invalid matrix event")

// Message is the part of an event that is rendered.
type Message struct {
	Type          string
	Sender        string
	MsgType       string
	Body          string
	Format        string
	FormattedBody string
}

// Parse extracts the message fields from a full event or from a bare
// content object.
func Parse(event []byte) (Message, error) {
	if !gjson.ValidBytes(event) {
		return Message{}, ErrInvalidEvent
	}
	root := gjson.ParseBytes(event)
	if !root.IsObject() {
		return Message{}, ErrInvalidEvent
	}

	content := root
	if c := root.Get("content"); c.IsObject() {
		content = c
	}

	msg := Message{
		Type:          root.Get("type").String(),
		Sender:        root.Get("sender").String(),
		MsgType:       content.Get("msgtype").String(),
		Body:          content.Get("body").String(),
		Format:        content.Get("format").String(),
		FormattedBody: content.Get("formatted_body").String(),
	}
	if !content.Get("body").Exists() && !content.Get("formatted_body").Exists() {
		return Message{}, errors.WithMessage(ErrInvalidEvent, "event has no body")
	}
	return msg, nil
}

// IsHTML reports whether the message has a rich body to render.
func (m Message) IsHTML() bool {
	return m.Format == FormatHTML && m.FormattedBody != ""
}

// Render converts the message body of event with b. HTML bodies go through
// the full HTML pipeline, anything else is treated as plain text. Emotes are
// prefixed with the sender.
func Render(b *richtext.Builder, event []byte) (richtext.Result, error) {
	msg, err := Parse(event)
	if err != nil {
		return richtext.Result{}, err
	}
	return RenderMessage(b, msg)
}

// RenderMessage converts an already parsed message.
func RenderMessage(b *richtext.Builder, msg Message) (richtext.Result, error) {
	if msg.IsHTML() {
		body := msg.FormattedBody
		if msg.MsgType == MsgTypeEmote {
			body = "* " + html.EscapeString(msg.Sender) + " " + body
		}
		res, err := b.FromHTML(body)
		if err != nil {
			return richtext.Result{}, errors.Wrap(err, "failed to render formatted body")
		}
		return res, nil
	}

	body := msg.Body
	if msg.MsgType == MsgTypeEmote {
		body = "* " + msg.Sender + " " + body
	}
	return b.FromPlain(body), nil
}
