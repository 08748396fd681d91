package matrixevent

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/athapong/aio-richtext/pkg/richtext"
	"github.com/athapong/aio-richtext/pkg/styledtext"
)

func newBuilder(t *testing.T) *richtext.Builder {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	b, err := richtext.NewBuilder(richtext.Options{Logger: logger})
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestRender(t *testing.T) {
	tests := []struct {
		name        string
		event       string
		text        string
		blockquotes int
	}{
		{
			name:  "plain body",
			event: `{"type":"m.room.message","sender":"@a:example.org","content":{"msgtype":"m.text","body":"hello  world"}}`,
			text:  "hello  world",
		},
		{
			name: "formatted body",
			event: `{"type":"m.room.message","content":{"msgtype":"m.text","body":"> q\n\nreply",` +
				`"format":"org.matrix.custom.html","formatted_body":"<blockquote>q</blockquote><p>reply</p>"}}`,
			text:        "q\nreply",
			blockquotes: 1,
		},
		{
			name:  "unknown format falls back to body",
			event: `{"content":{"body":"plain","format":"text/rtf","formatted_body":"{\\rtf1}"}}`,
			text:  "plain",
		},
		{
			name:  "bare content",
			event: `{"msgtype":"m.notice","body":"notice"}`,
			text:  "notice",
		},
		{
			name:  "plain emote",
			event: `{"sender":"@alice:example.org","content":{"msgtype":"m.emote","body":"waves"}}`,
			text:  "* @alice:example.org waves",
		},
		{
			name: "formatted emote",
			event: `{"sender":"@alice:example.org","content":{"msgtype":"m.emote","body":"waves",` +
				`"format":"org.matrix.custom.html","formatted_body":"<em>waves</em>"}}`,
			text: "* @alice:example.org waves",
		},
		{
			name: "reply fallback is dropped",
			event: `{"content":{"body":"x","format":"org.matrix.custom.html",` +
				`"formatted_body":"<mx-reply><blockquote>old</blockquote></mx-reply>new"}}`,
			text: "new",
		},
	}

	b := newBuilder(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Render(b, []byte(tt.event))
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if res.Text.String() != tt.text {
				t.Errorf("text %q, want %q", res.Text.String(), tt.text)
			}
			if len(res.Blockquotes) != tt.blockquotes {
				t.Errorf("got %d blockquotes, want %d", len(res.Blockquotes), tt.blockquotes)
			}
		})
	}
}

func TestRenderEmoteLinksSender(t *testing.T) {
	res, err := Render(newBuilder(t), []byte(`{"sender":"@alice:example.org","content":{"msgtype":"m.emote","body":"waves"}}`))
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := res.Text.AttributesAt(2).String(styledtext.KeyLink); v != "https://matrix.to/#/@alice:example.org" {
		t.Errorf("sender link %q", v)
	}
}

func TestRenderInvalid(t *testing.T) {
	b := newBuilder(t)
	for _, in := range []string{``, `not json`, `[1,2]`, `"str"`, `{"content":{"msgtype":"m.text"}}`} {
		if _, err := Render(b, []byte(in)); !errors.Is(err, ErrInvalidEvent) {
			t.Errorf("%q: expected ErrInvalidEvent, got %v", in, err)
		}
	}
}

func TestParseMissingBody(t *testing.T) {
	_, err := Parse([]byte(`{"type":"m.room.message","content":{"msgtype":"m.text"}}`))
	if !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
	if !strings.Contains(err.Error(), "no body") {
		t.Errorf("error %q does not mention the missing body", err)
	}
}

func TestParse(t *testing.T) {
	msg, err := Parse([]byte(`{"type":"m.room.message","sender":"@a:b.c","content":{"msgtype":"m.text","body":"b","format":"org.matrix.custom.html","formatted_body":"<b>b</b>"}}`))
	if err != nil {
		t.Fatal(err)
	}
	want := Message{Type: "m.room.message", Sender: "@a:b.c", MsgType: "m.text", Body: "b", Format: FormatHTML, FormattedBody: "<b>b</b>"}
	if msg != want {
		t.Errorf("got %+v, want %+v", msg, want)
	}
	if !msg.IsHTML() {
		t.Errorf("expected an html message")
	}
}
