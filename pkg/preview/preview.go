// Package preview renders converted rich text for people to look at: as an
// HTML fragment, as Markdown or as a standalone page.
package preview

import (
	"bytes"
	"html/template"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/pkg/errors"

	"github.com/athapong/aio-richtext/pkg/richtext"
	"github.com/athapong/aio-richtext/pkg/styledtext"
)

const fragmentTemplate = `{{define "inline"}}` +
	`{{if .Link}}<a href="{{.Link}}">{{end}}` +
	`{{if .Color}}<span style="color: {{.Color}}">{{end}}` +
	`{{if .Bold}}<strong>{{end}}{{if .Italic}}<em>{{end}}{{if .Underline}}<u>{{end}}{{if .Strike}}<del>{{end}}{{if .Code}}<code>{{end}}` +
	`{{range $i, $line := .Lines}}{{if $i}}<br>{{end}}{{$line}}{{end}}` +
	`{{if .Code}}</code>{{end}}{{if .Strike}}</del>{{end}}{{if .Underline}}</u>{{end}}{{if .Italic}}</em>{{end}}{{if .Bold}}</strong>{{end}}` +
	`{{if .Color}}</span>{{end}}` +
	`{{if .Link}}</a>{{end}}` +
	`{{end}}` +
	`{{range .}}` +
	`{{if .Quote}}<blockquote data-id="{{.ID}}" style="border-left: 3px solid #c8c8cd; margin: 0; padding-left: 10px">{{end}}` +
	`{{range .Inlines}}{{template "inline" .}}{{end}}` +
	`{{if .Quote}}</blockquote>{{end}}` +
	`{{end}}`

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>{{.Title}}</title>
    <style>
        body {
            margin: 20px;
            font-family: {{.Font}}, sans-serif;
            line-height: 1.4;
        }
        blockquote {
            color: #555;
        }
        code {
            background-color: #f5f5f5;
        }
    </style>
</head>
<body>
{{.Body}}
</body>
</html>
`

var (
	fragment = template.Must(template.New("fragment").Parse(fragmentTemplate))
	page     = template.Must(template.New("page").Parse(pageTemplate))
)

// Schemes whose links are written as they are. Others are left to the
// template's URL filtering.
var trustedSchemes = map[string]bool{"http": true, "https": true, "ftp": true, "mailto": true, "matrix": true, richtext.ConfirmationScheme: true}

type block struct {
	Quote   bool
	ID      string
	Inlines []inline
}

type inline struct {
	Lines     []string
	Link      any
	Color     string
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Code      bool
}

// HTML renders res as an HTML fragment. Blockquote ranges become
// blockquote elements; text outside them is written inline.
func HTML(res richtext.Result) (string, error) {
	var buf bytes.Buffer
	if err := fragment.Execute(&buf, blocks(res)); err != nil {
		return "", errors.Wrap(err, "failed to render preview")
	}
	return buf.String(), nil
}

// Markdown renders res as Markdown.
func Markdown(res richtext.Result) (string, error) {
	fragment, err := HTML(res)
	if err != nil {
		return "", err
	}
	md, err := htmltomarkdown.ConvertString(fragment)
	if err != nil {
		return "", errors.Wrap(err, "failed to convert preview to markdown")
	}
	return md, nil
}

// WritePage writes res as a standalone HTML page to path, creating parent
// directories as needed.
func WritePage(path, title string, res richtext.Result) error {
	body, err := HTML(res)
	if err != nil {
		return err
	}

	font := "Inter"
	if f, ok := res.Text.AttributesAt(0).Font(); ok && f.Family != "" {
		font = f.Family
	}

	var buf bytes.Buffer
	err = page.Execute(&buf, struct {
		Title string
		Font  string
		Body  template.HTML
	}{
		Title: title,
		Font:  font,
		Body:  template.HTML(body),
	})
	if err != nil {
		return errors.Wrap(err, "failed to render page")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// blocks splits the text at blockquote boundaries.
func blocks(res richtext.Result) []block {
	var (
		out []block
		pos int
	)
	text := res.Text
	add := func(r styledtext.Range, quote bool, id string) {
		if r.IsEmpty() {
			return
		}
		out = append(out, block{Quote: quote, ID: id, Inlines: inlines(text.Slice(r))})
	}
	for _, q := range res.Blockquotes {
		if q.Start < pos || q.End() > text.Len() {
			continue
		}
		add(styledtext.Range{Start: pos, Length: q.Start - pos}, false, "")
		add(q.Range, true, q.ID.String())
		pos = q.End()
	}
	add(styledtext.Range{Start: pos, Length: text.Len() - pos}, false, "")
	return out
}

func inlines(st styledtext.StyledText) []inline {
	var out []inline
	for run := range st.AllRuns() {
		a := run.Attributes
		f, _ := a.Font()
		in := inline{
			Lines:     strings.Split(st.Substring(run.Range), "\n"),
			Bold:      f.Bold,
			Italic:    f.Italic,
			Underline: a.Bool(styledtext.KeyUnderline),
			Strike:    a.Bool(styledtext.KeyStrikethrough),
			Code:      a.Bool(styledtext.KeyCode),
		}
		if color, ok := a.String(styledtext.KeyForegroundColor); ok {
			in.Color = color
		}
		if link, ok := a.String(styledtext.KeyLink); ok {
			in.Link = linkValue(link)
		}
		out = append(out, in)
	}
	return out
}

func linkValue(link string) any {
	u, err := url.Parse(link)
	if err == nil && trustedSchemes[strings.ToLower(u.Scheme)] {
		return template.URL(link)
	}
	return link
}
