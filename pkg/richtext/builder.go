// Package richtext turns HTML, Markdown and plain message bodies into
// styled text. Blockquote structure survives conversion through a CSS
// marker that is recovered and removed afterwards, converter layout
// artifacts are undone and URL-shaped text becomes links.
package richtext

import (
	"bytes"
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/athapong/aio-richtext/pkg/htmlconv"
	"github.com/athapong/aio-richtext/pkg/metrics"
	"github.com/athapong/aio-richtext/pkg/styledtext"
)

// Source names the format of an input document.
type Source string

const (
	SourceHTML     Source = "html"
	SourcePlain    Source = "plain"
	SourceMarkdown Source = "markdown"
)

// Result is a converted document.
type Result struct {
	Text        styledtext.StyledText `json:"text"`
	Blockquotes []BlockquoteRange     `json:"blockquotes,omitempty"`
}

// Builder converts documents into Results. It is safe for concurrent use.
type Builder struct {
	opts      Options
	converter *htmlconv.Converter
	linker    *Linker
	markdown  goldmark.Markdown
	cache     *lru.Cache[string, Result]
	logger    *logrus.Logger
}

// NewBuilder creates a Builder. Zero-valued option fields fall back to
// DefaultOptions.
func NewBuilder(opts Options) (*Builder, error) {
	defaults := DefaultOptions()
	if opts.FontFamily == "" {
		opts.FontFamily = defaults.FontFamily
	}
	if opts.FontSize <= 0 {
		opts.FontSize = defaults.FontSize
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaults.BatchSize
	}
	if opts.CacheSize < 0 {
		return nil, errors.Errorf("invalid cache size %d", opts.CacheSize)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	b := &Builder{
		opts: opts,
		converter: htmlconv.New(htmlconv.Options{
			DefaultFont:  opts.font(),
			DefaultColor: opts.TextColor,
			LinkColor:    opts.LinkColor,
			StyleSheet:   DefaultStyleSheet(),
			Logger:       logger,

			SheetOnlyProperties: []string{MarkerProperty},
		}),
		linker:   NewLinker(opts.PermalinkBase),
		markdown: goldmark.New(goldmark.WithExtensions(extension.Strikethrough, extension.Table)),
		logger:   logger,
	}

	if opts.CacheSize > 0 {
		cache, err := lru.New[string, Result](opts.CacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create result cache")
		}
		b.cache = cache
	}
	return b, nil
}

// FromHTML converts an HTML document or fragment: marker CSS conversion,
// artifact removal, blockquote recovery and link detection.
func (b *Builder) FromHTML(html string) (Result, error) {
	return b.cached(SourceHTML, html, func() (Result, error) {
		return b.fromHTML(html)
	})
}

// FromPlain converts plain text; only links and @room mentions are added.
func (b *Builder) FromPlain(text string) Result {
	res, _ := b.cached(SourcePlain, text, func() (Result, error) {
		st := styledtext.New(text, b.baseAttributes())
		return Result{Text: b.createLinks(st)}, nil
	})
	return res
}

// FromMarkdown renders Markdown to HTML and converts that.
func (b *Builder) FromMarkdown(md string) (Result, error) {
	return b.cached(SourceMarkdown, md, func() (Result, error) {
		var buf bytes.Buffer
		if err := b.markdown.Convert([]byte(md), &buf); err != nil {
			return Result{}, errors.Wrap(err, "failed to render markdown")
		}
		return b.fromHTML(buf.String())
	})
}

// Render dispatches on source.
func (b *Builder) Render(source Source, input string) (Result, error) {
	switch source {
	case SourceHTML:
		return b.FromHTML(input)
	case SourceMarkdown:
		return b.FromMarkdown(input)
	case SourcePlain:
		return b.FromPlain(input), nil
	default:
		return Result{}, errors.Errorf("unknown source %q", source)
	}
}

func (b *Builder) fromHTML(html string) (Result, error) {
	st, err := b.converter.Convert(html)
	if err != nil {
		return Result{}, err
	}

	cleaned := RemoveConversionArtifacts(st)
	metrics.ArtifactCharactersRemoved.Add(float64(st.Len() - cleaned.Len()))

	quotes := Blockquotes(cleaned)
	metrics.BlockquotesRecovered.Add(float64(len(quotes)))

	text, flagged := detectPhishingAttempts(ReplaceMarkedBlockquotes(cleaned))
	if flagged > 0 {
		metrics.PhishingLinksFlagged.Add(float64(flagged))
		b.logger.WithField("links", flagged).Warn("Link text names a different site than its target")
	}

	text = b.createLinks(text)
	return Result{Text: text, Blockquotes: quotes}, nil
}

// createLinks adds detected links, then @room mentions outside them.
func (b *Builder) createLinks(st styledtext.StyledText) styledtext.StyledText {
	links := b.linker.Links(st)
	metrics.LinksCreated.Add(float64(len(links)))
	st, mentions := addAllUsersMentions(ApplyLinks(st, links))
	metrics.MentionsCreated.Add(float64(mentions))
	return st
}

func (b *Builder) baseAttributes() styledtext.Attributes {
	attrs := styledtext.Attributes{styledtext.KeyFont: b.opts.font()}
	if b.opts.TextColor != "" {
		attrs[styledtext.KeyForegroundColor] = b.opts.TextColor
	}
	return attrs
}

func (b *Builder) cached(source Source, input string, build func() (Result, error)) (Result, error) {
	key := string(source) + "\x00" + input
	if b.cache != nil {
		if res, ok := b.cache.Get(key); ok {
			metrics.CacheHits.WithLabelValues("result").Inc()
			return res.clone(), nil
		}
		metrics.CacheMisses.WithLabelValues("result").Inc()
	}

	start := time.Now()
	res, err := build()
	metrics.ConversionDuration.WithLabelValues(string(source)).Observe(time.Since(start).Seconds())

	fields := logrus.Fields{
		"source":   source,
		"input":    len(input),
		"duration": time.Since(start),
	}
	if err != nil {
		metrics.Conversions.WithLabelValues(string(source), "error").Inc()
		b.logger.WithError(err).WithFields(fields).Error("Failed to convert document")
		return Result{}, err
	}
	metrics.Conversions.WithLabelValues(string(source), "success").Inc()
	b.logger.WithFields(fields).WithFields(logrus.Fields{
		"characters":  res.Text.Len(),
		"blockquotes": len(res.Blockquotes),
	}).Debug("Converted document")

	if b.cache != nil {
		b.cache.Add(key, res)
	}
	return res.clone(), nil
}

func (r Result) clone() Result {
	r.Blockquotes = slices.Clone(r.Blockquotes)
	return r
}
