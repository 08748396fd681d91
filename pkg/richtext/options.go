package richtext

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/athapong/aio-richtext/pkg/styledtext"
)

// Options configures a Builder.
type Options struct {
	// Font applied to all text before any styling.
	FontFamily string
	FontSize   float64

	// TextColor is the default foreground; empty leaves it unset.
	TextColor string
	LinkColor string

	// PermalinkBase prefixes links to Matrix users and rooms.
	PermalinkBase string

	// CacheSize is the number of results kept; zero disables caching.
	CacheSize int

	// BatchSize bounds the number of documents RenderBatch converts at once.
	BatchSize int

	Logger *logrus.Logger
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		FontFamily:    "Inter",
		FontSize:      17,
		LinkColor:     "#0086e6",
		PermalinkBase: DefaultPermalinkBase,
		CacheSize:     1000,
		BatchSize:     10,
	}
}

// OptionsFromEnv starts from DefaultOptions and applies RICHTEXT_*
// environment variables.
func OptionsFromEnv() (Options, error) {
	opts := DefaultOptions()

	if v := os.Getenv("RICHTEXT_FONT_FAMILY"); v != "" {
		opts.FontFamily = v
	}
	if v := os.Getenv("RICHTEXT_FONT_SIZE"); v != "" {
		size, err := strconv.ParseFloat(v, 64)
		if err != nil || size <= 0 {
			return Options{}, errors.Errorf("invalid RICHTEXT_FONT_SIZE %q", v)
		}
		opts.FontSize = size
	}
	if v, ok := os.LookupEnv("RICHTEXT_TEXT_COLOR"); ok {
		opts.TextColor = v
	}
	if v, ok := os.LookupEnv("RICHTEXT_LINK_COLOR"); ok {
		opts.LinkColor = v
	}
	if v := os.Getenv("RICHTEXT_PERMALINK_BASE"); v != "" {
		if !strings.HasSuffix(v, "/") {
			v += "/"
		}
		opts.PermalinkBase = v
	}
	if v := os.Getenv("RICHTEXT_CACHE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Options{}, errors.Errorf("invalid RICHTEXT_CACHE_SIZE %q", v)
		}
		opts.CacheSize = n
	}
	if v := os.Getenv("RICHTEXT_BATCH_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Options{}, errors.Errorf("invalid RICHTEXT_BATCH_SIZE %q", v)
		}
		opts.BatchSize = n
	}
	return opts, nil
}

func (o Options) font() styledtext.Font {
	return styledtext.Font{Family: o.FontFamily, Size: o.FontSize}
}
