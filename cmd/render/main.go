package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/athapong/aio-richtext/pkg/matrixevent"
	"github.com/athapong/aio-richtext/pkg/metrics"
	"github.com/athapong/aio-richtext/pkg/preview"
	"github.com/athapong/aio-richtext/pkg/richtext"
	"github.com/athapong/aio-richtext/pkg/store"
)

var (
	input      = flag.String("input", "", "Input file or directory")
	format     = flag.String("format", "auto", "Input format (html, markdown, plain, event, auto)")
	outputFile = flag.String("output", "results.json", "Output file path for the rendered results")
	previewDir = flag.String("preview", "", "Directory to write an HTML preview page per document")
	logLevel   = flag.String("log-level", "info", "Logging level (debug, info, warn, error)")
	cacheSize  = flag.Int("cache-size", 0, "Number of conversions to cache (0 disables the cache)")
)

// sourceEvent marks Matrix event files, which are not a Builder source.
const sourceEvent richtext.Source = "event"

func main() {
	flag.Parse()

	// Configure logging
	logger := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatalf("Invalid log level: %v", err)
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if *input == "" {
		logger.Fatal("Input file or directory must be specified")
	}

	opts, err := richtext.OptionsFromEnv()
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	opts.CacheSize = *cacheSize
	opts.Logger = logger

	builder, err := richtext.NewBuilder(opts)
	if err != nil {
		logger.Fatalf("Failed to create builder: %v", err)
	}

	files, err := readInputFiles(*input)
	if err != nil {
		logger.Fatalf("Failed to read input: %v", err)
	}

	if len(files) == 0 {
		logger.Fatal("No input files found")
	}

	logger.Infof("Processing %d input files...", len(files))

	docs, err := render(context.Background(), builder, logger, files, richtext.Source(*format))
	if err != nil {
		logger.Fatalf("Failed to render documents: %v", err)
	}

	if err := store.NewJSONResultStore(*outputFile).StoreResults(context.Background(), docs); err != nil {
		logger.Fatalf("Failed to store results: %v", err)
	}
	logger.Infof("Rendered %d documents, saved to %s", len(docs), *outputFile)

	if *previewDir != "" {
		for _, doc := range docs {
			name := strings.TrimSuffix(filepath.Base(doc.Path), filepath.Ext(doc.Path)) + ".html"
			path := filepath.Join(*previewDir, name)
			if err := preview.WritePage(path, filepath.Base(doc.Path), doc.Result); err != nil {
				logger.Errorf("Failed to write preview for %s: %v", doc.Path, err)
				continue
			}
			logger.Debugf("Preview saved to %s", path)
		}
		logger.Infof("Previews saved to %s", *previewDir)
	}

	metrics.UpdateSystemMetrics()
}

// render converts files into documents. Matrix events are rendered one by
// one; everything else goes through a single batch.
func render(ctx context.Context, b *richtext.Builder, logger *logrus.Logger, files []string, format richtext.Source) ([]store.Document, error) {
	var (
		docs []store.Document
		reqs []richtext.Request
		idx  []int
	)
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			logger.Errorf("Failed to read file %s: %v", file, err)
			continue
		}

		source := format
		if source == "auto" {
			source = sourceFor(file)
		}

		doc := store.Document{
			ID:     uuid.New().String(),
			Path:   file,
			Source: source,
		}

		switch source {
		case sourceEvent:
			res, err := matrixevent.Render(b, content)
			if err != nil {
				logger.Errorf("Failed to render event %s: %v", file, err)
				continue
			}
			doc.Result = res
		case richtext.SourceHTML, richtext.SourceMarkdown, richtext.SourcePlain:
			reqs = append(reqs, richtext.Request{ID: doc.ID, Source: source, Input: string(content)})
			idx = append(idx, len(docs))
		default:
			return nil, errors.Errorf("unknown format %q", source)
		}
		docs = append(docs, doc)
	}

	results, err := b.RenderBatch(ctx, reqs)
	if err != nil {
		return nil, err
	}
	for i, res := range results {
		docs[idx[i]].Result = res
	}
	return docs, nil
}

// sourceFor picks the input format from the file extension.
func sourceFor(path string) richtext.Source {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return richtext.SourceHTML
	case ".md", ".markdown":
		return richtext.SourceMarkdown
	case ".json":
		return sourceEvent
	default:
		return richtext.SourcePlain
	}
}

// readInputFiles lists the supported files under input, which may also be a
// single file.
func readInputFiles(input string) ([]string, error) {
	supportedExtensions := map[string]bool{
		".txt": true, ".md": true, ".markdown": true, ".json": true, ".html": true, ".htm": true,
	}

	var files []string
	err := filepath.Walk(input, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			ext := strings.ToLower(filepath.Ext(path))
			if supportedExtensions[ext] {
				files = append(files, path)
			}
		}
		return nil
	})

	return files, err
}
