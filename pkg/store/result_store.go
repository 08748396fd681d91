package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/athapong/aio-richtext/pkg/richtext"
)

// Document is a converted input together with where it came from.
type Document struct {
	ID     string          `json:"id"`
	Path   string          `json:"path,omitempty"`
	Source richtext.Source `json:"source"`
	Result richtext.Result `json:"result"`
}

// ResultStore defines an interface for storing converted documents
type ResultStore interface {
	// StoreResults persists documents, replacing what was stored before
	StoreResults(ctx context.Context, docs []Document) error

	// LoadResults loads documents from storage
	LoadResults(ctx context.Context) ([]Document, error)
}

// JSONResultStore implements ResultStore using a JSON file
type JSONResultStore struct {
	filePath string
}

// NewJSONResultStore creates a new JSON result store
func NewJSONResultStore(filePath string) *JSONResultStore {
	return &JSONResultStore{
		filePath: filePath,
	}
}

// StoreResults stores the documents as JSON
func (s *JSONResultStore) StoreResults(ctx context.Context, docs []Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create %s", dir)
	}

	if docs == nil {
		docs = []Document{}
	}
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode results")
	}

	return os.WriteFile(s.filePath, data, 0644)
}

// LoadResults loads documents from the JSON file
func (s *JSONResultStore) LoadResults(ctx context.Context) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return nil, err
	}

	var docs []Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", s.filePath)
	}

	return docs, nil
}
