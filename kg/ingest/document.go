package ingest

import (
	"context"
	"fmt"
	"maps"
	"os"

	"github.com/google/uuid"
)

// Document is one unit of source material heading into the graph.
type Document struct {
	ID       string         `json:"id"`
	Source   string         `json:"source"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// NewDocument wraps in-memory content as a document with a fresh ID.
func NewDocument(source, content string) Document {
	return Document{
		ID:      uuid.NewString(),
		Source:  source,
		Content: content,
		Metadata: map[string]any{
			"source": source,
		},
	}
}

// Loader produces documents from some source.
type Loader interface {
	Load(ctx context.Context) ([]Document, error)
}

// TextLoader loads a plain-text file as a single document.
type TextLoader struct {
	filePath string
	metadata map[string]any
}

// TextLoaderOption configures the TextLoader.
type TextLoaderOption func(*TextLoader)

// WithMetadata sets additional metadata for loaded documents.
func WithMetadata(metadata map[string]any) TextLoaderOption {
	return func(l *TextLoader) {
		maps.Copy(l.metadata, metadata)
	}
}

// NewTextLoader creates a new TextLoader.
func NewTextLoader(filePath string, opts ...TextLoaderOption) *TextLoader {
	l := &TextLoader{
		filePath: filePath,
		metadata: make(map[string]any),
	}

	l.metadata["source"] = filePath
	l.metadata["type"] = "text"

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads the file and returns it as one document.
func (l *TextLoader) Load(ctx context.Context) ([]Document, error) {
	content, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", l.filePath, err)
	}

	metadata := make(map[string]any)
	maps.Copy(metadata, l.metadata)

	doc := Document{
		ID:       uuid.NewString(),
		Source:   l.filePath,
		Content:  string(content),
		Metadata: metadata,
	}

	return []Document{doc}, nil
}
