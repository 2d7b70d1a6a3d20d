package ingest

import (
	"context"
	"fmt"
	"maps"
	"os"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// MarkdownLoader loads a Markdown file as a single text document. The
// markdown is rendered to HTML and goes through the same sanitize-and-extract
// path as HTML input.
type MarkdownLoader struct {
	filePath string
	metadata map[string]any
}

// MarkdownLoaderOption configures the MarkdownLoader.
type MarkdownLoaderOption func(*MarkdownLoader)

// WithMarkdownMetadata sets additional metadata for loaded documents.
func WithMarkdownMetadata(metadata map[string]any) MarkdownLoaderOption {
	return func(l *MarkdownLoader) {
		maps.Copy(l.metadata, metadata)
	}
}

// NewMarkdownLoader creates a new MarkdownLoader.
func NewMarkdownLoader(filePath string, opts ...MarkdownLoaderOption) *MarkdownLoader {
	l := &MarkdownLoader{
		filePath: filePath,
		metadata: make(map[string]any),
	}

	l.metadata["source"] = filePath
	l.metadata["type"] = "markdown"

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads the file, renders it and returns its text as one document.
func (l *MarkdownLoader) Load(ctx context.Context) ([]Document, error) {
	raw, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", l.filePath, err)
	}

	text, err := markdownToText(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", l.filePath, err)
	}

	metadata := make(map[string]any)
	maps.Copy(metadata, l.metadata)

	doc := Document{
		ID:       uuid.NewString(),
		Source:   l.filePath,
		Content:  text,
		Metadata: metadata,
	}

	return []Document{doc}, nil
}

// markdownToText renders markdown to HTML and extracts its visible text.
func markdownToText(raw []byte) (string, error) {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse(raw)

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	htmlBytes := markdown.Render(doc, renderer)

	return extractHTMLText(htmlBytes, bluemonday.UGCPolicy())
}
