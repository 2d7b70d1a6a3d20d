package ingest

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// HTMLLoader loads an HTML file as a single text document. Markup is
// sanitized before text extraction, so scripts, styles and event handlers
// never reach the extraction prompt.
type HTMLLoader struct {
	filePath string
	metadata map[string]any
	policy   *bluemonday.Policy
}

// HTMLLoaderOption configures the HTMLLoader.
type HTMLLoaderOption func(*HTMLLoader)

// WithHTMLMetadata sets additional metadata for loaded documents.
func WithHTMLMetadata(metadata map[string]any) HTMLLoaderOption {
	return func(l *HTMLLoader) {
		maps.Copy(l.metadata, metadata)
	}
}

// WithSanitizePolicy overrides the bluemonday policy applied before text
// extraction.
func WithSanitizePolicy(policy *bluemonday.Policy) HTMLLoaderOption {
	return func(l *HTMLLoader) {
		l.policy = policy
	}
}

// NewHTMLLoader creates a new HTMLLoader.
func NewHTMLLoader(filePath string, opts ...HTMLLoaderOption) *HTMLLoader {
	l := &HTMLLoader{
		filePath: filePath,
		metadata: make(map[string]any),
		policy:   bluemonday.UGCPolicy(),
	}

	l.metadata["source"] = filePath
	l.metadata["type"] = "html"

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads the file, extracts its visible text and returns it as one
// document.
func (l *HTMLLoader) Load(ctx context.Context) ([]Document, error) {
	raw, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", l.filePath, err)
	}

	text, err := extractHTMLText(raw, l.policy)
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

// extractHTMLText sanitizes markup and extracts its visible text, one line
// per block of text with blank lines dropped.
func extractHTMLText(raw []byte, policy *bluemonday.Policy) (string, error) {
	clean := policy.SanitizeBytes(raw)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(clean))
	if err != nil {
		return "", err
	}
	doc.Find("script, style").Remove()

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n"), nil
}
