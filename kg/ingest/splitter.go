package ingest

import (
	"fmt"

	"github.com/tmc/langchaingo/textsplitter"
)

// Default chunking parameters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 100
)

// Chunk is one extraction-sized piece of a document.
type Chunk struct {
	ID         string `json:"id"`
	DocumentID string `json:"document_id"`
	Index      int    `json:"index"`
	Content    string `json:"content"`
}

// Splitter cuts documents into chunks sized for the extraction prompt.
type Splitter struct {
	inner textsplitter.TextSplitter
}

// NewSplitter creates a recursive-character splitter. Non-positive sizes
// select the defaults.
func NewSplitter(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkOverlap <= 0 {
		chunkOverlap = DefaultChunkOverlap
	}

	return &Splitter{
		inner: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(chunkSize),
			textsplitter.WithChunkOverlap(chunkOverlap),
		),
	}
}

// SplitDocuments cuts each document into chunks, preserving document order.
func (s *Splitter) SplitDocuments(docs []Document) ([]Chunk, error) {
	var chunks []Chunk

	for _, doc := range docs {
		parts, err := s.inner.SplitText(doc.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to split document %s: %w", doc.ID, err)
		}

		for i, part := range parts {
			chunks = append(chunks, Chunk{
				ID:         fmt.Sprintf("%s_chunk_%d", doc.ID, i),
				DocumentID: doc.ID,
				Index:      i,
				Content:    part,
			})
		}
	}

	return chunks, nil
}
