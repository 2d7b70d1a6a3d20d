package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/smallnest/dyngraph/kg"
)

// DefaultTripletPrompt asks for a JSON array of typed triplets.
const DefaultTripletPrompt = `Extract the factual relationships from the text below as triplets.
Return ONLY a JSON array with this structure:
[
  {
    "subject": "entity",
    "subject_type": "entity_type",
    "relation": "relation_name",
    "object": "entity",
    "object_type": "entity_type"
  }
]

Text: %s
`

// Triplet is one extracted relationship. The entity types are informational;
// only subject, relation and object feed the graph.
type Triplet struct {
	Subject     string `json:"subject"`
	SubjectType string `json:"subject_type"`
	Relation    string `json:"relation"`
	Object      string `json:"object"`
	ObjectType  string `json:"object_type"`
}

// TripletExtractor extracts triplets from text through a kg.Reasoner.
type TripletExtractor struct {
	reasoner kg.Reasoner
	prompt   string
}

// TripletExtractorOption configures the TripletExtractor.
type TripletExtractorOption func(*TripletExtractor)

// WithTripletPrompt overrides the extraction prompt template. It must take
// the chunk text as its single fmt argument.
func WithTripletPrompt(prompt string) TripletExtractorOption {
	return func(e *TripletExtractor) {
		e.prompt = prompt
	}
}

// NewTripletExtractor creates a new TripletExtractor.
func NewTripletExtractor(reasoner kg.Reasoner, opts ...TripletExtractorOption) *TripletExtractor {
	e := &TripletExtractor{
		reasoner: reasoner,
		prompt:   DefaultTripletPrompt,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Extract asks the reasoner for the triplets in one chunk of text. Models
// often wrap the array in prose, so extraction tolerates leading and trailing
// text around the JSON.
func (e *TripletExtractor) Extract(ctx context.Context, text string) ([]Triplet, error) {
	response, err := e.reasoner.Complete(ctx, fmt.Sprintf(e.prompt, text))
	if err != nil {
		return nil, err
	}

	payload := jsonArray(response)
	if payload == "" {
		return nil, fmt.Errorf("no JSON array in extraction response")
	}

	var triplets []Triplet
	if err := json.Unmarshal([]byte(payload), &triplets); err != nil {
		return nil, fmt.Errorf("failed to parse extraction response: %w", err)
	}

	return triplets, nil
}

// jsonArray returns the outermost JSON array in s, or "".
func jsonArray(s string) string {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
