package kg

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Edge is a directed, labeled relationship between two vertices. Vertices
// exist implicitly: they are created when first referenced by an edge and are
// never pruned, even when their last edge is deleted.
type Edge struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Predicate string `json:"predicate"`
	Key       string `json:"key"`
}

// String renders the edge as a triplet fact.
func (e Edge) String() string {
	return fmt.Sprintf("(%s)-[%s]->(%s)", e.From, e.Predicate, e.To)
}

// GraphStore is the persistent graph store adapter. Implementations translate
// edge upserts/deletes into durable writes and expose a full scan for the
// snapshot loader. The store provides its own concurrency control for
// concurrent writers.
type GraphStore interface {
	// UpsertEdge inserts the edge derived from the triplet if absent and
	// returns its key. Inserting an existing edge is a no-op, not an error.
	UpsertEdge(ctx context.Context, subject, predicate, object string) (string, error)

	// DeleteEdge removes the edge with the given key if present and reports
	// whether a removal occurred. Deleting a missing key is not an error.
	DeleteEdge(ctx context.Context, key string) (bool, error)

	// ListEdges returns every edge in the store. Used by the snapshot loader.
	ListEdges(ctx context.Context) ([]Edge, error)

	// Clear removes all edges. Used before bulk rebuilds.
	Clear(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}

// Reasoner is the external reasoning collaborator (an LLM) consumed through a
// single completion-style call. Implementations live in kg/reasoner.
type Reasoner interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// keyCharset strips everything outside the safe key-character subset before
// key derivation. Callers must not rely on original punctuation surviving.
var keyCharset = regexp.MustCompile(`[^a-zA-Z0-9_ ]`)

// SanitizeTerm reduces a triplet component to the safe key-character subset:
// disallowed runes are dropped and spaces become underscores.
func SanitizeTerm(s string) string {
	clean := keyCharset.ReplaceAllString(s, "")
	clean = strings.TrimSpace(clean)
	return strings.ReplaceAll(clean, " ", "_")
}

// DeriveKey derives the deterministic edge key for a triplet so that
// duplicate inserts and idempotent deletes resolve to the same document.
// It fails with ErrInvalidEdgeSpec when subject or object sanitize to the
// empty string.
func DeriveKey(subject, predicate, object string) (string, error) {
	s := SanitizeTerm(subject)
	p := SanitizeTerm(predicate)
	o := SanitizeTerm(object)

	if s == "" || o == "" {
		return "", fmt.Errorf("%w: subject=%q object=%q", ErrInvalidEdgeSpec, subject, object)
	}
	if p == "" {
		p = "related_to"
	}

	return fmt.Sprintf("%s_%s_%s", s, p, o), nil
}

// NewEdge builds the sanitized edge for a triplet, deriving its key.
func NewEdge(subject, predicate, object string) (Edge, error) {
	key, err := DeriveKey(subject, predicate, object)
	if err != nil {
		return Edge{}, err
	}

	p := SanitizeTerm(predicate)
	if p == "" {
		p = "related_to"
	}

	return Edge{
		From:      SanitizeTerm(subject),
		To:        SanitizeTerm(object),
		Predicate: p,
		Key:       key,
	}, nil
}
