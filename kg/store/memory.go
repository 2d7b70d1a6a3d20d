package store

import (
	"context"
	"sync"

	"github.com/smallnest/dyngraph/kg"
)

// MemoryGraphStore implements kg.GraphStore with an in-process map. Useful
// for tests and demos; data does not survive the process.
type MemoryGraphStore struct {
	mu    sync.RWMutex
	edges map[string]kg.Edge
}

var _ kg.GraphStore = (*MemoryGraphStore)(nil)

// NewMemoryGraphStore creates an empty in-memory graph store.
func NewMemoryGraphStore() *MemoryGraphStore {
	return &MemoryGraphStore{
		edges: make(map[string]kg.Edge),
	}
}

// UpsertEdge inserts the edge if its derived key is absent.
func (m *MemoryGraphStore) UpsertEdge(ctx context.Context, subject, predicate, object string) (string, error) {
	edge, err := kg.NewEdge(subject, predicate, object)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.edges[edge.Key] = edge
	m.mu.Unlock()

	return edge.Key, nil
}

// DeleteEdge removes the edge if present and reports whether it did.
func (m *MemoryGraphStore) DeleteEdge(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.edges[key]; !ok {
		return false, nil
	}
	delete(m.edges, key)
	return true, nil
}

// ListEdges returns every stored edge.
func (m *MemoryGraphStore) ListEdges(ctx context.Context) ([]kg.Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	edges := make([]kg.Edge, 0, len(m.edges))
	for _, e := range m.edges {
		edges = append(edges, e)
	}
	return edges, nil
}

// Clear removes all edges.
func (m *MemoryGraphStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.edges = make(map[string]kg.Edge)
	m.mu.Unlock()
	return nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryGraphStore) Close() error {
	return nil
}
