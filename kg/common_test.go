package kg

import (
	"context"
	"sync"
	"time"
)

// stubStore is an in-memory GraphStore with injectable failures and latency,
// shared by the loader, coordinator and applier tests.
type stubStore struct {
	mu    sync.Mutex
	edges map[string]Edge

	listErr   error
	listDelay time.Duration

	upsertErr error
	deleteErr error
}

func newStubStore() *stubStore {
	return &stubStore{edges: make(map[string]Edge)}
}

func (s *stubStore) UpsertEdge(ctx context.Context, subject, predicate, object string) (string, error) {
	if s.upsertErr != nil {
		return "", s.upsertErr
	}

	edge, err := NewEdge(subject, predicate, object)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.edges[edge.Key] = edge
	s.mu.Unlock()
	return edge.Key, nil
}

func (s *stubStore) DeleteEdge(ctx context.Context, key string) (bool, error) {
	if s.deleteErr != nil {
		return false, s.deleteErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.edges[key]; !ok {
		return false, nil
	}
	delete(s.edges, key)
	return true, nil
}

func (s *stubStore) ListEdges(ctx context.Context) ([]Edge, error) {
	if s.listDelay > 0 {
		select {
		case <-time.After(s.listDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.listErr != nil {
		return nil, s.listErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	edges := make([]Edge, 0, len(s.edges))
	for _, e := range s.edges {
		edges = append(edges, e)
	}
	return edges, nil
}

func (s *stubStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.edges = make(map[string]Edge)
	s.mu.Unlock()
	return nil
}

func (s *stubStore) Close() error { return nil }

var _ GraphStore = (*stubStore)(nil)
