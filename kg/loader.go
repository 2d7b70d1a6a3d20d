package kg

import (
	"context"
	"fmt"
	"sync/atomic"
)

// SnapshotLoader materializes the full persistent-store contents into an
// immutable Snapshot. Each successful load is tagged with the next value of a
// process-local monotonic generation counter.
type SnapshotLoader struct {
	store      GraphStore
	generation atomic.Uint64
}

// NewSnapshotLoader creates a loader reading from the given store.
func NewSnapshotLoader(store GraphStore) *SnapshotLoader {
	return &SnapshotLoader{store: store}
}

// Load performs a single full scan of the store and builds a fully-populated
// snapshot. A failed scan discards the whole attempt and fails with
// ErrSnapshotBuildFailed; no partial snapshot is ever returned and no retry
// happens here. Retrying is the coordinator's call.
func (l *SnapshotLoader) Load(ctx context.Context) (*Snapshot, error) {
	edges, err := l.store.ListEdges(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotBuildFailed, err)
	}

	builder := NewSnapshotBuilder(l.generation.Add(1))
	for _, e := range edges {
		builder.AddEdge(e)
	}

	return builder.Build(), nil
}
