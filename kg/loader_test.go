package kg

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotLoader_Load(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	loader := NewSnapshotLoader(store)

	_, err := store.UpsertEdge(ctx, "A", "knows", "B")
	require.NoError(t, err)

	snap, err := loader.Load(ctx)
	require.NoError(t, err)

	// Exactly one edge A->B labeled knows
	assert.Equal(t, 1, snap.EdgeCount())
	edges := snap.EdgesFrom("A")
	require.Len(t, edges, 1)
	assert.Equal(t, "B", edges[0].To)
	assert.Equal(t, "knows", edges[0].Predicate)
}

func TestSnapshotLoader_GenerationMonotonic(t *testing.T) {
	ctx := context.Background()
	loader := NewSnapshotLoader(newStubStore())

	prev := uint64(0)
	for i := 0; i < 5; i++ {
		snap, err := loader.Load(ctx)
		require.NoError(t, err)
		assert.Greater(t, snap.Generation(), prev)
		prev = snap.Generation()
	}
}

func TestSnapshotLoader_BuildFailure(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	store.listErr = errors.New("scan interrupted")
	loader := NewSnapshotLoader(store)

	snap, err := loader.Load(ctx)
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, ErrSnapshotBuildFailed)

	// A failed attempt must not consume-and-return a partial snapshot later:
	// the next successful load is complete.
	store.listErr = nil
	_, err = store.UpsertEdge(ctx, "A", "r", "B")
	require.NoError(t, err)

	snap, err = loader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.EdgeCount())
}

func TestSnapshotLoader_InsertThenDeleteRoundtrip(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	loader := NewSnapshotLoader(store)

	key, err := store.UpsertEdge(ctx, "A", "rel", "B")
	require.NoError(t, err)

	removed, err := store.DeleteEdge(ctx, key)
	require.NoError(t, err)
	require.True(t, removed)

	snap, err := loader.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.EdgesFrom("A"))
	assert.False(t, snap.HasEdge(key))
}

func TestSnapshotLoader_BulkCounts(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	loader := NewSnapshotLoader(store)

	keys := make([]string, 0, 1000)
	for i := 0; i < 1000; i++ {
		key, err := store.UpsertEdge(ctx, fmt.Sprintf("n%d", i), "links", fmt.Sprintf("n%d", i+1))
		require.NoError(t, err)
		keys = append(keys, key)
	}
	for i := 0; i < 500; i++ {
		_, err := store.DeleteEdge(ctx, keys[i])
		require.NoError(t, err)
	}

	snap, err := loader.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 500, snap.EdgeCount())
}
