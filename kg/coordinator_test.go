package kg

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallnest/dyngraph/log"
)

func newTestCoordinator(store GraphStore) *Coordinator {
	return NewCoordinator(NewSnapshotLoader(store), CoordinatorOptions{
		Logger: &log.NoOpLogger{},
	})
}

func TestCoordinator_Initializing(t *testing.T) {
	coord := newTestCoordinator(newStubStore())

	assert.Nil(t, coord.Working())
	assert.False(t, coord.Ready())

	// Swap without a populated background slot must fail
	err := coord.Swap()
	assert.ErrorIs(t, err, ErrNoBackgroundSnapshot)
}

func TestCoordinator_RefreshAndSwap(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	coord := newTestCoordinator(store)

	_, err := store.UpsertEdge(ctx, "A", "knows", "B")
	require.NoError(t, err)

	require.NoError(t, coord.RefreshBackground(ctx))
	// Refresh alone does not touch the working slot
	assert.Nil(t, coord.Working())

	require.NoError(t, coord.Swap())
	require.True(t, coord.Ready())

	snap := coord.Working()
	assert.Equal(t, 1, snap.EdgeCount())
	assert.True(t, snap.HasEdge("A_knows_B"))
}

func TestCoordinator_SwapRetainsOldSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	coord := newTestCoordinator(store)

	_, err := store.UpsertEdge(ctx, "A", "knows", "B")
	require.NoError(t, err)
	require.NoError(t, coord.Refresh(ctx))

	old := coord.Working()

	_, err = store.UpsertEdge(ctx, "B", "knows", "C")
	require.NoError(t, err)
	require.NoError(t, coord.Refresh(ctx))

	// A reader holding the pre-swap snapshot keeps its consistent view:
	// the old snapshot is unchanged by the swap.
	assert.Equal(t, 1, old.EdgeCount())
	assert.Equal(t, 2, coord.Working().EdgeCount())
	assert.Greater(t, coord.Working().Generation(), old.Generation())
}

func TestCoordinator_FailedRefreshServesStale(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	coord := newTestCoordinator(store)

	_, err := store.UpsertEdge(ctx, "A", "knows", "B")
	require.NoError(t, err)
	require.NoError(t, coord.Refresh(ctx))
	before := coord.Working()

	// Store goes down: the cycle fails, the working slot is untouched.
	store.listErr = errors.New("store down")
	err = coord.Refresh(ctx)
	assert.ErrorIs(t, err, ErrSnapshotBuildFailed)
	assert.Same(t, before, coord.Working())

	// Store recovers: the next cycle succeeds.
	store.listErr = nil
	require.NoError(t, coord.Refresh(ctx))
	assert.Greater(t, coord.Working().Generation(), before.Generation())
}

func TestCoordinator_CancelledRefreshLeavesWorkingUntouched(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	coord := newTestCoordinator(store)

	require.NoError(t, coord.Refresh(ctx))
	before := coord.Working()

	store.listDelay = time.Second
	cancelCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()

	err := coord.RefreshBackground(cancelCtx)
	assert.Error(t, err)
	assert.Same(t, before, coord.Working())
}

func TestCoordinator_SingleRefreshInFlight(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	store.listDelay = 100 * time.Millisecond
	coord := newTestCoordinator(store)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- coord.RefreshBackground(ctx)
		}()
	}
	wg.Wait()
	close(errs)

	var failures int
	for err := range errs {
		if err != nil {
			failures++
		}
	}
	assert.Equal(t, 1, failures, "exactly one of two concurrent refreshes must be rejected")
}

// A query issued while a slow refresh is in flight completes against the
// pre-refresh snapshot, well before the refresh's swap occurs.
func TestCoordinator_QueryDuringSlowRefresh(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	coord := newTestCoordinator(store)

	_, err := store.UpsertEdge(ctx, "A", "knows", "B")
	require.NoError(t, err)
	require.NoError(t, coord.Refresh(ctx))

	preGen := coord.Working().Generation()

	// Make the next scan slow and add an edge it will pick up.
	_, err = store.UpsertEdge(ctx, "B", "knows", "C")
	require.NoError(t, err)
	store.listDelay = 200 * time.Millisecond

	refreshDone := make(chan struct{})
	go func() {
		defer close(refreshDone)
		_ = coord.Refresh(ctx)
	}()

	// Give the refresh a moment to start its scan, then "query".
	time.Sleep(20 * time.Millisecond)
	snap := coord.Working()
	assert.Equal(t, preGen, snap.Generation())
	assert.Equal(t, 1, snap.EdgeCount(), "query sees the pre-refresh edge set")

	<-refreshDone
	assert.Equal(t, 2, coord.Working().EdgeCount())
}

// Readers racing with swaps must always observe a complete snapshot: either
// entirely pre-swap or entirely post-swap content, never a mix.
func TestCoordinator_SnapshotIsolationUnderConcurrentSwaps(t *testing.T) {
	ctx := context.Background()
	store := newStubStore()
	coord := newTestCoordinator(store)

	// Each generation inserts a pair of edges that always travel together.
	_, err := store.UpsertEdge(ctx, "A", "r1", "B")
	require.NoError(t, err)
	_, err = store.UpsertEdge(ctx, "B", "r1", "A")
	require.NoError(t, err)
	require.NoError(t, coord.Refresh(ctx))

	stop := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			_, _ = store.UpsertEdge(ctx, "A", "r2", "B")
			_, _ = store.UpsertEdge(ctx, "B", "r2", "A")
			_ = coord.Refresh(ctx)
		}
	}()

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 500; j++ {
				snap := coord.Working()
				if snap == nil {
					continue
				}
				// Paired edges must both be present or both absent.
				out := len(snap.EdgesFrom("A"))
				in := len(snap.EdgesFrom("B"))
				assert.Equal(t, out, in, "torn snapshot observed")
				assert.Equal(t, snap.EdgeCount(), out+in)
			}
		}()
	}

	time.Sleep(50 * time.Millisecond)
	close(stop)
	wg.Wait()
}

func TestCoordinator_RunLoop(t *testing.T) {
	store := newStubStore()
	coord := newTestCoordinator(store)

	_, err := store.UpsertEdge(context.Background(), "A", "knows", "B")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		coord.Run(ctx, 10*time.Millisecond)
	}()

	// The loop performs an immediate first cycle.
	assert.Eventually(t, coord.Ready, time.Second, 5*time.Millisecond)

	// Let a few cycles pass, then stop.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancellation")
	}

	assert.True(t, coord.Ready(), "working slot survives shutdown")
}
