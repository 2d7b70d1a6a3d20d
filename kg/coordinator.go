package kg

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smallnest/dyngraph/log"
)

// Coordinator owns the two buffer slots. The "working" slot serves reads and
// is held in an atomic pointer so queries never block; the "background" slot
// receives the next refresh. Only the slot designations swap: snapshots
// themselves are immutable, so a reader holding a reference to the pre-swap
// snapshot keeps a consistent view until it drops the reference.
type Coordinator struct {
	loader *SnapshotLoader
	logger log.Logger

	working atomic.Pointer[Snapshot]

	// mu serializes swap and background-slot installation. It is never held
	// across the store scan, so refreshes do not stall swaps or each other's
	// bookkeeping for longer than a pointer assignment.
	mu         sync.Mutex
	background *Snapshot

	refreshing atomic.Bool
}

// CoordinatorOptions configures a Coordinator.
type CoordinatorOptions struct {
	// Logger receives refresh-cycle diagnostics. Defaults to the package
	// logger in dyngraph/log.
	Logger log.Logger
}

// NewCoordinator creates a coordinator in the Initializing state: both slots
// are empty and Working returns nil until the first successful Refresh.
func NewCoordinator(loader *SnapshotLoader, opts CoordinatorOptions) *Coordinator {
	logger := opts.Logger
	if logger == nil {
		logger = log.GetDefaultLogger()
	}
	return &Coordinator{
		loader: loader,
		logger: logger,
	}
}

// Working returns the snapshot currently designated as the working slot, or
// nil while the coordinator is still initializing. Lock-free.
func (c *Coordinator) Working() *Snapshot {
	return c.working.Load()
}

// Ready reports whether the working slot is populated.
func (c *Coordinator) Ready() bool {
	return c.working.Load() != nil
}

// RefreshBackground loads a fresh snapshot from the store into the background
// slot. The working slot and concurrent readers are unaffected; the call may
// take substantially longer than a query. Only one refresh may be in flight
// at a time. On failure the background slot retains its prior content.
func (c *Coordinator) RefreshBackground(ctx context.Context) error {
	if !c.refreshing.CompareAndSwap(false, true) {
		return errors.New("refresh already in flight")
	}
	defer c.refreshing.Store(false)

	snap, err := c.loader.Load(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.background = snap
	c.mu.Unlock()

	return nil
}

// Swap atomically exchanges the working and background slot designations.
// The background slot must be populated. The previously-working snapshot
// becomes the background slot's content and is retained until the next
// RefreshBackground overwrites it; in-flight queries against it complete
// unaffected.
func (c *Coordinator) Swap() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.background == nil {
		return ErrNoBackgroundSnapshot
	}

	next := c.background
	c.background = c.working.Swap(next)
	return nil
}

// Refresh performs one full refresh cycle: load into the background slot,
// then swap it into the working slot.
func (c *Coordinator) Refresh(ctx context.Context) error {
	if err := c.RefreshBackground(ctx); err != nil {
		return err
	}
	return c.Swap()
}

// Run performs refresh cycles at the given interval until ctx is cancelled.
// A failed cycle is logged and skipped; the working slot keeps serving the
// previous (possibly stale) snapshot, never an outage. A cycle cancelled by
// ctx leaves the working slot untouched.
func (c *Coordinator) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("coordinator stopping: %v", ctx.Err())
			return
		case <-ticker.C:
			c.runCycle(ctx)
		}
	}
}

func (c *Coordinator) runCycle(ctx context.Context) {
	start := time.Now()
	if err := c.Refresh(ctx); err != nil {
		c.logger.Error("refresh cycle failed, serving stale snapshot: %v", err)
		return
	}

	snap := c.Working()
	c.logger.Info("refresh cycle complete: generation=%d vertices=%d edges=%d elapsed=%s",
		snap.Generation(), snap.VertexCount(), snap.EdgeCount(), time.Since(start))
}
