package kg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/smallnest/dyngraph/log"
)

// DefaultBatchSize bounds how many edits are forwarded to the store per chunk.
const DefaultBatchSize = 256

// Edit is one bulk edge edit produced by an ingestion pipeline. For inserts
// the triplet fields are used and Key is ignored; for deletes only Key is
// consulted.
type Edit struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
	Key       string `json:"key,omitempty"`
	Delete    bool   `json:"delete,omitempty"`
}

// EditFailure reports a single edit that could not be applied. Malformed
// entries are the expected mode of partial failure, not an edge case.
type EditFailure struct {
	Index int    `json:"index"`
	Key   string `json:"key,omitempty"`
	Err   error  `json:"-"`
}

func (f EditFailure) String() string {
	return fmt.Sprintf("edit %d (key=%q): %v", f.Index, f.Key, f.Err)
}

// BatchResult summarizes one ApplyBatch call. Inserted counts edits that were
// successfully upserted, whether or not the key already existed in the store;
// replaying the same batch reports the same Inserted count. Deleted counts
// only edges that were actually removed.
type BatchResult struct {
	BatchID  string        `json:"batch_id"`
	Inserted int           `json:"inserted"`
	Deleted  int           `json:"deleted"`
	Failures []EditFailure `json:"failures,omitempty"`
}

// Applier forwards bulk edit batches to the persistent graph store in bounded
// chunks. It is the boundary between external ingestion pipelines and the
// store adapter.
type Applier struct {
	store     GraphStore
	batchSize int
	logger    log.Logger
}

// NewApplier creates an applier writing to the given store. A batchSize of
// zero or less selects DefaultBatchSize.
func NewApplier(store GraphStore, batchSize int) *Applier {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Applier{
		store:     store,
		batchSize: batchSize,
		logger:    log.GetDefaultLogger(),
	}
}

// SetLogger overrides the applier's logger.
func (a *Applier) SetLogger(logger log.Logger) {
	a.logger = logger
}

// ApplyBatch applies each edit via the store adapter. Malformed entries are
// skipped and reported in the result, never fatal to the batch. A store
// outage aborts the remainder of the batch: the partial result is returned
// together with an error wrapping ErrStoreUnavailable so the caller owns the
// retry decision.
func (a *Applier) ApplyBatch(ctx context.Context, edits []Edit) (*BatchResult, error) {
	result := &BatchResult{BatchID: uuid.NewString()}

	for start := 0; start < len(edits); start += a.batchSize {
		end := min(start+a.batchSize, len(edits))

		for i, edit := range edits[start:end] {
			if err := a.applyOne(ctx, edit, result); err != nil {
				idx := start + i
				if errors.Is(err, ErrStoreUnavailable) || ctx.Err() != nil {
					a.logger.Error("batch %s aborted at edit %d: %v", result.BatchID, idx, err)
					return result, err
				}
				result.Failures = append(result.Failures, EditFailure{Index: idx, Key: edit.Key, Err: err})
			}
		}
	}

	a.logger.Debug("batch %s applied: inserted=%d deleted=%d failures=%d",
		result.BatchID, result.Inserted, result.Deleted, len(result.Failures))
	return result, nil
}

func (a *Applier) applyOne(ctx context.Context, edit Edit, result *BatchResult) error {
	if edit.Delete {
		key := edit.Key
		if key == "" {
			derived, err := DeriveKey(edit.Subject, edit.Predicate, edit.Object)
			if err != nil {
				return err
			}
			key = derived
		}

		removed, err := a.store.DeleteEdge(ctx, key)
		if err != nil {
			return err
		}
		if removed {
			result.Deleted++
		}
		return nil
	}

	if _, err := a.store.UpsertEdge(ctx, edit.Subject, edit.Predicate, edit.Object); err != nil {
		return err
	}
	result.Inserted++
	return nil
}
