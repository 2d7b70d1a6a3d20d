package kg

import "errors"

// Sentinel errors for the failure taxonomy. Callers test for them with
// errors.Is; lower layers wrap them with context via fmt.Errorf and %w.
var (
	// ErrStoreUnavailable indicates the persistent graph store could not be
	// reached. Transient; retry policy belongs to the caller.
	ErrStoreUnavailable = errors.New("graph store unavailable")

	// ErrInvalidEdgeSpec indicates a malformed triplet (empty subject or
	// object after sanitization). Permanent; the caller must fix the input.
	// The store is never mutated for an invalid triplet.
	ErrInvalidEdgeSpec = errors.New("invalid edge spec")

	// ErrSnapshotBuildFailed indicates a snapshot load attempt was discarded
	// as a whole. The coordinator skips the cycle and retries on the next one.
	ErrSnapshotBuildFailed = errors.New("snapshot build failed")

	// ErrReasoningUnavailable indicates the external reasoning service could
	// not be reached. Surfaced to the query caller; graph state is unaffected.
	ErrReasoningUnavailable = errors.New("reasoning service unavailable")

	// ErrNotReady indicates the coordinator has no populated working slot yet.
	ErrNotReady = errors.New("coordinator not ready: no working snapshot")

	// ErrNoBackgroundSnapshot indicates a swap was requested while the
	// background slot is empty.
	ErrNoBackgroundSnapshot = errors.New("no background snapshot to swap in")
)
