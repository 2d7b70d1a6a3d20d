// Dynamic Knowledge Graph Package
//
// The kg package provides the core building blocks for serving low-latency
// queries against a knowledge graph that is continuously mutated by external
// ingestion pipelines. Reads and writes are decoupled through a dual-buffer
// design: queries always run against an immutable in-memory snapshot while a
// background task rebuilds the next snapshot from the persistent store and
// atomically swaps it in.
//
// # Components
//
//   - GraphStore: persistent store adapter with idempotent edge upsert/delete
//     by a key derived from the (subject, predicate, object) triplet
//     (implementations in kg/store)
//   - SnapshotLoader: materializes the full store contents into an immutable
//     Snapshot tagged with a monotonic generation number
//   - Coordinator: owns the working/background buffer slots, schedules
//     refresh cycles and performs the atomic swap
//   - Applier: applies bulk edit batches against the store, tolerating
//     per-item failures
//
// # Quick Start
//
//	store, _ := store.NewGraphStore(ctx, "memory://")
//	coord := kg.NewCoordinator(kg.NewSnapshotLoader(store), kg.CoordinatorOptions{})
//
//	// populate, then bring the working slot online
//	applier := kg.NewApplier(store, 0)
//	applier.ApplyBatch(ctx, []kg.Edit{{Subject: "Alice", Predicate: "knows", Object: "Bob"}})
//	coord.Refresh(ctx)
//
//	// serve queries from the working snapshot while refreshes run behind it
//	go coord.Run(ctx, time.Minute)
//	snap := coord.Working()
//
// Snapshots are safe for concurrent readers without locking; a reader that
// obtained a snapshot before a swap keeps reading that snapshot until it lets
// go of the reference.
package kg
