// Dyngraph - Dynamic Knowledge Graph Backend for Go
//
// Dyngraph serves low-latency question answering over a knowledge graph that
// is continuously updated by external ingestion pipelines. Queries never
// block on updates: readers always see an immutable in-memory snapshot while
// a background refresh rebuilds the next snapshot from the persistent store
// and atomically swaps it in.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/smallnest/dyngraph
//
// Basic example:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//		"time"
//
//		"github.com/smallnest/dyngraph/kg"
//		"github.com/smallnest/dyngraph/kg/engine"
//		"github.com/smallnest/dyngraph/kg/reasoner"
//		"github.com/smallnest/dyngraph/kg/store"
//		"github.com/tmc/langchaingo/llms/openai"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		// Open a graph store (memory://, redis://, postgres://, sqlite://)
//		graphStore, _ := store.NewGraphStore(ctx, "memory://")
//
//		// Insert some facts
//		applier := kg.NewApplier(graphStore, 0)
//		applier.ApplyBatch(ctx, []kg.Edit{
//			{Subject: "Paris", Predicate: "capital of", Object: "France"},
//		})
//
//		// Keep the working snapshot fresh in the background
//		coord := kg.NewCoordinator(kg.NewSnapshotLoader(graphStore), kg.CoordinatorOptions{})
//		coord.Refresh(ctx)
//		go coord.Run(ctx, 30*time.Second)
//
//		// Answer questions against the working snapshot
//		llm, _ := openai.New()
//		qa := engine.NewQAEngine(reasoner.NewLangChainReasoner(llm), engine.Options{
//			Coordinator: coord,
//		})
//		answer, _ := qa.AnswerWorking(ctx, "What is the capital of France?")
//		fmt.Println(answer.Text)
//	}
//
// # Key Features
//
//   - Dual-Buffer Snapshots: queries read an immutable snapshot; refresh and
//     swap never block readers
//   - Pluggable Persistence: in-memory, Redis, PostgreSQL and SQLite stores
//     behind one GraphStore interface
//   - Idempotent Updates: edge keys are derived from the triplet, so repeated
//     inserts and deletes converge
//   - Batch Ingestion: bulk edits with per-item failure reporting
//   - Triplet Extraction: turn text, HTML and Markdown documents into graph
//     edges with an LLM
//   - Graph QA: entity extraction, breadth-first fact collection and answer
//     synthesis over any snapshot
//
// # Packages
//
//   - kg: data model, snapshots, dual-buffer coordinator, batch applier
//   - kg/store: GraphStore implementations and the URL-dispatch factory
//   - kg/engine: question answering over snapshots
//   - kg/reasoner: LLM adapters (langchaingo, OpenAI) and a test mock
//   - kg/ingest: document loaders, chunking and triplet extraction
//   - log: pluggable logging used across the module
//
// # Examples
//
// See the ./examples directory for runnable programs: a serve loop with
// periodic refresh and an ingestion pipeline.
package dyngraph // import "github.com/smallnest/dyngraph"
