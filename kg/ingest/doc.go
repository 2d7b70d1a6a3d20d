// Package ingest turns documents into graph edits: load, split into chunks,
// extract subject/relation/object triplets with an LLM, and emit kg.Edit
// batches for the kg.Applier.
package ingest
