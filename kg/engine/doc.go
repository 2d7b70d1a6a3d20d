// Package engine implements question answering over graph snapshots: entity
// extraction from the query, breadth-first fact collection, and answer
// synthesis through a kg.Reasoner.
package engine
