package kg

import (
	"fmt"
	"sort"
)

// Snapshot is an immutable in-memory multigraph over the full edge set at a
// single point in time. Parallel edges between the same vertex pair with
// different predicates are permitted. Once built, a snapshot is never
// mutated and is safe for concurrent readers without locking.
type Snapshot struct {
	generation uint64
	out        map[string][]Edge
	in         map[string][]Edge
	edges      map[string]Edge
}

// Generation returns the process-local monotonic generation number the
// snapshot was tagged with when it was built.
func (s *Snapshot) Generation() uint64 {
	return s.generation
}

// VertexCount returns the number of distinct vertices referenced by edges.
func (s *Snapshot) VertexCount() int {
	seen := make(map[string]struct{}, len(s.out)+len(s.in))
	for v := range s.out {
		seen[v] = struct{}{}
	}
	for v := range s.in {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// EdgeCount returns the number of edges in the snapshot.
func (s *Snapshot) EdgeCount() int {
	return len(s.edges)
}

// HasVertex reports whether the vertex is referenced by any edge.
func (s *Snapshot) HasVertex(key string) bool {
	if _, ok := s.out[key]; ok {
		return true
	}
	_, ok := s.in[key]
	return ok
}

// HasEdge reports whether an edge with the given key exists.
func (s *Snapshot) HasEdge(key string) bool {
	_, ok := s.edges[key]
	return ok
}

// EdgesFrom returns the out-edges of a vertex. The returned slice must not
// be modified.
func (s *Snapshot) EdgesFrom(vertex string) []Edge {
	return s.out[vertex]
}

// EdgesTo returns the in-edges of a vertex. The returned slice must not be
// modified.
func (s *Snapshot) EdgesTo(vertex string) []Edge {
	return s.in[vertex]
}

// Edges returns all edges in deterministic (key-sorted) order.
func (s *Snapshot) Edges() []Edge {
	keys := make([]string, 0, len(s.edges))
	for k := range s.edges {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	edges := make([]Edge, 0, len(keys))
	for _, k := range keys {
		edges = append(edges, s.edges[k])
	}
	return edges
}

// EntityKnowledge collects the facts reachable from an entity by a
// breadth-first walk over out-edges up to the given depth, rendered as
// "source: X sink: Y detail: Z" lines. The entity name is sanitized the same
// way triplet components are, so callers may pass raw text.
func (s *Snapshot) EntityKnowledge(entity string, depth int) []string {
	start := SanitizeTerm(entity)
	if depth < 1 {
		depth = 1
	}
	if !s.HasVertex(start) {
		return nil
	}

	var facts []string
	visited := map[string]bool{start: true}
	frontier := []string{start}

	for level := 0; level < depth && len(frontier) > 0; level++ {
		var next []string
		for _, v := range frontier {
			for _, e := range s.out[v] {
				facts = append(facts, fmt.Sprintf("source: %s sink: %s detail: %s", e.From, e.To, e.Predicate))
				if !visited[e.To] {
					visited[e.To] = true
					next = append(next, e.To)
				}
			}
		}
		frontier = next
	}

	return facts
}

// SnapshotBuilder accumulates edges and seals them into a Snapshot. A builder
// is single-use and not safe for concurrent use; the snapshot it produces is.
type SnapshotBuilder struct {
	generation uint64
	edges      map[string]Edge
}

// NewSnapshotBuilder creates a builder for a snapshot with the given
// generation number.
func NewSnapshotBuilder(generation uint64) *SnapshotBuilder {
	return &SnapshotBuilder{
		generation: generation,
		edges:      make(map[string]Edge),
	}
}

// AddEdge records an edge. A later edge with the same key replaces the
// earlier one, matching the store's upsert-by-key semantics.
func (b *SnapshotBuilder) AddEdge(e Edge) {
	b.edges[e.Key] = e
}

// Build seals the accumulated edges into an immutable Snapshot.
func (b *SnapshotBuilder) Build() *Snapshot {
	snap := &Snapshot{
		generation: b.generation,
		out:        make(map[string][]Edge),
		in:         make(map[string][]Edge),
		edges:      b.edges,
	}
	for _, e := range b.edges {
		snap.out[e.From] = append(snap.out[e.From], e)
		snap.in[e.To] = append(snap.in[e.To], e)
	}

	// Deterministic adjacency order keeps traversal output stable.
	for _, adj := range []map[string][]Edge{snap.out, snap.in} {
		for _, edges := range adj {
			sort.Slice(edges, func(i, j int) bool { return edges[i].Key < edges[j].Key })
		}
	}

	b.edges = nil
	return snap
}
