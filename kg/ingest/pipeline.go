package ingest

import (
	"context"
	"sync"

	"github.com/smallnest/dyngraph/kg"
	"github.com/smallnest/dyngraph/log"
)

// DefaultWorkers bounds concurrent extraction calls.
const DefaultWorkers = 4

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	// Workers bounds how many chunks are extracted concurrently. Defaults to
	// DefaultWorkers.
	Workers int
	// Logger receives per-chunk diagnostics. Defaults to the package logger.
	Logger log.Logger
}

// Pipeline runs documents through split and extraction, emitting deduplicated
// insert edits for the kg.Applier. A chunk whose extraction fails is logged
// and skipped; the rest of the run is unaffected.
type Pipeline struct {
	splitter  *Splitter
	extractor *TripletExtractor
	workers   int
	logger    log.Logger
}

// NewPipeline creates a pipeline from a splitter and an extractor.
func NewPipeline(splitter *Splitter, extractor *TripletExtractor, opts PipelineOptions) *Pipeline {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.GetDefaultLogger()
	}

	return &Pipeline{
		splitter:  splitter,
		extractor: extractor,
		workers:   workers,
		logger:    logger,
	}
}

// Run extracts triplets from every document chunk with a bounded worker pool
// and returns the resulting edits, deduplicated by edge key. Cancelling ctx
// aborts the run.
func (p *Pipeline) Run(ctx context.Context, docs []Document) ([]kg.Edit, error) {
	chunks, err := p.splitter.SplitDocuments(docs)
	if err != nil {
		return nil, err
	}

	jobs := make(chan Chunk)
	var (
		mu       sync.Mutex
		triplets []Triplet
	)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunk := range jobs {
				extracted, err := p.extractor.Extract(ctx, chunk.Content)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					p.logger.Warn("extraction failed for chunk %s, skipping: %v", chunk.ID, err)
					continue
				}

				mu.Lock()
				triplets = append(triplets, extracted...)
				mu.Unlock()
			}
		}()
	}

feed:
	for _, chunk := range chunks {
		select {
		case jobs <- chunk:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.logger.Info("extracted %d triplets from %d chunks across %d documents",
		len(triplets), len(chunks), len(docs))
	return p.toEdits(triplets), nil
}

// toEdits converts triplets to insert edits, dropping malformed triplets and
// duplicates of the same edge key.
func (p *Pipeline) toEdits(triplets []Triplet) []kg.Edit {
	var edits []kg.Edit
	seen := make(map[string]bool)

	for _, t := range triplets {
		key, err := kg.DeriveKey(t.Subject, t.Relation, t.Object)
		if err != nil {
			p.logger.Warn("dropping malformed triplet %q-%q-%q: %v", t.Subject, t.Relation, t.Object, err)
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		edits = append(edits, kg.Edit{
			Subject:   t.Subject,
			Predicate: t.Relation,
			Object:    t.Object,
			Key:       key,
		})
	}

	return edits
}
