package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/smallnest/dyngraph/kg"
	"github.com/smallnest/dyngraph/log"
)

// Default prompts and limits.
const (
	DefaultDepth       = 2
	DefaultMaxEntities = 5

	DefaultExtractionPrompt = `Extract the named entities mentioned in the question below.
Return a JSON response with this structure:
{
  "entities": ["entity_name"]
}

Question: %s
`

	DefaultAnswerPrompt = `Use the following knowledge graph facts to answer the question.
Each fact is a directed relationship. If the facts do not contain the answer,
say that the knowledge graph has no information about it.

Facts:
%s

Question: %s
Answer:`

	// NoKnowledgeAnswer is returned when no facts are reachable from the
	// question's entities. The reasoner is not consulted in that case.
	NoKnowledgeAnswer = "No relevant facts were found in the knowledge graph for this question."
)

// Answer is the result of one query.
type Answer struct {
	Query      string        `json:"query"`
	Text       string        `json:"text"`
	Entities   []string      `json:"entities,omitempty"`
	Triplets   []string      `json:"triplets,omitempty"`
	Generation uint64        `json:"generation"`
	Elapsed    time.Duration `json:"elapsed"`
}

// Options configures a QAEngine.
type Options struct {
	// Coordinator backs AnswerWorking. Optional; Answer works without it.
	Coordinator *kg.Coordinator
	// Depth bounds the breadth-first fact walk. Defaults to DefaultDepth.
	Depth int
	// MaxEntities caps how many extracted entities seed the walk. Defaults to
	// DefaultMaxEntities.
	MaxEntities int
	// ExtractionPrompt and AnswerPrompt override the default prompt templates.
	// Both are fmt templates: extraction takes the question, answer takes the
	// facts block and the question.
	ExtractionPrompt string
	AnswerPrompt     string
	// Logger receives per-query diagnostics. Defaults to the package logger.
	Logger log.Logger
}

// QAEngine answers natural-language questions against an immutable snapshot.
// It never mutates the snapshot or the store.
type QAEngine struct {
	reasoner kg.Reasoner
	coord    *kg.Coordinator

	depth            int
	maxEntities      int
	extractionPrompt string
	answerPrompt     string
	logger           log.Logger
}

// NewQAEngine creates an engine synthesizing answers through the given
// reasoner.
func NewQAEngine(reasoner kg.Reasoner, opts Options) *QAEngine {
	depth := opts.Depth
	if depth <= 0 {
		depth = DefaultDepth
	}
	maxEntities := opts.MaxEntities
	if maxEntities <= 0 {
		maxEntities = DefaultMaxEntities
	}
	extractionPrompt := opts.ExtractionPrompt
	if extractionPrompt == "" {
		extractionPrompt = DefaultExtractionPrompt
	}
	answerPrompt := opts.AnswerPrompt
	if answerPrompt == "" {
		answerPrompt = DefaultAnswerPrompt
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.GetDefaultLogger()
	}

	return &QAEngine{
		reasoner:         reasoner,
		coord:            opts.Coordinator,
		depth:            depth,
		maxEntities:      maxEntities,
		extractionPrompt: extractionPrompt,
		answerPrompt:     answerPrompt,
		logger:           logger,
	}
}

// Answer resolves the query against the given snapshot: extract entities,
// collect their reachable facts, and synthesize an answer. When no facts are
// reachable it returns NoKnowledgeAnswer without further reasoner calls; a
// reasoner outage at any stage fails with ErrReasoningUnavailable instead of
// masquerading as an empty result.
func (e *QAEngine) Answer(ctx context.Context, query string, snap *kg.Snapshot) (*Answer, error) {
	start := time.Now()

	entities, err := e.extractEntities(ctx, query)
	if err != nil {
		return nil, err
	}
	triplets := e.collectFacts(snap, entities)

	answer := &Answer{
		Query:      query,
		Entities:   entities,
		Triplets:   triplets,
		Generation: snap.Generation(),
	}

	if len(triplets) == 0 {
		answer.Text = NoKnowledgeAnswer
		answer.Elapsed = time.Since(start)
		e.logger.Debug("query %q: no facts for entities %v", query, entities)
		return answer, nil
	}

	prompt := fmt.Sprintf(e.answerPrompt, strings.Join(triplets, "\n"), query)
	text, err := e.reasoner.Complete(ctx, prompt)
	if err != nil {
		if errors.Is(err, kg.ErrReasoningUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", kg.ErrReasoningUnavailable, err)
	}

	answer.Text = text
	answer.Elapsed = time.Since(start)
	e.logger.Debug("query %q: %d entities, %d facts, generation=%d, elapsed=%s",
		query, len(entities), len(triplets), answer.Generation, answer.Elapsed)
	return answer, nil
}

// AnswerWorking resolves the query against the coordinator's current working
// snapshot. The snapshot reference is taken once, so a concurrent swap does
// not affect the query.
func (e *QAEngine) AnswerWorking(ctx context.Context, query string) (*Answer, error) {
	if e.coord == nil {
		return nil, errors.New("no coordinator configured")
	}
	snap := e.coord.Working()
	if snap == nil {
		return nil, kg.ErrNotReady
	}
	return e.Answer(ctx, query, snap)
}

// entityExtractionResult is the JSON shape the extraction prompt requests.
type entityExtractionResult struct {
	Entities []string `json:"entities"`
}

// extractEntities asks the reasoner for the question's entities. A failed
// call is a reasoner outage and propagates as ErrReasoningUnavailable. The
// capitalized-word fallback only covers successful responses that are not the
// requested JSON shape.
func (e *QAEngine) extractEntities(ctx context.Context, query string) ([]string, error) {
	response, err := e.reasoner.Complete(ctx, fmt.Sprintf(e.extractionPrompt, query))
	if err != nil {
		if errors.Is(err, kg.ErrReasoningUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", kg.ErrReasoningUnavailable, err)
	}

	var result entityExtractionResult
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		return e.capEntities(manualEntityExtraction(query)), nil
	}

	return e.capEntities(dedupe(result.Entities)), nil
}

func (e *QAEngine) capEntities(entities []string) []string {
	if len(entities) > e.maxEntities {
		return entities[:e.maxEntities]
	}
	return entities
}

// collectFacts gathers the breadth-first reachable facts of each entity,
// deduplicated across entities in first-seen order.
func (e *QAEngine) collectFacts(snap *kg.Snapshot, entities []string) []string {
	var facts []string
	seen := make(map[string]bool)

	for _, entity := range entities {
		for _, fact := range snap.EntityKnowledge(entity, e.depth) {
			if !seen[fact] {
				seen[fact] = true
				facts = append(facts, fact)
			}
		}
	}

	return facts
}

// manualEntityExtraction is the fallback: capitalized words longer than two
// characters are treated as entity candidates.
func manualEntityExtraction(text string) []string {
	var entities []string
	for _, word := range strings.Fields(text) {
		word = strings.TrimFunc(word, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if len(word) > 2 && unicode.IsUpper(rune(word[0])) {
			entities = append(entities, word)
		}
	}
	return dedupe(entities)
}

func dedupe(values []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, v := range values {
		if v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
