package reasoner

import (
	"context"
	"sync"

	"github.com/smallnest/dyngraph/kg"
)

// MockReasoner is a deterministic kg.Reasoner for tests. It records every
// prompt it receives and answers with Response, or with Fn when set.
type MockReasoner struct {
	// Response is returned for every prompt when Fn is nil.
	Response string
	// Err, when set, is returned instead of any response.
	Err error
	// Fn computes the response per prompt, overriding Response.
	Fn func(ctx context.Context, prompt string) (string, error)

	mu      sync.Mutex
	prompts []string
}

var _ kg.Reasoner = (*MockReasoner)(nil)

func (m *MockReasoner) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	if m.Fn != nil {
		return m.Fn(ctx, prompt)
	}
	return m.Response, nil
}

// Prompts returns a copy of every prompt received so far.
func (m *MockReasoner) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.prompts))
	copy(out, m.prompts)
	return out
}
