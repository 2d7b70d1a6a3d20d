package reasoner

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/smallnest/dyngraph/kg"
)

// LangChainReasoner adapts any langchaingo llms.Model (openai, ollama,
// anthropic, ...) to the kg.Reasoner interface.
type LangChainReasoner struct {
	model llms.Model
	opts  []llms.CallOption
}

var _ kg.Reasoner = (*LangChainReasoner)(nil)

// NewLangChainReasoner wraps a langchaingo model. The call options are
// forwarded to every completion.
func NewLangChainReasoner(model llms.Model, opts ...llms.CallOption) *LangChainReasoner {
	return &LangChainReasoner{model: model, opts: opts}
}

// Complete sends the prompt as a single user message and returns the model's
// text response.
func (r *LangChainReasoner) Complete(ctx context.Context, prompt string) (string, error) {
	response, err := llms.GenerateFromSinglePrompt(ctx, r.model, prompt, r.opts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", kg.ErrReasoningUnavailable, err)
	}
	return response, nil
}
