package reasoner

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/smallnest/dyngraph/kg"
)

// OpenAIOptions configures the OpenAI chat-completion reasoner.
type OpenAIOptions struct {
	// APIKey authenticates against the API. Required unless a custom client
	// is supplied via NewOpenAIReasonerWithClient.
	APIKey string
	// BaseURL overrides the API endpoint, for OpenAI-compatible servers.
	BaseURL string
	// Model selects the chat model. Defaults to gpt-4o-mini.
	Model string
	// Temperature is forwarded as-is; zero means deterministic sampling.
	Temperature float32
}

// OpenAIReasoner answers prompts with a single OpenAI chat completion.
type OpenAIReasoner struct {
	client      *openai.Client
	model       string
	temperature float32
}

var _ kg.Reasoner = (*OpenAIReasoner)(nil)

// NewOpenAIReasoner builds a reasoner from options.
func NewOpenAIReasoner(opts OpenAIOptions) *OpenAIReasoner {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return NewOpenAIReasonerWithClient(openai.NewClientWithConfig(cfg), opts)
}

// NewOpenAIReasonerWithClient builds a reasoner on an existing client, useful
// for custom transports.
func NewOpenAIReasonerWithClient(client *openai.Client, opts OpenAIOptions) *OpenAIReasoner {
	model := opts.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIReasoner{
		client:      client,
		model:       model,
		temperature: opts.Temperature,
	}
}

// Complete sends the prompt as a single user message and returns the first
// choice's content.
func (r *OpenAIReasoner) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: r.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", kg.ErrReasoningUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion response", kg.ErrReasoningUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}
