// Package llm provides the completion gateway over external AI providers.
package llm

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout bounds a single completion call.
const DefaultTimeout = 30 * time.Second

// ChatMessage is one role-tagged message sent to the provider.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client is the interface for completion providers. Both entry points make a
// single attempt with no retry; any transport failure, provider error, or
// unparseable structured response is normalized to an apperr.Completion
// error.
type Client interface {
	// CompleteStructured sends a system+user prompt pair requesting a strict
	// JSON-object reply and returns the parsed object.
	CompleteStructured(ctx context.Context, systemPrompt, userPrompt string) (map[string]any, error)

	// CompleteConversation sends an ordered message sequence (system first,
	// then alternating user/assistant) and returns the raw reply text.
	CompleteConversation(ctx context.Context, messages []ChatMessage) (string, error)

	// Name returns the provider name.
	Name() string
}

// Provider is the type of completion provider.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Options configures a provider client.
type Options struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// NewClient creates a completion client for the given provider.
func NewClient(provider Provider, opts Options) (Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	switch provider {
	case ProviderAnthropic:
		return NewAnthropicClient(opts)
	case ProviderOpenAI, "":
		return NewOpenAIClient(opts)
	default:
		return nil, errors.New("unknown completion provider: " + string(provider))
	}
}
