package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/curio-ai/topic-platform/internal/apperr"
	"github.com/curio-ai/topic-platform/pkg/metrics"
)

const defaultAnthropicModel = "claude-3-5-haiku-20241022"

// AnthropicClient is the Anthropic completion client.
type AnthropicClient struct {
	client  *anthropic.Client
	model   string
	timeout time.Duration
}

// NewAnthropicClient creates a new Anthropic client.
func NewAnthropicClient(opts Options) (*AnthropicClient, error) {
	if opts.APIKey == "" {
		return nil, errors.New("Anthropic API key is required")
	}

	model := opts.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	return &AnthropicClient{
		client:  anthropic.NewClient(option.WithAPIKey(opts.APIKey)),
		model:   model,
		timeout: opts.Timeout,
	}, nil
}

// Name returns the provider name.
func (c *AnthropicClient) Name() string {
	return "anthropic"
}

// CompleteStructured sends the prompt pair and parses the reply as a JSON
// object. Anthropic has no JSON response mode, so the system instruction's
// strict-JSON requirement carries the contract and code fences are stripped
// before parsing.
func (c *AnthropicClient) CompleteStructured(ctx context.Context, systemPrompt, userPrompt string) (map[string]any, error) {
	reply, err := c.CompleteConversation(ctx, []ChatMessage{
		{Role: string(anthropic.MessageParamRoleUser), Content: systemPrompt + "\n\n" + userPrompt},
	})
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(stripFences(reply)), &result); err != nil {
		return nil, apperr.Completion("completion service returned invalid JSON")
	}
	return result, nil
}

// CompleteConversation sends the full ordered message history and returns the
// raw reply text. A leading system message is folded into the first user
// turn.
func (c *AnthropicClient) CompleteConversation(ctx context.Context, messages []ChatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := make([]anthropic.MessageParam, 0, len(messages))
	var system string
	for _, msg := range messages {
		if msg.Role == "system" {
			system = msg.Content
			continue
		}
		content := msg.Content
		if system != "" && msg.Role == "user" && len(params) == 0 {
			content = system + "\n\n" + content
			system = ""
		}
		params = append(params, anthropic.MessageParam{
			Role: anthropic.F(anthropic.MessageParamRole(msg.Role)),
			Content: anthropic.F([]anthropic.ContentBlockParamUnion{
				anthropic.TextBlockParam{
					Type: anthropic.F(anthropic.TextBlockParamTypeText),
					Text: anthropic.F(content),
				},
			}),
		})
	}

	start := time.Now()
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.F(c.model),
		MaxTokens: anthropic.F(int64(4096)),
		Messages:  anthropic.F(params),
	})
	if err != nil {
		metrics.RecordCompletion(c.Name(), "error", time.Since(start).Seconds())
		return "", apperr.Completion(err.Error())
	}
	metrics.RecordCompletion(c.Name(), "success", time.Since(start).Seconds())

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == anthropic.ContentBlockTypeText {
			content.WriteString(block.Text)
		}
	}
	return content.String(), nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
