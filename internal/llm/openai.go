package llm

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/curio-ai/topic-platform/internal/apperr"
	"github.com/curio-ai/topic-platform/pkg/metrics"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient is the OpenAI completion client.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIClient creates a new OpenAI client.
func NewOpenAIClient(opts Options) (*OpenAIClient, error) {
	if opts.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	model := opts.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIClient{
		client:  openai.NewClient(opts.APIKey),
		model:   model,
		timeout: opts.Timeout,
	}, nil
}

// Name returns the provider name.
func (c *OpenAIClient) Name() string {
	return "openai"
}

// CompleteStructured sends a system+user prompt pair with JSON mode enabled
// and parses the reply as a JSON object.
func (c *OpenAIClient) CompleteStructured(ctx context.Context, systemPrompt, userPrompt string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		metrics.RecordCompletion(c.Name(), "error", time.Since(start).Seconds())
		return nil, apperr.Completion(err.Error())
	}
	metrics.RecordCompletion(c.Name(), "success", time.Since(start).Seconds())

	if len(resp.Choices) == 0 {
		return nil, apperr.Completion("completion service returned no choices")
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &result); err != nil {
		return nil, apperr.Completion("completion service returned invalid JSON")
	}
	return result, nil
}

// CompleteConversation sends the full ordered message history and returns the
// raw reply text.
func (c *OpenAIClient) CompleteConversation(ctx context.Context, messages []ChatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	chatMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, msg := range messages {
		chatMessages[i] = openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		}
	}

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: chatMessages,
	})
	if err != nil {
		metrics.RecordCompletion(c.Name(), "error", time.Since(start).Seconds())
		return "", apperr.Completion(err.Error())
	}
	metrics.RecordCompletion(c.Name(), "success", time.Since(start).Seconds())

	if len(resp.Choices) == 0 {
		return "", apperr.Completion("completion service returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
