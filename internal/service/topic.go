// Package service provides business logic for the topic platform.
package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/curio-ai/topic-platform/internal/apperr"
	"github.com/curio-ai/topic-platform/internal/events"
	"github.com/curio-ai/topic-platform/internal/llm"
	"github.com/curio-ai/topic-platform/internal/model"
	"github.com/curio-ai/topic-platform/internal/prompt"
	"github.com/curio-ai/topic-platform/internal/quota"
	"github.com/curio-ai/topic-platform/pkg/logger"
	"github.com/curio-ai/topic-platform/pkg/metrics"
)

// SearchStore records topic lookups.
type SearchStore interface {
	AddSearchedItem(ctx context.Context, userID int64, topic string, feature model.Feature) error
}

// FactsResponse is the body of a successful POST /facts/.
type FactsResponse struct {
	Message           string   `json:"message"`
	Facts             []string `json:"facts"`
	RemainingRequests int      `json:"remaining_requests"`
}

// QuotesResponse is the body of a successful POST /quotes/.
type QuotesResponse struct {
	Message           string        `json:"message"`
	Quotes            []model.Quote `json:"quotes"`
	RemainingRequests int           `json:"remaining_requests"`
}

// TopicService orchestrates single-shot facts and quotes lookups.
type TopicService struct {
	quota  *quota.Tracker
	llm    llm.Client
	store  SearchStore
	events *events.Publisher
	logger *logger.Logger
}

// NewTopicService creates a new topic service.
func NewTopicService(q *quota.Tracker, client llm.Client, store SearchStore, pub *events.Publisher, log *logger.Logger) *TopicService {
	return &TopicService{
		quota:  q,
		llm:    client,
		store:  store,
		events: pub,
		logger: log,
	}
}

// Facts runs a facts lookup for the user's topic.
func (s *TopicService) Facts(ctx context.Context, user *model.User, topic, comment string) (*FactsResponse, error) {
	result, remaining, err := s.handle(ctx, user, topic, comment, model.FeatureFacts)
	if err != nil {
		return nil, err
	}
	return &FactsResponse{
		Message:           "Facts retrieved successfully",
		Facts:             extractStrings(result["facts"]),
		RemainingRequests: remaining,
	}, nil
}

// Quotes runs a quotes lookup for the user's topic.
func (s *TopicService) Quotes(ctx context.Context, user *model.User, topic, comment string) (*QuotesResponse, error) {
	result, remaining, err := s.handle(ctx, user, topic, comment, model.FeatureQuotes)
	if err != nil {
		return nil, err
	}
	return &QuotesResponse{
		Message:           "Quotes retrieved successfully",
		Quotes:            extractQuotes(result["quotes"]),
		RemainingRequests: remaining,
	}, nil
}

// handle implements the shared orchestration: quota check, prompt build,
// completion call, quota increment, search record. The increment happens only
// after a successful completion, and the search record only after the
// increment.
func (s *TopicService) handle(ctx context.Context, user *model.User, topic, comment string, feature model.Feature) (map[string]any, int, error) {
	_, allowed, err := s.quota.CheckAndReset(ctx, user)
	if err != nil {
		return nil, 0, err
	}
	if !allowed {
		metrics.QuotaRejectionsTotal.Inc()
		return nil, 0, apperr.RateLimited("Daily request limit reached")
	}

	var systemPrompt, userPrompt string
	switch feature {
	case model.FeatureQuotes:
		systemPrompt, userPrompt = prompt.QuotesSystem, prompt.Quotes(topic, comment)
	default:
		systemPrompt, userPrompt = prompt.FactsSystem, prompt.Facts(topic, comment)
	}

	result, err := s.llm.CompleteStructured(ctx, systemPrompt, userPrompt)
	if err != nil {
		// No quota increment on a failed completion.
		metrics.CompletionCallsTotal.WithLabelValues(string(feature), "error").Inc()
		return nil, 0, err
	}
	metrics.CompletionCallsTotal.WithLabelValues(string(feature), "success").Inc()

	remaining, err := s.quota.Increment(ctx, user)
	if err != nil {
		return nil, 0, err
	}

	normalized := strings.ToLower(strings.TrimSpace(topic))
	if err := s.store.AddSearchedItem(ctx, user.ID, normalized, feature); err != nil {
		return nil, 0, fmt.Errorf("record search: %w", err)
	}
	metrics.SearchesTotal.WithLabelValues(string(feature)).Inc()

	s.events.SearchRecorded(ctx, user.ID, normalized, feature)
	s.logger.Info("topic lookup completed",
		zap.Int64("user_id", user.ID),
		zap.String("feature", string(feature)),
		zap.String("topic", normalized),
		zap.Int("remaining", remaining),
	)

	return result, remaining, nil
}

// extractStrings pulls a string list out of a parsed completion payload,
// defaulting to empty when the key is absent or the wrong shape.
func extractStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// extractQuotes pulls a quote list out of a parsed completion payload.
func extractQuotes(v any) []model.Quote {
	items, ok := v.([]any)
	if !ok {
		return []model.Quote{}
	}
	out := make([]model.Quote, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		q := model.Quote{}
		if text, ok := obj["text"].(string); ok {
			q.Text = text
		}
		if author, ok := obj["author"].(string); ok {
			q.Author = author
		}
		if q.Text != "" {
			out = append(out, q)
		}
	}
	return out
}
