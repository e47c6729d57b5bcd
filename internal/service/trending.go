package service

import (
	"context"
	"fmt"

	"github.com/curio-ai/topic-platform/internal/model"
)

// TrendingLimit caps the number of trending topics returned.
const TrendingLimit = 10

// TrendingStore aggregates search history.
type TrendingStore interface {
	TrendingTopics(ctx context.Context, feature model.Feature, limit int) ([]model.TrendingTopic, error)
}

// TrendingService exposes the most searched topics.
type TrendingService struct {
	store TrendingStore
}

// NewTrendingService creates a new trending service.
func NewTrendingService(s TrendingStore) *TrendingService {
	return &TrendingService{store: s}
}

// Top returns up to TrendingLimit topics ordered by descending search count,
// optionally filtered by feature (empty means all).
func (s *TrendingService) Top(ctx context.Context, feature model.Feature) ([]model.TrendingTopic, error) {
	topics, err := s.store.TrendingTopics(ctx, feature, TrendingLimit)
	if err != nil {
		return nil, fmt.Errorf("trending topics: %w", err)
	}
	return topics, nil
}
