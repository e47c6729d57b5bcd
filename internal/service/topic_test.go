package service

import (
	"context"
	"testing"

	"github.com/curio-ai/topic-platform/internal/apperr"
	"github.com/curio-ai/topic-platform/internal/quota"
)

func newTopicService(qs *fakeQuotaStore, client *fakeLLM, search *fakeSearchStore) *TopicService {
	return NewTopicService(quota.New(qs, 30), client, search, nil, testLogger())
}

func TestFactsSuccess(t *testing.T) {
	qs := &fakeQuotaStore{}
	client := &fakeLLM{structured: map[string]any{"facts": []any{"one", "two", "three"}}}
	search := &fakeSearchStore{}
	svc := newTopicService(qs, client, search)

	user := testUser(0)
	resp, err := svc.Facts(context.Background(), user, "  Black Holes ", "")
	if err != nil {
		t.Fatalf("Facts() error = %v", err)
	}
	if resp.Message != "Facts retrieved successfully" {
		t.Errorf("message = %q", resp.Message)
	}
	if len(resp.Facts) != 3 || resp.Facts[0] != "one" {
		t.Errorf("facts = %v", resp.Facts)
	}
	if resp.RemainingRequests != 29 {
		t.Errorf("remaining = %d, want 29", resp.RemainingRequests)
	}
	if len(search.searches) != 1 {
		t.Fatalf("searches recorded = %d, want 1", len(search.searches))
	}
	if search.searches[0].Topic != "black holes" {
		t.Errorf("recorded topic = %q, want normalized lowercase", search.searches[0].Topic)
	}
	if user.DailyRequestCount != 1 {
		t.Errorf("user count = %d, want 1", user.DailyRequestCount)
	}
}

func TestFactsCompletionFailureConsumesNoQuota(t *testing.T) {
	qs := &fakeQuotaStore{}
	client := &fakeLLM{err: apperr.Completion("AI service error")}
	search := &fakeSearchStore{}
	svc := newTopicService(qs, client, search)

	_, err := svc.Facts(context.Background(), testUser(0), "tides", "")
	appErr, ok := apperr.From(err)
	if !ok || appErr.Status != 500 {
		t.Fatalf("Facts() error = %v, want completion error", err)
	}
	if qs.increments != 0 {
		t.Errorf("quota increments = %d, want 0", qs.increments)
	}
	if len(search.searches) != 0 {
		t.Errorf("searches recorded = %d, want 0", len(search.searches))
	}
}

func TestFactsQuotaExhausted(t *testing.T) {
	qs := &fakeQuotaStore{count: 30}
	client := &fakeLLM{structured: map[string]any{"facts": []any{"one"}}}
	svc := newTopicService(qs, client, &fakeSearchStore{})

	_, err := svc.Facts(context.Background(), testUser(30), "tides", "")
	appErr, ok := apperr.From(err)
	if !ok || appErr.Status != 429 {
		t.Fatalf("Facts() error = %v, want 429", err)
	}
	if appErr.Message != "Daily request limit reached" {
		t.Errorf("message = %q", appErr.Message)
	}
	if client.calls != 0 {
		t.Errorf("completion calls = %d, want 0", client.calls)
	}
}

func TestFactsMissingKeyYieldsEmptyList(t *testing.T) {
	qs := &fakeQuotaStore{}
	client := &fakeLLM{structured: map[string]any{}}
	svc := newTopicService(qs, client, &fakeSearchStore{})

	resp, err := svc.Facts(context.Background(), testUser(0), "tides", "")
	if err != nil {
		t.Fatalf("Facts() error = %v", err)
	}
	if resp.Facts == nil || len(resp.Facts) != 0 {
		t.Errorf("facts = %#v, want empty non-nil slice", resp.Facts)
	}
}

func TestQuotesSuccess(t *testing.T) {
	qs := &fakeQuotaStore{count: 4}
	client := &fakeLLM{structured: map[string]any{"quotes": []any{
		map[string]any{"text": "So it goes.", "author": "Kurt Vonnegut"},
		map[string]any{"author": "nobody"},
	}}}
	search := &fakeSearchStore{}
	svc := newTopicService(qs, client, search)

	resp, err := svc.Quotes(context.Background(), testUser(4), "war", "keep them short")
	if err != nil {
		t.Fatalf("Quotes() error = %v", err)
	}
	if resp.Message != "Quotes retrieved successfully" {
		t.Errorf("message = %q", resp.Message)
	}
	if len(resp.Quotes) != 1 {
		t.Fatalf("quotes = %v, want textless entries dropped", resp.Quotes)
	}
	if resp.Quotes[0].Author != "Kurt Vonnegut" {
		t.Errorf("author = %q", resp.Quotes[0].Author)
	}
	if resp.RemainingRequests != 25 {
		t.Errorf("remaining = %d, want 25", resp.RemainingRequests)
	}
	if search.searches[0].Feature != "quotes" {
		t.Errorf("feature = %q", search.searches[0].Feature)
	}
}
