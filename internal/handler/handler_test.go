package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/curio-ai/topic-platform/internal/apperr"
	"github.com/curio-ai/topic-platform/internal/middleware"
	"github.com/curio-ai/topic-platform/internal/model"
	"github.com/curio-ai/topic-platform/internal/service"
	"github.com/curio-ai/topic-platform/pkg/logger"
)

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

// withUser injects an authenticated user the way the auth middleware does.
func withUser(r *http.Request, user *model.User) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserKey, user)
	return r.WithContext(ctx)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	body := map[string]any{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

type fakeTopicService struct {
	facts  *service.FactsResponse
	quotes *service.QuotesResponse
	err    error
	calls  int
}

func (f *fakeTopicService) Facts(ctx context.Context, user *model.User, topic, comment string) (*service.FactsResponse, error) {
	f.calls++
	return f.facts, f.err
}

func (f *fakeTopicService) Quotes(ctx context.Context, user *model.User, topic, comment string) (*service.QuotesResponse, error) {
	f.calls++
	return f.quotes, f.err
}

func TestFactsHandler(t *testing.T) {
	svc := &fakeTopicService{facts: &service.FactsResponse{
		Message: "Facts retrieved successfully", Facts: []string{"one"}, RemainingRequests: 29,
	}}
	h := NewTopicHandler(svc, testLogger())

	req := withUser(httptest.NewRequest(http.MethodPost, "/facts/",
		strings.NewReader(`{"topic":"tides"}`)), &model.User{ID: 1})
	rec := httptest.NewRecorder()
	h.Facts(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["message"] != "Facts retrieved successfully" {
		t.Errorf("message = %v", body["message"])
	}
	if body["remaining_requests"] != float64(29) {
		t.Errorf("remaining_requests = %v", body["remaining_requests"])
	}
}

func TestFactsHandlerValidation(t *testing.T) {
	svc := &fakeTopicService{}
	h := NewTopicHandler(svc, testLogger())

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{`},
		{"missing topic", `{"comment":"short"}`},
		{"overlong topic", `{"topic":"` + strings.Repeat("a", 201) + `"}`},
		{"overlong comment", `{"topic":"tides","comment":"` + strings.Repeat("a", 501) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withUser(httptest.NewRequest(http.MethodPost, "/facts/",
				strings.NewReader(tt.body)), &model.User{ID: 1})
			rec := httptest.NewRecorder()
			h.Facts(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
	if svc.calls != 0 {
		t.Errorf("service calls = %d, want 0 for rejected input", svc.calls)
	}
}

func TestFactsHandlerErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"quota", apperr.RateLimited("Daily request limit reached"), 429, "Daily request limit reached"},
		{"completion", apperr.Completion("AI service error"), 500, "AI service error"},
		{"unexpected", context.DeadlineExceeded, 500, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTopicHandler(&fakeTopicService{err: tt.err}, testLogger())
			req := withUser(httptest.NewRequest(http.MethodPost, "/facts/",
				strings.NewReader(`{"topic":"tides"}`)), &model.User{ID: 1})
			rec := httptest.NewRecorder()
			h.Facts(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decodeBody(t, rec)
			if body["error"] != tt.wantError {
				t.Errorf("error = %v, want %q", body["error"], tt.wantError)
			}
			if body["status"] != float64(tt.wantStatus) {
				t.Errorf("status field = %v", body["status"])
			}
		})
	}
}

type fakeConversationService struct {
	turn   *model.TurnResponse
	detail *model.ConversationDetail
	convs  []model.Conversation
	err    error
}

func (f *fakeConversationService) Start(ctx context.Context, user *model.User, message string) (*model.TurnResponse, error) {
	return f.turn, f.err
}

func (f *fakeConversationService) SendMessage(ctx context.Context, user *model.User, conversationID int64, message string) (*model.TurnResponse, error) {
	return f.turn, f.err
}

func (f *fakeConversationService) List(ctx context.Context, user *model.User) ([]model.Conversation, error) {
	return f.convs, f.err
}

func (f *fakeConversationService) Get(ctx context.Context, user *model.User, conversationID int64) (*model.ConversationDetail, error) {
	return f.detail, f.err
}

func TestStartHandler(t *testing.T) {
	svc := &fakeConversationService{turn: &model.TurnResponse{
		ConversationID: 7, Reply: "hello", MessagesRemaining: 4,
	}}
	h := NewConversationHandler(svc, testLogger())

	req := withUser(httptest.NewRequest(http.MethodPost, "/conversation/start",
		strings.NewReader(`{"message":"Explain tides"}`)), &model.User{ID: 1})
	rec := httptest.NewRecorder()
	h.Start(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["conversation_id"] != float64(7) || body["messages_remaining"] != float64(4) {
		t.Errorf("body = %v", body)
	}
}

func TestSendHandlerRequiresConversationID(t *testing.T) {
	h := NewConversationHandler(&fakeConversationService{}, testLogger())

	req := withUser(httptest.NewRequest(http.MethodPost, "/conversation/message",
		strings.NewReader(`{"message":"hi"}`)), &model.User{ID: 1})
	rec := httptest.NewRecorder()
	h.Send(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSendHandlerLimitError(t *testing.T) {
	svc := &fakeConversationService{err: apperr.BadRequest("Conversation message limit reached")}
	h := NewConversationHandler(svc, testLogger())

	req := withUser(httptest.NewRequest(http.MethodPost, "/conversation/message",
		strings.NewReader(`{"conversation_id":7,"message":"hi"}`)), &model.User{ID: 1})
	rec := httptest.NewRecorder()
	h.Send(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Conversation message limit reached" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestGetConversationHandler(t *testing.T) {
	svc := &fakeConversationService{detail: &model.ConversationDetail{
		Conversation: model.Conversation{ID: 7, Title: "Explain tides"},
		Messages:     []model.ConversationMessage{{ID: 1, Role: model.RoleUser, Content: "Explain tides"}},
	}}
	h := NewConversationHandler(svc, testLogger())

	r := chi.NewRouter()
	r.Get("/conversation/conversations/{id}", h.Get)

	req := withUser(httptest.NewRequest(http.MethodGet, "/conversation/conversations/7", nil), &model.User{ID: 1})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	conv, ok := body["conversation"].(map[string]any)
	if !ok || conv["title"] != "Explain tides" {
		t.Errorf("body = %v", body)
	}

	// A non-numeric id is rejected before the service runs.
	req = withUser(httptest.NewRequest(http.MethodGet, "/conversation/conversations/abc", nil), &model.User{ID: 1})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

type fakeFavouriteService struct {
	item  *model.SavedItem
	items []model.SavedItem
	err   error
}

func (f *fakeFavouriteService) Save(ctx context.Context, user *model.User, req *model.SaveItemRequest) (*model.SavedItem, error) {
	return f.item, f.err
}

func (f *fakeFavouriteService) List(ctx context.Context, user *model.User, category model.Category) ([]model.SavedItem, error) {
	return f.items, f.err
}

func (f *fakeFavouriteService) Delete(ctx context.Context, user *model.User, id int64) error {
	return f.err
}

func TestCreateFavouriteHandler(t *testing.T) {
	svc := &fakeFavouriteService{item: &model.SavedItem{ID: 3, Category: model.CategoryQuote, Content: "So it goes.", Topic: "war"}}
	h := NewFavouriteHandler(svc, testLogger())

	req := withUser(httptest.NewRequest(http.MethodPost, "/favourites/",
		strings.NewReader(`{"category":"quote","content":"So it goes.","topic":"war"}`)), &model.User{ID: 1})
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["message"] != "Favourite added successfully" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestCreateFavouriteHandlerConflict(t *testing.T) {
	svc := &fakeFavouriteService{err: apperr.Conflict("Item already saved")}
	h := NewFavouriteHandler(svc, testLogger())

	req := withUser(httptest.NewRequest(http.MethodPost, "/favourites/",
		strings.NewReader(`{"category":"quote","content":"So it goes.","topic":"war"}`)), &model.User{ID: 1})
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
}

func TestListFavouritesHandlerBadCategory(t *testing.T) {
	h := NewFavouriteHandler(&fakeFavouriteService{}, testLogger())

	req := withUser(httptest.NewRequest(http.MethodGet, "/favourites/?category=poem", nil), &model.User{ID: 1})
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

type fakeTrendingService struct {
	topics  []model.TrendingTopic
	feature model.Feature
}

func (f *fakeTrendingService) Top(ctx context.Context, feature model.Feature) ([]model.TrendingTopic, error) {
	f.feature = feature
	return f.topics, nil
}

func TestTrendingHandler(t *testing.T) {
	svc := &fakeTrendingService{topics: []model.TrendingTopic{
		{Topic: "black holes", Count: 12},
		{Topic: "tides", Count: 5},
	}}
	h := NewTrendingHandler(svc, testLogger())

	req := withUser(httptest.NewRequest(http.MethodGet, "/trending/?feature=facts", nil), &model.User{ID: 1})
	rec := httptest.NewRecorder()
	h.Get(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if svc.feature != model.FeatureFacts {
		t.Errorf("feature passed = %q", svc.feature)
	}
	body := decodeBody(t, rec)
	if body["count"] != float64(2) {
		t.Errorf("count = %v", body["count"])
	}

	req = withUser(httptest.NewRequest(http.MethodGet, "/trending/?feature=bogus", nil), &model.User{ID: 1})
	rec = httptest.NewRecorder()
	h.Get(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for an unknown feature", rec.Code)
	}
}

func TestHealthHandlers(t *testing.T) {
	h := NewHealthHandler(nil)

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("ready status without a database = %d, want 503", rec.Code)
	}
}
