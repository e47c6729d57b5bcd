package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/curio-ai/topic-platform/internal/llm"
	"github.com/curio-ai/topic-platform/internal/model"
	"github.com/curio-ai/topic-platform/internal/store"
	"github.com/curio-ai/topic-platform/pkg/logger"
)

// Shared fakes for service tests.

func testLogger() *logger.Logger {
	return &logger.Logger{Logger: zap.NewNop()}
}

func testUser(count int) *model.User {
	return &model.User{ID: 1, Username: "ada", Email: "ada@example.com",
		DailyRequestCount: count, LastRequestDate: time.Now()}
}

// fakeQuotaStore mirrors the conditional-update semantics of the real store.
type fakeQuotaStore struct {
	count      int
	resets     int
	increments int
}

func (f *fakeQuotaStore) ResetDailyCount(ctx context.Context, userID int64, day time.Time) error {
	f.count = 0
	f.resets++
	return nil
}

func (f *fakeQuotaStore) IncrementDailyCount(ctx context.Context, userID int64, limit int) (int, error) {
	if f.count >= limit {
		return 0, store.ErrLimitReached
	}
	f.count++
	f.increments++
	return f.count, nil
}

// fakeLLM is a scripted completion client.
type fakeLLM struct {
	structured map[string]any
	reply      string
	err        error
	calls      int
	lastChat   []llm.ChatMessage
}

func (f *fakeLLM) CompleteStructured(ctx context.Context, systemPrompt, userPrompt string) (map[string]any, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.structured, nil
}

func (f *fakeLLM) CompleteConversation(ctx context.Context, messages []llm.ChatMessage) (string, error) {
	f.calls++
	f.lastChat = messages
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func (f *fakeLLM) Name() string { return "fake" }

// fakeSearchStore records appended search history.
type fakeSearchStore struct {
	searches []model.SearchedItem
}

func (f *fakeSearchStore) AddSearchedItem(ctx context.Context, userID int64, topic string, feature model.Feature) error {
	f.searches = append(f.searches, model.SearchedItem{UserID: userID, Topic: topic, Feature: feature})
	return nil
}

// fakeConvStore is an in-memory ConversationStore.
type fakeConvStore struct {
	convs    map[int64]*model.Conversation
	msgs     map[int64][]model.ConversationMessage
	nextConv int64
	nextMsg  int64
}

func newFakeConvStore() *fakeConvStore {
	return &fakeConvStore{
		convs: make(map[int64]*model.Conversation),
		msgs:  make(map[int64][]model.ConversationMessage),
	}
}

func (f *fakeConvStore) CreateConversation(ctx context.Context, userID int64, title string) (*model.Conversation, error) {
	f.nextConv++
	conv := &model.Conversation{ID: f.nextConv, UserID: userID, Title: title, CreatedAt: time.Now()}
	f.convs[conv.ID] = conv
	return conv, nil
}

func (f *fakeConvStore) GetConversation(ctx context.Context, id int64) (*model.Conversation, error) {
	conv, ok := f.convs[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return conv, nil
}

func (f *fakeConvStore) ListConversations(ctx context.Context, userID int64) ([]model.Conversation, error) {
	out := []model.Conversation{}
	// newest first by id
	for id := f.nextConv; id >= 1; id-- {
		if conv, ok := f.convs[id]; ok && conv.UserID == userID {
			out = append(out, *conv)
		}
	}
	return out, nil
}

func (f *fakeConvStore) AddMessage(ctx context.Context, conversationID int64, role model.Role, content string) (*model.ConversationMessage, error) {
	f.nextMsg++
	msg := model.ConversationMessage{
		ID: f.nextMsg, ConversationID: conversationID, Role: role,
		Content: content, CreatedAt: time.Now(),
	}
	f.msgs[conversationID] = append(f.msgs[conversationID], msg)
	return &msg, nil
}

func (f *fakeConvStore) ListMessages(ctx context.Context, conversationID int64) ([]model.ConversationMessage, error) {
	return f.msgs[conversationID], nil
}

func (f *fakeConvStore) CountUserMessages(ctx context.Context, conversationID int64) (int, error) {
	count := 0
	for _, msg := range f.msgs[conversationID] {
		if msg.Role == model.RoleUser {
			count++
		}
	}
	return count, nil
}
