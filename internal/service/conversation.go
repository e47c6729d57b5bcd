package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/curio-ai/topic-platform/internal/apperr"
	"github.com/curio-ai/topic-platform/internal/events"
	"github.com/curio-ai/topic-platform/internal/llm"
	"github.com/curio-ai/topic-platform/internal/model"
	"github.com/curio-ai/topic-platform/internal/prompt"
	"github.com/curio-ai/topic-platform/internal/quota"
	"github.com/curio-ai/topic-platform/internal/store"
	"github.com/curio-ai/topic-platform/pkg/logger"
	"github.com/curio-ai/topic-platform/pkg/metrics"
)

// MaxUserMessages bounds the number of user turns per conversation. Closure
// is derived by counting persisted user messages against this limit.
const MaxUserMessages = 5

// TitleLength is the number of leading characters of the first message used
// as the conversation title.
const TitleLength = 100

// ConversationStore is the persistence surface for conversations.
type ConversationStore interface {
	CreateConversation(ctx context.Context, userID int64, title string) (*model.Conversation, error)
	GetConversation(ctx context.Context, id int64) (*model.Conversation, error)
	ListConversations(ctx context.Context, userID int64) ([]model.Conversation, error)
	AddMessage(ctx context.Context, conversationID int64, role model.Role, content string) (*model.ConversationMessage, error)
	ListMessages(ctx context.Context, conversationID int64) ([]model.ConversationMessage, error)
	CountUserMessages(ctx context.Context, conversationID int64) (int, error)
}

// ConversationService orchestrates bounded multi-turn Q&A exchanges.
type ConversationService struct {
	store  ConversationStore
	quota  *quota.Tracker
	llm    llm.Client
	events *events.Publisher
	logger *logger.Logger
}

// NewConversationService creates a new conversation service.
func NewConversationService(s ConversationStore, q *quota.Tracker, client llm.Client, pub *events.Publisher, log *logger.Logger) *ConversationService {
	return &ConversationService{
		store:  s,
		quota:  q,
		llm:    client,
		events: pub,
		logger: log,
	}
}

// Start opens a conversation with the user's first message and returns the
// assistant's reply. If the completion call fails, the conversation and the
// user message remain persisted with no assistant reply.
func (s *ConversationService) Start(ctx context.Context, user *model.User, message string) (*model.TurnResponse, error) {
	_, allowed, err := s.quota.CheckAndReset(ctx, user)
	if err != nil {
		return nil, err
	}
	if !allowed {
		metrics.QuotaRejectionsTotal.Inc()
		return nil, apperr.RateLimited("Daily request limit reached")
	}

	conv, err := s.store.CreateConversation(ctx, user.ID, truncate(message, TitleLength))
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	metrics.ConversationsTotal.Inc()

	if _, err := s.store.AddMessage(ctx, conv.ID, model.RoleUser, message); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}
	metrics.MessagesTotal.WithLabelValues(string(model.RoleUser)).Inc()

	reply, err := s.complete(ctx, conv.ID, []llm.ChatMessage{
		{Role: string(model.RoleSystem), Content: prompt.QASystem},
		{Role: string(model.RoleUser), Content: message},
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.quota.Increment(ctx, user); err != nil {
		return nil, err
	}

	s.events.ConversationTurn(ctx, user.ID, conv.ID)
	s.logger.Info("conversation started",
		zap.Int64("conversation_id", conv.ID),
		zap.Int64("user_id", user.ID),
	)

	return &model.TurnResponse{
		ConversationID:    conv.ID,
		Reply:             reply,
		MessagesRemaining: MaxUserMessages - 1,
	}, nil
}

// SendMessage continues a conversation. The message-limit check precedes the
// quota check so a user out of turns gets the specific limit error rather
// than a quota error.
func (s *ConversationService) SendMessage(ctx context.Context, user *model.User, conversationID int64, message string) (*model.TurnResponse, error) {
	conv, err := s.ownedConversation(ctx, user, conversationID)
	if err != nil {
		return nil, err
	}

	userCount, err := s.store.CountUserMessages(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("count user messages: %w", err)
	}
	if userCount >= MaxUserMessages {
		return nil, apperr.BadRequest("Conversation message limit reached")
	}

	_, allowed, err := s.quota.CheckAndReset(ctx, user)
	if err != nil {
		return nil, err
	}
	if !allowed {
		metrics.QuotaRejectionsTotal.Inc()
		return nil, apperr.RateLimited("Daily request limit reached")
	}

	if _, err := s.store.AddMessage(ctx, conv.ID, model.RoleUser, message); err != nil {
		return nil, fmt.Errorf("persist user message: %w", err)
	}
	metrics.MessagesTotal.WithLabelValues(string(model.RoleUser)).Inc()

	// Replay the full persisted history, both roles, in chronological order.
	history, err := s.store.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	chat := make([]llm.ChatMessage, 0, len(history)+1)
	chat = append(chat, llm.ChatMessage{Role: string(model.RoleSystem), Content: prompt.QASystem})
	for _, msg := range history {
		chat = append(chat, llm.ChatMessage{Role: string(msg.Role), Content: msg.Content})
	}

	reply, err := s.complete(ctx, conv.ID, chat)
	if err != nil {
		return nil, err
	}

	if _, err := s.quota.Increment(ctx, user); err != nil {
		return nil, err
	}

	s.events.ConversationTurn(ctx, user.ID, conv.ID)

	return &model.TurnResponse{
		ConversationID:    conv.ID,
		Reply:             reply,
		MessagesRemaining: MaxUserMessages - (userCount + 1),
	}, nil
}

// List returns the user's conversations, newest first, without messages.
func (s *ConversationService) List(ctx context.Context, user *model.User) ([]model.Conversation, error) {
	convs, err := s.store.ListConversations(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	return convs, nil
}

// Get returns a conversation with its full message sequence.
func (s *ConversationService) Get(ctx context.Context, user *model.User, conversationID int64) (*model.ConversationDetail, error) {
	conv, err := s.ownedConversation(ctx, user, conversationID)
	if err != nil {
		return nil, err
	}

	messages, err := s.store.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	return &model.ConversationDetail{
		Conversation: *conv,
		Messages:     messages,
	}, nil
}

// ownedConversation loads a conversation and checks ownership. A conversation
// that exists but belongs to someone else is forbidden, not missing.
func (s *ConversationService) ownedConversation(ctx context.Context, user *model.User, conversationID int64) (*model.Conversation, error) {
	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperr.NotFound("Conversation not found")
		}
		return nil, fmt.Errorf("load conversation: %w", err)
	}
	if conv.UserID != user.ID {
		return nil, apperr.Forbidden("Not your conversation")
	}
	return conv, nil
}

// complete calls the completion gateway and persists the assistant reply. On
// a gateway failure the already-persisted user message is retained, not
// rolled back.
func (s *ConversationService) complete(ctx context.Context, conversationID int64, chat []llm.ChatMessage) (string, error) {
	reply, err := s.llm.CompleteConversation(ctx, chat)
	if err != nil {
		metrics.CompletionCallsTotal.WithLabelValues("conversation", "error").Inc()
		s.logger.Warn("completion failed, user message retained",
			zap.Int64("conversation_id", conversationID),
			zap.Error(err),
		)
		return "", err
	}
	metrics.CompletionCallsTotal.WithLabelValues("conversation", "success").Inc()

	if _, err := s.store.AddMessage(ctx, conversationID, model.RoleAssistant, reply); err != nil {
		return "", fmt.Errorf("persist assistant message: %w", err)
	}
	metrics.MessagesTotal.WithLabelValues(string(model.RoleAssistant)).Inc()

	return reply, nil
}

// truncate returns the first n characters of s.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
