package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/curio-ai/topic-platform/internal/model"
)

// CreateConversation inserts a new conversation owned by userID.
func (s *Store) CreateConversation(ctx context.Context, userID int64, title string) (*model.Conversation, error) {
	conv := &model.Conversation{
		UserID: userID,
		Title:  title,
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO conversations (user_id, title) VALUES ($1, $2) RETURNING id, created_at`,
		userID, title,
	).Scan(&conv.ID, &conv.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert conversation: %w", err)
	}
	return conv, nil
}

// GetConversation fetches a conversation by id.
func (s *Store) GetConversation(ctx context.Context, id int64) (*model.Conversation, error) {
	var conv model.Conversation
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, created_at FROM conversations WHERE id = $1`, id,
	).Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan conversation: %w", err)
	}
	return &conv, nil
}

// ListConversations returns the user's conversations, newest first.
func (s *Store) ListConversations(ctx context.Context, userID int64) ([]model.Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, created_at FROM conversations
		 WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	convs := []model.Conversation{}
	for rows.Next() {
		var conv model.Conversation
		if err := rows.Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		convs = append(convs, conv)
	}
	return convs, rows.Err()
}

// AddMessage appends a message to a conversation.
func (s *Store) AddMessage(ctx context.Context, conversationID int64, role model.Role, content string) (*model.ConversationMessage, error) {
	msg := &model.ConversationMessage{
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO conversation_messages (conversation_id, role, content)
		 VALUES ($1, $2, $3) RETURNING id, created_at`,
		conversationID, role, content,
	).Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return msg, nil
}

// ListMessages returns a conversation's messages in chronological order.
func (s *Store) ListMessages(ctx context.Context, conversationID int64) ([]model.ConversationMessage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, role, content, created_at FROM conversation_messages
		 WHERE conversation_id = $1 ORDER BY created_at, id`,
		conversationID)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	msgs := []model.ConversationMessage{}
	for rows.Next() {
		var msg model.ConversationMessage
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// CountUserMessages counts role=user messages in a conversation. Conversation
// closure is derived from this count, not a stored flag.
func (s *Store) CountUserMessages(ctx context.Context, conversationID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM conversation_messages WHERE conversation_id = $1 AND role = $2`,
		conversationID, model.RoleUser,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count user messages: %w", err)
	}
	return count, nil
}
