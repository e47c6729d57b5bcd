package model

import (
	"time"
)

// Conversation is a bounded Q&A thread. The title is derived from the first
// user message; closure is derived from the count of user messages, not a
// stored flag.
type Conversation struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationDetail is a conversation with its full message sequence in
// chronological order.
type ConversationDetail struct {
	Conversation
	Messages []ConversationMessage `json:"messages"`
}

// ListConversationsResponse is the body of GET /conversation/conversations.
type ListConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
}
