package model

import (
	"time"
)

// Role identifies the sender of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ConversationMessage is one turn half within a conversation. Messages are
// immutable once written.
type ConversationMessage struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"-"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// StartConversationRequest is the body of POST /conversation/start.
type StartConversationRequest struct {
	Message string `json:"message"`
}

// SendMessageRequest is the body of POST /conversation/message.
type SendMessageRequest struct {
	ConversationID int64  `json:"conversation_id"`
	Message        string `json:"message"`
}

// TurnResponse is returned after a successful conversation turn.
type TurnResponse struct {
	ConversationID    int64  `json:"conversation_id"`
	Reply             string `json:"reply"`
	MessagesRemaining int    `json:"messages_remaining"`
}
