package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/curio-ai/topic-platform/internal/middleware"
	"github.com/curio-ai/topic-platform/internal/model"
	"github.com/curio-ai/topic-platform/pkg/logger"
)

// ConversationService is the conversation surface the handler needs.
type ConversationService interface {
	Start(ctx context.Context, user *model.User, message string) (*model.TurnResponse, error)
	SendMessage(ctx context.Context, user *model.User, conversationID int64, message string) (*model.TurnResponse, error)
	List(ctx context.Context, user *model.User) ([]model.Conversation, error)
	Get(ctx context.Context, user *model.User, conversationID int64) (*model.ConversationDetail, error)
}

// ConversationHandler handles conversation endpoints.
type ConversationHandler struct {
	service ConversationService
	logger  *logger.Logger
}

// NewConversationHandler creates a new conversation handler.
func NewConversationHandler(svc ConversationService, log *logger.Logger) *ConversationHandler {
	return &ConversationHandler{service: svc, logger: log}
}

// Start handles POST /conversation/start
func (h *ConversationHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req model.StartConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateMessage(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Start(r.Context(), middleware.GetUser(r.Context()), req.Message)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Send handles POST /conversation/message
func (h *ConversationHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req model.SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ConversationID <= 0 {
		writeError(w, http.StatusBadRequest, "conversation_id is required")
		return
	}
	if err := middleware.ValidateMessage(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.SendMessage(r.Context(), middleware.GetUser(r.Context()), req.ConversationID, req.Message)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// List handles GET /conversation/conversations
func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	convs, err := h.service.List(r.Context(), middleware.GetUser(r.Context()))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, &model.ListConversationsResponse{Conversations: convs})
}

// Get handles GET /conversation/conversations/{id}
func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid conversation id")
		return
	}

	detail, err := h.service.Get(r.Context(), middleware.GetUser(r.Context()), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversation": detail})
}
