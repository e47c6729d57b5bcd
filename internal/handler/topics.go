package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/curio-ai/topic-platform/internal/middleware"
	"github.com/curio-ai/topic-platform/internal/model"
	"github.com/curio-ai/topic-platform/internal/service"
	"github.com/curio-ai/topic-platform/pkg/logger"
)

// TopicService is the lookup surface the handler needs.
type TopicService interface {
	Facts(ctx context.Context, user *model.User, topic, comment string) (*service.FactsResponse, error)
	Quotes(ctx context.Context, user *model.User, topic, comment string) (*service.QuotesResponse, error)
}

// TopicHandler handles the facts and quotes endpoints.
type TopicHandler struct {
	service TopicService
	logger  *logger.Logger
}

// NewTopicHandler creates a new topic handler.
func NewTopicHandler(svc TopicService, log *logger.Logger) *TopicHandler {
	return &TopicHandler{service: svc, logger: log}
}

// Facts handles POST /facts/
func (h *TopicHandler) Facts(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeTopicRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Facts(r.Context(), middleware.GetUser(r.Context()), req.Topic, req.Comment)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Quotes handles POST /quotes/
func (h *TopicHandler) Quotes(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeTopicRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Quotes(r.Context(), middleware.GetUser(r.Context()), req.Topic, req.Comment)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeTopicRequest decodes and validates the shared facts/quotes body.
// Validation failures are reported before any side effect.
func (h *TopicHandler) decodeTopicRequest(w http.ResponseWriter, r *http.Request) (*model.TopicRequest, bool) {
	var req model.TopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}
	if err := middleware.ValidateTopic(req.Topic); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	if err := middleware.ValidateComment(req.Comment); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return &req, true
}
