package handler

import (
	"context"
	"net/http"

	"github.com/curio-ai/topic-platform/internal/middleware"
	"github.com/curio-ai/topic-platform/internal/model"
	"github.com/curio-ai/topic-platform/pkg/logger"
)

// TrendingService is the aggregation surface the handler needs.
type TrendingService interface {
	Top(ctx context.Context, feature model.Feature) ([]model.TrendingTopic, error)
}

// TrendingHandler handles the trending endpoint.
type TrendingHandler struct {
	service TrendingService
	logger  *logger.Logger
}

// NewTrendingHandler creates a new trending handler.
func NewTrendingHandler(svc TrendingService, log *logger.Logger) *TrendingHandler {
	return &TrendingHandler{service: svc, logger: log}
}

// Get handles GET /trending/?feature=
func (h *TrendingHandler) Get(w http.ResponseWriter, r *http.Request) {
	feature := model.Feature(r.URL.Query().Get("feature"))
	if feature != "" {
		if err := middleware.ValidateFeature(feature); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	topics, err := h.service.Top(r.Context(), feature)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"trending": topics,
		"count":    len(topics),
	})
}
