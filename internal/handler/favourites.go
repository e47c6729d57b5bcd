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

// FavouriteService is the saved-items surface the handler needs.
type FavouriteService interface {
	Save(ctx context.Context, user *model.User, req *model.SaveItemRequest) (*model.SavedItem, error)
	List(ctx context.Context, user *model.User, category model.Category) ([]model.SavedItem, error)
	Delete(ctx context.Context, user *model.User, id int64) error
}

// FavouriteHandler handles the favourites endpoints.
type FavouriteHandler struct {
	service FavouriteService
	logger  *logger.Logger
}

// NewFavouriteHandler creates a new favourites handler.
func NewFavouriteHandler(svc FavouriteService, log *logger.Logger) *FavouriteHandler {
	return &FavouriteHandler{service: svc, logger: log}
}

// Create handles POST /favourites/
func (h *FavouriteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.SaveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := middleware.ValidateSaveItem(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.service.Save(r.Context(), middleware.GetUser(r.Context()), &req)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":   "Favourite added successfully",
		"favourite": item,
	})
}

// List handles GET /favourites/?category=
func (h *FavouriteHandler) List(w http.ResponseWriter, r *http.Request) {
	category := model.Category(r.URL.Query().Get("category"))
	if category != "" {
		if err := middleware.ValidateCategory(category); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	items, err := h.service.List(r.Context(), middleware.GetUser(r.Context()), category)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"favourites": items,
		"count":      len(items),
	})
}

// Delete handles DELETE /favourites/{id}
func (h *FavouriteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid favourite id")
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetUser(r.Context()), id); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Removed from favourites"})
}
