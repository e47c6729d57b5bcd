package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/curio-ai/topic-platform/internal/apperr"
	"github.com/curio-ai/topic-platform/internal/model"
	"github.com/curio-ai/topic-platform/internal/store"
)

// FavouriteStore is the persistence surface for saved items.
type FavouriteStore interface {
	CreateSavedItem(ctx context.Context, userID int64, req *model.SaveItemRequest) (*model.SavedItem, error)
	GetSavedItem(ctx context.Context, id int64) (*model.SavedItem, error)
	HasSavedTopic(ctx context.Context, userID int64, topic string) (bool, error)
	ListSavedItems(ctx context.Context, userID int64, category model.Category) ([]model.SavedItem, error)
	DeleteSavedItem(ctx context.Context, id int64) error
}

// FavouriteService handles a user's saved facts and quotes.
type FavouriteService struct {
	store FavouriteStore
}

// NewFavouriteService creates a new favourites service.
func NewFavouriteService(s FavouriteStore) *FavouriteService {
	return &FavouriteService{store: s}
}

// Save stores a favourite. At most one saved item may exist per (user, topic)
// pair; a second attempt conflicts.
func (s *FavouriteService) Save(ctx context.Context, user *model.User, req *model.SaveItemRequest) (*model.SavedItem, error) {
	exists, err := s.store.HasSavedTopic(ctx, user.ID, req.Topic)
	if err != nil {
		return nil, fmt.Errorf("check saved topic: %w", err)
	}
	if exists {
		return nil, apperr.Conflict("Item already saved")
	}

	item, err := s.store.CreateSavedItem(ctx, user.ID, req)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, apperr.Conflict("Item already saved")
		}
		return nil, fmt.Errorf("save item: %w", err)
	}
	return item, nil
}

// List returns the user's favourites, optionally filtered by category.
func (s *FavouriteService) List(ctx context.Context, user *model.User, category model.Category) ([]model.SavedItem, error) {
	items, err := s.store.ListSavedItems(ctx, user.ID, category)
	if err != nil {
		return nil, fmt.Errorf("list saved items: %w", err)
	}
	return items, nil
}

// Delete removes one of the user's favourites.
func (s *FavouriteService) Delete(ctx context.Context, user *model.User, id int64) error {
	item, err := s.store.GetSavedItem(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.NotFound("Favourite not found")
		}
		return fmt.Errorf("load saved item: %w", err)
	}
	if item.UserID != user.ID {
		return apperr.Forbidden("Not your favourite")
	}
	if err := s.store.DeleteSavedItem(ctx, id); err != nil {
		return fmt.Errorf("delete saved item: %w", err)
	}
	return nil
}
