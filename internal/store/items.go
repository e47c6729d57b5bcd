package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/curio-ai/topic-platform/internal/model"
)

// CreateSavedItem inserts a favourite. Returns ErrDuplicate when the user
// already saved an item for this topic.
func (s *Store) CreateSavedItem(ctx context.Context, userID int64, req *model.SaveItemRequest) (*model.SavedItem, error) {
	item := &model.SavedItem{
		UserID:   userID,
		Category: req.Category,
		Content:  req.Content,
		Author:   req.Author,
		Topic:    req.Topic,
	}
	author := sql.NullString{String: req.Author, Valid: req.Author != ""}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO saved_items (user_id, category, content, author, topic)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		userID, req.Category, req.Content, author, req.Topic,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert saved item: %w", err)
	}
	return item, nil
}

// GetSavedItem fetches a favourite by id.
func (s *Store) GetSavedItem(ctx context.Context, id int64) (*model.SavedItem, error) {
	var item model.SavedItem
	var author sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, category, content, author, topic, created_at
		 FROM saved_items WHERE id = $1`, id,
	).Scan(&item.ID, &item.UserID, &item.Category, &item.Content, &author, &item.Topic, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan saved item: %w", err)
	}
	item.Author = author.String
	return &item, nil
}

// HasSavedTopic reports whether the user already saved an item for topic.
func (s *Store) HasSavedTopic(ctx context.Context, userID int64, topic string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM saved_items WHERE user_id = $1 AND topic = $2)`,
		userID, topic,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check saved topic: %w", err)
	}
	return exists, nil
}

// ListSavedItems returns the user's favourites, newest first, optionally
// filtered by category (empty means all).
func (s *Store) ListSavedItems(ctx context.Context, userID int64, category model.Category) ([]model.SavedItem, error) {
	query := `SELECT id, user_id, category, content, author, topic, created_at
		 FROM saved_items WHERE user_id = $1`
	args := []any{userID}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query saved items: %w", err)
	}
	defer rows.Close()

	items := []model.SavedItem{}
	for rows.Next() {
		var item model.SavedItem
		var author sql.NullString
		if err := rows.Scan(&item.ID, &item.UserID, &item.Category, &item.Content, &author, &item.Topic, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan saved item: %w", err)
		}
		item.Author = author.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// DeleteSavedItem removes a favourite by id.
func (s *Store) DeleteSavedItem(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM saved_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete saved item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddSearchedItem appends a search-history record.
func (s *Store) AddSearchedItem(ctx context.Context, userID int64, topic string, feature model.Feature) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searched_items (user_id, topic, feature) VALUES ($1, $2, $3)`,
		userID, topic, feature)
	if err != nil {
		return fmt.Errorf("insert searched item: %w", err)
	}
	return nil
}

// TrendingTopics returns the most searched topics by descending count,
// optionally filtered by feature (empty means all).
func (s *Store) TrendingTopics(ctx context.Context, feature model.Feature, limit int) ([]model.TrendingTopic, error) {
	query := `SELECT topic, COUNT(*) AS count FROM searched_items`
	args := []any{}
	if feature != "" {
		query += ` WHERE feature = $1`
		args = append(args, feature)
	}
	query += fmt.Sprintf(` GROUP BY topic ORDER BY count DESC, topic LIMIT %d`, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trending: %w", err)
	}
	defer rows.Close()

	topics := []model.TrendingTopic{}
	for rows.Next() {
		var t model.TrendingTopic
		if err := rows.Scan(&t.Topic, &t.Count); err != nil {
			return nil, fmt.Errorf("scan trending topic: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}
