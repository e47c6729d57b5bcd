package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/curio-ai/topic-platform/internal/model"
)

const userColumns = `id, username, email, password_hash, daily_request_count, last_request_date, created_at, updated_at`

// CreateUser inserts a new user. Returns ErrDuplicate when the email or
// username is already taken.
func (s *Store) CreateUser(ctx context.Context, email, username, passwordHash string) (*model.User, error) {
	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO users (email, username, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING id, daily_request_count, last_request_date, created_at, updated_at`,
		email, username, passwordHash,
	).Scan(&user.ID, &user.DailyRequestCount, &user.LastRequestDate, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// GetUserByID fetches a user by primary key.
func (s *Store) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetUserByEmail fetches a user by email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// GetUserByUsername fetches a user by username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

func (s *Store) scanUser(row *sql.Row) (*model.User, error) {
	var user model.User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.DailyRequestCount, &user.LastRequestDate, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}

// ResetDailyCount zeroes the user's daily request count and stamps the given
// day as the last request date.
func (s *Store) ResetDailyCount(ctx context.Context, userID int64, day time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET daily_request_count = 0, last_request_date = $2, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1`,
		userID, day)
	if err != nil {
		return fmt.Errorf("reset daily count: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// IncrementDailyCount adds one to the user's daily request count and returns
// the new value. The update is conditional on the count being below limit so
// concurrent requests cannot push a user past it. Returns ErrLimitReached
// when the condition does not hold.
func (s *Store) IncrementDailyCount(ctx context.Context, userID int64, limit int) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`UPDATE users SET daily_request_count = daily_request_count + 1, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND daily_request_count < $2
		 RETURNING daily_request_count`,
		userID, limit,
	).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrLimitReached
		}
		return 0, fmt.Errorf("increment daily count: %w", err)
	}
	return count, nil
}
