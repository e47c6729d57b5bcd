// Package quota tracks per-user daily request counts against a fixed limit.
package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/curio-ai/topic-platform/internal/model"
	"github.com/curio-ai/topic-platform/internal/store"
)

// DefaultDailyLimit is the number of completion-consuming requests a user may
// make per calendar day.
const DefaultDailyLimit = 30

// Store is the persistence surface the tracker needs.
type Store interface {
	ResetDailyCount(ctx context.Context, userID int64, day time.Time) error
	IncrementDailyCount(ctx context.Context, userID int64, limit int) (int, error)
}

// Tracker enforces the daily quota. It mutates the user's quota fields both
// in the store and on the in-memory model so callers see a consistent view
// within one request.
type Tracker struct {
	store Store
	limit int
	now   func() time.Time
}

// New creates a tracker with the given limit. A limit of zero or less falls
// back to DefaultDailyLimit.
func New(s Store, limit int) *Tracker {
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	return &Tracker{store: s, limit: limit, now: time.Now}
}

// Limit returns the configured daily limit.
func (t *Tracker) Limit() int {
	return t.limit
}

// CheckAndReset compares the user's last request date against today. On a new
// calendar day it persists a zeroed count before computing the remaining
// allowance. allowed is true while remaining is positive.
func (t *Tracker) CheckAndReset(ctx context.Context, user *model.User) (remaining int, allowed bool, err error) {
	today := t.today()
	if !sameDay(user.LastRequestDate, today) {
		if err := t.store.ResetDailyCount(ctx, user.ID, today); err != nil {
			return 0, false, fmt.Errorf("reset quota: %w", err)
		}
		user.DailyRequestCount = 0
		user.LastRequestDate = today
	}

	remaining = t.limit - user.DailyRequestCount
	return remaining, remaining > 0, nil
}

// Increment consumes one unit of quota and returns the remaining allowance.
// Callers must invoke this only after a successful completion call so failed
// calls never consume quota. The underlying update is conditional on the
// stored count being below the limit; if a concurrent request raced past it,
// the remaining allowance is simply reported as zero.
func (t *Tracker) Increment(ctx context.Context, user *model.User) (int, error) {
	count, err := t.store.IncrementDailyCount(ctx, user.ID, t.limit)
	if err != nil {
		if errors.Is(err, store.ErrLimitReached) {
			user.DailyRequestCount = t.limit
			return 0, nil
		}
		return 0, fmt.Errorf("increment quota: %w", err)
	}
	user.DailyRequestCount = count
	return t.limit - count, nil
}

func (t *Tracker) today() time.Time {
	y, m, d := t.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
