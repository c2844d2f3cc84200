package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RateLimitRepository provides fixed-window request counters keyed by
// user and operation. The increment-and-check runs inside a transaction so
// concurrent requests from the same user see a consistent window; the limiter
// is still advisory, not a hard transactional guarantee.
type RateLimitRepository struct {
	db *sql.DB
}

// NewRateLimitRepository creates a new RateLimitRepository with the provided database connection.
func NewRateLimitRepository(db *sql.DB) *RateLimitRepository {
	return &RateLimitRepository{db: db}
}

// Allow records one request for (userID, operation) and reports whether it is
// within the quota of maxRequests per window. When denied, retryAfter is the
// time remaining until the current window expires; the denied request is not
// charged against later windows.
func (r *RateLimitRepository) Allow(ctx context.Context, userID, operation string, maxRequests int, window time.Duration) (bool, time.Duration, error) {
	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, 0, fmt.Errorf("failed to begin rate limit transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	var windowStartStr string
	var requestCount int

	query := `
		SELECT window_start, request_count
		FROM rate_limits
		WHERE user_id = ? AND operation = ?
	`
	err = tx.QueryRowContext(ctx, query, userID, operation).Scan(&windowStartStr, &requestCount)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		insert := `
			INSERT INTO rate_limits (id, user_id, operation, window_start, request_count)
			VALUES (?, ?, ?, ?, 1)
		`
		if _, err := tx.ExecContext(ctx, insert, uuid.New().String(), userID, operation, FormatTime(now)); err != nil {
			return false, 0, fmt.Errorf("failed to insert rate limit window: %w", err)
		}

	case err != nil:
		return false, 0, fmt.Errorf("failed to query rate_limits table: %w", err)

	default:
		windowStart, err := parseStoredTime(windowStartStr)
		if err != nil {
			return false, 0, err
		}

		windowEnd := windowStart.Add(window)
		if !now.Before(windowEnd) {
			// Window expired: start a fresh one.
			reset := `
				UPDATE rate_limits
				SET window_start = ?, request_count = 1
				WHERE user_id = ? AND operation = ?
			`
			if _, err := tx.ExecContext(ctx, reset, FormatTime(now), userID, operation); err != nil {
				return false, 0, fmt.Errorf("failed to reset rate limit window: %w", err)
			}
		} else if requestCount < maxRequests {
			increment := `
				UPDATE rate_limits
				SET request_count = request_count + 1
				WHERE user_id = ? AND operation = ?
			`
			if _, err := tx.ExecContext(ctx, increment, userID, operation); err != nil {
				return false, 0, fmt.Errorf("failed to increment rate limit counter: %w", err)
			}
		} else {
			// Quota exhausted; deny without charging the window.
			if err := tx.Commit(); err != nil {
				return false, 0, fmt.Errorf("failed to commit rate limit transaction: %w", err)
			}
			return false, windowEnd.Sub(now), nil
		}
	}

	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("failed to commit rate limit transaction: %w", err)
	}

	return true, 0, nil
}
