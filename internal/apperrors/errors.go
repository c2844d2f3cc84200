package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrInstrumentNotFound indicates that no market data exists for the
	// requested symbol. Retryable after the next synchronization pass.
	ErrInstrumentNotFound = errors.New("market data not available for symbol")

	// ErrPortfolioNotFound indicates that a portfolio with the given ID does not exist.
	ErrPortfolioNotFound = errors.New("portfolio not found")

	// ErrNoInstruments indicates that the market data table is empty,
	// so a synchronization pass has nothing to update.
	ErrNoInstruments = errors.New("no market data found to update")
)

// Business logic errors represent validation failures or constraint violations.
var (
	// ErrInvalidSymbol indicates that a symbol is empty or not 1-10
	// alphanumeric characters after normalization.
	ErrInvalidSymbol = errors.New("invalid symbol: must be 1-10 alphanumeric characters")

	// ErrInvalidUserID indicates that a user ID is not a valid UUID.
	ErrInvalidUserID = errors.New("invalid user ID format")

	// ErrRateLimited indicates that the per-user request quota for an
	// operation is exhausted for the current window.
	ErrRateLimited = errors.New("rate limit exceeded")
)

// Operation failure errors represent system-level failures.
var (
	// ErrSignalNotSaved indicates that a generated signal could not be
	// persisted. An unsaved signal must never be reported as success.
	ErrSignalNotSaved = errors.New("failed to save trading signal")

	// ErrFailedToRetrieveInstruments indicates a market data query failure.
	ErrFailedToRetrieveInstruments = errors.New("failed to retrieve market data")

	// ErrFailedToRetrieveSignals indicates a trading signal query failure.
	ErrFailedToRetrieveSignals = errors.New("failed to retrieve trading signals")
)

// RateLimitError carries the retry-after duration for a denied request.
// It unwraps to ErrRateLimited so callers can match with errors.Is.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}
