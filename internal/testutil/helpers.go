package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quantpulse/Trading-Signals-Backend/internal/advisor"
	"github.com/quantpulse/Trading-Signals-Backend/internal/quote"
	"github.com/quantpulse/Trading-Signals-Backend/internal/repository"
	"github.com/quantpulse/Trading-Signals-Backend/internal/service"
)

// TestRateLimitMax is the signal generation quota used by test services.
const TestRateLimitMax = 5

// TestRateLimitWindow is the rate limit window used by test services.
const TestRateLimitWindow = time.Hour

// NewTestMarketService creates a MarketService wired against the test database.
func NewTestMarketService(t *testing.T, db *sql.DB) *service.MarketService {
	t.Helper()

	return service.NewMarketService(
		repository.NewInstrumentRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewPortfolioRepository(db),
		quote.NewSimulator(0.02),
	)
}

// NewTestMarketServiceWithSimulator creates a MarketService with a caller-provided
// simulator, for tests that need a deterministic price source.
func NewTestMarketServiceWithSimulator(t *testing.T, db *sql.DB, sim *quote.Simulator) *service.MarketService {
	t.Helper()

	return service.NewMarketService(
		repository.NewInstrumentRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewPortfolioRepository(db),
		sim,
	)
}

// NewTestSignalService creates a SignalService using the rule-based strategy.
func NewTestSignalService(t *testing.T, db *sql.DB) *service.SignalService {
	t.Helper()

	return NewTestSignalServiceWithAdvisor(t, db, nil)
}

// NewTestSignalServiceWithAdvisor creates a SignalService with the given
// advisory client. Pass a MockAdvisorClient to exercise the advisory strategy
// without real API calls.
func NewTestSignalServiceWithAdvisor(t *testing.T, db *sql.DB, client advisor.Client) *service.SignalService {
	t.Helper()

	return service.NewSignalService(
		repository.NewInstrumentRepository(db),
		repository.NewSignalRepository(db),
		repository.NewRateLimitRepository(db),
		client,
		TestRateLimitMax,
		TestRateLimitWindow,
	)
}

// MakeID generates a unique UUID for testing.
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a unique ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol()
//	// Returns something like: "TQX7R2"
func MakeSymbol() string {
	return "T" + randomAlphanumeric(5)
}

// MakePortfolioName generates a unique portfolio name for testing.
//
// Example usage:
//
//	name := testutil.MakePortfolioName("MyPortfolio")
//	// Returns: "MyPortfolio ABC123"
func MakePortfolioName(base string) string {
	if base == "" {
		base = "Portfolio"
	}
	return base + " " + randomAlphanumeric(6)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
