package service

import (
	"context"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/quantpulse/Trading-Signals-Backend/internal/advisor"
	"github.com/quantpulse/Trading-Signals-Backend/internal/apperrors"
	"github.com/quantpulse/Trading-Signals-Backend/internal/model"
	"github.com/quantpulse/Trading-Signals-Backend/internal/repository"
	"github.com/quantpulse/Trading-Signals-Backend/internal/validation"
)

const (
	// generateSignalsOperation is the rate-limit bucket for signal generation.
	generateSignalsOperation = "generate-trading-signals"

	// signalLifetime is how long a generated signal stays active.
	signalLifetime = 24 * time.Hour

	// maxReasoningLength bounds stored reasoning text.
	maxReasoningLength = 1000

	// activeSignalsLimit caps the signals returned per user listing.
	activeSignalsLimit = 10
)

// SignalService generates and lists trading signals, and serves the read-only
// insight feed. Signal generation is rate limited per user; the insight feed
// intentionally is not.
type SignalService struct {
	instrumentRepo *repository.InstrumentRepository
	signalRepo     *repository.SignalRepository
	rateLimitRepo  *repository.RateLimitRepository
	advisorClient  advisor.Client
	strategy       signalStrategy

	maxRequests     int
	rateLimitWindow time.Duration
}

// NewSignalService creates a new SignalService. A nil advisorClient disables
// the advisory strategy: signals come from the rule-based strategy and
// insights from deterministic templates.
func NewSignalService(
	instrumentRepo *repository.InstrumentRepository,
	signalRepo *repository.SignalRepository,
	rateLimitRepo *repository.RateLimitRepository,
	advisorClient advisor.Client,
	maxRequests int,
	rateLimitWindow time.Duration,
) *SignalService {
	var strategy signalStrategy = ruleStrategy{}
	if advisorClient != nil {
		strategy = advisorStrategy{client: advisorClient}
	}

	return &SignalService{
		instrumentRepo:  instrumentRepo,
		signalRepo:      signalRepo,
		rateLimitRepo:   rateLimitRepo,
		advisorClient:   advisorClient,
		strategy:        strategy,
		maxRequests:     maxRequests,
		rateLimitWindow: rateLimitWindow,
	}
}

// GenerateSignal produces, normalizes and persists one trading signal.
//
// Failure modes, in order of evaluation:
//   - ErrInvalidSymbol / ErrInvalidUserID before any external call or mutation
//   - RateLimitError (unwraps ErrRateLimited) with a retry-after duration
//   - ErrInstrumentNotFound when the symbol has no market data
//   - ErrSignalNotSaved when persistence fails
//
// Advisory failures never surface: the strategy layer falls back to a
// conservative candidate, so once validation and rate limiting pass the
// caller always receives a usable signal.
func (s *SignalService) GenerateSignal(ctx context.Context, symbol, userID string) (model.TradingSignal, error) {
	validatedSymbol, err := validation.ValidateSymbol(symbol)
	if err != nil {
		return model.TradingSignal{}, err
	}

	validatedUserID, err := validation.ValidateUserID(userID)
	if err != nil {
		return model.TradingSignal{}, err
	}

	allowed, retryAfter, err := s.rateLimitRepo.Allow(ctx,
		validatedUserID, generateSignalsOperation, s.maxRequests, s.rateLimitWindow)
	if err != nil {
		return model.TradingSignal{}, fmt.Errorf("rate limit check failed: %w", err)
	}
	if !allowed {
		return model.TradingSignal{}, &apperrors.RateLimitError{RetryAfter: retryAfter}
	}

	instrument, err := s.instrumentRepo.GetInstrumentBySymbol(validatedSymbol)
	if err != nil {
		return model.TradingSignal{}, err
	}

	candidate, err := s.strategy.ProduceCandidate(ctx, instrument)
	if err != nil {
		return model.TradingSignal{}, err
	}

	now := time.Now().UTC()
	signal := model.TradingSignal{
		ID:          uuid.New().String(),
		UserID:      validatedUserID,
		Symbol:      validatedSymbol,
		SignalType:  candidate.SignalType,
		Confidence:  clamp(candidate.Confidence, 0, 1),
		PriceTarget: max(0, candidate.PriceTarget),
		StopLoss:    max(0, candidate.StopLoss),
		Reasoning:   truncate(candidate.Reasoning, maxReasoningLength),
		CreatedAt:   now,
		ExpiresAt:   now.Add(signalLifetime),
	}

	if err := s.signalRepo.InsertSignal(ctx, signal); err != nil {
		return model.TradingSignal{}, fmt.Errorf("%w: %v", apperrors.ErrSignalNotSaved, err)
	}

	log.Printf("Generated %s signal for %s with %.0f%% confidence",
		signal.SignalType, signal.Symbol, signal.Confidence*100)

	return signal, nil
}

// GetActiveSignals lists the newest unexpired signals for a user.
func (s *SignalService) GetActiveSignals(userID string) ([]model.TradingSignal, error) {
	validatedUserID, err := validation.ValidateUserID(userID)
	if err != nil {
		return nil, err
	}

	return s.signalRepo.GetActiveSignalsByUser(validatedUserID, time.Now().UTC(), activeSignalsLimit)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// truncate bounds s to maxLen bytes without splitting a multi-byte rune,
// so advisory reasoning is always stored as valid UTF-8.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
