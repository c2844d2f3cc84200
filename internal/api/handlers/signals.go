package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/quantpulse/Trading-Signals-Backend/internal/api/request"
	"github.com/quantpulse/Trading-Signals-Backend/internal/api/response"
	"github.com/quantpulse/Trading-Signals-Backend/internal/apperrors"
	"github.com/quantpulse/Trading-Signals-Backend/internal/model"
	"github.com/quantpulse/Trading-Signals-Backend/internal/service"
)

// SignalHandler handles trading signal HTTP requests
type SignalHandler struct {
	signalService *service.SignalService
}

// NewSignalHandler creates a new SignalHandler
func NewSignalHandler(signalService *service.SignalService) *SignalHandler {
	return &SignalHandler{
		signalService: signalService,
	}
}

// SignalResponse represents one trading signal
type SignalResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Symbol      string    `json:"symbol"`
	SignalType  string    `json:"signalType"`
	Confidence  float64   `json:"confidence"`
	PriceTarget float64   `json:"priceTarget"`
	StopLoss    float64   `json:"stopLoss"`
	Reasoning   string    `json:"reasoning"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

func toSignalResponse(s model.TradingSignal) SignalResponse {
	return SignalResponse{
		ID:          s.ID,
		UserID:      s.UserID,
		Symbol:      s.Symbol,
		SignalType:  s.SignalType,
		Confidence:  s.Confidence,
		PriceTarget: s.PriceTarget,
		StopLoss:    s.StopLoss,
		Reasoning:   s.Reasoning,
		CreatedAt:   s.CreatedAt,
		ExpiresAt:   s.ExpiresAt,
	}
}

// Generate handles POST requests to generate a trading signal for one user.
//
// Endpoint: POST /api/signals/generate
// Request Body: GenerateSignalRequest (symbol, userId)
// Response: 200 OK with {"signal": SignalResponse}
// Error: 400 Bad Request if the body, symbol or user ID is invalid
// Error: 404 Not Found if the symbol has no market data
// Error: 429 Too Many Requests with a Retry-After header when the user quota is exhausted
// Error: 500 Internal Server Error if the signal cannot be persisted
func (h *SignalHandler) Generate(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.GenerateSignalRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	signal, err := h.signalService.GenerateSignal(r.Context(), req.Symbol, req.UserID)
	if err != nil {
		var rateLimitErr *apperrors.RateLimitError
		switch {
		case errors.Is(err, apperrors.ErrInvalidSymbol), errors.Is(err, apperrors.ErrInvalidUserID):
			response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		case errors.As(err, &rateLimitErr):
			retrySeconds := int(math.Ceil(rateLimitErr.RetryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(retrySeconds))
			response.RespondError(w, http.StatusTooManyRequests,
				apperrors.ErrRateLimited.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInstrumentNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrInstrumentNotFound.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to generate signal", err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]SignalResponse{
		"signal": toSignalResponse(signal),
	})
}

// ActiveSignals handles GET requests to list a user's unexpired signals,
// newest first, capped at ten.
//
// Endpoint: GET /api/signals?userId={uuid}
// Response: 200 OK with {"signals": [SignalResponse]}
// Error: 400 Bad Request if the user ID is missing or malformed
// Error: 500 Internal Server Error if retrieval fails
func (h *SignalHandler) ActiveSignals(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")

	signals, err := h.signalService.GetActiveSignals(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidUserID) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidUserID.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError,
			apperrors.ErrFailedToRetrieveSignals.Error(), err.Error())
		return
	}

	resp := make([]SignalResponse, len(signals))
	for i, s := range signals {
		resp[i] = toSignalResponse(s)
	}

	respondJSON(w, http.StatusOK, map[string][]SignalResponse{
		"signals": resp,
	})
}
