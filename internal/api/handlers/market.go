package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quantpulse/Trading-Signals-Backend/internal/api/response"
	"github.com/quantpulse/Trading-Signals-Backend/internal/apperrors"
	"github.com/quantpulse/Trading-Signals-Backend/internal/model"
	"github.com/quantpulse/Trading-Signals-Backend/internal/service"
	"github.com/quantpulse/Trading-Signals-Backend/internal/validation"
)

// MarketHandler handles market data HTTP requests
type MarketHandler struct {
	marketService *service.MarketService
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(marketService *service.MarketService) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
	}
}

// InstrumentResponse represents one instrument's current market data
type InstrumentResponse struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Volume        int64     `json:"volume"`
	MarketCap     float64   `json:"marketCap"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// SyncResponse represents the outcome of a synchronization pass
type SyncResponse struct {
	Success   bool      `json:"success"`
	Updated   int       `json:"updated"`
	Timestamp time.Time `json:"timestamp"`
}

func toInstrumentResponse(i model.Instrument) InstrumentResponse {
	return InstrumentResponse{
		Symbol:        i.Symbol,
		Name:          i.Name,
		Price:         i.Price,
		Change:        i.Change,
		ChangePercent: i.ChangePercent,
		Volume:        i.Volume,
		MarketCap:     i.MarketCap,
		UpdatedAt:     i.UpdatedAt,
	}
}

// Sync handles POST requests to trigger one market synchronization pass.
// Updates all instrument prices and cascades into holdings and portfolios.
//
// Endpoint: POST /api/market/sync
// Response: 200 OK with SyncResponse
// Error: 500 Internal Server Error if the pass cannot start or no instruments exist
func (h *MarketHandler) Sync(w http.ResponseWriter, r *http.Request) {
	summary, err := h.marketService.RunSync(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "market synchronization failed", err.Error())
		return
	}

	respondJSON(w, http.StatusOK, SyncResponse{
		Success:   true,
		Updated:   summary.UpdatedCount,
		Timestamp: summary.Timestamp,
	})
}

// Instruments handles GET requests to retrieve current market data for all instruments.
//
// Endpoint: GET /api/market
// Response: 200 OK with array of InstrumentResponse
// Error: 500 Internal Server Error if retrieval fails
func (h *MarketHandler) Instruments(w http.ResponseWriter, r *http.Request) {
	instruments, err := h.marketService.GetAllInstruments()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError,
			apperrors.ErrFailedToRetrieveInstruments.Error(), err.Error())
		return
	}

	resp := make([]InstrumentResponse, len(instruments))
	for i, instrument := range instruments {
		resp[i] = toInstrumentResponse(instrument)
	}

	respondJSON(w, http.StatusOK, resp)
}

// Instrument handles GET requests to retrieve current market data for one symbol.
//
// Endpoint: GET /api/market/{symbol}
// Response: 200 OK with InstrumentResponse
// Error: 400 Bad Request if the symbol is malformed
// Error: 404 Not Found if the symbol has no market data
// Error: 500 Internal Server Error if retrieval fails
func (h *MarketHandler) Instrument(w http.ResponseWriter, r *http.Request) {
	symbol, err := validation.ValidateSymbol(chi.URLParam(r, "symbol"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidSymbol.Error(), err.Error())
		return
	}

	instrument, err := h.marketService.GetInstrument(symbol)
	if err != nil {
		if errors.Is(err, apperrors.ErrInstrumentNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrInstrumentNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError,
			apperrors.ErrFailedToRetrieveInstruments.Error(), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, toInstrumentResponse(instrument))
}
