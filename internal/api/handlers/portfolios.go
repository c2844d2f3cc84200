package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quantpulse/Trading-Signals-Backend/internal/api/response"
	"github.com/quantpulse/Trading-Signals-Backend/internal/apperrors"
	"github.com/quantpulse/Trading-Signals-Backend/internal/service"
)

// PortfolioHandler handles portfolio-related HTTP requests
type PortfolioHandler struct {
	marketService *service.MarketService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(marketService *service.MarketService) *PortfolioHandler {
	return &PortfolioHandler{
		marketService: marketService,
	}
}

// PortfolioResponse represents one portfolio's current aggregates
type PortfolioResponse struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"userId"`
	Name               string    `json:"name"`
	TotalValue         float64   `json:"totalValue"`
	DailyChange        float64   `json:"dailyChange"`
	DailyChangePercent float64   `json:"dailyChangePercent"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

// HoldingResponse represents one holding's current valuation
type HoldingResponse struct {
	ID                   string    `json:"id"`
	PortfolioID          string    `json:"portfolioId"`
	Symbol               string    `json:"symbol"`
	Quantity             float64   `json:"quantity"`
	AverageCost          float64   `json:"averageCost"`
	CurrentPrice         float64   `json:"currentPrice"`
	MarketValue          float64   `json:"marketValue"`
	UnrealizedPnl        float64   `json:"unrealizedPnl"`
	UnrealizedPnlPercent float64   `json:"unrealizedPnlPercent"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// Portfolios handles GET requests to list all portfolios with their aggregates.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with array of PortfolioResponse
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Portfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.marketService.GetAllPortfolios()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve portfolios", err.Error())
		return
	}

	resp := make([]PortfolioResponse, len(portfolios))
	for i, p := range portfolios {
		resp[i] = PortfolioResponse{
			ID:                 p.ID,
			UserID:             p.UserID,
			Name:               p.Name,
			TotalValue:         p.TotalValue,
			DailyChange:        p.DailyChange,
			DailyChangePercent: p.DailyChangePercent,
			UpdatedAt:          p.UpdatedAt,
		}
	}

	respondJSON(w, http.StatusOK, resp)
}

// PortfolioHoldings handles GET requests to list one portfolio's holdings.
//
// Endpoint: GET /api/portfolio/{uuid}/holdings
// Response: 200 OK with array of HoldingResponse
// Error: 400 Bad Request if the portfolio ID is invalid (validated by middleware)
// Error: 404 Not Found if the portfolio does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) PortfolioHoldings(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	holdings, err := h.marketService.GetPortfolioHoldings(portfolioID)
	if err != nil {
		if errors.Is(err, apperrors.ErrPortfolioNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrPortfolioNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve holdings", err.Error())
		return
	}

	resp := make([]HoldingResponse, len(holdings))
	for i, holding := range holdings {
		resp[i] = HoldingResponse{
			ID:                   holding.ID,
			PortfolioID:          holding.PortfolioID,
			Symbol:               holding.Symbol,
			Quantity:             holding.Quantity,
			AverageCost:          holding.AverageCost,
			CurrentPrice:         holding.CurrentPrice,
			MarketValue:          holding.MarketValue,
			UnrealizedPnl:        holding.UnrealizedPnl,
			UnrealizedPnlPercent: holding.UnrealizedPnlPercent,
			UpdatedAt:            holding.UpdatedAt,
		}
	}

	respondJSON(w, http.StatusOK, resp)
}
