package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/quantpulse/Trading-Signals-Backend/internal/api/request"
	"github.com/quantpulse/Trading-Signals-Backend/internal/api/response"
	"github.com/quantpulse/Trading-Signals-Backend/internal/apperrors"
	"github.com/quantpulse/Trading-Signals-Backend/internal/model"
	"github.com/quantpulse/Trading-Signals-Backend/internal/service"
)

// InsightHandler handles trading insight HTTP requests
type InsightHandler struct {
	signalService *service.SignalService
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(signalService *service.SignalService) *InsightHandler {
	return &InsightHandler{
		signalService: signalService,
	}
}

// InsightResponse represents one trading insight
type InsightResponse struct {
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	Confidence float64   `json:"confidence"`
	Timestamp  time.Time `json:"timestamp"`
}

// InsightsResponse wraps the insight list for one symbol
type InsightsResponse struct {
	Insights []InsightResponse `json:"insights"`
}

func toInsightsResponse(insights []model.Insight) InsightsResponse {
	resp := InsightsResponse{Insights: make([]InsightResponse, len(insights))}
	for i, insight := range insights {
		resp.Insights[i] = InsightResponse{
			Type:       insight.Type,
			Message:    insight.Message,
			Confidence: insight.Confidence,
			Timestamp:  insight.Timestamp,
		}
	}
	return resp
}

// Insights handles POST requests to fetch trading insights for one symbol.
// Internal failures degrade to a 200 response carrying a placeholder insight,
// so clients never see a hard error for a transient analysis outage.
//
// Endpoint: POST /api/insights
// Request Body: InsightRequest (symbol, optional timeframe)
// Response: 200 OK with InsightsResponse
// Error: 400 Bad Request if the body or symbol is invalid
// Error: 404 Not Found if the symbol has no market data
func (h *InsightHandler) Insights(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.InsightRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	insights, err := h.signalService.GetInsights(r.Context(), req.Symbol, req.Timeframe)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidSymbol):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidSymbol.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInstrumentNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrInstrumentNotFound.Error(), err.Error())
		default:
			// Degrade instead of failing; the placeholder tells the client to retry.
			respondJSON(w, http.StatusOK, toInsightsResponse(service.FallbackInsights()))
		}
		return
	}

	respondJSON(w, http.StatusOK, toInsightsResponse(insights))
}
