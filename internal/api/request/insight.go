package request

// InsightRequest represents the request body for fetching trading insights.
// Timeframe is optional; unknown values fall back to 1D.
type InsightRequest struct {
	Symbol    string `json:"symbol"`
	Timeframe string `json:"timeframe"`
}
