package request

// GenerateSignalRequest represents the request body for generating a trading signal
type GenerateSignalRequest struct {
	Symbol string `json:"symbol"`
	UserID string `json:"userId"`
}
