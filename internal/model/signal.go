package model

import "time"

// Signal types for trading signals.
const (
	SignalBuy  = "BUY"
	SignalSell = "SELL"
	SignalHold = "HOLD"
)

// TradingSignal is a generated directional trading recommendation.
// Signals are immutable once created and expire by timestamp comparison;
// expiry is a read-time filter, no active deletion takes place.
type TradingSignal struct {
	ID          string
	UserID      string
	Symbol      string
	SignalType  string
	Confidence  float64
	PriceTarget float64
	StopLoss    float64
	Reasoning   string
	CreatedAt   time.Time
	ExpiresAt   time.Time
}

// CandidateSignal is the unvalidated output of a signal strategy,
// before confidence clamping and reasoning truncation.
type CandidateSignal struct {
	SignalType  string
	Confidence  float64
	PriceTarget float64
	StopLoss    float64
	Reasoning   string
}
