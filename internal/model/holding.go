package model

import "time"

// Holding represents a position in one instrument within one portfolio.
// The symbol is a weak reference: the holding survives instrument changes.
type Holding struct {
	ID                   string
	PortfolioID          string
	Symbol               string
	Quantity             float64
	AverageCost          float64
	CurrentPrice         float64
	MarketValue          float64
	UnrealizedPnl        float64
	UnrealizedPnlPercent float64
	UpdatedAt            time.Time
}
