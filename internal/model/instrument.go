package model

import "time"

// Instrument represents a tradable symbol's current market data record.
// Mutated only by the market synchronization pass.
type Instrument struct {
	Symbol        string
	Name          string
	Price         float64
	Change        float64
	ChangePercent float64
	Volume        int64
	MarketCap     float64
	UpdatedAt     time.Time
}
