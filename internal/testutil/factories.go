package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/quantpulse/Trading-Signals-Backend/internal/model"
	"github.com/quantpulse/Trading-Signals-Backend/internal/repository"
)

// InstrumentBuilder provides a fluent interface for creating test market data rows.
//
// Example usage:
//
//	// Simple creation with defaults
//	instrument := testutil.NewInstrument().Build(t, db)
//
//	// Customized instrument
//	instrument := testutil.NewInstrument().
//	    WithSymbol("AAPL").
//	    WithPrice(185.50).
//	    WithChangePercent(2.4).
//	    Build(t, db)
type InstrumentBuilder struct {
	Symbol        string
	Name          string
	Price         float64
	Change        float64
	ChangePercent float64
	Volume        int64
	MarketCap     float64
}

// NewInstrument creates an InstrumentBuilder with sensible defaults.
func NewInstrument() *InstrumentBuilder {
	return &InstrumentBuilder{
		Symbol:        MakeSymbol(),
		Name:          "Test Instrument",
		Price:         100.0,
		Change:        0,
		ChangePercent: 0,
		Volume:        50_000_000,
		MarketCap:     1e12,
	}
}

// WithSymbol sets a custom symbol.
func (b *InstrumentBuilder) WithSymbol(symbol string) *InstrumentBuilder {
	b.Symbol = symbol
	return b
}

// WithName sets a custom name.
func (b *InstrumentBuilder) WithName(name string) *InstrumentBuilder {
	b.Name = name
	return b
}

// WithPrice sets a custom price.
func (b *InstrumentBuilder) WithPrice(price float64) *InstrumentBuilder {
	b.Price = price
	return b
}

// WithChange sets the absolute daily change.
func (b *InstrumentBuilder) WithChange(change float64) *InstrumentBuilder {
	b.Change = change
	return b
}

// WithChangePercent sets the relative daily change.
func (b *InstrumentBuilder) WithChangePercent(changePercent float64) *InstrumentBuilder {
	b.ChangePercent = changePercent
	return b
}

// WithVolume sets a custom trading volume.
func (b *InstrumentBuilder) WithVolume(volume int64) *InstrumentBuilder {
	b.Volume = volume
	return b
}

// WithMarketCap sets a custom market capitalization.
func (b *InstrumentBuilder) WithMarketCap(marketCap float64) *InstrumentBuilder {
	b.MarketCap = marketCap
	return b
}

// Build creates the instrument in the database and returns it.
func (b *InstrumentBuilder) Build(t *testing.T, db *sql.DB) model.Instrument {
	t.Helper()

	now := time.Now().UTC()

	query := `
		INSERT INTO market_data (symbol, name, price, change, change_percent, volume, market_cap, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.Symbol, b.Name, b.Price, b.Change, b.ChangePercent, b.Volume, b.MarketCap,
		repository.FormatTime(now))
	if err != nil {
		t.Fatalf("Failed to create test instrument: %v", err)
	}

	return model.Instrument{
		Symbol:        b.Symbol,
		Name:          b.Name,
		Price:         b.Price,
		Change:        b.Change,
		ChangePercent: b.ChangePercent,
		Volume:        b.Volume,
		MarketCap:     b.MarketCap,
		UpdatedAt:     now,
	}
}

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	portfolio := testutil.NewPortfolio().
//	    WithName("Growth Portfolio").
//	    WithTotalValue(25000).
//	    Build(t, db)
type PortfolioBuilder struct {
	ID                 string
	UserID             string
	Name               string
	TotalValue         float64
	DailyChange        float64
	DailyChangePercent float64
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:     MakeID(),
		UserID: MakeID(),
		Name:   MakePortfolioName("Test Portfolio"),
	}
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithUserID sets a custom owner.
func (b *PortfolioBuilder) WithUserID(userID string) *PortfolioBuilder {
	b.UserID = userID
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// WithTotalValue sets the stored aggregate value.
func (b *PortfolioBuilder) WithTotalValue(totalValue float64) *PortfolioBuilder {
	b.TotalValue = totalValue
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	now := time.Now().UTC()

	query := `
		INSERT INTO portfolios (id, user_id, name, total_value, daily_change, daily_change_percent, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.UserID, b.Name, b.TotalValue, b.DailyChange, b.DailyChangePercent,
		repository.FormatTime(now))
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:                 b.ID,
		UserID:             b.UserID,
		Name:               b.Name,
		TotalValue:         b.TotalValue,
		DailyChange:        b.DailyChange,
		DailyChangePercent: b.DailyChangePercent,
		UpdatedAt:          now,
	}
}

// HoldingBuilder provides a fluent interface for creating test holdings.
//
// Example usage:
//
//	holding := testutil.NewHolding(portfolio.ID).
//	    WithSymbol("AAPL").
//	    WithQuantity(10).
//	    WithAverageCost(150).
//	    Build(t, db)
type HoldingBuilder struct {
	ID          string
	PortfolioID string
	Symbol      string
	Quantity    float64
	AverageCost float64
	MarketValue float64
}

// NewHolding creates a HoldingBuilder for the given portfolio with sensible defaults.
func NewHolding(portfolioID string) *HoldingBuilder {
	return &HoldingBuilder{
		ID:          MakeID(),
		PortfolioID: portfolioID,
		Symbol:      MakeSymbol(),
		Quantity:    10,
		AverageCost: 100,
	}
}

// WithID sets a custom ID.
func (b *HoldingBuilder) WithID(id string) *HoldingBuilder {
	b.ID = id
	return b
}

// WithSymbol sets a custom symbol.
func (b *HoldingBuilder) WithSymbol(symbol string) *HoldingBuilder {
	b.Symbol = symbol
	return b
}

// WithQuantity sets the number of units held.
func (b *HoldingBuilder) WithQuantity(quantity float64) *HoldingBuilder {
	b.Quantity = quantity
	return b
}

// WithAverageCost sets the average acquisition cost per unit.
func (b *HoldingBuilder) WithAverageCost(averageCost float64) *HoldingBuilder {
	b.AverageCost = averageCost
	return b
}

// WithMarketValue sets the stored valuation, for seeding pre-sync state.
func (b *HoldingBuilder) WithMarketValue(marketValue float64) *HoldingBuilder {
	b.MarketValue = marketValue
	return b
}

// Build creates the holding in the database and returns it.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	now := time.Now().UTC()

	query := `
		INSERT INTO holdings (id, portfolio_id, symbol, quantity, average_cost,
			current_price, market_value, unrealized_pnl, unrealized_pnl_percent, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, 0, 0, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.PortfolioID, b.Symbol, b.Quantity, b.AverageCost, b.MarketValue,
		repository.FormatTime(now))
	if err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}

	return model.Holding{
		ID:          b.ID,
		PortfolioID: b.PortfolioID,
		Symbol:      b.Symbol,
		Quantity:    b.Quantity,
		AverageCost: b.AverageCost,
		MarketValue: b.MarketValue,
		UpdatedAt:   now,
	}
}

// Convenience functions

// CreateInstrument creates an instrument with the given symbol and price.
//
// Example usage:
//
//	instrument := testutil.CreateInstrument(t, db, "AAPL", 185.50)
func CreateInstrument(t *testing.T, db *sql.DB, symbol string, price float64) model.Instrument {
	t.Helper()
	return NewInstrument().WithSymbol(symbol).WithPrice(price).Build(t, db)
}

// CreatePortfolio creates a portfolio with the given name and default values.
//
// Example usage:
//
//	portfolio := testutil.CreatePortfolio(t, db, "My Portfolio")
func CreatePortfolio(t *testing.T, db *sql.DB, name string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithName(name).Build(t, db)
}

// CreateHolding creates a holding of the given symbol in the given portfolio.
//
// Example usage:
//
//	holding := testutil.CreateHolding(t, db, portfolio.ID, "AAPL", 10, 150)
func CreateHolding(t *testing.T, db *sql.DB, portfolioID, symbol string, quantity, averageCost float64) model.Holding {
	t.Helper()
	return NewHolding(portfolioID).
		WithSymbol(symbol).
		WithQuantity(quantity).
		WithAverageCost(averageCost).
		Build(t, db)
}
