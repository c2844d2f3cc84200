package service_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/quantpulse/Trading-Signals-Backend/internal/apperrors"
	"github.com/quantpulse/Trading-Signals-Backend/internal/model"
	"github.com/quantpulse/Trading-Signals-Backend/internal/repository"
	"github.com/quantpulse/Trading-Signals-Backend/internal/service"
	"github.com/quantpulse/Trading-Signals-Backend/internal/testutil"
)

// TestMarketService_RunSync tests the full synchronization pass.
//
// WHY: The sync pass is the heart of the system: it must update every
// instrument, cascade into holdings and portfolio totals, and stay consistent
// even with partial data (holdings without market data, empty portfolios).
func TestMarketService_RunSync(t *testing.T) {
	t.Run("errors when no market data exists", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMarketService(t, db)

		// Execute
		_, err := svc.RunSync(context.Background())

		// Assert
		if !errors.Is(err, apperrors.ErrNoInstruments) {
			t.Errorf("Expected ErrNoInstruments, got %v", err)
		}
	})

	t.Run("updates every instrument within volatility bounds", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMarketService(t, db)

		aapl := testutil.CreateInstrument(t, db, "AAPL", 185.50)
		googl := testutil.CreateInstrument(t, db, "GOOGL", 142.30)

		// Execute
		summary, err := svc.RunSync(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("RunSync() returned unexpected error: %v", err)
		}
		if summary.UpdatedCount != 2 {
			t.Errorf("Expected 2 updated symbols, got %d", summary.UpdatedCount)
		}

		instrumentRepo := repository.NewInstrumentRepository(db)
		for _, seeded := range []model.Instrument{aapl, googl} {
			updated, err := instrumentRepo.GetInstrumentBySymbol(seeded.Symbol)
			if err != nil {
				t.Fatalf("Failed to reload %s: %v", seeded.Symbol, err)
			}

			// Volatility 0.02 bounds the relative move to 1%, plus
			// rounding slack of half a cent.
			maxMove := seeded.Price*0.01 + 0.005
			if math.Abs(updated.Price-seeded.Price) > maxMove {
				t.Errorf("%s price %v moved more than %v from %v",
					seeded.Symbol, updated.Price, maxMove, seeded.Price)
			}
			if math.Abs(updated.ChangePercent) > 1.01 {
				t.Errorf("%s changePercent %v outside volatility bounds", seeded.Symbol, updated.ChangePercent)
			}
			if updated.Volume < 10_000_000 || updated.Volume >= 110_000_000 {
				t.Errorf("%s volume %d outside expected range", seeded.Symbol, updated.Volume)
			}
		}
	})

	t.Run("recomputes holdings and portfolio totals consistently", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMarketService(t, db)

		testutil.CreateInstrument(t, db, "AAPL", 185.50)
		portfolio := testutil.NewPortfolio().WithTotalValue(1500).Build(t, db)
		holding := testutil.CreateHolding(t, db, portfolio.ID, "AAPL", 10, 150)

		// Execute
		if _, err := svc.RunSync(context.Background()); err != nil {
			t.Fatalf("RunSync() returned unexpected error: %v", err)
		}

		// Assert
		instrument, err := repository.NewInstrumentRepository(db).GetInstrumentBySymbol("AAPL")
		if err != nil {
			t.Fatalf("Failed to reload instrument: %v", err)
		}

		holdings, err := repository.NewHoldingRepository(db).GetHoldingsByPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("Failed to reload holdings: %v", err)
		}
		if len(holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(holdings))
		}

		got := holdings[0]
		if got.CurrentPrice != instrument.Price {
			t.Errorf("Holding currentPrice %v does not match instrument price %v", got.CurrentPrice, instrument.Price)
		}
		wantValue := holding.Quantity * instrument.Price
		if math.Abs(got.MarketValue-wantValue) > 1e-9 {
			t.Errorf("Expected marketValue %v, got %v", wantValue, got.MarketValue)
		}
		wantPnl := wantValue - holding.Quantity*holding.AverageCost
		if math.Abs(got.UnrealizedPnl-wantPnl) > 1e-9 {
			t.Errorf("Expected unrealizedPnl %v, got %v", wantPnl, got.UnrealizedPnl)
		}

		reloaded, err := repository.NewPortfolioRepository(db).GetPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("Failed to reload portfolio: %v", err)
		}
		if math.Abs(reloaded.TotalValue-wantValue) > 1e-9 {
			t.Errorf("Expected portfolio total %v, got %v", wantValue, reloaded.TotalValue)
		}
		wantChange := wantValue - portfolio.TotalValue
		if math.Abs(reloaded.DailyChange-wantChange) > 1e-9 {
			t.Errorf("Expected dailyChange %v, got %v", wantChange, reloaded.DailyChange)
		}
		wantPercent := wantChange / portfolio.TotalValue * 100
		if math.Abs(reloaded.DailyChangePercent-wantPercent) > 1e-9 {
			t.Errorf("Expected dailyChangePercent %v, got %v", wantPercent, reloaded.DailyChangePercent)
		}
	})

	t.Run("keeps stored valuation for holdings without market data", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMarketService(t, db)

		testutil.CreateInstrument(t, db, "AAPL", 185.50)
		portfolio := testutil.CreatePortfolio(t, db, "Mixed Portfolio")
		tracked := testutil.CreateHolding(t, db, portfolio.ID, "AAPL", 10, 150)
		untracked := testutil.NewHolding(portfolio.ID).
			WithSymbol("DELISTED").
			WithQuantity(5).
			WithAverageCost(80).
			WithMarketValue(500).
			Build(t, db)

		// Execute
		if _, err := svc.RunSync(context.Background()); err != nil {
			t.Fatalf("RunSync() returned unexpected error: %v", err)
		}

		// Assert
		holdings, err := repository.NewHoldingRepository(db).GetHoldingsByPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("Failed to reload holdings: %v", err)
		}

		var trackedValue, untrackedValue float64
		for _, h := range holdings {
			switch h.ID {
			case tracked.ID:
				trackedValue = h.MarketValue
			case untracked.ID:
				untrackedValue = h.MarketValue
				if h.CurrentPrice != 0 {
					t.Errorf("Untracked holding should be untouched, got currentPrice %v", h.CurrentPrice)
				}
			}
		}

		if untrackedValue != 500 {
			t.Errorf("Expected untracked holding to keep marketValue 500, got %v", untrackedValue)
		}

		// Portfolio total still counts the stale holding.
		reloaded, err := repository.NewPortfolioRepository(db).GetPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("Failed to reload portfolio: %v", err)
		}
		want := trackedValue + untrackedValue
		if math.Abs(reloaded.TotalValue-want) > 1e-9 {
			t.Errorf("Expected portfolio total %v, got %v", want, reloaded.TotalValue)
		}
	})

	t.Run("writes zero totals for a portfolio without holdings", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMarketService(t, db)

		testutil.CreateInstrument(t, db, "AAPL", 185.50)
		portfolio := testutil.NewPortfolio().WithTotalValue(1000).Build(t, db)

		// Execute
		if _, err := svc.RunSync(context.Background()); err != nil {
			t.Fatalf("RunSync() returned unexpected error: %v", err)
		}

		// Assert
		reloaded, err := repository.NewPortfolioRepository(db).GetPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("Failed to reload portfolio: %v", err)
		}
		if reloaded.TotalValue != 0 {
			t.Errorf("Expected zero total, got %v", reloaded.TotalValue)
		}
		if reloaded.DailyChange != -1000 {
			t.Errorf("Expected dailyChange -1000, got %v", reloaded.DailyChange)
		}
	})

	t.Run("overlapping passes serialize and leave a consistent state", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMarketService(t, db)

		testutil.CreateInstrument(t, db, "AAPL", 185.50)
		portfolio := testutil.CreatePortfolio(t, db, "Contended Portfolio")
		holding := testutil.CreateHolding(t, db, portfolio.ID, "AAPL", 10, 150)

		// Execute: the cron schedule and the HTTP trigger share one service,
		// so two passes may be requested at once. Run under -race this also
		// catches unguarded simulator access.
		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := range errs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = svc.RunSync(context.Background())
			}()
		}
		wg.Wait()

		// Assert
		for i, err := range errs {
			if err != nil {
				t.Fatalf("Pass %d returned unexpected error: %v", i+1, err)
			}
		}

		// Whichever pass ran last recomputed the holding and the portfolio
		// against its own prices, so the stored rows must agree.
		instrument, err := repository.NewInstrumentRepository(db).GetInstrumentBySymbol("AAPL")
		if err != nil {
			t.Fatalf("Failed to reload instrument: %v", err)
		}
		holdings, err := repository.NewHoldingRepository(db).GetHoldingsByPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("Failed to reload holdings: %v", err)
		}
		if len(holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(holdings))
		}
		if holdings[0].CurrentPrice != instrument.Price {
			t.Errorf("Holding currentPrice %v diverged from instrument price %v",
				holdings[0].CurrentPrice, instrument.Price)
		}
		reloaded, err := repository.NewPortfolioRepository(db).GetPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("Failed to reload portfolio: %v", err)
		}
		wantTotal := holding.Quantity * instrument.Price
		if math.Abs(reloaded.TotalValue-wantTotal) > 1e-9 {
			t.Errorf("Expected portfolio total %v, got %v", wantTotal, reloaded.TotalValue)
		}
	})

	t.Run("reports zero change percent when previous total was zero", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMarketService(t, db)

		testutil.CreateInstrument(t, db, "AAPL", 185.50)
		portfolio := testutil.CreatePortfolio(t, db, "Fresh Portfolio")
		testutil.CreateHolding(t, db, portfolio.ID, "AAPL", 10, 150)

		// Execute
		if _, err := svc.RunSync(context.Background()); err != nil {
			t.Fatalf("RunSync() returned unexpected error: %v", err)
		}

		// Assert
		reloaded, err := repository.NewPortfolioRepository(db).GetPortfolio(portfolio.ID)
		if err != nil {
			t.Fatalf("Failed to reload portfolio: %v", err)
		}
		if reloaded.TotalValue <= 0 {
			t.Errorf("Expected positive total, got %v", reloaded.TotalValue)
		}
		if reloaded.DailyChangePercent != 0 {
			t.Errorf("Expected zero change percent on zero previous total, got %v", reloaded.DailyChangePercent)
		}
	})
}

// TestMarketService_GetPortfolioHoldings tests holding retrieval.
func TestMarketService_GetPortfolioHoldings(t *testing.T) {
	t.Run("returns ErrPortfolioNotFound for unknown portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMarketService(t, db)

		_, err := svc.GetPortfolioHoldings(testutil.MakeID())
		if !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("Expected ErrPortfolioNotFound, got %v", err)
		}
	})

	t.Run("returns holdings for existing portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestMarketService(t, db)

		portfolio := testutil.CreatePortfolio(t, db, "My Portfolio")
		testutil.CreateHolding(t, db, portfolio.ID, "AAPL", 10, 150)
		testutil.CreateHolding(t, db, portfolio.ID, "MSFT", 5, 300)

		holdings, err := svc.GetPortfolioHoldings(portfolio.ID)
		if err != nil {
			t.Fatalf("GetPortfolioHoldings() returned unexpected error: %v", err)
		}
		if len(holdings) != 2 {
			t.Errorf("Expected 2 holdings, got %d", len(holdings))
		}
	})
}

// TestRecomputeHolding tests the valuation math in isolation.
//
// WHY: The derived fields must follow exactly from quantity, cost and price,
// and recomputation must be idempotent so repeated syncs cannot drift.
func TestRecomputeHolding(t *testing.T) {
	holding := model.Holding{
		Quantity:    10,
		AverageCost: 150,
	}

	t.Run("derives valuation from price", func(t *testing.T) {
		got := service.RecomputeHolding(holding, 185.50)

		if got.MarketValue != 1855.0 {
			t.Errorf("Expected marketValue 1855, got %v", got.MarketValue)
		}
		if math.Abs(got.UnrealizedPnl-355.0) > 1e-9 {
			t.Errorf("Expected unrealizedPnl 355, got %v", got.UnrealizedPnl)
		}
		wantPercent := 355.0 / 1500.0 * 100
		if math.Abs(got.UnrealizedPnlPercent-wantPercent) > 1e-9 {
			t.Errorf("Expected unrealizedPnlPercent %v, got %v", wantPercent, got.UnrealizedPnlPercent)
		}
	})

	t.Run("is idempotent for the same price", func(t *testing.T) {
		once := service.RecomputeHolding(holding, 185.50)
		twice := service.RecomputeHolding(once, 185.50)

		if once != twice {
			t.Errorf("Recomputation not idempotent: %+v vs %+v", once, twice)
		}
	})

	t.Run("guards against zero cost basis", func(t *testing.T) {
		free := model.Holding{Quantity: 10, AverageCost: 0}
		got := service.RecomputeHolding(free, 50)

		if got.UnrealizedPnlPercent != 0 {
			t.Errorf("Expected zero pnl percent on zero cost basis, got %v", got.UnrealizedPnlPercent)
		}
		if got.UnrealizedPnl != 500 {
			t.Errorf("Expected unrealizedPnl 500, got %v", got.UnrealizedPnl)
		}
	})
}
