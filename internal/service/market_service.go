package service

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quantpulse/Trading-Signals-Backend/internal/apperrors"
	"github.com/quantpulse/Trading-Signals-Backend/internal/model"
	"github.com/quantpulse/Trading-Signals-Backend/internal/quote"
	"github.com/quantpulse/Trading-Signals-Backend/internal/repository"
)

// maxConcurrentPortfolios bounds the per-portfolio fan-out of a sync pass.
const maxConcurrentPortfolios = 4

// MarketService orchestrates the market synchronization pass:
// simulated price update -> holding recomputation -> portfolio aggregation.
type MarketService struct {
	instrumentRepo *repository.InstrumentRepository
	holdingRepo    *repository.HoldingRepository
	portfolioRepo  *repository.PortfolioRepository
	simulator      *quote.Simulator

	// syncMu serializes overlapping passes: the cron schedule and the HTTP
	// trigger share this service, and each record must have a single writer.
	syncMu sync.Mutex
}

// NewMarketService creates a new MarketService with the provided dependencies.
func NewMarketService(
	instrumentRepo *repository.InstrumentRepository,
	holdingRepo *repository.HoldingRepository,
	portfolioRepo *repository.PortfolioRepository,
	simulator *quote.Simulator,
) *MarketService {
	return &MarketService{
		instrumentRepo: instrumentRepo,
		holdingRepo:    holdingRepo,
		portfolioRepo:  portfolioRepo,
		simulator:      simulator,
	}
}

// GetAllInstruments retrieves current market data for all instruments.
func (s *MarketService) GetAllInstruments() ([]model.Instrument, error) {
	return s.instrumentRepo.GetAllInstruments()
}

// GetInstrument retrieves current market data for one symbol.
func (s *MarketService) GetInstrument(symbol string) (model.Instrument, error) {
	return s.instrumentRepo.GetInstrumentBySymbol(symbol)
}

// GetAllPortfolios retrieves all portfolios with their current aggregates.
func (s *MarketService) GetAllPortfolios() ([]model.Portfolio, error) {
	return s.portfolioRepo.GetAllPortfolios()
}

// GetPortfolioHoldings retrieves the holdings of one portfolio.
// Returns ErrPortfolioNotFound when the portfolio does not exist.
func (s *MarketService) GetPortfolioHoldings(portfolioID string) ([]model.Holding, error) {
	if _, err := s.portfolioRepo.GetPortfolio(portfolioID); err != nil {
		return nil, err
	}
	return s.holdingRepo.GetHoldingsByPortfolio(portfolioID)
}

// RunSync performs one full synchronization pass: every instrument gets a new
// simulated price, then holdings and portfolio totals are recomputed to stay
// consistent with the latest prices.
//
// The pass is best-effort: a persistence failure on one instrument, holding or
// portfolio is logged and does not abort the remaining work. Different
// portfolios are processed concurrently; each individual record is only ever
// written by one goroutine. Overlapping passes are serialized, so a manual
// trigger that lands during a scheduled pass waits for it to finish.
func (s *MarketService) RunSync(ctx context.Context) (model.SyncSummary, error) {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	instruments, err := s.instrumentRepo.GetAllInstruments()
	if err != nil {
		return model.SyncSummary{}, err
	}
	if len(instruments) == 0 {
		return model.SyncSummary{}, apperrors.ErrNoInstruments
	}

	now := time.Now().UTC()

	// Phase 1: simulate and persist new prices.
	updatedPrices := make(map[string]float64, len(instruments))
	updatedCount := 0

	for _, instrument := range instruments {
		tick := s.simulator.Next(instrument.Price)

		err := s.instrumentRepo.UpdateInstrumentPrice(ctx,
			instrument.Symbol, tick.Price, tick.Change, tick.ChangePercent, tick.Volume, now)
		if err != nil {
			log.Printf("Error updating %s: %v", instrument.Symbol, err)
			continue
		}

		updatedPrices[instrument.Symbol] = tick.Price
		updatedCount++
	}

	// Phase 2: cascade into holdings and portfolio totals.
	portfolios, err := s.portfolioRepo.GetAllPortfolios()
	if err != nil {
		return model.SyncSummary{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentPortfolios)

	for _, portfolio := range portfolios {
		g.Go(func() error {
			s.syncPortfolio(gctx, portfolio, updatedPrices, now)
			return nil
		})
	}

	// Workers log their own failures and never return an error.
	_ = g.Wait()

	log.Printf("Successfully updated %d symbols", updatedCount)

	return model.SyncSummary{
		UpdatedCount: updatedCount,
		Timestamp:    now,
	}, nil
}

// syncPortfolio recomputes one portfolio's holdings against the freshly
// updated prices and writes the aggregated totals. Holdings whose symbol was
// not updated this pass keep their stored valuation but still count toward the
// portfolio total. A portfolio with zero holdings is still written with a zero
// total, distinguishing "no holdings" from "not yet synchronized".
func (s *MarketService) syncPortfolio(ctx context.Context, portfolio model.Portfolio, updatedPrices map[string]float64, now time.Time) {
	holdings, err := s.holdingRepo.GetHoldingsByPortfolio(portfolio.ID)
	if err != nil {
		log.Printf("Error loading holdings for portfolio %s: %v", portfolio.ID, err)
		return
	}

	totalValue := 0.0

	for _, holding := range holdings {
		price, ok := updatedPrices[holding.Symbol]
		if !ok {
			// Partial price-feed coverage: leave the holding untouched.
			totalValue += holding.MarketValue
			continue
		}

		recomputed := RecomputeHolding(holding, price)
		totalValue += recomputed.MarketValue

		if err := s.holdingRepo.UpdateHoldingValuation(ctx, recomputed, now); err != nil {
			log.Printf("Error updating holding %s: %v", holding.ID, err)
		}
	}

	// Previous total read before mutation drives the daily delta.
	dailyChange := totalValue - portfolio.TotalValue
	dailyChangePercent := 0.0
	if portfolio.TotalValue > 0 {
		dailyChangePercent = dailyChange / portfolio.TotalValue * 100
	}

	err = s.portfolioRepo.UpdatePortfolioTotals(ctx,
		portfolio.ID, totalValue, dailyChange, dailyChangePercent, now)
	if err != nil {
		log.Printf("Error updating portfolio %s: %v", portfolio.ID, err)
	}
}

// RecomputeHolding derives a holding's valuation from an updated price.
// Pure function of its inputs: recomputing twice with the same price yields
// identical output.
func RecomputeHolding(holding model.Holding, price float64) model.Holding {
	holding.CurrentPrice = price
	holding.MarketValue = holding.Quantity * price
	holding.UnrealizedPnl = holding.MarketValue - holding.Quantity*holding.AverageCost

	costBasis := holding.Quantity * holding.AverageCost
	if costBasis != 0 {
		holding.UnrealizedPnlPercent = holding.UnrealizedPnl / costBasis * 100
	}

	return holding
}
