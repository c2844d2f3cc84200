package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/quantpulse/Trading-Signals-Backend/internal/model"
)

// HoldingRepository provides data access methods for the holdings table.
type HoldingRepository struct {
	db *sql.DB
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// GetHoldingsByPortfolio retrieves all holdings belonging to one portfolio.
// Returns an empty slice if the portfolio has no holdings.
func (r *HoldingRepository) GetHoldingsByPortfolio(portfolioID string) ([]model.Holding, error) {
	query := `
		SELECT id, portfolio_id, symbol, quantity, average_cost, current_price,
		       market_value, unrealized_pnl, unrealized_pnl_percent, updated_at
		FROM holdings
		WHERE portfolio_id = ?
		ORDER BY symbol ASC
	`

	rows, err := r.db.Query(query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}

	for rows.Next() {
		var h model.Holding
		var updatedAtStr sql.NullString

		err := rows.Scan(
			&h.ID,
			&h.PortfolioID,
			&h.Symbol,
			&h.Quantity,
			&h.AverageCost,
			&h.CurrentPrice,
			&h.MarketValue,
			&h.UnrealizedPnl,
			&h.UnrealizedPnlPercent,
			&updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holdings table results: %w", err)
		}

		if updatedAtStr.Valid {
			h.UpdatedAt, err = parseStoredTime(updatedAtStr.String)
			if err != nil {
				return nil, err
			}
		}

		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings table: %w", err)
	}

	return holdings, nil
}

// UpdateHoldingValuation writes the recomputed valuation fields of one holding.
func (r *HoldingRepository) UpdateHoldingValuation(ctx context.Context, h model.Holding, updatedAt time.Time) error {
	query := `
		UPDATE holdings
		SET current_price = ?, market_value = ?, unrealized_pnl = ?,
		    unrealized_pnl_percent = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		h.CurrentPrice,
		h.MarketValue,
		h.UnrealizedPnl,
		h.UnrealizedPnlPercent,
		FormatTime(updatedAt),
		h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding %s: %w", h.ID, err)
	}

	return nil
}
