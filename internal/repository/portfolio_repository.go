package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/quantpulse/Trading-Signals-Backend/internal/apperrors"
	"github.com/quantpulse/Trading-Signals-Backend/internal/model"
)

// PortfolioRepository provides data access methods for the portfolios table.
type PortfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// GetAllPortfolios retrieves all portfolios.
// Returns an empty slice if no portfolios exist.
func (r *PortfolioRepository) GetAllPortfolios() ([]model.Portfolio, error) {
	query := `
		SELECT id, user_id, name, total_value, daily_change, daily_change_percent, updated_at
		FROM portfolios
		ORDER BY name ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}

	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolios table: %w", err)
	}

	return portfolios, nil
}

// GetPortfolio retrieves one portfolio by ID.
// Returns ErrPortfolioNotFound if no such portfolio exists.
func (r *PortfolioRepository) GetPortfolio(portfolioID string) (model.Portfolio, error) {
	query := `
		SELECT id, user_id, name, total_value, daily_change, daily_change_percent, updated_at
		FROM portfolios
		WHERE id = ?
	`

	p, err := scanPortfolio(r.db.QueryRow(query, portfolioID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, err
	}

	return p, nil
}

// UpdatePortfolioTotals writes the aggregated valuation of one portfolio.
func (r *PortfolioRepository) UpdatePortfolioTotals(ctx context.Context, portfolioID string, totalValue, dailyChange, dailyChangePercent float64, updatedAt time.Time) error {
	query := `
		UPDATE portfolios
		SET total_value = ?, daily_change = ?, daily_change_percent = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.db.ExecContext(ctx, query,
		totalValue,
		dailyChange,
		dailyChangePercent,
		FormatTime(updatedAt),
		portfolioID,
	)
	if err != nil {
		return fmt.Errorf("failed to update portfolio %s: %w", portfolioID, err)
	}

	return nil
}

func scanPortfolio(row rowScanner) (model.Portfolio, error) {
	var p model.Portfolio
	var updatedAtStr sql.NullString

	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.TotalValue,
		&p.DailyChange,
		&p.DailyChangePercent,
		&updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, err
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to scan portfolios row: %w", err)
	}

	if updatedAtStr.Valid {
		p.UpdatedAt, err = parseStoredTime(updatedAtStr.String)
		if err != nil {
			return model.Portfolio{}, err
		}
	}

	return p, nil
}
