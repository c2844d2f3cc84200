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

// InstrumentRepository provides data access methods for the market_data table.
type InstrumentRepository struct {
	db *sql.DB
}

// NewInstrumentRepository creates a new InstrumentRepository with the provided database connection.
func NewInstrumentRepository(db *sql.DB) *InstrumentRepository {
	return &InstrumentRepository{db: db}
}

// GetAllInstruments retrieves every instrument from the market_data table.
// Returns an empty slice if no instruments exist.
func (r *InstrumentRepository) GetAllInstruments() ([]model.Instrument, error) {
	query := `
		SELECT symbol, name, price, change, change_percent, volume, market_cap, updated_at
		FROM market_data
		ORDER BY symbol ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query market_data table: %w", err)
	}
	defer rows.Close()

	instruments := []model.Instrument{}

	for rows.Next() {
		instrument, err := scanInstrument(rows)
		if err != nil {
			return nil, err
		}
		instruments = append(instruments, instrument)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating market_data table: %w", err)
	}

	return instruments, nil
}

// GetInstrumentBySymbol retrieves a single instrument by its symbol.
// Returns ErrInstrumentNotFound if the symbol has no market data.
func (r *InstrumentRepository) GetInstrumentBySymbol(symbol string) (model.Instrument, error) {
	query := `
		SELECT symbol, name, price, change, change_percent, volume, market_cap, updated_at
		FROM market_data
		WHERE symbol = ?
	`

	row := r.db.QueryRow(query, symbol)
	instrument, err := scanInstrument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Instrument{}, fmt.Errorf("%w: %s", apperrors.ErrInstrumentNotFound, symbol)
	}
	if err != nil {
		return model.Instrument{}, err
	}

	return instrument, nil
}

// UpdateInstrumentPrice writes a new simulated tick for a symbol.
// Returns ErrInstrumentNotFound if the symbol does not exist.
func (r *InstrumentRepository) UpdateInstrumentPrice(ctx context.Context, symbol string, price, change, changePercent float64, volume int64, updatedAt time.Time) error {
	query := `
		UPDATE market_data
		SET price = ?, change = ?, change_percent = ?, volume = ?, updated_at = ?
		WHERE symbol = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		price,
		change,
		changePercent,
		volume,
		FormatTime(updatedAt),
		symbol,
	)
	if err != nil {
		return fmt.Errorf("failed to update market_data for %s: %w", symbol, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrInstrumentNotFound, symbol)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInstrument(row rowScanner) (model.Instrument, error) {
	var i model.Instrument
	var updatedAtStr sql.NullString

	err := row.Scan(
		&i.Symbol,
		&i.Name,
		&i.Price,
		&i.Change,
		&i.ChangePercent,
		&i.Volume,
		&i.MarketCap,
		&updatedAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Instrument{}, err
	}
	if err != nil {
		return model.Instrument{}, fmt.Errorf("failed to scan market_data row: %w", err)
	}

	if updatedAtStr.Valid {
		i.UpdatedAt, err = parseStoredTime(updatedAtStr.String)
		if err != nil {
			return model.Instrument{}, err
		}
	}

	return i, nil
}

// parseStoredTime accepts both the RFC3339 values written by this service and
// the "2006-01-02 15:04:05" form SQLite produces for CURRENT_TIMESTAMP defaults.
func parseStoredTime(str string) (time.Time, error) {
	t, err := ParseTime(str)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse("2006-01-02 15:04:05", str)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
	}
	return t.UTC(), nil
}
