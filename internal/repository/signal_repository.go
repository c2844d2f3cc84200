package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/quantpulse/Trading-Signals-Backend/internal/model"
)

// SignalRepository provides data access methods for the trading_signals table.
// Signal rows are write-once; there is no update path.
type SignalRepository struct {
	db *sql.DB
}

// NewSignalRepository creates a new SignalRepository with the provided database connection.
func NewSignalRepository(db *sql.DB) *SignalRepository {
	return &SignalRepository{db: db}
}

// InsertSignal persists a newly generated trading signal.
func (r *SignalRepository) InsertSignal(ctx context.Context, s model.TradingSignal) error {
	query := `
		INSERT INTO trading_signals
			(id, user_id, symbol, signal_type, confidence, price_target,
			 stop_loss, reasoning, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.UserID,
		s.Symbol,
		s.SignalType,
		s.Confidence,
		s.PriceTarget,
		s.StopLoss,
		s.Reasoning,
		FormatTime(s.CreatedAt),
		FormatTime(s.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trading signal: %w", err)
	}

	return nil
}

// GetActiveSignalsByUser retrieves the newest unexpired signals for a user.
// Expiry is evaluated at read time against the provided now; expired rows
// are never deleted, only filtered.
func (r *SignalRepository) GetActiveSignalsByUser(userID string, now time.Time, limit int) ([]model.TradingSignal, error) {
	query := `
		SELECT id, user_id, symbol, signal_type, confidence, price_target,
		       stop_loss, reasoning, created_at, expires_at
		FROM trading_signals
		WHERE user_id = ? AND expires_at > ?
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, userID, FormatTime(now), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trading_signals table: %w", err)
	}
	defer rows.Close()

	signals := []model.TradingSignal{}

	for rows.Next() {
		var s model.TradingSignal
		var createdAtStr, expiresAtStr sql.NullString

		err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.Symbol,
			&s.SignalType,
			&s.Confidence,
			&s.PriceTarget,
			&s.StopLoss,
			&s.Reasoning,
			&createdAtStr,
			&expiresAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trading_signals table results: %w", err)
		}

		if createdAtStr.Valid {
			s.CreatedAt, err = parseStoredTime(createdAtStr.String)
			if err != nil {
				return nil, err
			}
		}
		if expiresAtStr.Valid {
			s.ExpiresAt, err = parseStoredTime(expiresAtStr.String)
			if err != nil {
				return nil, err
			}
		}

		signals = append(signals, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trading_signals table: %w", err)
	}

	return signals, nil
}
