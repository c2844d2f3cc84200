package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Market data table: one row per tradable instrument
		CREATE TABLE market_data (
			symbol VARCHAR(10) NOT NULL PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			price FLOAT NOT NULL,
			change FLOAT NOT NULL DEFAULT 0,
			change_percent FLOAT NOT NULL DEFAULT 0,
			volume INTEGER NOT NULL DEFAULT 0,
			market_cap FLOAT NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Portfolio table
		CREATE TABLE portfolios (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			name VARCHAR(100) NOT NULL,
			total_value FLOAT NOT NULL DEFAULT 0,
			daily_change FLOAT NOT NULL DEFAULT 0,
			daily_change_percent FLOAT NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		-- Holdings table
		CREATE TABLE holdings (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			portfolio_id VARCHAR(36) NOT NULL,
			symbol VARCHAR(10) NOT NULL,
			quantity FLOAT NOT NULL,
			average_cost FLOAT NOT NULL,
			current_price FLOAT NOT NULL DEFAULT 0,
			market_value FLOAT NOT NULL DEFAULT 0,
			unrealized_pnl FLOAT NOT NULL DEFAULT 0,
			unrealized_pnl_percent FLOAT NOT NULL DEFAULT 0,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(portfolio_id) REFERENCES portfolios(id) ON DELETE CASCADE
		);

		-- Trading signals table (immutable rows, expiry is a read-time filter)
		CREATE TABLE trading_signals (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			symbol VARCHAR(10) NOT NULL,
			signal_type VARCHAR(4) NOT NULL,
			confidence FLOAT NOT NULL,
			price_target FLOAT NOT NULL,
			stop_loss FLOAT NOT NULL,
			reasoning TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			expires_at DATETIME NOT NULL
		);

		-- Fixed-window rate limit counters
		CREATE TABLE rate_limits (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			operation VARCHAR(50) NOT NULL,
			window_start DATETIME NOT NULL,
			request_count INTEGER NOT NULL DEFAULT 0,
			CONSTRAINT unique_user_operation UNIQUE (user_id, operation)
		);

		CREATE INDEX ix_holdings_portfolio_id ON holdings(portfolio_id);
		CREATE INDEX ix_holdings_symbol ON holdings(symbol);
		CREATE INDEX ix_trading_signals_user_id ON trading_signals(user_id);
		CREATE INDEX ix_trading_signals_expires_at ON trading_signals(expires_at);
	`

	_, err := db.Exec(schema)
	return err
}
