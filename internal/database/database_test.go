package database_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/quantpulse/Trading-Signals-Backend/internal/database"
)

// TestOpen tests the connection setup.
//
// WHY: sync passes and signal requests hit the database concurrently; without
// WAL mode and a busy timeout a writer collision surfaces as SQLITE_BUSY
// instead of a short wait.
func TestOpen(t *testing.T) {
	t.Run("applies the connection pragmas", func(t *testing.T) {
		db, err := database.Open(filepath.Join(t.TempDir(), "market.db"))
		if err != nil {
			t.Fatalf("Open() returned unexpected error: %v", err)
		}
		defer db.Close()

		var journalMode string
		if err := db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
			t.Fatalf("querying journal_mode failed: %v", err)
		}
		if !strings.EqualFold(journalMode, "wal") {
			t.Errorf("Expected journal_mode wal, got %q", journalMode)
		}

		var busyTimeout int
		if err := db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout); err != nil {
			t.Fatalf("querying busy_timeout failed: %v", err)
		}
		if busyTimeout != 5000 {
			t.Errorf("Expected busy_timeout 5000, got %d", busyTimeout)
		}

		var foreignKeys int
		if err := db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys); err != nil {
			t.Fatalf("querying foreign_keys failed: %v", err)
		}
		if foreignKeys != 1 {
			t.Errorf("Expected foreign_keys enabled, got %d", foreignKeys)
		}
	})

	t.Run("health check passes on an open connection", func(t *testing.T) {
		db, err := database.Open(filepath.Join(t.TempDir(), "market.db"))
		if err != nil {
			t.Fatalf("Open() returned unexpected error: %v", err)
		}
		defer db.Close()

		if err := database.HealthCheck(db); err != nil {
			t.Errorf("HealthCheck() returned unexpected error: %v", err)
		}
	})
}
