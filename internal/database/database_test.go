package database_test

import (
	"path/filepath"
	"testing"

	"github.com/ndewijer/finance-dashboard/internal/database"
)

func TestOpen(t *testing.T) {
	t.Run("in-memory database is migrated", func(t *testing.T) {
		db, err := database.Open(":memory:")
		if err != nil {
			t.Fatalf("Open() returned unexpected error: %v", err)
		}
		defer db.Close()

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM settings`).Scan(&count); err != nil {
			t.Fatalf("settings table missing: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected empty settings table, got %d rows", count)
		}

		version, err := database.SchemaVersion(db)
		if err != nil {
			t.Fatalf("SchemaVersion() returned unexpected error: %v", err)
		}
		if version != 1 {
			t.Errorf("Expected schema version 1, got %d", version)
		}

		if err := database.HealthCheck(db); err != nil {
			t.Errorf("HealthCheck() returned unexpected error: %v", err)
		}
	})

	t.Run("creates the parent directory and reopens", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dashboard.db")

		db, err := database.Open(path)
		if err != nil {
			t.Fatalf("Open() returned unexpected error: %v", err)
		}
		if _, err := db.Exec(`INSERT INTO settings (id, data, updated_at) VALUES (1, '{}', '2026-10-15T06:00:00Z')`); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		db.Close()

		db, err = database.Open(path)
		if err != nil {
			t.Fatalf("second Open() returned unexpected error: %v", err)
		}
		defer db.Close()

		var data string
		if err := db.QueryRow(`SELECT data FROM settings WHERE id = 1`).Scan(&data); err != nil {
			t.Fatalf("select failed: %v", err)
		}
		if data != "{}" {
			t.Errorf("Expected stored row to survive reopen, got %q", data)
		}
	})

	t.Run("settings table holds a single row", func(t *testing.T) {
		db, err := database.Open(":memory:")
		if err != nil {
			t.Fatalf("Open() returned unexpected error: %v", err)
		}
		defer db.Close()

		_, err = db.Exec(`INSERT INTO settings (id, data, updated_at) VALUES (2, '{}', '2026-10-15T06:00:00Z')`)
		if err == nil {
			t.Error("Expected the id check constraint to reject a second row")
		}
	})
}
