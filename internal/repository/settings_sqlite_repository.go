package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/finance-dashboard/internal/apperrors"
	"github.com/ndewijer/finance-dashboard/internal/model"
)

// SQLiteSettingsRepository stores settings as a single JSON row in the settings table.
type SQLiteSettingsRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteSettingsRepository creates a repository on an already migrated database.
func NewSQLiteSettingsRepository(db *sql.DB) *SQLiteSettingsRepository {
	return &SQLiteSettingsRepository{db: db, now: time.Now}
}

// Load reads the stored settings row.
// Returns apperrors.ErrSettingsNotFound when nothing has been saved yet.
func (r *SQLiteSettingsRepository) Load(ctx context.Context) (model.Settings, error) {
	var data string
	err := r.db.QueryRowContext(ctx, `SELECT data FROM settings WHERE id = 1`).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Settings{}, apperrors.ErrSettingsNotFound
		}
		return model.Settings{}, fmt.Errorf("failed to query settings table: %w", err)
	}
	return DecodeSettings([]byte(data))
}

// Save replaces the stored settings row.
func (r *SQLiteSettingsRepository) Save(ctx context.Context, settings model.Settings) error {
	data, err := EncodeSettings(settings)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO settings (id, data, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, string(data), r.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToSaveSettings, err)
	}
	return nil
}

// UpdatedAt returns when the settings row was last written.
func (r *SQLiteSettingsRepository) UpdatedAt(ctx context.Context) (time.Time, error) {
	var updatedAt string
	err := r.db.QueryRowContext(ctx, `SELECT updated_at FROM settings WHERE id = 1`).Scan(&updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, apperrors.ErrSettingsNotFound
		}
		return time.Time{}, fmt.Errorf("failed to query settings table: %w", err)
	}
	return parseSavedAt(updatedAt)
}

// parseSavedAt accepts the RFC3339 stamps written by Save and bare dates from rows
// edited by hand.
func parseSavedAt(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t, err = time.Parse(time.DateOnly, value)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse settings timestamp %q: %w", value, err)
		}
	}
	return t.UTC(), nil
}
