package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/ndewijer/finance-dashboard/internal/apperrors"
	"github.com/ndewijer/finance-dashboard/internal/database"
	"github.com/ndewijer/finance-dashboard/internal/model"
	"github.com/ndewijer/finance-dashboard/internal/version"
)

// SettingsTimestamp reports when settings were last persisted. Both settings
// repositories implement it.
type SettingsTimestamp interface {
	UpdatedAt(ctx context.Context) (time.Time, error)
}

// SystemInfo describes how the running process is configured.
type SystemInfo struct {
	SettingsBackend string
	PriceSource     string
	Intraday        bool
	CryptoCostInUSD bool
	SettingsSavedAt SettingsTimestamp // optional
}

// SystemService handles system-related operations
type SystemService struct {
	db   *sql.DB // nil unless settings are stored in SQLite
	info SystemInfo
}

// NewSystemService creates a new SystemService. db may be nil.
func NewSystemService(db *sql.DB, info SystemInfo) *SystemService {
	return &SystemService{
		db:   db,
		info: info,
	}
}

// CheckHealth checks the health of the system. Without a database there is nothing
// to check.
func (s *SystemService) CheckHealth(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}

// UsesDatabase reports whether a database is configured.
func (s *SystemService) UsesDatabase() bool {
	return s.db != nil
}

// CheckVersion reports the application version, the schema version when a database
// is in use, when settings were last saved, and which optional features are enabled.
func (s *SystemService) CheckVersion(ctx context.Context) (model.VersionInfo, error) {
	info := model.VersionInfo{
		AppVersion:      version.Version,
		SettingsBackend: s.info.SettingsBackend,
		PriceSource:     s.info.PriceSource,
		Features: map[string]bool{
			"intraday_quotes":    s.info.Intraday,
			"sqlite_settings":    s.db != nil,
			"crypto_cost_in_usd": s.info.CryptoCostInUSD,
			"approx_return_rate": true,
		},
	}

	if s.db != nil {
		v, err := database.SchemaVersion(s.db)
		if err != nil {
			return model.VersionInfo{}, err
		}
		info.DbVersion = strconv.FormatInt(v, 10)
	}

	if s.info.SettingsSavedAt != nil {
		savedAt, err := s.info.SettingsSavedAt.UpdatedAt(ctx)
		switch {
		case errors.Is(err, apperrors.ErrSettingsNotFound):
		case err != nil:
			return model.VersionInfo{}, err
		default:
			info.SettingsUpdatedAt = &savedAt
		}
	}

	return info, nil
}
