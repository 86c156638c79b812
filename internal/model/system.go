package model

import "time"

// VersionInfo contains version and feature information for the application.
type VersionInfo struct {
	AppVersion        string          `json:"app_version"`
	DbVersion         string          `json:"db_version,omitempty"` // empty when settings are not stored in SQLite
	SettingsBackend   string          `json:"settings_backend"`
	PriceSource       string          `json:"price_source"`
	SettingsUpdatedAt *time.Time      `json:"settings_updated_at,omitempty"` // nil until settings are first saved
	Features          map[string]bool `json:"features"`
}
