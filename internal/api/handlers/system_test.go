package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/finance-dashboard/internal/model"
	"github.com/ndewijer/finance-dashboard/internal/repository"
	"github.com/ndewijer/finance-dashboard/internal/service"
	"github.com/ndewijer/finance-dashboard/internal/testutil"
)

func TestSystemHandler_Health(t *testing.T) {
	t.Run("returns healthy status when database is connected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewSystemHandler(service.NewSystemService(db, service.SystemInfo{SettingsBackend: "sqlite"}))

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var response HealthResponse
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&response)

		if response.Status != "healthy" {
			t.Errorf("Expected status 'healthy', got '%s'", response.Status)
		}
		if response.Database != "connected" {
			t.Errorf("Expected database 'connected', got '%s'", response.Database)
		}
	})

	t.Run("reports no database for the file backend", func(t *testing.T) {
		handler := NewSystemHandler(testutil.NewTestSystemService(t))

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		response := testutil.DecodeJSON[HealthResponse](t, w)
		if w.Code != http.StatusOK || response.Database != "not configured" {
			t.Errorf("Expected 200 without database, got %d %+v", w.Code, response)
		}
	})

	t.Run("returns 503 when database is disconnected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewSystemHandler(service.NewSystemService(db, service.SystemInfo{SettingsBackend: "sqlite"}))

		// Close the database connection to simulate failure
		db.Close()

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected 503, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestSystemHandler_Version(t *testing.T) {
	t.Run("returns version information successfully", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := NewSystemHandler(service.NewSystemService(db, service.SystemInfo{
			SettingsBackend: "sqlite",
			PriceSource:     "yahoo",
			Intraday:        true,
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
		w := httptest.NewRecorder()

		handler.Version(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		info := testutil.DecodeJSON[model.VersionInfo](t, w)
		if info.AppVersion == "" {
			t.Error("Expected app version")
		}
		if info.DbVersion != "1" {
			t.Errorf("Expected db version 1, got %q", info.DbVersion)
		}
		if !info.Features["intraday_quotes"] || !info.Features["sqlite_settings"] {
			t.Errorf("Expected intraday and sqlite features, got %v", info.Features)
		}
	})

	t.Run("reports when settings were last saved", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewSQLiteSettingsRepository(db)
		handler := NewSystemHandler(service.NewSystemService(db, service.SystemInfo{
			SettingsBackend: "sqlite",
			SettingsSavedAt: repo,
		}))

		version := func() model.VersionInfo {
			req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
			w := httptest.NewRecorder()
			handler.Version(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
			}
			return testutil.DecodeJSON[model.VersionInfo](t, w)
		}

		if info := version(); info.SettingsUpdatedAt != nil {
			t.Errorf("Expected no timestamp before the first save, got %s", info.SettingsUpdatedAt)
		}

		if err := repo.Save(context.Background(), model.DefaultSettings()); err != nil {
			t.Fatalf("Save() returned unexpected error: %v", err)
		}

		info := version()
		if info.SettingsUpdatedAt == nil || info.SettingsUpdatedAt.IsZero() {
			t.Errorf("Expected a settings timestamp after saving, got %v", info.SettingsUpdatedAt)
		}
	})

	t.Run("returns 500 when the settings timestamp is unreadable", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		if _, err := db.Exec(`INSERT INTO settings (id, data, updated_at) VALUES (1, '{}', 'yesterday')`); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
		handler := NewSystemHandler(service.NewSystemService(db, service.SystemInfo{
			SettingsSavedAt: repository.NewSQLiteSettingsRepository(db),
		}))

		req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
		w := httptest.NewRecorder()
		handler.Version(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Errorf("Expected 500, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("omits db version without a database", func(t *testing.T) {
		handler := NewSystemHandler(testutil.NewTestSystemService(t))

		req := httptest.NewRequest(http.MethodGet, "/api/system/version", nil)
		w := httptest.NewRecorder()

		handler.Version(w, req)

		info := testutil.DecodeJSON[model.VersionInfo](t, w)
		if info.DbVersion != "" || info.SettingsBackend != "file" {
			t.Errorf("Unexpected version info: %+v", info)
		}
	})
}
