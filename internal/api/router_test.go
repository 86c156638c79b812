package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ndewijer/finance-dashboard/internal/api"
	"github.com/ndewijer/finance-dashboard/internal/config"
	"github.com/ndewijer/finance-dashboard/internal/logging"
	"github.com/ndewijer/finance-dashboard/internal/testutil"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	settings := testutil.SmallSettings()
	settingsService := testutil.NewTestSettingsService(t, testutil.NewMemorySettingsStore(&settings))

	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}}
	return api.NewRouter(api.Services{
		Dashboard: testutil.NewTestDashboardService(t, testutil.SmallSettingsSource(), settingsService),
		Settings:  settingsService,
		System:    testutil.NewTestSystemService(t),
	}, cfg, time.UTC, logging.Discard())
}

func TestNewRouter(t *testing.T) {
	router := setupRouter(t)

	routes := []struct {
		method      string
		path        string
		status      int
		contentType string
	}{
		{http.MethodGet, "/", http.StatusOK, "text/html"},
		{http.MethodGet, "/api/dashboard", http.StatusOK, "application/json"},
		{http.MethodGet, "/api/dashboard/positions.csv", http.StatusOK, "text/csv"},
		{http.MethodGet, "/api/settings", http.StatusOK, "application/json"},
		{http.MethodGet, "/api/system/health", http.StatusOK, "application/json"},
		{http.MethodGet, "/api/system/version", http.StatusOK, "application/json"},
		{http.MethodGet, "/api/unknown", http.StatusNotFound, ""},
		{http.MethodDelete, "/api/settings", http.StatusMethodNotAllowed, ""},
	}

	for _, tc := range routes {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tc.status {
				t.Errorf("Expected %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
			if tc.contentType != "" && !strings.HasPrefix(w.Header().Get("Content-Type"), tc.contentType) {
				t.Errorf("Expected %s, got %s", tc.contentType, w.Header().Get("Content-Type"))
			}
		})
	}

	t.Run("PUT settings requires JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/settings", strings.NewReader("bank_twd=1"))
		req.Header.Set("Content-Type", "text/plain")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnsupportedMediaType {
			t.Errorf("Expected 415, got %d", w.Code)
		}
	})

	t.Run("PUT settings with JSON is accepted", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPut, "/api/settings", testutil.SmallSettings())
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("answers CORS preflight for allowed origins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/settings", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", http.MethodPut)
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Expected allowed origin header, got %q", got)
		}
	})
}
