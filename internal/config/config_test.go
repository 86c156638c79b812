package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ndewijer/finance-dashboard/internal/apperrors"
	"github.com/ndewijer/finance-dashboard/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("uses defaults without a config file", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := config.Load("")
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}

		if cfg.Server.Addr != "localhost:5001" {
			t.Errorf("Expected addr localhost:5001, got %s", cfg.Server.Addr)
		}
		if cfg.Quotes.CacheTTL != 300*time.Second {
			t.Errorf("Expected cache TTL 300s, got %s", cfg.Quotes.CacheTTL)
		}
		if cfg.Rate.FallbackRate != 32.5 {
			t.Errorf("Expected fallback rate 32.5, got %v", cfg.Rate.FallbackRate)
		}
		if cfg.Settings.Backend != "file" {
			t.Errorf("Expected file settings backend, got %s", cfg.Settings.Backend)
		}
	})

	t.Run("legacy environment variables override defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("SERVER_PORT", "8088")

		cfg, err := config.Load("")
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if cfg.Server.Port != "8088" {
			t.Errorf("Expected port 8088, got %s", cfg.Server.Port)
		}
	})

	t.Run("reads values from a yaml file", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		path := filepath.Join(dir, "dashboard.yaml")
		content := "quotes:\n  source: financego\n  intraday: false\nrate:\n  fallback_rate: 31\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write config: %v", err)
		}

		cfg, err := config.Load(path)
		if err != nil {
			t.Fatalf("Load() returned unexpected error: %v", err)
		}
		if cfg.Quotes.Source != "financego" {
			t.Errorf("Expected financego source, got %s", cfg.Quotes.Source)
		}
		if cfg.Quotes.Intraday {
			t.Error("Expected intraday to be disabled")
		}
		if cfg.Rate.FallbackRate != 31 {
			t.Errorf("Expected fallback rate 31, got %v", cfg.Rate.FallbackRate)
		}
	})

	t.Run("rejects unknown crypto cost currency", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("DASHBOARD_CRYPTO_COST_CURRENCY", "EUR")

		_, err := config.Load("")
		if !errors.Is(err, apperrors.ErrInvalidCostCurrency) {
			t.Errorf("Expected ErrInvalidCostCurrency, got %v", err)
		}
	})
}
