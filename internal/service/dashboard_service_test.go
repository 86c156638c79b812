package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/finance-dashboard/internal/apperrors"
	"github.com/ndewijer/finance-dashboard/internal/logging"
	"github.com/ndewijer/finance-dashboard/internal/model"
	"github.com/ndewijer/finance-dashboard/internal/service"
	"github.com/ndewijer/finance-dashboard/internal/testutil"
)

func dashboardSettings() model.Settings {
	return model.Settings{
		Balances: model.Balances{BankTWD: 1000, BankUSD: 10, RealizedForeign: 5},
		DomesticHoldings: []model.Holding{
			{Symbol: "2330.TW", Shares: 100, Cost: 100},
		},
		ForeignHoldings: []model.Holding{
			{Symbol: "AVGO", Shares: 10, Cost: 50},
			{Symbol: "BOGUS", Shares: 1, Cost: 1},
		},
	}
}

func newDashboardService(t *testing.T, source *testutil.MockPriceSource, store *testutil.MemorySettingsStore) *service.DashboardService {
	t.Helper()
	ctx := context.Background()
	settings := service.NewSettingsService(ctx, store, logging.Discard())
	return service.NewDashboardService(newQuoteService(source, false), settings, service.DashboardOptions{
		Pair: usdTwd,
		Now:  testutil.FixedClock(now),
	}, logging.Discard())
}

func TestDashboardService_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("values resolved positions and reports failures", func(t *testing.T) {
		source := testutil.NewMockPriceSource().
			WithDaily("2330.TW", testutil.Point(day(14), 105), testutil.Point(day(15), 110)).
			WithDaily("AVGO", testutil.Point(day(13), 55), testutil.Point(day(14), 55)).
			WithError("BOGUS", apperrors.ErrSymbolNotFound).
			WithDaily("TWD=X", testutil.Point(day(15), 32))
		initial := dashboardSettings()
		svc := newDashboardService(t, source, testutil.NewMemorySettingsStore(&initial))

		snap, err := svc.Refresh(ctx, dashboardSettings())

		if err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}
		if len(snap.Positions) != 2 {
			t.Fatalf("Expected 2 valued positions, got %d", len(snap.Positions))
		}
		if len(snap.Failures) != 1 || snap.Failures[0].Symbol != "BOGUS" {
			t.Errorf("Expected BOGUS failure, got %+v", snap.Failures)
		}
		assertDecimal(t, "position value", snap.TotalPositionValue, "28600")
		assertDecimal(t, "cash", snap.TotalCash, "1320")
		assertDecimal(t, "total assets", snap.TotalAssets, "29920")
		assertDecimal(t, "today change", snap.TotalTodayChange, "500")
		assertDecimal(t, "realized", snap.TotalRealizedPnL, "160")
		if snap.ID == "" || !snap.GeneratedAt.Equal(now) {
			t.Errorf("Expected snapshot id and timestamp, got %q %s", snap.ID, snap.GeneratedAt)
		}
	})

	t.Run("every failed lookup still yields a snapshot", func(t *testing.T) {
		source := testutil.NewMockPriceSource()
		initial := dashboardSettings()
		svc := newDashboardService(t, source, testutil.NewMemorySettingsStore(&initial))

		snap, err := svc.Refresh(ctx, dashboardSettings())

		if err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}
		if len(snap.Positions) != 0 {
			t.Errorf("Expected no positions, got %d", len(snap.Positions))
		}
		if !snap.ExchangeRate.IsFallback {
			t.Error("Expected fallback exchange rate")
		}
		// 1000 + 10 * 32.5
		assertDecimal(t, "total assets", snap.TotalAssets, "1325")
		if len(snap.Warnings) != 4 {
			t.Errorf("Expected 3 symbol warnings and 1 rate warning, got %v", snap.Warnings)
		}
	})

	t.Run("persists changed settings", func(t *testing.T) {
		store := testutil.NewMemorySettingsStore(nil)
		svc := newDashboardService(t, testutil.NewMockPriceSource(), store)

		if _, err := svc.Refresh(ctx, dashboardSettings()); err != nil {
			t.Fatalf("Refresh() returned unexpected error: %v", err)
		}
		if _, err := svc.Snapshot(ctx); err != nil {
			t.Fatalf("Snapshot() returned unexpected error: %v", err)
		}

		if store.Saves != 1 {
			t.Errorf("Expected 1 write, got %d", store.Saves)
		}
	})

	t.Run("returns save errors", func(t *testing.T) {
		store := testutil.NewMemorySettingsStore(nil)
		store.SaveError = apperrors.ErrFailedToSaveSettings
		svc := newDashboardService(t, testutil.NewMockPriceSource(), store)

		_, err := svc.Refresh(ctx, dashboardSettings())

		if !errors.Is(err, apperrors.ErrFailedToSaveSettings) {
			t.Errorf("Expected ErrFailedToSaveSettings, got %v", err)
		}
	})
}
