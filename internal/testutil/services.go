package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/ndewijer/finance-dashboard/internal/logging"
	"github.com/ndewijer/finance-dashboard/internal/model"
	"github.com/ndewijer/finance-dashboard/internal/service"
)

// TestNow is the fixed wall clock used by service helpers: 14:00 in Taipei and 02:00
// in New York on 2026-10-15.
var TestNow = time.Date(2026, 10, 15, 6, 0, 0, 0, time.UTC)

// TestPair is the default USD/TWD exchange-rate chain.
var TestPair = model.CurrencyPair{
	Base:            model.ForeignCurrency,
	Quote:           model.ReportingCurrency,
	PrimarySymbol:   "TWD=X",
	SecondarySymbol: "USDTWD=X",
	FallbackRate:    32.5,
}

// NewTestSettingsService creates a SettingsService over store.
func NewTestSettingsService(t *testing.T, store service.SettingsStore) *service.SettingsService {
	t.Helper()
	return service.NewSettingsService(context.Background(), store, logging.Discard())
}

// NewTestDashboardService creates a DashboardService that resolves quotes from source
// without caching or intraday lookups, at TestNow.
func NewTestDashboardService(t *testing.T, source service.PriceSource, settings *service.SettingsService) *service.DashboardService {
	t.Helper()

	quotes := service.NewQuoteService(source, service.QuoteServiceOptions{
		Now: FixedClock(TestNow),
	}, logging.Discard())

	return service.NewDashboardService(quotes, settings, service.DashboardOptions{
		Pair: TestPair,
		Now:  FixedClock(TestNow),
	}, logging.Discard())
}

// NewTestSystemService creates a SystemService without a database.
func NewTestSystemService(t *testing.T) *service.SystemService {
	t.Helper()
	return service.NewSystemService(nil, service.SystemInfo{SettingsBackend: "file", PriceSource: "yahoo"})
}

// SmallSettings returns settings with one domestic and one foreign holding.
func SmallSettings() model.Settings {
	return model.Settings{
		Balances: model.Balances{BankTWD: 1000, BankUSD: 10},
		DomesticHoldings: []model.Holding{
			{Symbol: "2330.TW", Name: "台積電", Shares: 100, Cost: 100},
		},
		ForeignHoldings: []model.Holding{
			{Symbol: "AVGO", Shares: 10, Cost: 50},
		},
	}
}

// SmallSettingsSource returns a price source with quotes for SmallSettings and the
// primary exchange-rate symbol.
func SmallSettingsSource() *MockPriceSource {
	day := func(d int) time.Time { return time.Date(2026, 10, d, 1, 0, 0, 0, time.UTC) }
	return NewMockPriceSource().
		WithDaily("2330.TW", Point(day(14), 105), Point(day(15), 110)).
		WithDaily("AVGO", Point(day(13), 54), Point(day(14), 55)).
		WithDaily("TWD=X", Point(day(15), 32))
}
