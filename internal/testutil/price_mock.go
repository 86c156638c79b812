package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/finance-dashboard/internal/model"
)

// MockPriceSource is a scripted price source for tests. Daily and intraday series
// are configured per symbol; unknown symbols fail. Like the real clients, every
// lookup fails with the context error once ctx is done; such calls are still counted.
type MockPriceSource struct {
	mu sync.Mutex

	Daily         map[string][]model.PricePoint
	Intraday      map[string][]model.PricePoint
	DailyErrors   map[string]error
	IntradayError error

	// DailyQueries and IntradayQueries count calls per symbol.
	DailyQueries    map[string]int
	IntradayQueries map[string]int
}

// NewMockPriceSource creates an empty mock.
func NewMockPriceSource() *MockPriceSource {
	return &MockPriceSource{
		Daily:           map[string][]model.PricePoint{},
		Intraday:        map[string][]model.PricePoint{},
		DailyErrors:     map[string]error{},
		DailyQueries:    map[string]int{},
		IntradayQueries: map[string]int{},
	}
}

// WithDaily sets the daily series for symbol.
func (m *MockPriceSource) WithDaily(symbol string, points ...model.PricePoint) *MockPriceSource {
	m.Daily[symbol] = points
	return m
}

// WithIntraday sets the intraday series for symbol.
func (m *MockPriceSource) WithIntraday(symbol string, points ...model.PricePoint) *MockPriceSource {
	m.Intraday[symbol] = points
	return m
}

// WithError makes daily lookups for symbol fail with err.
func (m *MockPriceSource) WithError(symbol string, err error) *MockPriceSource {
	m.DailyErrors[symbol] = err
	return m
}

// DailyHistory returns the configured daily series.
func (m *MockPriceSource) DailyHistory(ctx context.Context, symbol string, _ time.Duration) ([]model.PricePoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DailyQueries[symbol]++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.DailyErrors[symbol]; ok {
		return nil, err
	}
	points, ok := m.Daily[symbol]
	if !ok {
		return nil, fmt.Errorf("no results returned for symbol %s", symbol)
	}
	return points, nil
}

// IntradayHistory returns the configured intraday series, or an error if none.
func (m *MockPriceSource) IntradayHistory(ctx context.Context, symbol string) ([]model.PricePoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.IntradayQueries[symbol]++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.IntradayError != nil {
		return nil, m.IntradayError
	}
	points, ok := m.Intraday[symbol]
	if !ok {
		return nil, fmt.Errorf("no intraday results for symbol %s", symbol)
	}
	return points, nil
}

// TotalDailyQueries returns the number of daily lookups across all symbols.
func (m *MockPriceSource) TotalDailyQueries() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.DailyQueries {
		total += n
	}
	return total
}

// Point builds a price point at t with the given close.
func Point(t time.Time, price float64) model.PricePoint {
	d := decimal.NewFromFloat(price)
	return model.PricePoint{Time: t, Close: &d}
}

// Gap builds a price point at t without a close.
func Gap(t time.Time) model.PricePoint {
	return model.PricePoint{Time: t}
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Clock is a settable clock for cache expiry tests.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock creates a clock starting at t.
func NewClock(t time.Time) *Clock {
	return &Clock{now: t}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Dec parses a decimal literal, panicking on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
