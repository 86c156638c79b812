// Package financego adapts github.com/piquette/finance-go to the dashboard's price
// source interface. It is an alternative to the direct chart client in package yahoo.
package financego

import (
	"context"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"github.com/ndewijer/finance-dashboard/internal/apperrors"
	"github.com/ndewijer/finance-dashboard/internal/model"
)

const intradayWindow = 24 * time.Hour

// Client fetches charts through finance-go.
type Client struct {
	now func() time.Time
}

// NewClient returns a Client using the wall clock.
func NewClient() *Client {
	return &Client{now: time.Now}
}

// DailyHistory returns daily closes for symbol over the last lookback period.
func (c *Client) DailyHistory(ctx context.Context, symbol string, lookback time.Duration) ([]model.PricePoint, error) {
	end := c.now()
	return c.fetch(ctx, symbol, end.Add(-lookback), end, datetime.OneDay)
}

// IntradayHistory returns five minute bars covering the last day.
func (c *Client) IntradayHistory(ctx context.Context, symbol string) ([]model.PricePoint, error) {
	end := c.now()
	return c.fetch(ctx, symbol, end.Add(-intradayWindow), end, datetime.Interval("5m"))
}

func (c *Client) fetch(ctx context.Context, symbol string, start, end time.Time, interval datetime.Interval) ([]model.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	iter := chart.Get(&chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: interval,
	})

	var bars []finance.ChartBar
	for iter.Next() {
		bars = append(bars, *iter.Bar())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", symbol, apperrors.ErrSourceError, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, apperrors.ErrNoPriceData)
	}
	return BarsToPoints(bars), nil
}

// BarsToPoints converts finance-go bars to price points. finance-go reports missing
// closes as zero, so those become gaps.
func BarsToPoints(bars []finance.ChartBar) []model.PricePoint {
	points := make([]model.PricePoint, len(bars))
	for i, bar := range bars {
		points[i].Time = time.Unix(int64(bar.Timestamp), 0).UTC()
		if !bar.Close.IsZero() {
			closePrice := bar.Close
			points[i].Close = &closePrice
		}
	}
	return points
}
