package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/ndewijer/finance-dashboard/internal/apperrors"
	"github.com/ndewijer/finance-dashboard/internal/model"
)

// DefaultBaseURL is the Yahoo Finance chart endpoint.
const DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// Intraday query parameters: five minute bars over the current session.
const (
	intradayInterval = "5m"
	intradayRange    = "1d"
)

// FinanceClient fetches price charts from the Yahoo Finance API.
// Requests are paced by a token bucket so a refresh over many symbols does not
// trip Yahoo's rate limiting.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	now        func() time.Time
}

// Option configures a FinanceClient.
type Option func(*FinanceClient)

// WithBaseURL points the client at another chart endpoint, e.g. an httptest server.
func WithBaseURL(baseURL string) Option {
	return func(c *FinanceClient) { c.baseURL = baseURL }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *FinanceClient) { c.httpClient = httpClient }
}

// WithRateLimit limits outgoing requests per second. Zero disables pacing.
func WithRateLimit(perSecond float64) Option {
	return func(c *FinanceClient) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// WithClock overrides the clock used to compute date ranges.
func WithClock(now func() time.Time) Option {
	return func(c *FinanceClient) { c.now = now }
}

// NewFinanceClient creates a new Yahoo Finance client.
func NewFinanceClient(opts ...Option) *FinanceClient {
	c := &FinanceClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    DefaultBaseURL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DailyHistory returns daily closes for symbol over the last lookback period.
func (c *FinanceClient) DailyHistory(ctx context.Context, symbol string, lookback time.Duration) ([]model.PricePoint, error) {
	end := c.now()
	resp, err := c.QuerySymbolByDateRange(ctx, symbol, end.Add(-lookback), end)
	if err != nil {
		return nil, err
	}
	chart, err := c.ParseChart(resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	return chart.PricePoints(), nil
}

// IntradayHistory returns five minute bars of the current session for symbol.
func (c *FinanceClient) IntradayHistory(ctx context.Context, symbol string) ([]model.PricePoint, error) {
	resp, err := c.QueryIntraday(ctx, symbol)
	if err != nil {
		return nil, err
	}
	chart, err := c.ParseChart(resp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", symbol, err)
	}
	return chart.PricePoints(), nil
}

// ParseChart converts a raw Yahoo Finance API response into a structured price chart.
//
// The method validates that:
//   - A result is present
//   - Timestamp data is present
//   - Close price data is present
//   - Data arrays have matching lengths
func (c *FinanceClient) ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, apperrors.ErrSymbolNotFound
	}
	result := yahooResult.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return PriceChart{}, apperrors.ErrNoPriceData
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("%w: no close prices returned", apperrors.ErrNoPriceData)
	}

	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return PriceChart{}, apperrors.ErrMismatchedData
	}

	indicators := make([]Indicators, len(result.Timestamp))
	for i, v := range result.Timestamp {
		indicators[i].Date = time.Unix(v, 0).UTC()
		indicators[i].PriceClose = closes[i]
	}

	return PriceChart{
		Symbol:               result.Meta.Symbol,
		Currency:             result.Meta.Currency,
		ExchangeName:         result.Meta.ExchangeName,
		ExchangeTimezoneName: result.Meta.ExchangeTimezoneName,
		Indicators:           indicators,
	}, nil
}

// PricePoints converts the chart into model price points, preserving gaps.
func (c PriceChart) PricePoints() []model.PricePoint {
	points := make([]model.PricePoint, len(c.Indicators))
	for i, ind := range c.Indicators {
		points[i].Time = ind.Date
		if ind.PriceClose != nil {
			d := decimal.NewFromFloat(*ind.PriceClose)
			points[i].Close = &d
		}
	}
	return points
}

// QuerySymbolByDateRange fetches daily price data for a symbol within a date range.
func (c *FinanceClient) QuerySymbolByDateRange(ctx context.Context, symbol string, startDate, endDate time.Time) (Response, error) {
	params := url.Values{}
	params.Set("interval", "1d")
	params.Set("period1", fmt.Sprintf("%d", startDate.Unix()))
	params.Set("period2", fmt.Sprintf("%d", endDate.Unix()))
	return c.querySymbol(ctx, symbol, params)
}

// QueryIntraday fetches the current session's five minute bars for a symbol.
func (c *FinanceClient) QueryIntraday(ctx context.Context, symbol string) (Response, error) {
	params := url.Values{}
	params.Set("interval", intradayInterval)
	params.Set("range", intradayRange)
	return c.querySymbol(ctx, symbol, params)
}

func (c *FinanceClient) querySymbol(ctx context.Context, symbol string, params url.Values) (Response, error) {
	u := c.baseURL + url.PathEscape(symbol) + "?" + params.Encode()
	result, err := c.queryYahoo(ctx, u)
	if err != nil {
		return Response{}, fmt.Errorf("%s: %w", symbol, err)
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("%w: no results returned for symbol %s", apperrors.ErrSymbolNotFound, symbol)
	}
	return result, nil
}

// queryYahoo executes a request against the chart API, waiting on the rate limiter
// first. It sets a browser User-Agent since Yahoo rejects the Go default.
func (c *FinanceClient) queryYahoo(ctx context.Context, u string) (Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Response{}, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Response{}, fmt.Errorf("%w: HTTP %d", apperrors.ErrSourceError, resp.StatusCode)
		}
		return Response{}, err
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("%w: %s", apperrors.ErrSourceError, response.Chart.Error.Description)
	}

	return response, nil
}
