package yahoo

import "time"

// Response represents the raw JSON response structure from the Yahoo Finance chart API.
//
// The structure includes:
//   - Chart.Result: Array of result objects (typically contains one element)
//   - Chart.Result[].Meta: Symbol metadata (currency, exchange, timezone)
//   - Chart.Result[].Timestamp: Unix timestamps for each data point
//   - Chart.Result[].Indicators: Price data arrays; gaps are reported as JSON null
//   - Chart.Error: Optional error reported by Yahoo
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart is the top level "chart" object of a Response.
type Chart struct {
	Result []Result    `json:"result"`
	Error  *ChartError `json:"error"`
}

// ChartError is the error object Yahoo returns for unknown or delisted symbols.
type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Result holds the series for one symbol.
type Result struct {
	Meta       Meta                `json:"meta"`
	Timestamp  []int64             `json:"timestamp"`
	Indicators IndicatorsContainer `json:"indicators"`
}

// Meta describes the symbol a Result belongs to.
type Meta struct {
	Currency             string  `json:"currency"`
	Symbol               string  `json:"symbol"`
	ExchangeName         string  `json:"exchangeName"`
	FullExchangeName     string  `json:"fullExchangeName"`
	ExchangeTimezoneName string  `json:"exchangeTimezoneName"`
	LongName             string  `json:"longName"`
	Shortname            string  `json:"shortName"`
	RegularMarketPrice   float64 `json:"regularMarketPrice"`
	RegularMarketTime    int64   `json:"regularMarketTime"`
}

// IndicatorsContainer wraps the quote arrays.
type IndicatorsContainer struct {
	Quote []Quote `json:"quote"`
}

// Quote holds parallel OHLCV arrays. Entries are pointers because Yahoo emits null
// for bars without trades (holidays, halted sessions, the still-forming bar).
type Quote struct {
	Open   []*float64 `json:"open"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
}

// PriceChart represents a parsed price chart. It is easier to work with than the raw
// Response and carries proper time.Time timestamps.
type PriceChart struct {
	Currency             string       `json:"currency"`
	Symbol               string       `json:"symbol"`
	ExchangeName         string       `json:"exchangeName"`
	ExchangeTimezoneName string       `json:"exchangeTimezoneName"`
	Indicators           []Indicators `json:"indicators"`
}

// Indicators represents one bar. PriceClose is nil when Yahoo reported no close.
type Indicators struct {
	Date       time.Time
	PriceClose *float64
}
