package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint is a single observation returned by a price source.
// Close is nil when the source reported a gap for that bar.
type PricePoint struct {
	Time  time.Time
	Close *decimal.Decimal
}

// Quote is the resolved price observation for one instrument.
type Quote struct {
	Symbol        string          `json:"symbol"`
	LastPrice     decimal.Decimal `json:"lastPrice"`
	PreviousPrice decimal.Decimal `json:"previousPrice"`
	ObservedAt    time.Time       `json:"observedAt"`
	ObservedDate  string          `json:"observedDate"` // YYYY-MM-DD in the home timezone
	IsFreshToday  bool            `json:"isFreshToday"`
	Intraday      bool            `json:"intraday"` // LastPrice came from the intraday series
}

// ExchangeRate is the resolved conversion rate from the foreign currency into the
// reporting currency. Source names the symbol that produced the rate, or "fallback".
type ExchangeRate struct {
	Pair       string          `json:"pair"`
	Rate       decimal.Decimal `json:"rate"`
	Source     string          `json:"source"`
	IsFallback bool            `json:"isFallback"`
}

// RateSourceFallback labels a rate that came from the configured constant.
const RateSourceFallback = "fallback"
