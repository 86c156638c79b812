package model

import (
	"time"
	_ "time/tzdata" // home timezones must resolve on hosts without zoneinfo
)

// AssetClass groups instruments for aggregation and display.
type AssetClass string

const (
	AssetClassDomesticEquity AssetClass = "domestic_equity"
	AssetClassForeignEquity  AssetClass = "foreign_equity"
	AssetClassCrypto         AssetClass = "crypto"
)

// AssetClasses lists every class in display order.
var AssetClasses = []AssetClass{
	AssetClassDomesticEquity,
	AssetClassForeignEquity,
	AssetClassCrypto,
}

// Label returns the human readable name of the asset class.
func (c AssetClass) Label() string {
	switch c {
	case AssetClassDomesticEquity:
		return "Domestic equity"
	case AssetClassForeignEquity:
		return "Foreign equity"
	case AssetClassCrypto:
		return "Crypto"
	default:
		return string(c)
	}
}

// Instrument identifies a tradable asset.
//
// HomeTimezone is the exchange-local zone used to decide whether a quote belongs to
// today's session. It is nil for instruments that trade around the clock (crypto),
// which are always considered fresh.
type Instrument struct {
	Symbol        string         `json:"symbol"`
	Name          string         `json:"name"`
	AssetClass    AssetClass     `json:"assetClass"`
	HomeTimezone  *time.Location `json:"-"`
	QuoteCurrency string         `json:"quoteCurrency"`
}

// DisplayName returns Name when set, otherwise the symbol.
func (i Instrument) DisplayName() string {
	if i.Name != "" {
		return i.Name
	}
	return i.Symbol
}

// TradesContinuously reports whether the instrument has no session boundaries.
func (i Instrument) TradesContinuously() bool {
	return i.AssetClass == AssetClassCrypto || i.HomeTimezone == nil
}

// Location returns the zone used for date comparisons, UTC when the instrument has none.
func (i Instrument) Location() *time.Location {
	if i.HomeTimezone == nil {
		return time.UTC
	}
	return i.HomeTimezone
}

// CurrencyPair describes the exchange rate used to convert foreign amounts into the
// reporting currency. PrimarySymbol is tried first, then SecondarySymbol, then
// FallbackRate.
type CurrencyPair struct {
	Base            string
	Quote           string
	PrimarySymbol   string
	SecondarySymbol string
	FallbackRate    float64
}

// Name returns the pair in BASE/QUOTE form.
func (p CurrencyPair) Name() string {
	return p.Base + "/" + p.Quote
}
