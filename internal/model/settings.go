package model

import "slices"

// Currency codes used by the dashboard. Amounts in ReportingCurrency pass through
// unconverted; amounts in ForeignCurrency are multiplied by the resolved exchange rate.
const (
	ReportingCurrency = "TWD"
	ForeignCurrency   = "USD"
)

// CostCurrency selects how crypto average cost is recorded.
type CostCurrency string

const (
	// CostInReporting means crypto average cost was entered in the reporting currency.
	CostInReporting CostCurrency = "reporting"
	// CostInQuote means crypto average cost was entered in the quote currency (USD).
	CostInQuote CostCurrency = "quote"
)

// Holding is one equity line of the saved portfolio.
type Holding struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name,omitempty"`
	Shares float64 `json:"shares"`
	Cost   float64 `json:"cost"`
}

// Settings is the persisted dashboard configuration. It is serialized as a flat JSON
// object; loading decodes over DefaultSettings so keys missing from older files keep
// their defaults.
type Settings struct {
	Balances

	DomesticHoldings []Holding `json:"domestic_holdings"`
	ForeignHoldings  []Holding `json:"foreign_holdings"`
}

// Balances holds every scalar setting. It is comparable with ==.
type Balances struct {
	BankTWD     float64 `json:"bank_twd"`
	BankUSD     float64 `json:"bank_usd"`
	PhysicalTWD float64 `json:"physical_twd"`
	ExchangeUSD float64 `json:"exchange_usd"`

	BTCQuantity float64 `json:"btc_quantity"`
	BTCCost     float64 `json:"btc_cost"`
	ETHQuantity float64 `json:"eth_quantity"`
	ETHCost     float64 `json:"eth_cost"`

	RealizedDomestic float64 `json:"realized_domestic"` // TWD
	RealizedForeign  float64 `json:"realized_foreign"`  // USD
	RealizedCrypto   float64 `json:"realized_crypto"`   // TWD
}

// Legacy keys written by the first version of the settings file.
const (
	LegacyKeyTWD = "twd"
	LegacyKeyUSD = "usd"
)

// DefaultSettings returns a fresh copy of the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Balances: Balances{
			BankTWD: 50000,
			BankUSD: 1000,
		},
		DomesticHoldings: []Holding{
			{Symbol: "2317.TW", Name: "鴻海", Shares: 342, Cost: 166.84},
			{Symbol: "2330.TW", Name: "台積電", Shares: 44, Cost: 1013.12},
			{Symbol: "3661.TW", Name: "世芯-KY", Shares: 8, Cost: 3675.00},
		},
		ForeignHoldings: []Holding{
			{Symbol: "AVGO", Shares: 1, Cost: 341.00},
			{Symbol: "NFLX", Shares: 10.33591, Cost: 96.75},
			{Symbol: "NVDA", Shares: 8.93633, Cost: 173.49},
			{Symbol: "SGOV", Shares: 20.99361, Cost: 100.28},
			{Symbol: "SOFI", Shares: 36.523, Cost: 27.38},
			{Symbol: "SOUN", Shares: 5, Cost: 10.93},
			{Symbol: "TSLA", Shares: 2.55341, Cost: 399.47},
		},
	}
}

// Equal reports whether two settings values would serialize identically.
func (s Settings) Equal(o Settings) bool {
	return s.Balances == o.Balances &&
		slices.Equal(s.DomesticHoldings, o.DomesticHoldings) &&
		slices.Equal(s.ForeignHoldings, o.ForeignHoldings)
}

// Clone returns a deep copy of the settings.
func (s Settings) Clone() Settings {
	c := s
	c.DomesticHoldings = slices.Clone(s.DomesticHoldings)
	c.ForeignHoldings = slices.Clone(s.ForeignHoldings)
	return c
}
