package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is a holding of one instrument, rebuilt from settings on every refresh.
// CostCurrency records the currency AverageCost was entered in.
type Position struct {
	Instrument   Instrument
	Quantity     decimal.Decimal
	AverageCost  decimal.Decimal
	CostCurrency string
}

// CashHolding is a named balance in a given currency.
type CashHolding struct {
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// RealizedProfit is the user-entered profit from closed positions of an asset class.
type RealizedProfit struct {
	AssetClass AssetClass      `json:"assetClass"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
}

// ValuedPosition is a position priced in the reporting currency.
// UnrealizedPnL is always MarketValue - CostValue, and SameDayPnL is zero whenever the
// quote is not fresh for today.
type ValuedPosition struct {
	Instrument           Instrument      `json:"instrument"`
	Quantity             decimal.Decimal `json:"quantity"`
	LastPrice            decimal.Decimal `json:"lastPrice"`
	PreviousPrice        decimal.Decimal `json:"previousPrice"`
	ObservedDate         string          `json:"observedDate"`
	IsFreshToday         bool            `json:"isFreshToday"`
	PriorPeriodChange    decimal.Decimal `json:"priorPeriodChange"`
	PriorPeriodChangePct decimal.Decimal `json:"priorPeriodChangePct"`
	MarketValue          decimal.Decimal `json:"marketValue"`
	CostValue            decimal.Decimal `json:"costValue"`
	UnrealizedPnL        decimal.Decimal `json:"unrealizedPnl"`
	UnrealizedReturnPct  decimal.Decimal `json:"unrealizedReturnPct"`
	SameDayPnL           decimal.Decimal `json:"sameDayPnl"`
	AllocationPct        decimal.Decimal `json:"allocationPct"`
}

// ClassSummary holds the per asset class totals.
type ClassSummary struct {
	AssetClass    AssetClass      `json:"assetClass"`
	MarketValue   decimal.Decimal `json:"marketValue"`
	UnrealizedPnL decimal.Decimal `json:"unrealizedPnl"`
	RealizedPnL   decimal.Decimal `json:"realizedPnl"`
	TotalProfit   decimal.Decimal `json:"totalProfit"`
	TodayChange   decimal.Decimal `json:"todayChange"`
}

// SymbolFailure records an instrument that could not be resolved.
type SymbolFailure struct {
	Symbol string `json:"symbol"`
	Reason string `json:"reason"`
}

// PortfolioSnapshot is the aggregate output of one refresh cycle.
//
// ApproxReturnRate backs out an implied invested capital from current totals
// (TotalAssets - TotalProfit); it is not a cash-flow aware return and is always
// reported with ReturnRateApproximate set.
type PortfolioSnapshot struct {
	ID                    string           `json:"id"`
	GeneratedAt           time.Time        `json:"generatedAt"`
	ReportingCurrency     string           `json:"reportingCurrency"`
	ExchangeRate          ExchangeRate     `json:"exchangeRate"`
	Positions             []ValuedPosition `json:"positions"`
	Classes               []ClassSummary   `json:"classes"`
	Cash                  []CashHolding    `json:"cash"`
	TotalPositionValue    decimal.Decimal  `json:"totalPositionValue"`
	TotalCash             decimal.Decimal  `json:"totalCash"`
	TotalAssets           decimal.Decimal  `json:"totalAssets"`
	TotalUnrealizedPnL    decimal.Decimal  `json:"totalUnrealizedPnl"`
	TotalRealizedPnL      decimal.Decimal  `json:"totalRealizedPnl"`
	TotalProfit           decimal.Decimal  `json:"totalProfit"`
	ApproxInvestedCapital decimal.Decimal  `json:"approxInvestedCapital"`
	ApproxReturnRate      decimal.Decimal  `json:"approxReturnRate"`
	ReturnRateApproximate bool             `json:"returnRateApproximate"`
	TotalTodayChange      decimal.Decimal  `json:"totalTodayChange"`
	TodayChangePct        decimal.Decimal  `json:"todayChangePct"`
	CashAllocationPct     decimal.Decimal  `json:"cashAllocationPct"`
	Failures              []SymbolFailure  `json:"failures"`
	Warnings              []string         `json:"warnings"`
}

// Class returns the summary for the given asset class, or a zero summary.
func (s PortfolioSnapshot) Class(class AssetClass) ClassSummary {
	for _, c := range s.Classes {
		if c.AssetClass == class {
			return c
		}
	}
	return ClassSummary{AssetClass: class}
}
