package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/finance-dashboard/internal/model"
)

// Home timezones of the two equity markets.
var (
	DomesticMarketTZ = mustLoadLocation("Asia/Taipei")
	ForeignMarketTZ  = mustLoadLocation("America/New_York")
)

// Crypto pair symbols tracked by the dashboard.
const (
	BTCSymbol = "BTC-USD"
	ETHSymbol = "ETH-USD"
)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// DomesticInstrument returns the instrument for a domestic equity symbol.
func DomesticInstrument(symbol, name string) model.Instrument {
	return model.Instrument{
		Symbol:        symbol,
		Name:          name,
		AssetClass:    model.AssetClassDomesticEquity,
		HomeTimezone:  DomesticMarketTZ,
		QuoteCurrency: model.ReportingCurrency,
	}
}

// ForeignInstrument returns the instrument for a foreign equity symbol.
func ForeignInstrument(symbol, name string) model.Instrument {
	return model.Instrument{
		Symbol:        symbol,
		Name:          name,
		AssetClass:    model.AssetClassForeignEquity,
		HomeTimezone:  ForeignMarketTZ,
		QuoteCurrency: model.ForeignCurrency,
	}
}

// CryptoInstrument returns the instrument for a crypto pair quoted in USD.
func CryptoInstrument(symbol, name string) model.Instrument {
	return model.Instrument{
		Symbol:        symbol,
		Name:          name,
		AssetClass:    model.AssetClassCrypto,
		QuoteCurrency: model.ForeignCurrency,
	}
}

// BuildPositions turns settings into positions. Holdings with a non-positive
// quantity are skipped. costCurrency decides whether crypto average cost is in the
// reporting currency or in the quote currency.
func BuildPositions(settings model.Settings, costCurrency model.CostCurrency) []model.Position {
	var positions []model.Position

	add := func(inst model.Instrument, qty, cost float64, costCcy string) {
		if qty <= 0 {
			return
		}
		positions = append(positions, model.Position{
			Instrument:   inst,
			Quantity:     decimal.NewFromFloat(qty),
			AverageCost:  decimal.NewFromFloat(cost),
			CostCurrency: costCcy,
		})
	}

	for _, h := range settings.DomesticHoldings {
		add(DomesticInstrument(h.Symbol, h.Name), h.Shares, h.Cost, model.ReportingCurrency)
	}
	for _, h := range settings.ForeignHoldings {
		add(ForeignInstrument(h.Symbol, h.Name), h.Shares, h.Cost, model.ForeignCurrency)
	}

	cryptoCost := model.ReportingCurrency
	if costCurrency == model.CostInQuote {
		cryptoCost = model.ForeignCurrency
	}
	add(CryptoInstrument(BTCSymbol, "Bitcoin"), settings.BTCQuantity, settings.BTCCost, cryptoCost)
	add(CryptoInstrument(ETHSymbol, "Ethereum"), settings.ETHQuantity, settings.ETHCost, cryptoCost)

	return positions
}

// BuildCash lists the cash balances held in settings.
func BuildCash(settings model.Settings) []model.CashHolding {
	return []model.CashHolding{
		{Name: "Bank (TWD)", Amount: decimal.NewFromFloat(settings.BankTWD), Currency: model.ReportingCurrency},
		{Name: "Bank (USD)", Amount: decimal.NewFromFloat(settings.BankUSD), Currency: model.ForeignCurrency},
		{Name: "Physical cash (TWD)", Amount: decimal.NewFromFloat(settings.PhysicalTWD), Currency: model.ReportingCurrency},
		{Name: "Exchange balance (USD)", Amount: decimal.NewFromFloat(settings.ExchangeUSD), Currency: model.ForeignCurrency},
	}
}

// BuildRealized lists the user-entered realized profits per asset class.
func BuildRealized(settings model.Settings) []model.RealizedProfit {
	return []model.RealizedProfit{
		{AssetClass: model.AssetClassDomesticEquity, Amount: decimal.NewFromFloat(settings.RealizedDomestic), Currency: model.ReportingCurrency},
		{AssetClass: model.AssetClassForeignEquity, Amount: decimal.NewFromFloat(settings.RealizedForeign), Currency: model.ForeignCurrency},
		{AssetClass: model.AssetClassCrypto, Amount: decimal.NewFromFloat(settings.RealizedCrypto), Currency: model.ReportingCurrency},
	}
}

// Instruments returns the distinct instruments of positions in their original order.
func Instruments(positions []model.Position) []model.Instrument {
	seen := make(map[string]bool, len(positions))
	instruments := make([]model.Instrument, 0, len(positions))
	for _, p := range positions {
		if seen[p.Instrument.Symbol] {
			continue
		}
		seen[p.Instrument.Symbol] = true
		instruments = append(instruments, p.Instrument)
	}
	return instruments
}
