package report

import (
	"github.com/ndewijer/finance-dashboard/internal/model"
)

// Row is one line of the positions table with every cell already formatted.
type Row struct {
	Symbol       string `csv:"symbol"`
	Name         string `csv:"name"`
	Class        string `csv:"class"`
	Quantity     string `csv:"quantity"`
	LastPrice    string `csv:"last_price"`
	Change       string `csv:"change"`
	ChangePct    string `csv:"change_pct"`
	SameDayPnL   string `csv:"today_pnl"`
	Allocation   string `csv:"allocation_pct"`
	ReturnPct    string `csv:"return_pct"`
	Unrealized   string `csv:"unrealized_pnl"`
	MarketValue  string `csv:"market_value"`
	ObservedDate string `csv:"observed_date"`
	Fresh        bool   `csv:"fresh_today"`

	ChangeTone     Tone `csv:"-"`
	SameDayTone    Tone `csv:"-"`
	UnrealizedTone Tone `csv:"-"`
}

// BuildRows formats the snapshot positions in snapshot order.
func BuildRows(snap model.PortfolioSnapshot) []Row {
	ccy := snap.ReportingCurrency
	rows := make([]Row, 0, len(snap.Positions))
	for _, p := range snap.Positions {
		rows = append(rows, Row{
			Symbol:         p.Instrument.Symbol,
			Name:           p.Instrument.DisplayName(),
			Class:          p.Instrument.AssetClass.Label(),
			Quantity:       p.Quantity.String(),
			LastPrice:      FormatPrice(p.LastPrice),
			Change:         FormatChange(p.PriorPeriodChange),
			ChangePct:      FormatChangePct(p.PriorPeriodChangePct),
			SameDayPnL:     FormatSignedMoney(p.SameDayPnL, ccy),
			Allocation:     FormatAllocation(p.AllocationPct),
			ReturnPct:      FormatChangePct(p.UnrealizedReturnPct),
			Unrealized:     FormatSignedMoney(p.UnrealizedPnL, ccy),
			MarketValue:    FormatMoney(p.MarketValue, ccy),
			ObservedDate:   p.ObservedDate,
			Fresh:          p.IsFreshToday,
			ChangeTone:     ToneOf(p.PriorPeriodChange),
			SameDayTone:    ToneOf(p.SameDayPnL),
			UnrealizedTone: ToneOf(p.UnrealizedPnL),
		})
	}
	return rows
}
