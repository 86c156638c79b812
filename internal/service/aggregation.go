package service

import "github.com/ndewijer/finance-dashboard/internal/model"

// AggregateInput is everything portfolio aggregation needs. All values are already
// resolved; aggregation performs no I/O and cannot fail.
type AggregateInput struct {
	Positions []model.ValuedPosition
	Cash      []model.CashHolding
	Realized  []model.RealizedProfit
	Rate      model.ExchangeRate
}

// Aggregate combines valued positions, cash and realized profits into a snapshot.
//
// Every percentage with a zero denominator is reported as zero. The return rate is
// approximate: invested capital is backed out as TotalAssets - TotalProfit, and the
// rate is only computed when that amount is strictly positive.
func Aggregate(in AggregateInput) model.PortfolioSnapshot {
	snap := model.PortfolioSnapshot{
		ReportingCurrency:     model.ReportingCurrency,
		ExchangeRate:          in.Rate,
		ReturnRateApproximate: true,
	}

	classes := make(map[model.AssetClass]*model.ClassSummary, len(model.AssetClasses))
	for _, c := range model.AssetClasses {
		classes[c] = &model.ClassSummary{AssetClass: c}
	}

	positions := make([]model.ValuedPosition, len(in.Positions))
	copy(positions, in.Positions)

	for _, p := range positions {
		if cs := classes[p.Instrument.AssetClass]; cs != nil {
			cs.MarketValue = cs.MarketValue.Add(p.MarketValue)
			cs.UnrealizedPnL = cs.UnrealizedPnL.Add(p.UnrealizedPnL)
			cs.TodayChange = cs.TodayChange.Add(p.SameDayPnL)
		}

		snap.TotalPositionValue = snap.TotalPositionValue.Add(p.MarketValue)
		snap.TotalUnrealizedPnL = snap.TotalUnrealizedPnL.Add(p.UnrealizedPnL)
		snap.TotalTodayChange = snap.TotalTodayChange.Add(p.SameDayPnL)
	}

	for _, c := range in.Cash {
		snap.TotalCash = snap.TotalCash.Add(c.Amount.Mul(conversionFactor(c.Currency, in.Rate)))
	}
	snap.Cash = append([]model.CashHolding(nil), in.Cash...)
	snap.TotalAssets = snap.TotalPositionValue.Add(snap.TotalCash)

	for _, r := range in.Realized {
		if cs := classes[r.AssetClass]; cs != nil {
			cs.RealizedPnL = cs.RealizedPnL.Add(r.Amount.Mul(conversionFactor(r.Currency, in.Rate)))
		}
	}

	for _, c := range model.AssetClasses {
		cs := classes[c]
		cs.TotalProfit = cs.UnrealizedPnL.Add(cs.RealizedPnL)
		snap.Classes = append(snap.Classes, *cs)
		snap.TotalRealizedPnL = snap.TotalRealizedPnL.Add(cs.RealizedPnL)
		snap.TotalProfit = snap.TotalProfit.Add(cs.TotalProfit)
	}

	snap.ApproxInvestedCapital = snap.TotalAssets.Sub(snap.TotalProfit)
	if snap.ApproxInvestedCapital.IsPositive() {
		snap.ApproxReturnRate = snap.TotalProfit.Div(snap.ApproxInvestedCapital).Mul(hundred)
	}

	for i := range positions {
		positions[i].AllocationPct = percentOf(positions[i].MarketValue, snap.TotalAssets)
	}
	snap.Positions = positions
	snap.CashAllocationPct = percentOf(snap.TotalCash, snap.TotalAssets)
	snap.TodayChangePct = percentOf(snap.TotalTodayChange, snap.TotalAssets)

	return snap
}
