package service

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/finance-dashboard/internal/model"
)

var hundred = decimal.NewFromInt(100)

// ValuePosition prices one position in the reporting currency.
//
// Market value, same-day P&L and unrealized P&L of instruments quoted in a foreign
// currency are multiplied by the exchange rate. Cost is converted according to the
// currency it was recorded in, so MarketValue - CostValue = UnrealizedPnL holds after
// conversion. Same-day P&L is zero unless the quote is fresh for today, which keeps
// stale weekend or holiday closes from showing up as today's move.
func ValuePosition(pos model.Position, q model.Quote, rate model.ExchangeRate) model.ValuedPosition {
	fx := conversionFactor(pos.Instrument.QuoteCurrency, rate)
	costFx := conversionFactor(pos.CostCurrency, rate)

	change := q.LastPrice.Sub(q.PreviousPrice)
	fresh := q.IsFreshToday || pos.Instrument.TradesContinuously()

	marketValue := q.LastPrice.Mul(pos.Quantity).Mul(fx)
	costValue := pos.AverageCost.Mul(pos.Quantity).Mul(costFx)
	unrealized := marketValue.Sub(costValue)

	sameDay := decimal.Zero
	if fresh {
		sameDay = change.Mul(pos.Quantity).Mul(fx)
	}

	returnPct := decimal.Zero
	if costValue.IsPositive() {
		returnPct = unrealized.Div(costValue).Mul(hundred)
	}

	return model.ValuedPosition{
		Instrument:           pos.Instrument,
		Quantity:             pos.Quantity,
		LastPrice:            q.LastPrice,
		PreviousPrice:        q.PreviousPrice,
		ObservedDate:         q.ObservedDate,
		IsFreshToday:         fresh,
		PriorPeriodChange:    change,
		PriorPeriodChangePct: percentOf(change, q.PreviousPrice),
		MarketValue:          marketValue,
		CostValue:            costValue,
		UnrealizedPnL:        unrealized,
		UnrealizedReturnPct:  returnPct,
		SameDayPnL:           sameDay,
	}
}

// conversionFactor returns the multiplier from currency into the reporting currency.
func conversionFactor(currency string, rate model.ExchangeRate) decimal.Decimal {
	if currency == "" || currency == model.ReportingCurrency {
		return decimal.NewFromInt(1)
	}
	return rate.Rate
}

// percentOf returns part/whole*100, or zero when whole is zero.
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred)
}
