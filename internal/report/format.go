// Package report renders a portfolio snapshot as a markdown dashboard, HTML or CSV.
package report

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Tone is the sign of a displayed number.
type Tone string

const (
	ToneUp   Tone = "up"
	ToneDown Tone = "down"
	ToneFlat Tone = "flat"
)

// Colors follow the Taiwanese market convention: gains are red, losses green.
const (
	ColorUp   = "#FF4B4B"
	ColorDown = "#00C853"
)

// ToneOf returns the tone of d.
func ToneOf(d decimal.Decimal) Tone {
	switch d.Sign() {
	case 1:
		return ToneUp
	case -1:
		return ToneDown
	default:
		return ToneFlat
	}
}

// Color returns the CSS color for the tone, empty for ToneFlat.
func (t Tone) Color() string {
	switch t {
	case ToneUp:
		return ColorUp
	case ToneDown:
		return ColorDown
	default:
		return ""
	}
}

// FormatPrice formats a price with two decimals.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatChange formats a signed price change with two decimals.
func FormatChange(d decimal.Decimal) string {
	return fmt.Sprintf("%+.2f", d.Round(2).InexactFloat64())
}

// FormatChangePct formats a signed percentage with two decimals.
func FormatChangePct(d decimal.Decimal) string {
	return fmt.Sprintf("%+.2f%%", d.Round(2).InexactFloat64())
}

// FormatAllocation formats an allocation share with one decimal.
func FormatAllocation(d decimal.Decimal) string {
	return fmt.Sprintf("%.1f%%", d.Round(1).InexactFloat64())
}

// FormatMoney formats an amount with the currency's symbol, grouping and fraction
// digits. The amount is rounded half away from zero to the currency's minor unit.
func FormatMoney(d decimal.Decimal, currency string) string {
	cur := money.New(0, currency).Currency()
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// FormatSignedMoney is FormatMoney with a leading "+" for positive amounts.
func FormatSignedMoney(d decimal.Decimal, currency string) string {
	if d.Round(2).IsPositive() {
		return "+" + FormatMoney(d, currency)
	}
	return FormatMoney(d, currency)
}
