package handlers

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/finance-dashboard/internal/service"
)

// money rounds an amount for JSON output.
func money(d decimal.Decimal) float64 {
	return service.Round(d)
}

// rate keeps four decimals so small exchange-rate moves stay visible.
func rate(d decimal.Decimal) float64 {
	return d.Round(4).InexactFloat64()
}
