package service

import "github.com/shopspring/decimal"

// RoundingPrecision is the number of decimal places kept in API responses.
const RoundingPrecision = 2

// Round rounds a decimal to RoundingPrecision places and returns it as float64 for
// JSON responses. Arithmetic stays in decimal; only presentation is rounded.
//
// Example:
//
//	Round(decimal.RequireFromString("123.456789"))  // returns 123.46
//	Round(decimal.RequireFromString("0.005"))       // returns 0.01
func Round(value decimal.Decimal) float64 {
	return value.Round(RoundingPrecision).InexactFloat64()
}
