package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/ndewijer/finance-dashboard/internal/model"
)

// ValidateSettings checks submitted settings before they are persisted.
// Zero or negative quantities are allowed; those holdings are simply not valued.
func ValidateSettings(s model.Settings) error {
	errors := make(map[string]string)

	scalars := map[string]float64{
		"bank_twd":          s.BankTWD,
		"bank_usd":          s.BankUSD,
		"physical_twd":      s.PhysicalTWD,
		"exchange_usd":      s.ExchangeUSD,
		"btc_quantity":      s.BTCQuantity,
		"btc_cost":          s.BTCCost,
		"eth_quantity":      s.ETHQuantity,
		"eth_cost":          s.ETHCost,
		"realized_domestic": s.RealizedDomestic,
		"realized_foreign":  s.RealizedForeign,
		"realized_crypto":   s.RealizedCrypto,
	}
	for field, v := range scalars {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errors[field] = "must be a finite number"
		}
	}
	if s.BTCCost < 0 {
		errors["btc_cost"] = "cost cannot be negative"
	}
	if s.ETHCost < 0 {
		errors["eth_cost"] = "cost cannot be negative"
	}

	validateHoldings("domestic_holdings", s.DomesticHoldings, errors)
	validateHoldings("foreign_holdings", s.ForeignHoldings, errors)

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func validateHoldings(field string, holdings []model.Holding, errors map[string]string) {
	seen := make(map[string]bool, len(holdings))
	for i, h := range holdings {
		key := fmt.Sprintf("%s[%d]", field, i)
		symbol := strings.TrimSpace(h.Symbol)
		switch {
		case symbol == "":
			errors[key] = "symbol is required"
		case seen[symbol]:
			errors[key] = fmt.Sprintf("duplicate symbol %s", symbol)
		case math.IsNaN(h.Shares) || math.IsInf(h.Shares, 0):
			errors[key] = "shares must be a finite number"
		case math.IsNaN(h.Cost) || math.IsInf(h.Cost, 0) || h.Cost < 0:
			errors[key] = "cost must be a non-negative number"
		}
		seen[symbol] = true
	}
}
