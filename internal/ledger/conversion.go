// Package ledger holds the stock ledger and purity conversion engine: the
// carry-forward rules for shop sale entries, the supply/return derivations
// for company entries, the approval state machine and the dashboard
// aggregation. Everything in this package is a pure computation over its
// arguments; persistence, parsing of user input and the current date are
// the caller's concern.
package ledger

import "github.com/shopspring/decimal"

// Gram quantities are rounded to a fixed number of decimal places. These
// precisions are a compatibility contract with historical data: shop-ledger
// quantities carry 3 decimals, company-ledger quantities carry 4.
const (
	ShopPrecision    = 3
	CompanyPrecision = 4
)

// SupplyFine converts an 18kt quantity to its 24kt equivalent for a supply
// entry. Supply entries multiply by the rate; return entries divide. The
// two directions are asymmetric on purpose and must stay separate.
func SupplyFine(gold18kt, rate decimal.Decimal) decimal.Decimal {
	return gold18kt.Mul(rate).Round(CompanyPrecision)
}

// ReturnKarat converts a 24kt quantity back to 18kt for a return entry.
func ReturnKarat(gold24kt, rate decimal.Decimal) decimal.Decimal {
	return gold24kt.Div(rate).Round(CompanyPrecision)
}

func roundShop(d decimal.Decimal) decimal.Decimal {
	return d.Round(ShopPrecision)
}

func roundCompany(d decimal.Decimal) decimal.Decimal {
	return d.Round(CompanyPrecision)
}
