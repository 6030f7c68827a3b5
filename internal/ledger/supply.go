package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// SupplyInput is a raw add-stock submission: gold received from a company
// in 18kt grams plus the conversion rate for this transaction.
type SupplyInput struct {
	CompanyID string
	Date      time.Time
	Gold18    decimal.Decimal
	Rate      decimal.Decimal
}

// SupplyEntry is a derived add-stock record. Gold24 = Gold18 * Rate at
// company precision.
type SupplyEntry struct {
	CompanyID string
	Date      time.Time
	Gold18    decimal.Decimal
	Gold24    decimal.Decimal
	Rate      decimal.Decimal
}

// ReturnInput is a raw sale-stock submission: gold sold back to a company
// in 24kt grams plus the conversion rate for this transaction.
type ReturnInput struct {
	CompanyID string
	Date      time.Time
	Gold24    decimal.Decimal
	Rate      decimal.Decimal
}

// ReturnEntry is a derived sale-stock record. Gold18 = Gold24 / Rate at
// company precision. Note the direction is the inverse of SupplyEntry;
// the asymmetry is inherited domain behaviour and deliberately not
// unified.
type ReturnEntry struct {
	CompanyID string
	Date      time.Time
	Gold24    decimal.Decimal
	Gold18    decimal.Decimal
	Rate      decimal.Decimal
}

// RecordSupply validates an add-stock submission and derives its 24kt
// quantity.
func RecordSupply(in SupplyInput) (SupplyEntry, error) {
	if in.CompanyID == "" {
		return SupplyEntry{}, &ValidationError{Field: "company_id", Reason: "required"}
	}
	if in.Date.IsZero() {
		return SupplyEntry{}, &ValidationError{Field: "date", Reason: "required"}
	}
	if in.Gold18.IsNegative() {
		return SupplyEntry{}, &ValidationError{Field: "gold_18kt", Reason: "must not be negative"}
	}
	if !in.Rate.IsPositive() {
		return SupplyEntry{}, &ValidationError{Field: "conversion_rate", Reason: "must be greater than zero"}
	}
	return SupplyEntry{
		CompanyID: in.CompanyID,
		Date:      in.Date,
		Gold18:    in.Gold18,
		Gold24:    SupplyFine(in.Gold18, in.Rate),
		Rate:      in.Rate,
	}, nil
}

// RecordReturn validates a sale-stock submission and derives its 18kt
// quantity.
func RecordReturn(in ReturnInput) (ReturnEntry, error) {
	if in.CompanyID == "" {
		return ReturnEntry{}, &ValidationError{Field: "company_id", Reason: "required"}
	}
	if in.Date.IsZero() {
		return ReturnEntry{}, &ValidationError{Field: "date", Reason: "required"}
	}
	if in.Gold24.IsNegative() {
		return ReturnEntry{}, &ValidationError{Field: "gold_24kt", Reason: "must not be negative"}
	}
	if !in.Rate.IsPositive() {
		return ReturnEntry{}, &ValidationError{Field: "conversion_rate", Reason: "must be greater than zero"}
	}
	return ReturnEntry{
		CompanyID: in.CompanyID,
		Date:      in.Date,
		Gold24:    in.Gold24,
		Gold18:    ReturnKarat(in.Gold24, in.Rate),
		Rate:      in.Rate,
	}, nil
}
