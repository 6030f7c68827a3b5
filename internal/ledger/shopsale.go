package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SaleRow is one user-entered row of a day's shop sale submission. The
// presentation layer has already coerced field values into numbers; this
// package only checks their ranges.
type SaleRow struct {
	ShopID    string
	Opening18 decimal.Decimal
	Opening24 decimal.Decimal
	SaleQty   decimal.Decimal
	Rate      decimal.Decimal
}

// SaleEntry is a fully derived shop sale row, ready to persist.
// Closing18 = Opening18 - SaleQty and Closing24 = Opening24 - SaleQty/Rate,
// both at shop precision. When Rate is zero the 24kt closing cannot be
// derived: Closing24 stays zero and Incomplete is set.
type SaleEntry struct {
	Date       time.Time
	ShopID     string
	Opening18  decimal.Decimal
	Opening24  decimal.Decimal
	SaleQty    decimal.Decimal
	Rate       decimal.Decimal
	Closing18  decimal.Decimal
	Closing24  decimal.Decimal
	Incomplete bool
}

// SaleTotals are plain sums over the 18kt values of a set of entries.
type SaleTotals struct {
	TotalOpening decimal.Decimal
	TotalSaleQty decimal.Decimal
	TotalClosing decimal.Decimal
}

func validateRow(row SaleRow) error {
	if row.ShopID == "" {
		return &ValidationError{Field: "shop_id", Reason: "required"}
	}
	if row.Opening18.IsNegative() {
		return &ValidationError{Field: "opening_18kt", Reason: "must not be negative"}
	}
	if row.Opening24.IsNegative() {
		return &ValidationError{Field: "opening_24kt", Reason: "must not be negative"}
	}
	if row.SaleQty.IsNegative() {
		return &ValidationError{Field: "sale_qty", Reason: "must not be negative"}
	}
	if row.Rate.IsNegative() {
		return &ValidationError{Field: "conversion_rate", Reason: "must not be negative"}
	}
	return nil
}

// DeriveRow validates a single row and computes both closing balances.
// A zero conversion rate is not an error here: the entry comes back with
// Incomplete set so the caller can ask for the rate before committing.
func DeriveRow(day time.Time, row SaleRow) (SaleEntry, error) {
	if err := validateRow(row); err != nil {
		return SaleEntry{}, err
	}

	entry := SaleEntry{
		Date:      day,
		ShopID:    row.ShopID,
		Opening18: row.Opening18,
		Opening24: row.Opening24,
		SaleQty:   row.SaleQty,
		Rate:      row.Rate,
		Closing18: roundShop(row.Opening18.Sub(row.SaleQty)),
	}

	if row.Rate.IsPositive() {
		entry.Closing24 = roundShop(row.Opening24.Sub(row.SaleQty.Div(row.Rate)))
	} else {
		entry.Incomplete = true
	}
	return entry, nil
}

// SubmitDay derives a full batch of same-date sale rows. The batch is
// all-or-nothing: the first row that fails validation, or that is left
// incomplete by a zero conversion rate, rejects the whole submission.
// Derived entries are returned alongside the error so the caller can
// surface partially filled rows back to the user; nothing is persisted
// here either way.
func SubmitDay(day time.Time, rows []SaleRow) ([]SaleEntry, error) {
	if len(rows) == 0 {
		return nil, &ValidationError{Field: "rows", Reason: "at least one row is required"}
	}

	entries := make([]SaleEntry, 0, len(rows))
	for i, row := range rows {
		entry, err := DeriveRow(day, row)
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				return nil, &ValidationError{
					Field:  fmt.Sprintf("rows[%d].%s", i, ve.Field),
					Reason: ve.Reason,
				}
			}
			return nil, err
		}
		entries = append(entries, entry)
		if entry.Incomplete {
			return entries, &ValidationError{
				Field:  fmt.Sprintf("rows[%d].conversion_rate", i),
				Reason: "must be greater than zero to derive the 24kt closing stock",
			}
		}
	}
	return entries, nil
}

// NextOpeningBalance returns the opening balances to seed the next entry
// from a prior day's closing values. It is a suggestion only: callers may
// override it, and no cross-entry consistency is enforced against the
// shop's running total.
func NextOpeningBalance(prior SaleEntry) (opening18, opening24 decimal.Decimal) {
	return prior.Closing18, prior.Closing24
}

// ComputeTotals folds entries into opening/sale/closing sums over the 18kt
// denomination. Used by reporting, not by the ledger itself.
func ComputeTotals(entries []SaleEntry) SaleTotals {
	var t SaleTotals
	for _, e := range entries {
		t.TotalOpening = t.TotalOpening.Add(e.Opening18)
		t.TotalSaleQty = t.TotalSaleQty.Add(e.SaleQty)
		t.TotalClosing = t.TotalClosing.Add(e.Closing18)
	}
	return t
}
