package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Range is an inclusive calendar-day window. Comparison ignores the
// time-of-day on both the bounds and the entries.
type Range struct {
	Start time.Time
	End   time.Time
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls inside the range, boundaries included.
func (r Range) Contains(t time.Time) bool {
	d := day(t)
	return !d.Before(day(r.Start)) && !d.After(day(r.End))
}

// CompanySummary is the per-company dashboard fold over committed supply
// and return entries.
type CompanySummary struct {
	CompanyID      string
	TotalAdded18   decimal.Decimal
	TotalAdded24   decimal.Decimal
	TotalSold18    decimal.Decimal
	TotalSold24    decimal.Decimal
	CurrentStock18 decimal.Decimal
	CurrentStock24 decimal.Decimal
	// Difference figures cross-check the two denominations against the
	// company's effective conversion rate. They expose drift for manual
	// reconciliation and are not expected to be zero.
	Difference18    decimal.Decimal
	Difference24    decimal.Decimal
	TotalDifference decimal.Decimal
}

// OverallSummary aggregates every company's summary plus a grand total row.
// The totals are element-wise sums of the per-company figures, not a
// recomputation from raw entries.
type OverallSummary struct {
	Companies            []CompanySummary
	TotalCompanies       int
	TotalAdded18         decimal.Decimal
	TotalAdded24         decimal.Decimal
	TotalSold18          decimal.Decimal
	TotalSold24          decimal.Decimal
	TotalCurrentStock18  decimal.Decimal
	TotalCurrentStock24  decimal.Decimal
	TotalDifference18    decimal.Decimal
	TotalDifference24    decimal.Decimal
	GrandTotalDifference decimal.Decimal
}

// SummarizeCompany folds a company's supply and return entries into a
// summary, optionally restricted to a date range. Entries for other
// companies are skipped, so callers may pass unfiltered lists.
func SummarizeCompany(companyID string, supplies []SupplyEntry, returns []ReturnEntry, r *Range) CompanySummary {
	s := CompanySummary{CompanyID: companyID}

	for _, e := range supplies {
		if e.CompanyID != companyID {
			continue
		}
		if r != nil && !r.Contains(e.Date) {
			continue
		}
		s.TotalAdded18 = s.TotalAdded18.Add(e.Gold18)
		s.TotalAdded24 = s.TotalAdded24.Add(e.Gold24)
	}
	for _, e := range returns {
		if e.CompanyID != companyID {
			continue
		}
		if r != nil && !r.Contains(e.Date) {
			continue
		}
		s.TotalSold18 = s.TotalSold18.Add(e.Gold18)
		s.TotalSold24 = s.TotalSold24.Add(e.Gold24)
	}

	s.CurrentStock18 = s.TotalAdded18.Sub(s.TotalSold18)
	s.CurrentStock24 = s.TotalAdded24.Sub(s.TotalSold24)

	// The conversion-consistent rate is the effective rate over the
	// company's filtered supply entries. Without any 18kt added there is no
	// rate to check against and the differences stay zero.
	if s.TotalAdded18.IsPositive() {
		rate := s.TotalAdded24.Div(s.TotalAdded18)
		s.Difference24 = roundCompany(s.CurrentStock18.Mul(rate).Sub(s.CurrentStock24))
		s.Difference18 = roundCompany(s.CurrentStock18.Sub(s.CurrentStock24.Div(rate)))
	}
	s.TotalDifference = s.Difference18.Add(s.Difference24)
	return s
}

// SummarizeAll produces every company's summary plus the grand total row.
func SummarizeAll(companyIDs []string, supplies []SupplyEntry, returns []ReturnEntry, r *Range) OverallSummary {
	all := OverallSummary{
		Companies:      make([]CompanySummary, 0, len(companyIDs)),
		TotalCompanies: len(companyIDs),
	}
	for _, id := range companyIDs {
		s := SummarizeCompany(id, supplies, returns, r)
		all.Companies = append(all.Companies, s)

		all.TotalAdded18 = all.TotalAdded18.Add(s.TotalAdded18)
		all.TotalAdded24 = all.TotalAdded24.Add(s.TotalAdded24)
		all.TotalSold18 = all.TotalSold18.Add(s.TotalSold18)
		all.TotalSold24 = all.TotalSold24.Add(s.TotalSold24)
		all.TotalCurrentStock18 = all.TotalCurrentStock18.Add(s.CurrentStock18)
		all.TotalCurrentStock24 = all.TotalCurrentStock24.Add(s.CurrentStock24)
		all.TotalDifference18 = all.TotalDifference18.Add(s.Difference18)
		all.TotalDifference24 = all.TotalDifference24.Add(s.Difference24)
		all.GrandTotalDifference = all.GrandTotalDifference.Add(s.Difference24)
	}
	return all
}
