package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the approval state of a company supply entry.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	// StatusFollowUp is set by an external workflow action. For transition
	// purposes it behaves exactly like pending.
	StatusFollowUp Status = "follow_up"
)

// Terminal reports whether no further transition is allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// HomeStockEntry is the consolidated record created when a supply entry is
// approved. It is a copy of the source entry's figures, not a reference:
// later edits to the source never reach home stock. SourceID links back to
// the approved entry and never changes.
type HomeStockEntry struct {
	SourceID string
	Date     time.Time
	Gold24   decimal.Decimal
	Rate     decimal.Decimal
	Gold18   decimal.Decimal
	Approved bool
}

// Approve moves a supply entry from pending (or follow_up) to approved and
// derives the home-stock record to persist alongside the status change.
// Approving an entry that is already approved or rejected fails, so a
// retried approval cannot duplicate home stock.
func Approve(entryID string, current Status, entry SupplyEntry) (Status, HomeStockEntry, error) {
	if current.Terminal() {
		return current, HomeStockEntry{}, &InvalidTransitionError{From: current, To: StatusApproved}
	}
	home := HomeStockEntry{
		SourceID: entryID,
		Date:     entry.Date,
		Gold24:   entry.Gold24,
		Rate:     entry.Rate,
		Gold18:   entry.Gold18,
		Approved: true,
	}
	return StatusApproved, home, nil
}

// Reject moves a supply entry from pending (or follow_up) to rejected.
func Reject(current Status) (Status, error) {
	if current.Terminal() {
		return current, &InvalidTransitionError{From: current, To: StatusRejected}
	}
	return StatusRejected, nil
}
