package ledger

import "fmt"

// ValidationError reports a required field that is missing, negative or
// otherwise out of range. The whole batch it belongs to is rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an operation targeting an entry that does not exist.
type NotFoundError struct {
	EntryID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("entry %s not found", e.EntryID)
}

// InvalidTransitionError reports an approval-workflow move out of a
// terminal status.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition entry from %s to %s", e.From, e.To)
}
