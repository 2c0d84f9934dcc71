package models

import "fmt"

// ValidationError reports a reminder field that violates the rules of its
// frequency, e.g. a monthly reminder without day_of_month. It is returned
// before anything is persisted; invalid input is never silently corrected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
