package models

import (
	"fmt"
	"strings"
)

// EmptyDatasetError is returned when the decision table has no rows.
type EmptyDatasetError struct{}

func (e *EmptyDatasetError) Error() string {
	return "dataset is empty: at least one decision record is required"
}

// MissingColumnError is returned when a required column is absent from the table header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("required column %q is missing", e.Column)
}

// InsufficientGroupsError is returned when fewer than two non-empty groups remain,
// which makes any group comparison meaningless.
type InsufficientGroupsError struct {
	Groups []string
}

func (e *InsufficientGroupsError) Error() string {
	if len(e.Groups) == 0 {
		return "at least 2 groups are required for a fairness comparison, found none"
	}
	return fmt.Sprintf("at least 2 groups are required for a fairness comparison, found %d (%s)",
		len(e.Groups), strings.Join(e.Groups, ", "))
}

// InvalidValueError is returned when a cell cannot be coerced to the expected type.
// Row is the 1-based data row (header excluded); 0 means the value did not come from a row.
type InvalidValueError struct {
	Row    int
	Column string
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	reason := e.Reason
	if reason == "" {
		reason = "expected a binary value (0/1, true/false, yes/no)"
	}
	if e.Row > 0 {
		return fmt.Sprintf("row %d: invalid value %q in column %q: %s", e.Row, e.Value, e.Column, reason)
	}
	return fmt.Sprintf("invalid value %q for %q: %s", e.Value, e.Column, reason)
}
