package models

import "fmt"

// ValidationError reports a missing required field or a value outside a
// closed enum set. Field names the offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func missingField(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "required field is missing"}
}

func invalidEnum(field, value string) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf("invalid value %q", value)}
}
