package errors

import (
	"fmt"
)

// FieldErrorKind identifies why a statement row field was rejected.
type FieldErrorKind string

const (
	FieldMissing       FieldErrorKind = "MISSING_FIELD"
	FieldInvalidDate   FieldErrorKind = "INVALID_DATE"
	FieldInvalidNumber FieldErrorKind = "INVALID_NUMBER"
)

// FieldError is a row-level validation failure. It carries the field name
// (for missing fields) or the offending raw value so callers can build
// operator-facing messages. Field errors never abort a whole file.
type FieldError struct {
	Kind  FieldErrorKind
	Field string
	Value string
}

// Error implements the error interface
func (e *FieldError) Error() string {
	switch e.Kind {
	case FieldMissing:
		return fmt.Sprintf("missing required field %q", e.Field)
	case FieldInvalidDate:
		return fmt.Sprintf("invalid date %q in field %q", e.Value, e.Field)
	case FieldInvalidNumber:
		return fmt.Sprintf("invalid number %q in field %q", e.Value, e.Field)
	default:
		return fmt.Sprintf("invalid field %q", e.Field)
	}
}

// NewMissingFieldError reports a required field that is absent or empty.
func NewMissingFieldError(field string) *FieldError {
	return &FieldError{Kind: FieldMissing, Field: field}
}

// NewInvalidDateError reports a date value that does not match the
// source's fixed date layout.
func NewInvalidDateError(field, value string) *FieldError {
	return &FieldError{Kind: FieldInvalidDate, Field: field, Value: value}
}

// NewInvalidNumberError reports a value that cannot be parsed as a
// finite decimal.
func NewInvalidNumberError(field, value string) *FieldError {
	return &FieldError{Kind: FieldInvalidNumber, Field: field, Value: value}
}
