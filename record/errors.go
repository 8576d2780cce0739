package record

import "fmt"

// MissingFieldError reports required top level element absent from record.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %q is missing", e.Field)
}

// InvalidFieldError reports required element which is present but does not
// hold single text value.
type InvalidFieldError struct {
	Field string
	Value any
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("required field %q must have single non-empty text value, got %#v", e.Field, e.Value)
}

// DateError reports release date which is not a calendar date.
type DateError struct {
	Value string
	Err   error
}

func (e *DateError) Error() string {
	return fmt.Sprintf("unable to parse release date %q: %v", e.Value, e.Err)
}

func (e *DateError) Unwrap() error { return e.Err }

// ParseError reports malformed XML record.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse record (%s): %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
