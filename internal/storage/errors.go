package storage

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("lab work not found")
	ErrDelimiter = errors.New("value contains the field delimiter")
)

// ParseError reports a malformed serialized line or field.
type ParseError struct {
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: field %s: %v", e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("field %s: %v", e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError reports a semantic constraint violation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}
