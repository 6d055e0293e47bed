package image

import (
	"errors"
	"fmt"
)

// ErrMalformed indicates an image that fails header, bounds or reference checks.
var ErrMalformed = errors.New("malformed automaton image")

// FormatError records where an image failed validation.
type FormatError struct {
	Offset int
	Reason string
	Err    error // Optional underlying table error
}

// Error implements the error interface
func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed image at offset %d: %s: %v", e.Offset, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed image at offset %d: %s", e.Offset, e.Reason)
}

// Unwrap returns ErrMalformed and the underlying table error, if any
func (e *FormatError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrMalformed, e.Err}
	}
	return []error{ErrMalformed}
}

func malformed(off int, format string, args ...any) error {
	return &FormatError{Offset: off, Reason: fmt.Sprintf(format, args...)}
}
