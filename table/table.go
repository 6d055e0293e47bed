// Package table implements the content-addressed side tables of a packed
// automaton image.
//
// Chains stores integer arrays (output weight sets) once per distinct
// content and hands out byte offsets into its dump. IwMap stores the
// old-symbol -> new-symbol remapping as a small interval table.
//
// Both dumps are self-describing, little-endian and padded to a multiple of
// four bytes. ParseChains and ParseIwMap read them back.
package table

import (
	"errors"
	"fmt"
)

// Common table errors
var (
	// ErrInvalidIws indicates an IwMap input that is not sorted, unique and non-negative
	ErrInvalidIws = errors.New("invalid symbol map")

	// ErrEmpty indicates Process on an empty table
	ErrEmpty = errors.New("empty table")

	// ErrMalformed indicates a dump that fails bounds or header checks
	ErrMalformed = errors.New("malformed table dump")
)

// MalformedError records where a dump failed validation.
type MalformedError struct {
	Offset int
	Reason string
}

// Error implements the error interface
func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed table dump at offset %d: %s", e.Offset, e.Reason)
}

// Unwrap returns ErrMalformed
func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}

func malformed(off int, format string, args ...any) error {
	return &MalformedError{Offset: off, Reason: fmt.Sprintf(format, args...)}
}
