package dict

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyWord indicates a zero-length dictionary word
	ErrEmptyWord = errors.New("empty word")

	// ErrDuplicate indicates a word listed twice
	ErrDuplicate = errors.New("duplicate word")

	// ErrNoWords indicates a dictionary or image without any word
	ErrNoWords = errors.New("no words")

	// ErrCyclic indicates an image whose language is infinite
	ErrCyclic = errors.New("automaton is cyclic")

	// ErrBadWeight indicates a weight column that is not a 32-bit integer
	ErrBadWeight = errors.New("bad weight")

	// ErrUnknownOutput indicates an unknown output kind name
	ErrUnknownOutput = errors.New("unknown output kind")
)

// LineError reports the word-list line an error occurred on.
type LineError struct {
	Line int
	Err  error
}

// Error implements the error interface
func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

// Unwrap returns the underlying error
func (e *LineError) Unwrap() error {
	return e.Err
}
