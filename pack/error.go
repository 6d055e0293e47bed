package pack

import "fmt"

// ErrInvalidParameters indicates a configuration or input value the image
// format cannot represent, such as a destination size outside 1..4.
var ErrInvalidParameters = &PackError{
	Kind:    InvalidParameters,
	Message: "invalid packer parameters",
}

// ErrCapacity indicates that the image needs offsets the configured
// destination size cannot address. Retry with a larger DstSize.
var ErrCapacity = &PackError{
	Kind:    InternalError,
	Message: "automaton does not fit the destination size",
}

// ErrPrecondition indicates Process was called with missing or conflicting inputs.
var ErrPrecondition = &PackError{
	Kind:    Precondition,
	Message: "packer precondition violated",
}

// ErrorKind classifies packer errors into categories
type ErrorKind uint8

const (
	// InvalidParameters indicates bad configuration or an unencodable value
	InvalidParameters ErrorKind = iota

	// InternalError indicates the automaton exceeds the format's capacity
	InternalError

	// Precondition indicates the packer was driven incorrectly
	Precondition
)

// String returns a human-readable error kind name
func (k ErrorKind) String() string {
	switch k {
	case InvalidParameters:
		return "InvalidParameters"
	case InternalError:
		return "InternalError"
	case Precondition:
		return "Precondition"
	default:
		return fmt.Sprintf("UnknownErrorKind(%d)", k)
	}
}

// PackError represents an error that occurred while packing an automaton
type PackError struct {
	Kind    ErrorKind
	Message string
	Cause   error // Optional underlying error
}

// Error implements the error interface
func (e *PackError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error (for errors.Is/As)
func (e *PackError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison for errors.Is
func (e *PackError) Is(target error) bool {
	t, ok := target.(*PackError)
	if !ok {
		return false
	}
	// capacity errors carry ErrCapacity as their cause
	if t == ErrCapacity {
		return e == ErrCapacity
	}
	return e.Kind == t.Kind
}

func newError(kind ErrorKind, format string, args ...any) *PackError {
	return &PackError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
