package array

import (
	"errors"
	"fmt"
)

var (
	// Ingestion and export errors
	ErrTypeMismatch         = errors.New("element type mismatch")
	ErrSizeMismatch         = errors.New("byte length is not a multiple of the element size")
	ErrUnsupportedFormat    = errors.New("element type has no buffer format")
	ErrWritabilityViolation = errors.New("write access requested on a read-only array")

	// Access errors
	ErrOutOfRange = errors.New("index out of range")

	// View lifetime errors
	ErrViewReleased = errors.New("view is not exported or was already released")

	// Sequence ingestion and persistence errors
	ErrConversion       = errors.New("element conversion failed")
	ErrInvalidReduction = errors.New("invalid constructor arguments")
)

// ConversionError reports the first sequence element the append
// operation rejected. Elements before Index were kept.
type ConversionError struct {
	Index int
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("element %d: %v", e.Index, e.Err)
}

// Unwrap exposes both ErrConversion and the rejection cause to errors.Is.
func (e *ConversionError) Unwrap() []error {
	return []error{ErrConversion, e.Err}
}

func outOfRange(index, length int) error {
	return fmt.Errorf("%w: index %d, length %d", ErrOutOfRange, index, length)
}
