package source

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned when a range is malformed or leaves its buffer.
var ErrInvalidRange = errors.New("invalid range")

// RangeError describes a rejected range construction.
type RangeError struct {
	Begin int
	End   int
	Size  int
}

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range [%d, %d) over buffer of %d bytes", e.Begin, e.End, e.Size)
}

// Unwrap allows errors.Is(err, ErrInvalidRange).
func (e *RangeError) Unwrap() error {
	return ErrInvalidRange
}
