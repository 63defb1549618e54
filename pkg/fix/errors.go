package fix

import (
	"errors"
	"fmt"
)

var (
	// ErrConflictingEdit is returned when two edits cannot both be applied.
	ErrConflictingEdit = errors.New("conflicting edit")

	// ErrNonBlankRemoval is returned when a whitespace removal targets
	// text that is not only spaces and tabs.
	ErrNonBlankRemoval = errors.New("removal target is not whitespace")

	// ErrForeignRange is returned for edits whose range belongs to another buffer.
	ErrForeignRange = errors.New("edit range belongs to another buffer")
)

// ConflictError identifies two edits that cannot be applied together.
type ConflictError struct {
	// First is the edit already recorded.
	First Edit

	// Second is the edit being recorded.
	Second Edit

	// Reason names the conflict rule that fired.
	Reason string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting edits: %s and %s: %s", e.First, e.Second, e.Reason)
}

// Unwrap allows errors.Is(err, ErrConflictingEdit).
func (e *ConflictError) Unwrap() error {
	return ErrConflictingEdit
}

// RemovalError reports a whitespace removal over non-blank text.
type RemovalError struct {
	Edit Edit
}

// Error implements the error interface.
func (e *RemovalError) Error() string {
	return fmt.Sprintf("cannot remove %s: %q is not whitespace", e.Edit.Range, e.Edit.Range.Source())
}

// Unwrap allows errors.Is(err, ErrNonBlankRemoval).
func (e *RemovalError) Unwrap() error {
	return ErrNonBlankRemoval
}

// ValidationError describes an invalid text edit.
type ValidationError struct {
	Edit    TextEdit
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid edit [%d:%d]: %s", e.Edit.StartOffset, e.Edit.EndOffset, e.Message)
}

// OverlapError describes overlapping resolved text edits.
type OverlapError struct {
	Edit1 TextEdit
	Edit2 TextEdit
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlapping edits: [%d:%d] and [%d:%d]",
		e.Edit1.StartOffset, e.Edit1.EndOffset,
		e.Edit2.StartOffset, e.Edit2.EndOffset)
}

// Unwrap allows errors.Is(err, ErrConflictingEdit).
func (e *OverlapError) Unwrap() error {
	return ErrConflictingEdit
}
