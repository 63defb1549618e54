// Package fix records, checks and applies text edits for auto-correction.
package fix

import (
	"fmt"

	"github.com/yaklabco/rbfix/pkg/source"
)

// EditKind is the kind of a proposed change.
type EditKind uint8

const (
	// InsertBefore inserts text at the begin of the target range.
	InsertBefore EditKind = iota

	// InsertAfter inserts text at the end of the target range.
	InsertAfter

	// Remove deletes the target range.
	Remove

	// Replace substitutes text for the target range.
	Replace
)

// String returns the edit kind name.
func (k EditKind) String() string {
	switch k {
	case InsertBefore:
		return "insert-before"
	case InsertAfter:
		return "insert-after"
	case Remove:
		return "remove"
	case Replace:
		return "replace"
	default:
		return fmt.Sprintf("EditKind(%d)", uint8(k))
	}
}

// Edit is one proposed change against a buffer.
type Edit struct {
	Kind  EditKind
	Range source.Range

	// Text is the inserted or replacement text.
	Text string

	// RetryWhitespace marks a whitespace removal that may be shifted one
	// position forward when it collides with another edit.
	RetryWhitespace bool
}

// String renders the edit for error messages.
func (e Edit) String() string {
	if e.Kind == Remove {
		return fmt.Sprintf("%s %s", e.Kind, e.Range)
	}
	return fmt.Sprintf("%s %s %q", e.Kind, e.Range, e.Text)
}

// rewrites reports whether the edit consumes source bytes.
func (e Edit) rewrites() bool {
	return (e.Kind == Remove || e.Kind == Replace) && !e.Range.Empty()
}

// position returns the insertion offset of an insert edit.
func (e Edit) position() int {
	if e.Kind == InsertAfter {
		return e.Range.End()
	}
	return e.Range.Begin()
}

// TextEdit is a resolved byte-offset replacement, the form edits take when
// they are applied.
type TextEdit struct {
	StartOffset int // inclusive
	EndOffset   int // exclusive
	NewText     string
}

func (e TextEdit) isInsertion() bool { return e.StartOffset == e.EndOffset }

// problem describes why e cannot apply to content of length n, or "".
func (e TextEdit) problem(n int) string {
	switch {
	case e.StartOffset < 0:
		return "start offset is negative"
	case e.EndOffset < e.StartOffset:
		return "end offset is before start offset"
	case e.EndOffset > n:
		return fmt.Sprintf("end offset %d exceeds content length %d", e.EndOffset, n)
	}
	return ""
}

// EditBuilder is the deferred correction a rule returns with a diagnostic:
// an ordered list of edits that a Corrector records later. It holds no
// reference to corrector state.
type EditBuilder struct {
	edits []Edit
}

// NewEditBuilder creates an empty EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{}
}

// InsertBefore adds an insertion at the begin of r.
func (b *EditBuilder) InsertBefore(r source.Range, text string) *EditBuilder {
	b.edits = append(b.edits, Edit{Kind: InsertBefore, Range: r, Text: text})
	return b
}

// InsertAfter adds an insertion at the end of r.
func (b *EditBuilder) InsertAfter(r source.Range, text string) *EditBuilder {
	b.edits = append(b.edits, Edit{Kind: InsertAfter, Range: r, Text: text})
	return b
}

// Remove adds a removal of r.
func (b *EditBuilder) Remove(r source.Range) *EditBuilder {
	b.edits = append(b.edits, Edit{Kind: Remove, Range: r})
	return b
}

// RemoveWhitespace adds a removal of a whitespace-only range that the
// corrector may shift forward once on conflict.
func (b *EditBuilder) RemoveWhitespace(r source.Range) *EditBuilder {
	b.edits = append(b.edits, Edit{Kind: Remove, Range: r, RetryWhitespace: true})
	return b
}

// Replace adds a replacement of r with text.
func (b *EditBuilder) Replace(r source.Range, text string) *EditBuilder {
	b.edits = append(b.edits, Edit{Kind: Replace, Range: r, Text: text})
	return b
}

// Add appends a prepared edit.
func (b *EditBuilder) Add(edit Edit) *EditBuilder {
	b.edits = append(b.edits, edit)
	return b
}

// Append adds all edits of other after the edits of b.
func (b *EditBuilder) Append(other *EditBuilder) *EditBuilder {
	if other != nil {
		b.edits = append(b.edits, other.edits...)
	}
	return b
}

// Edits returns a copy of the recorded edits.
func (b *EditBuilder) Edits() []Edit {
	if b == nil {
		return nil
	}
	out := make([]Edit, len(b.edits))
	copy(out, b.edits)
	return out
}

// Len returns the number of edits.
func (b *EditBuilder) Len() int {
	if b == nil {
		return 0
	}
	return len(b.edits)
}

// Empty reports whether the builder holds no edits.
func (b *EditBuilder) Empty() bool {
	return b.Len() == 0
}
