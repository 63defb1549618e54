package fix

import (
	"errors"
	"fmt"
	"slices"

	"github.com/yaklabco/rbfix/pkg/source"
)

// Corrector accumulates the edits of one correction pass over one buffer
// and applies them in a single pass. It is not safe for concurrent use;
// rules contribute edits through one serialized stage.
//
// Conflict policy:
//   - identical rewrites (same kind, range and text) are recorded once;
//   - a removal nested inside another removal is absorbed by the outer one;
//   - any other overlap between removals and replacements is a conflict,
//     including a removal nested inside a replacement;
//   - two removals that touch end to begin conflict;
//   - an insertion strictly inside a rewritten range conflicts;
//   - insertions at one position accumulate: InsertBefore text is prepended,
//     InsertAfter text appended, and after-text precedes before-text.
//
// A whitespace removal that conflicts is retried once, shifted one byte
// forward, when the shifted range is still made of spaces.
type Corrector struct {
	buf      *source.Buffer
	rewrites []Edit
	inserts  map[int]*insertion
	count    int
}

type insertion struct {
	before string
	after  string
}

func (i *insertion) text() string {
	return i.after + i.before
}

// NewCorrector creates an empty corrector for buf.
func NewCorrector(buf *source.Buffer) *Corrector {
	return &Corrector{buf: buf, inserts: make(map[int]*insertion)}
}

// Buffer returns the buffer the corrector edits.
func (c *Corrector) Buffer() *source.Buffer {
	return c.buf
}

// InsertBefore records an insertion at the begin of r.
func (c *Corrector) InsertBefore(r source.Range, text string) error {
	return c.record(Edit{Kind: InsertBefore, Range: r, Text: text})
}

// InsertAfter records an insertion at the end of r.
func (c *Corrector) InsertAfter(r source.Range, text string) error {
	return c.record(Edit{Kind: InsertAfter, Range: r, Text: text})
}

// Remove records a removal of r.
func (c *Corrector) Remove(r source.Range) error {
	return c.record(Edit{Kind: Remove, Range: r})
}

// RemoveWhitespace records a removal of the blank range r, with retry.
func (c *Corrector) RemoveWhitespace(r source.Range) error {
	return c.record(Edit{Kind: Remove, Range: r, RetryWhitespace: true})
}

// Replace records a replacement of r with text.
func (c *Corrector) Replace(r source.Range, text string) error {
	return c.record(Edit{Kind: Replace, Range: r, Text: text})
}

// Merge records every edit of b, or none of them if any edit fails.
func (c *Corrector) Merge(b *EditBuilder) error {
	if b.Empty() {
		return nil
	}

	saved := c.snapshot()
	for _, edit := range b.edits {
		if err := c.record(edit); err != nil {
			c.restore(saved)
			return err
		}
	}

	return nil
}

// Len returns the number of recorded edits. Duplicates and absorbed
// removals are not counted.
func (c *Corrector) Len() int {
	return c.count
}

// Empty reports whether nothing has been recorded.
func (c *Corrector) Empty() bool {
	return len(c.rewrites) == 0 && len(c.inserts) == 0
}

// TextEdits returns the resolved edits sorted by offset.
func (c *Corrector) TextEdits() []TextEdit {
	edits := make([]TextEdit, 0, len(c.rewrites)+len(c.inserts))

	for pos, ins := range c.inserts {
		edits = append(edits, TextEdit{StartOffset: pos, EndOffset: pos, NewText: ins.text()})
	}
	for _, edit := range c.rewrites {
		text := edit.Text
		if edit.Kind == Remove {
			text = ""
		}
		edits = append(edits, TextEdit{
			StartOffset: edit.Range.Begin(),
			EndOffset:   edit.Range.End(),
			NewText:     text,
		})
	}

	SortEdits(edits)
	return edits
}

// Apply produces the corrected buffer. The source buffer is not modified.
func (c *Corrector) Apply() (*source.Buffer, error) {
	edits, err := PrepareEdits(c.TextEdits(), c.buf.Len())
	if err != nil {
		return nil, err
	}
	if len(edits) == 0 {
		return c.buf, nil
	}

	return c.buf.WithContent(ApplyEdits([]byte(c.buf.Source()), edits)), nil
}

func (c *Corrector) record(edit Edit) error {
	if edit.Range.Buffer() != c.buf {
		return fmt.Errorf("%w: %s", ErrForeignRange, edit)
	}
	if edit.RetryWhitespace && !edit.Range.IsBlank() {
		return &RemovalError{Edit: edit}
	}

	err := c.add(edit)
	if err == nil || !edit.RetryWhitespace || !errors.Is(err, ErrConflictingEdit) {
		return err
	}

	shifted, shiftErr := edit.Range.Adjust(1, 1)
	if shiftErr != nil || !source.IsSpaces(shifted.Source()) {
		return err
	}

	retry := edit
	retry.Range = shifted
	retry.RetryWhitespace = false
	if retryErr := c.add(retry); retryErr != nil {
		return err
	}

	return nil
}

func (c *Corrector) add(edit Edit) error {
	switch edit.Kind {
	case InsertBefore, InsertAfter:
		return c.addInsertion(edit)
	case Remove, Replace:
		if !edit.Range.Empty() {
			return c.addRewrite(edit)
		}
		if edit.Kind == Replace {
			return c.addInsertion(Edit{Kind: InsertBefore, Range: edit.Range, Text: edit.Text})
		}
		return nil
	default:
		return fmt.Errorf("unknown edit kind %s", edit.Kind)
	}
}

func (c *Corrector) addInsertion(edit Edit) error {
	if edit.Text == "" {
		return nil
	}

	pos := edit.position()
	for _, existing := range c.rewrites {
		if existing.Range.Begin() < pos && pos < existing.Range.End() {
			return &ConflictError{First: existing, Second: edit, Reason: "insertion inside rewritten range"}
		}
	}

	ins, ok := c.inserts[pos]
	if !ok {
		ins = &insertion{}
		c.inserts[pos] = ins
	}
	if edit.Kind == InsertBefore {
		ins.before = edit.Text + ins.before
	} else {
		ins.after += edit.Text
	}
	c.count++

	return nil
}

func (c *Corrector) addRewrite(edit Edit) error {
	target := edit.Range

	if pos, ok := c.insertionInside(target); ok {
		first := Edit{Kind: InsertBefore, Range: c.buf.MustRange(pos, pos), Text: c.inserts[pos].text()}
		return &ConflictError{First: first, Second: edit, Reason: "rewrite swallows insertion"}
	}

	var absorbed []int
	for idx, existing := range c.rewrites {
		current := existing.Range
		bothRemove := existing.Kind == Remove && edit.Kind == Remove

		switch {
		case current == target:
			if existing.Kind == edit.Kind && (edit.Kind == Remove || existing.Text == edit.Text) {
				return nil
			}
			return &ConflictError{First: existing, Second: edit, Reason: "different edits of the same range"}
		case target.Within(current):
			if bothRemove {
				return nil
			}
			return &ConflictError{First: existing, Second: edit, Reason: "edit nested inside " + existing.Kind.String()}
		case current.Within(target):
			if bothRemove {
				absorbed = append(absorbed, idx)
				continue
			}
			return &ConflictError{First: existing, Second: edit, Reason: edit.Kind.String() + " swallows edit"}
		case target.Overlaps(current):
			return &ConflictError{First: existing, Second: edit, Reason: "overlapping ranges"}
		case bothRemove && target.Touches(current):
			return &ConflictError{First: existing, Second: edit, Reason: "adjacent removals"}
		}
	}

	for idx := len(absorbed) - 1; idx >= 0; idx-- {
		c.rewrites = slices.Delete(c.rewrites, absorbed[idx], absorbed[idx]+1)
	}
	c.count -= len(absorbed)

	at, _ := slices.BinarySearchFunc(c.rewrites, target.Begin(), func(e Edit, begin int) int {
		return e.Range.Begin() - begin
	})
	c.rewrites = slices.Insert(c.rewrites, at, edit)
	c.count++

	return nil
}

// insertionInside returns the lowest insertion position strictly inside r.
func (c *Corrector) insertionInside(r source.Range) (int, bool) {
	found, ok := 0, false
	for pos := range c.inserts {
		if r.Begin() < pos && pos < r.End() && (!ok || pos < found) {
			found, ok = pos, true
		}
	}
	return found, ok
}

type correctorState struct {
	rewrites []Edit
	inserts  map[int]insertion
	count    int
}

func (c *Corrector) snapshot() correctorState {
	inserts := make(map[int]insertion, len(c.inserts))
	for pos, ins := range c.inserts {
		inserts[pos] = *ins
	}
	return correctorState{rewrites: slices.Clone(c.rewrites), inserts: inserts, count: c.count}
}

func (c *Corrector) restore(state correctorState) {
	c.rewrites = state.rewrites
	c.inserts = make(map[int]*insertion, len(state.inserts))
	for pos, ins := range state.inserts {
		c.inserts[pos] = &ins
	}
	c.count = state.count
}
