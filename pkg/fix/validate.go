package fix

import (
	"cmp"
	"slices"
)

// ValidateEdits returns a ValidationError for the first edit that does not
// fit content of length contentLen.
func ValidateEdits(edits []TextEdit, contentLen int) error {
	for _, edit := range edits {
		if msg := edit.problem(contentLen); msg != "" {
			return &ValidationError{Edit: edit, Message: msg}
		}
	}
	return nil
}

// SortEdits orders edits by start then end offset. An insertion therefore
// precedes a rewrite that starts at the same offset.
func SortEdits(edits []TextEdit) {
	slices.SortStableFunc(edits, func(a, b TextEdit) int {
		return cmp.Or(cmp.Compare(a.StartOffset, b.StartOffset), cmp.Compare(a.EndOffset, b.EndOffset))
	})
}

// DetectConflicts reports the first overlapping pair in sorted edits. Two
// insertions at one offset conflict as well, since their order is undefined.
func DetectConflicts(edits []TextEdit) error {
	for i := 1; i < len(edits); i++ {
		prev, next := edits[i-1], edits[i]
		overlap := next.StartOffset < prev.EndOffset
		stacked := prev.isInsertion() && next.isInsertion() && prev.StartOffset == next.StartOffset
		if overlap || stacked {
			return &OverlapError{Edit1: prev, Edit2: next}
		}
	}
	return nil
}

// PrepareEdits validates a copy of edits, sorts it and checks it for
// conflicts. The input slice is left alone.
func PrepareEdits(edits []TextEdit, contentLen int) ([]TextEdit, error) {
	if len(edits) == 0 {
		return edits, nil
	}
	if err := ValidateEdits(edits, contentLen); err != nil {
		return nil, err
	}

	sorted := slices.Clone(edits)
	SortEdits(sorted)
	if err := DetectConflicts(sorted); err != nil {
		return nil, err
	}
	return sorted, nil
}
