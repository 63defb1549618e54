// Package align shifts the lines of a node left or right and aligns closing
// keywords, skipping string bodies, heredocs and document comments.
package align

import (
	"strings"

	"github.com/yaklabco/rbfix/pkg/ast"
	"github.com/yaklabco/rbfix/pkg/fix"
	"github.com/yaklabco/rbfix/pkg/protect"
	"github.com/yaklabco/rbfix/pkg/source"
)

// Anchor is anything with a source position: *ast.Node, ast.Token,
// ast.Comment or source.Range.
type Anchor interface {
	SourceRange() source.Range
}

// Correct returns the edits that move every line of node by delta columns.
// The first line is shifted at the node's begin; following lines at their
// line starts. Lines whose edit would touch a protected region are left
// alone. A negative delta that would have to remove a non-blank character
// fails with fix.ErrNonBlankRemoval.
func Correct(ps *ast.ParsedSource, node *ast.Node, delta int) (*fix.EditBuilder, error) {
	if node == nil {
		return fix.NewEditBuilder(), nil
	}
	return correct(node.SourceRange(), protect.Detect(ps, node), delta)
}

// CorrectRange is Correct for a bare range. Only document comments inside r
// are protected, since a range carries no nodes.
func CorrectRange(ps *ast.ParsedSource, r source.Range, delta int) (*fix.EditBuilder, error) {
	return correct(r, protect.DetectRange(ps, r), delta)
}

func correct(expr source.Range, regions []protect.Region, delta int) (*fix.EditBuilder, error) {
	builder := fix.NewEditBuilder()
	if delta == 0 || !expr.Valid() || expr.Empty() {
		return builder, nil
	}

	buf := expr.Buffer()
	text := expr.Source()
	lineBegin := expr.Begin()

	for text != "" {
		line := text
		if idx := strings.IndexByte(text, '\n'); idx >= 0 {
			line = text[:idx+1]
		}

		target, ok, err := lineTarget(buf, lineBegin, line, delta)
		if err != nil {
			return nil, err
		}
		if ok && !protect.Guards(regions, target) {
			if delta > 0 {
				builder.InsertBefore(target, strings.Repeat(" ", delta))
			} else {
				builder.RemoveWhitespace(target)
			}
		}

		lineBegin += len(line)
		text = text[len(line):]
	}

	return builder, nil
}

// lineTarget returns the range to edit for one line, or false when the
// line needs no edit.
func lineTarget(buf *source.Buffer, lineBegin int, line string, delta int) (source.Range, bool, error) {
	if delta > 0 {
		if source.IsLineTerminator(line) {
			return source.Range{}, false, nil
		}
		r, err := buf.Range(lineBegin, lineBegin)
		return r, err == nil, err
	}

	if strings.TrimLeft(line, " \t\r\n") == "" {
		return source.Range{}, false, nil
	}

	width := -delta
	if line[0] == ' ' || line[0] == '\t' {
		run := len(line) - len(strings.TrimLeft(line, " \t"))
		r, err := buf.Range(lineBegin, lineBegin+min(run, width))
		return r, err == nil, err
	}

	borrowed, err := buf.Range(max(lineBegin-width, 0), lineBegin)
	if err != nil {
		return source.Range{}, false, err
	}
	if !borrowed.IsBlank() {
		return source.Range{}, false, &fix.RemovalError{Edit: fix.Edit{Kind: fix.Remove, Range: borrowed}}
	}

	return borrowed, true, nil
}

// AlignEnd returns the edit that moves the closing delimiter or keyword of
// node to the column of ref, replacing the whitespace before it on its line.
// It reports false when anything but whitespace precedes the closing token
// or node has no closing location. A nil ref aligns to column 0.
func AlignEnd(_ *ast.ParsedSource, node *ast.Node, ref Anchor) (*fix.EditBuilder, bool) {
	if node == nil || !node.Loc.End.Valid() {
		return nil, false
	}

	end := node.Loc.End
	whitespace, err := source.NewRange(end.Buffer(), end.Begin()-end.Column(), end.Begin())
	if err != nil || strings.TrimSpace(whitespace.Source()) != "" {
		return nil, false
	}

	return fix.NewEditBuilder().Replace(whitespace, strings.Repeat(" ", Column(ref))), true
}

// Column returns the 0-based column of anchor, or 0 when it is nil.
func Column(anchor Anchor) int {
	switch value := anchor.(type) {
	case nil:
		return 0
	case *ast.Node:
		if value == nil {
			return 0
		}
	}
	return anchor.SourceRange().Column()
}
