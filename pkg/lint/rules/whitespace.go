package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/rbfix/pkg/ast"
	"github.com/yaklabco/rbfix/pkg/fix"
	"github.com/yaklabco/rbfix/pkg/lint"
	"github.com/yaklabco/rbfix/pkg/protect"
	"github.com/yaklabco/rbfix/pkg/source"
)

// dataSection marks the end of code; the lines after it are data.
const dataSection = "__END__"

// protectedRegions returns the string bodies, heredocs and document comments
// of the file. Document comments outside the root expression are included.
func protectedRegions(ctx *lint.RuleContext) []protect.Region {
	regions := protect.Detect(ctx.Source, ctx.Root)
	return append(regions, protect.DetectRange(ctx.Source, ctx.Buffer().FullRange())...)
}

// codeLines returns the number of lines before the data section.
func codeLines(buf *source.Buffer) int {
	for line := 1; line <= buf.LineCount(); line++ {
		if buf.LineContent(line) == dataSection {
			return line - 1
		}
	}
	return buf.LineCount()
}

// TrailingWhitespaceRule checks for trailing whitespace on lines.
type TrailingWhitespaceRule struct {
	lint.BaseRule
}

// NewTrailingWhitespaceRule creates a new trailing whitespace rule.
func NewTrailingWhitespaceRule() *TrailingWhitespaceRule {
	return &TrailingWhitespaceRule{
		BaseRule: lint.NewBaseRule(
			"Layout/TrailingWhitespace",
			"trailing-whitespace",
			"Lines should not end in spaces or tabs",
			[]string{"layout", "whitespace"},
			true,
		),
	}
}

// Apply checks for trailing whitespace on each line. Whitespace inside
// string bodies, heredocs and document comments is content and is kept.
func (r *TrailingWhitespaceRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	buf := ctx.Buffer()
	if buf == nil || buf.Len() == 0 {
		return nil, nil
	}

	regions := protectedRegions(ctx)

	var diags []lint.Diagnostic
	last := codeLines(buf)

	for line := 1; line <= last; line++ {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		ws, ok := lint.TrailingWhitespace(buf, line)
		if !ok || protect.Guards(regions, ws) {
			continue
		}

		diag := ctx.Diagnostic(r.ID(), ws, "Trailing whitespace detected.").
			WithSuggestion("Remove trailing whitespace").
			WithFix(fix.NewEditBuilder().Remove(ws)).
			Build()
		diags = append(diags, diag)
	}

	return diags, nil
}

// TrailingEmptyLinesRule ensures files end with exactly one newline.
type TrailingEmptyLinesRule struct {
	lint.BaseRule
}

// NewTrailingEmptyLinesRule creates a new trailing empty lines rule.
func NewTrailingEmptyLinesRule() *TrailingEmptyLinesRule {
	return &TrailingEmptyLinesRule{
		BaseRule: lint.NewBaseRule(
			"Layout/TrailingEmptyLines",
			"trailing-empty-lines",
			"Files should end with a single newline character",
			[]string{"layout", "whitespace", "blank_lines"},
			true,
		),
	}
}

// Apply checks the whitespace after the last non-blank character.
func (r *TrailingEmptyLinesRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	buf := ctx.Buffer()
	if buf == nil || buf.Len() == 0 || codeLines(buf) < buf.LineCount() {
		return nil, nil
	}

	content := buf.Source()
	trimmed := strings.TrimRight(content, " \t\r\n")
	if trimmed == "" {
		return nil, nil
	}

	blankLines := strings.Count(content[len(trimmed):], "\n") - 1
	if blankLines == 0 {
		return nil, nil
	}

	tail, err := buf.Range(len(trimmed), len(content))
	if err != nil {
		return nil, fmt.Errorf("trailing range: %w", err)
	}

	message := "Final newline missing."
	suggestion := "Add a newline at end of file"
	if blankLines > 0 {
		message = fmt.Sprintf("%d trailing blank lines detected.", blankLines)
		suggestion = fmt.Sprintf("Remove %d trailing blank line(s)", blankLines)
	}

	diag := ctx.Diagnostic(r.ID(), tail, message).
		WithSuggestion(suggestion).
		WithFix(fix.NewEditBuilder().Replace(tail, "\n")).
		Build()

	return []lint.Diagnostic{diag}, nil
}

// lineContinuation matches the backslash ending a line and the spaces before it.
var lineContinuation = regexp.MustCompile(`([^\S\n]*)\\\n`)

// SpaceBeforeLineContinuationRule checks that a line-continuation backslash
// outside string literals is preceded by exactly one space.
type SpaceBeforeLineContinuationRule struct {
	lint.BaseRule
}

// NewSpaceBeforeLineContinuationRule creates a new line continuation spacing rule.
func NewSpaceBeforeLineContinuationRule() *SpaceBeforeLineContinuationRule {
	return &SpaceBeforeLineContinuationRule{
		BaseRule: lint.NewBaseRule(
			"Layout/SpaceBeforeLineContinuation",
			"space-before-line-continuation",
			"A line-continuation backslash should be separated from preceding code by one space",
			[]string{"layout", "whitespace"},
			true,
		),
	}
}

// Apply scans the text between consecutive tokens that sit on different lines.
func (r *SpaceBeforeLineContinuationRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	buf := ctx.Buffer()
	if buf == nil {
		return nil, nil
	}

	tokens := lint.CodeTokens(ctx.Source)
	regions := protectedRegions(ctx)

	var diags []lint.Diagnostic

	for idx := 1; idx < len(tokens); idx++ {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		prev, next := tokens[idx-1], tokens[idx]
		if prev.Line == next.Line || prev.Range.End() >= next.Range.Begin() {
			continue
		}

		offset := prev.Range.End()
		between := buf.Slice(offset, next.Range.Begin())

		for _, match := range lineContinuation.FindAllStringSubmatchIndex(between, -1) {
			space, err := buf.Range(offset+match[2], offset+match[3])
			if err != nil {
				return diags, fmt.Errorf("continuation range: %w", err)
			}
			if space.Column() == 0 || protect.Guards(regions, space) || inComment(ctx.Source, space) {
				continue
			}

			if diag, ok := r.check(ctx, space); ok {
				diags = append(diags, diag)
			}
		}
	}

	return diags, nil
}

func (r *SpaceBeforeLineContinuationRule) check(ctx *lint.RuleContext, space source.Range) (lint.Diagnostic, bool) {
	switch {
	case space.Empty():
		backslash, err := space.Adjust(0, 1)
		if err != nil {
			return lint.Diagnostic{}, false
		}
		return ctx.Diagnostic(r.ID(), backslash, "Missing space before line continuation").
			WithSuggestion("Insert one space before the backslash").
			WithFix(fix.NewEditBuilder().InsertAfter(space, " ")).
			Build(), true

	case space.Size() > 1:
		extra, err := space.Adjust(0, -1)
		if err != nil {
			return lint.Diagnostic{}, false
		}
		return ctx.Diagnostic(r.ID(), extra, "Extra space before line continuation").
			WithSuggestion("Keep a single space before the backslash").
			WithFix(fix.NewEditBuilder().Remove(extra)).
			Build(), true
	}

	return lint.Diagnostic{}, false
}

// inComment reports whether r overlaps an end-of-line comment.
func inComment(ps *ast.ParsedSource, r source.Range) bool {
	for _, comment := range ps.Comments {
		if r.Within(comment.Range) || r.Overlaps(comment.Range) {
			return true
		}
	}
	return false
}
