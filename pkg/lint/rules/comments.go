package rules

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yaklabco/rbfix/pkg/ast"
	"github.com/yaklabco/rbfix/pkg/fix"
	"github.com/yaklabco/rbfix/pkg/lint"
)

// SpaceBeforeCommentRule checks that end-of-line comments are separated
// from the code before them.
type SpaceBeforeCommentRule struct {
	lint.BaseRule
}

// NewSpaceBeforeCommentRule creates a new space-before-comment rule.
func NewSpaceBeforeCommentRule() *SpaceBeforeCommentRule {
	return &SpaceBeforeCommentRule{
		BaseRule: lint.NewBaseRule(
			"Layout/SpaceBeforeComment",
			"space-before-comment",
			"End-of-line comments should be preceded by a space",
			[]string{"layout", "comments", "whitespace"},
			true,
		),
	}
}

// Apply flags comments that start right where a code token ends.
func (r *SpaceBeforeCommentRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.Source == nil {
		return nil, nil
	}

	var diags []lint.Diagnostic

	for _, comment := range ctx.Source.Comments {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}
		if comment.Document() {
			continue
		}

		tok, ok := lint.PrecedingToken(ctx.Source, comment.Line(), comment.Range.Begin())
		if !ok || tok.Range.End() != comment.Range.Begin() {
			continue
		}

		diag := ctx.Diagnostic(r.ID(), comment.Range, "Put a space before an end-of-line comment.").
			WithSuggestion("Insert a space before the comment").
			WithFix(fix.NewEditBuilder().InsertBefore(comment.Range, " ")).
			Build()
		diags = append(diags, diag)
	}

	return diags, nil
}

var (
	emptyComment       = regexp.MustCompile(`\A(#\n)+\z`)
	emptyBorderComment = regexp.MustCompile(`\A(#+\n)+\z`)
)

// EmptyCommentRule flags comments without text.
//
// Options:
//   - allow_border_comment (default true): "#####" lines are not empty.
//   - allow_margin_comment (default true): an empty comment next to a
//     comment with text, on consecutive lines, is a margin and is kept.
type EmptyCommentRule struct {
	lint.BaseRule
}

// NewEmptyCommentRule creates a new empty comment rule.
func NewEmptyCommentRule() *EmptyCommentRule {
	return &EmptyCommentRule{
		BaseRule: lint.NewBaseRule(
			"Layout/EmptyComment",
			"empty-comment",
			"Source code comments should not be empty",
			[]string{"layout", "comments"},
			true,
		),
	}
}

// commentGroup is a run of comments on consecutive lines.
type commentGroup struct {
	text     strings.Builder
	comments []ast.Comment
}

// Apply flags empty comments, or whole groups of them in margin mode.
func (r *EmptyCommentRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.Source == nil {
		return nil, nil
	}

	pattern := emptyComment
	if !ctx.OptionBool("allow_border_comment", true) {
		pattern = emptyBorderComment
	}

	var groups []*commentGroup
	prevLine := 0
	for _, comment := range ctx.Source.Comments {
		if comment.Document() {
			continue
		}
		line := comment.Line()
		if len(groups) == 0 || !ctx.OptionBool("allow_margin_comment", true) || line != prevLine+1 {
			groups = append(groups, &commentGroup{})
		}
		group := groups[len(groups)-1]
		group.text.WriteString(strings.TrimSpace(comment.Text()) + "\n")
		group.comments = append(group.comments, comment)
		prevLine = line
	}

	var diags []lint.Diagnostic
	for _, group := range groups {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}
		if !pattern.MatchString(group.text.String()) {
			continue
		}
		for _, comment := range group.comments {
			diags = append(diags, r.diagnostic(ctx, comment))
		}
	}

	return diags, nil
}

// diagnostic removes the comment with the spaces before it when code
// precedes it on its line, and the whole line otherwise.
func (r *EmptyCommentRule) diagnostic(ctx *lint.RuleContext, comment ast.Comment) lint.Diagnostic {
	target := lint.WithLeadingSpace(comment.Range)
	if _, ok := lint.PrecedingToken(ctx.Source, comment.Line(), comment.Range.Begin()); !ok {
		if line, ok := lint.WholeLine(ctx.Buffer(), comment.Line()); ok {
			target = line
		}
	}

	return ctx.Diagnostic(r.ID(), comment.Range, "Source code comment is empty.").
		WithSuggestion("Remove the empty comment").
		WithFix(fix.NewEditBuilder().Remove(target)).
		Build()
}
