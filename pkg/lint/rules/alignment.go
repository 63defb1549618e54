package rules

import (
	"fmt"

	"github.com/yaklabco/rbfix/pkg/align"
	"github.com/yaklabco/rbfix/pkg/ast"
	"github.com/yaklabco/rbfix/pkg/lint"
)

// endKeywordKinds are the nodes closed by an "end" keyword.
var endKeywordKinds = []ast.NodeKind{
	ast.NodeClass,
	ast.NodeModule,
	ast.NodeSclass,
	ast.NodeDef,
	ast.NodeDefs,
	ast.NodeIf,
	ast.NodeWhile,
	ast.NodeUntil,
	ast.NodeFor,
	ast.NodeCase,
}

// EndAlignmentRule checks that a closing "end" sits in the column of the
// keyword that opened it.
type EndAlignmentRule struct {
	lint.BaseRule
}

// NewEndAlignmentRule creates a new end alignment rule.
func NewEndAlignmentRule() *EndAlignmentRule {
	return &EndAlignmentRule{
		BaseRule: lint.NewBaseRule(
			"Layout/EndAlignment",
			"end-alignment",
			"A closing end should be aligned with its opening keyword",
			[]string{"layout", "alignment"},
			true,
		),
	}
}

// Apply checks each keyword-and-end construct. An "end" sharing its line
// with other code, as in one-line definitions, is not checked.
func (r *EndAlignmentRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.Root == nil {
		return nil, nil
	}

	var diags []lint.Diagnostic

	for _, node := range ctx.Nodes(endKeywordKinds...) {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}

		kw, end, ok := lint.KeywordEnd(node)
		if !ok || !lint.BeginsLine(end) || end.Column() == kw.Column() {
			continue
		}

		msg := fmt.Sprintf("`end` at %d, %d is not aligned with `%s` at %d, %d.",
			end.Line(), end.Column(), kw.Source(), kw.Line(), kw.Column())

		builder := ctx.Diagnostic(r.ID(), end, msg).
			WithSuggestion(fmt.Sprintf("Move `end` to column %d", kw.Column()+1))
		if edits, ok := align.AlignEnd(ctx.Source, node, kw); ok {
			builder = builder.WithFix(edits)
		}
		diags = append(diags, builder.Build())
	}

	return diags, nil
}

// IndentationConsistencyRule checks that the statements of one body share
// an indentation column.
type IndentationConsistencyRule struct {
	lint.BaseRule
}

// NewIndentationConsistencyRule creates a new indentation consistency rule.
func NewIndentationConsistencyRule() *IndentationConsistencyRule {
	return &IndentationConsistencyRule{
		BaseRule: lint.NewBaseRule(
			"Layout/IndentationConsistency",
			"indentation-consistency",
			"Statements of one body should be indented alike",
			[]string{"layout", "indentation"},
			true,
		),
	}
}

// Apply compares every statement of a body with the first one. Statements
// that do not begin their line are skipped, and so is a body whose first
// statement does not begin its line.
func (r *IndentationConsistencyRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.Root == nil {
		return nil, nil
	}

	var diags []lint.Diagnostic

	for _, body := range ctx.Nodes(ast.NodeBegin, ast.NodeKwbegin) {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}
		if body.Kind == ast.NodeBegin && body.Loc.Begin.Valid() {
			continue
		}
		if body.ChildCount() < 2 || !lint.BeginsLine(body.FirstChild().SourceRange()) {
			continue
		}

		want := body.FirstChild().SourceRange().Column()
		for _, child := range body.Children[1:] {
			stmt := child.SourceRange()
			if !lint.BeginsLine(stmt) || stmt.Column() == want {
				continue
			}
			diags = append(diags, r.diagnostic(ctx, child, want-stmt.Column()))
		}
	}

	return diags, nil
}

func (r *IndentationConsistencyRule) diagnostic(ctx *lint.RuleContext, stmt *ast.Node, delta int) lint.Diagnostic {
	builder := ctx.Diagnostic(r.ID(), stmt.SourceRange(), "Inconsistent indentation detected.").
		WithSuggestion(fmt.Sprintf("Indent to column %d", stmt.SourceRange().Column()+delta+1))

	edits, err := align.Correct(ctx.Source, stmt, delta)
	if err != nil {
		return builder.WithFixError(err).Build()
	}
	return builder.WithFix(edits).Build()
}
