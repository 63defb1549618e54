package rules

import (
	"fmt"

	"github.com/yaklabco/rbfix/pkg/ast"
	"github.com/yaklabco/rbfix/pkg/fix"
	"github.com/yaklabco/rbfix/pkg/lint"
	"github.com/yaklabco/rbfix/pkg/literal"
)

// LiteralInInterpolationRule flags "#{...}" segments whose last expression
// is a literal that prints as itself.
type LiteralInInterpolationRule struct {
	lint.BaseRule
}

// NewLiteralInInterpolationRule creates a new literal interpolation rule.
func NewLiteralInInterpolationRule() *LiteralInInterpolationRule {
	return &LiteralInInterpolationRule{
		BaseRule: lint.NewBaseRule(
			"Lint/LiteralInInterpolation",
			"literal-in-interpolation",
			"Literals should not be interpolated into strings",
			[]string{"lint", "strings", "interpolation"},
			true,
		),
	}
}

// Apply checks every interpolation segment. The fix replaces the whole
// segment with the literal's text, escaped for the enclosing container.
func (r *LiteralInInterpolationRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.Root == nil {
		return nil, nil
	}

	var diags []lint.Diagnostic

	for _, segment := range ctx.Nodes(ast.NodeBegin) {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}
		if !lint.IsInterpolation(segment) {
			continue
		}

		final := segment.LastChild()
		if !offendingLiteral(final) {
			continue
		}

		builder := ctx.Diagnostic(r.ID(), final.SourceRange(), "Literal interpolation detected.").
			WithSuggestion("Write the literal's text into the string")

		// Nested strings are inlined once their own segments are gone.
		if final.Kind != ast.NodeDstr {
			replacement, err := inlineLiteral(ctx.Source, final)
			if err != nil {
				builder = builder.WithFixError(err)
			} else {
				builder = builder.WithFix(fix.NewEditBuilder().Replace(segment.SourceRange(), replacement))
			}
		}

		diags = append(diags, builder.Build())
	}

	return diags, nil
}

// offendingLiteral reports whether node is a literal worth inlining.
// __FILE__ has no quotes and __LINE__ changes when moved, so both are kept.
func offendingLiteral(node *ast.Node) bool {
	switch {
	case node == nil:
		return false
	case node.Kind == ast.NodeStr && !node.Loc.Begin.Valid():
		return false
	case node.Source() == "__LINE__":
		return false
	case node.Kind == ast.NodeDstr:
		return nestedLiteral(node)
	default:
		return literal.PrintsAsSelf(node)
	}
}

// nestedLiteral reports whether a quoted dstr holds only text and
// interpolated literals.
func nestedLiteral(node *ast.Node) bool {
	if !node.Loc.Begin.Valid() {
		return false
	}
	for _, child := range node.Children {
		switch {
		case child.Kind == ast.NodeStr:
		case lint.IsInterpolation(child):
			if !offendingLiteral(child.LastChild()) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// inlineLiteral returns the escaped canonical text of node for the
// container it is interpolated into.
func inlineLiteral(ps *ast.ParsedSource, node *ast.Node) (string, error) {
	value, err := literal.Evaluate(node)
	if err != nil {
		return "", fmt.Errorf("evaluate literal: %w", err)
	}

	container, err := literal.FindContainer(ps, node)
	if err != nil {
		return "", fmt.Errorf("find container: %w", err)
	}

	escaped, err := literal.Escape(literal.CanonicalString(value), container)
	if err != nil {
		return "", fmt.Errorf("escape literal: %w", err)
	}
	return escaped, nil
}

// AdjacentStringLiteralsRule flags implicit concatenation of string
// literals, as in "foo" "bar".
type AdjacentStringLiteralsRule struct {
	lint.BaseRule
}

// NewAdjacentStringLiteralsRule creates a new adjacent string literals rule.
func NewAdjacentStringLiteralsRule() *AdjacentStringLiteralsRule {
	return &AdjacentStringLiteralsRule{
		BaseRule: lint.NewBaseRule(
			"Lint/AdjacentStringLiterals",
			"adjacent-string-literals",
			"String literals should not be concatenated implicitly",
			[]string{"lint", "strings"},
			false,
		),
	}
}

// Apply reports the concatenation and every later part that starts with
// whitespace, which usually means the space belonged to the previous part.
func (r *AdjacentStringLiteralsRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	if ctx.Root == nil {
		return nil, nil
	}

	var diags []lint.Diagnostic

	for _, node := range ctx.Nodes(ast.NodeDstr) {
		if ctx.Cancelled() {
			return diags, fmt.Errorf("rule cancelled: %w", ctx.Ctx.Err())
		}
		if !adjacentLiterals(node) {
			continue
		}

		diags = append(diags, ctx.Diagnostic(r.ID(), node.SourceRange(), "Adjacent string literals").
			WithSuggestion("Join the literals into one string").
			Build())

		for _, part := range node.Children[1:] {
			if startsWithWhitespace(part) {
				diags = append(diags, ctx.Diagnostic(r.ID(), part.SourceRange(), "Starts with whitespace").
					WithSuggestion("Move the leading whitespace to the previous literal").
					Build())
			}
		}
	}

	return diags, nil
}

func adjacentLiterals(node *ast.Node) bool {
	if lint.IsDelimitedString(node) || node.ChildCount() < 2 {
		return false
	}
	for _, child := range node.Children {
		if !lint.IsDelimitedString(child) {
			return false
		}
	}
	return true
}

func startsWithWhitespace(node *ast.Node) bool {
	switch node.Kind {
	case ast.NodeStr:
		text := lint.StringContents(node).Source()
		return text != "" && (text[0] == ' ' || text[0] == '\t')
	case ast.NodeDstr:
		return node.HasChildren() && startsWithWhitespace(node.FirstChild())
	default:
		return false
	}
}
