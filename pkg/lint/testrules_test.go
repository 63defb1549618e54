package lint_test

import (
	"context"
	"strings"

	"github.com/yaklabco/rbfix/pkg/ast"
	"github.com/yaklabco/rbfix/pkg/fix"
	"github.com/yaklabco/rbfix/pkg/lint"
)

// parseFunc adapts a function to lint.Parser.
type parseFunc func(ctx context.Context, path string, content []byte) (*ast.ParsedSource, error)

func (f parseFunc) Parse(ctx context.Context, path string, content []byte) (*ast.ParsedSource, error) {
	return f(ctx, path, content)
}

// diagnosticRule returns fixed diagnostics or an error.
type diagnosticRule struct {
	lint.BaseRule
	diags []lint.Diagnostic
	err   error
}

func (r *diagnosticRule) Apply(_ *lint.RuleContext) ([]lint.Diagnostic, error) {
	return r.diags, r.err
}

// bangRule flags every "!" and removes it.
type bangRule struct {
	lint.BaseRule
}

func newBangRule(id string) *bangRule {
	return &bangRule{BaseRule: lint.NewBaseRule(id, "no-bang", "Removes bangs", []string{"test"}, true)}
}

func (r *bangRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	buf := ctx.Buffer()
	content := buf.Source()

	var diags []lint.Diagnostic
	for i := range len(content) {
		if content[i] != '!' {
			continue
		}
		rng := buf.MustRange(i, i+1)
		diags = append(diags, ctx.Diagnostic(r.ID(), rng, "Bang detected.").
			WithFix(fix.NewEditBuilder().Remove(rng)).
			Build())
	}
	return diags, nil
}

// replaceRule replaces the first occurrence of target with text.
type replaceRule struct {
	lint.BaseRule
	target string
	text   string
}

func newReplaceRule(id, name, target, text string) *replaceRule {
	return &replaceRule{
		BaseRule: lint.NewBaseRule(id, name, "Replaces text", nil, true),
		target:   target,
		text:     text,
	}
}

func (r *replaceRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	buf := ctx.Buffer()
	idx := strings.Index(buf.Source(), r.target)
	if idx < 0 {
		return nil, nil
	}
	rng := buf.MustRange(idx, idx+len(r.target))
	return []lint.Diagnostic{
		ctx.Diagnostic(r.ID(), rng, "Found "+r.target).
			WithFix(fix.NewEditBuilder().Replace(rng, r.text)).
			Build(),
	}, nil
}

// growRule appends to the file forever, so it never converges.
type growRule struct {
	lint.BaseRule
}

func (r *growRule) Apply(ctx *lint.RuleContext) ([]lint.Diagnostic, error) {
	end := ctx.Buffer().FullRange().EndPos()
	return []lint.Diagnostic{
		ctx.Diagnostic(r.ID(), end, "Too short.").
			WithFix(fix.NewEditBuilder().InsertAfter(end, "x")).
			Build(),
	}, nil
}
