package rules

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rbfix/internal/testkit"
	"github.com/yaklabco/rbfix/pkg/ast"
	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/fix"
	"github.com/yaklabco/rbfix/pkg/lint"
	"github.com/yaklabco/rbfix/pkg/source"
)

// treeFunc builds the AST of one snippet; nil means an empty program.
type treeFunc func(s *testkit.Source) *ast.Node

// applyRule runs rule over src and returns its diagnostics.
func applyRule(t *testing.T, rule lint.Rule, src *testkit.Source, tree treeFunc, opts map[string]any) []lint.Diagnostic {
	t.Helper()

	root := src.Program()
	if tree != nil {
		root = tree(src)
	}

	var ruleCfg *config.RuleConfig
	if opts != nil {
		ruleCfg = &config.RuleConfig{Options: opts}
	}

	ctx := lint.NewRuleContext(context.Background(), src.Parsed(root), config.NewConfig(), ruleCfg)
	diags, err := rule.Apply(ctx)
	require.NoError(t, err)
	return diags
}

// correct merges the fixes of diags the way one engine pass does, skipping
// fixes that conflict with an earlier one, and returns the corrected text.
func correct(t *testing.T, buf *source.Buffer, diags []lint.Diagnostic) string {
	t.Helper()

	corrector := fix.NewCorrector(buf)
	for _, diag := range diags {
		if !diag.HasFix() {
			continue
		}
		if err := corrector.Merge(diag.Fix); err != nil {
			require.True(t, errors.Is(err, fix.ErrConflictingEdit), "unexpected merge error: %v", err)
		}
	}

	fixed, err := corrector.Apply()
	require.NoError(t, err)
	return fixed.Source()
}

// messages returns the diagnostic messages in order.
func messages(diags []lint.Diagnostic) []string {
	msgs := make([]string, 0, len(diags))
	for _, diag := range diags {
		msgs = append(msgs, diag.Message)
	}
	return msgs
}

// keyword creates a node opened by the keyword kw and closed by end.
func keyword(kind ast.NodeKind, expr, kw, end source.Range, children ...*ast.Node) *ast.Node {
	node := ast.NewNode(kind, expr, children...)
	node.Loc.Keyword = kw
	node.Loc.End = end
	return node
}
