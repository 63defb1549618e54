package lint

import (
	"cmp"
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/yaklabco/rbfix/pkg/ast"
	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/fix"
)

// ErrFixNotAllowed is recorded on diagnostics whose rule has auto-fix disabled.
var ErrFixNotAllowed = errors.New("auto-fix disabled for rule")

// FileResult is the outcome of one lint pass over a file.
type FileResult struct {
	Source      *ast.ParsedSource
	Diagnostics []Diagnostic // in rule order

	// Set by Correct.
	Edits         []fix.TextEdit // accepted edits, sorted
	EditConflicts bool           // some fix was rejected

	RuleErrors map[string]error // keyed by rule ID

	autoFix map[string]bool // rule ID -> fixes may be merged
}

func (fr *FileResult) HasIssues() bool { return len(fr.Diagnostics) > 0 }
func (fr *FileResult) HasFixes() bool  { return len(fr.Edits) > 0 }
func (fr *FileResult) IssueCount() int { return len(fr.Diagnostics) }

// FixableCount counts diagnostics that propose a fix.
func (fr *FileResult) FixableCount() int {
	return lo.CountBy(fr.Diagnostics, func(d Diagnostic) bool { return d.HasFix() })
}

// CorrectedCount counts diagnostics whose fix Correct accepted.
func (fr *FileResult) CorrectedCount() int {
	return lo.CountBy(fr.Diagnostics, func(d Diagnostic) bool { return d.Corrected })
}

// Engine runs the registry's rules over parsed files.
type Engine struct {
	Parser   Parser
	Registry *Registry
}

// NewEngine creates an Engine.
func NewEngine(parser Parser, registry *Registry) *Engine {
	return &Engine{Parser: parser, Registry: registry}
}

// LintFile parses content and lints it.
func (e *Engine) LintFile(ctx context.Context, path string, content []byte, cfg *config.Config) (*FileResult, error) {
	parsed, err := e.Parser.Parse(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return e.LintParsed(ctx, parsed, cfg)
}

// LintParsed runs the enabled rules over parsed one after another. Rules
// only read the parsed source; a failing rule is recorded in RuleErrors and
// the rest still run.
func (e *Engine) LintParsed(ctx context.Context, parsed *ast.ParsedSource, cfg *config.Config) (*FileResult, error) {
	resolved := ResolveRules(e.Registry, cfg)

	result := &FileResult{
		Source:     parsed,
		RuleErrors: make(map[string]error),
		autoFix:    make(map[string]bool, len(resolved)),
	}

	base := NewRuleContext(ctx, parsed, cfg, nil)
	base.Registry = e.Registry

	for _, rr := range resolved {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("linting cancelled: %w", err)
		}

		id := rr.Rule.ID()
		diags, err := rr.Rule.Apply(base.forRule(rr.Config))
		if err != nil {
			result.RuleErrors[id] = err
			continue
		}

		result.autoFix[id] = rr.AutoFix
		for i := range diags {
			d := &diags[i]
			d.Severity = rr.Severity
			d.FilePath = cmp.Or(d.FilePath, parsed.Path)
			d.RuleName = cmp.Or(d.RuleName, rr.Rule.Name())
			d.RuleID = cmp.Or(d.RuleID, id)
		}
		result.Diagnostics = append(result.Diagnostics, diags...)
	}

	return result, nil
}

// Correct merges the proposed fixes of result into one corrector, in
// diagnostic order. Each diagnostic's fix is merged all-or-nothing: a fix
// that conflicts with an earlier one is dropped and its diagnostic keeps
// FixError set, so it is reported as not corrected.
func (e *Engine) Correct(result *FileResult) *fix.Corrector {
	corrector := fix.NewCorrector(result.Source.Buffer)

	for i := range result.Diagnostics {
		diag := &result.Diagnostics[i]
		if !diag.HasFix() {
			continue
		}
		if !result.autoFix[diag.RuleID] {
			diag.FixError = ErrFixNotAllowed
			continue
		}

		if err := corrector.Merge(diag.Fix); err != nil {
			diag.FixError = err
			result.EditConflicts = true
			continue
		}
		diag.Corrected = true
	}

	result.Edits = corrector.TextEdits()
	return corrector
}
