// Package lint runs correction rules over parsed Ruby source and merges
// the edits they propose.
package lint

import (
	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/fix"
	"github.com/yaklabco/rbfix/pkg/source"
)

// Diagnostic is one offense reported by a rule.
type Diagnostic struct {
	RuleID   string // "Layout/TrailingWhitespace"
	RuleName string // "trailing-whitespace"
	Message  string
	Severity config.Severity
	FilePath string

	// Positions are 1-based; columns count characters, not bytes.
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int

	// Range locates the offense in the buffer of the pass that found it.
	Range source.Range `json:"-"`

	Suggestion string

	// Fix is nil when the rule has no correction for this offense.
	Fix *fix.EditBuilder `json:"-"`

	// Corrected means Fix was merged into the pass corrector. FixError
	// says why it was not.
	Corrected bool
	FixError  error `json:"-"`
}

// HasFix reports whether d carries at least one edit.
func (d *Diagnostic) HasFix() bool {
	return d.Fix != nil && !d.Fix.Empty()
}

// Rule is a single check that may also correct what it finds.
//
// Apply must not modify the parsed source. Edits are attached to the
// returned diagnostics with DiagnosticBuilder.WithFix and are applied by
// the engine. An error means the rule itself failed, never that the
// source has offenses.
type Rule interface {
	ID() string
	Name() string
	Description() string
	DefaultEnabled() bool
	DefaultSeverity() config.Severity
	Tags() []string
	CanFix() bool
	Apply(ctx *RuleContext) ([]Diagnostic, error)
}
