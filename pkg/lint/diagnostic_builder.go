package lint

import (
	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/fix"
	"github.com/yaklabco/rbfix/pkg/source"
)

// DiagnosticBuilder helps construct Diagnostic values.
type DiagnosticBuilder struct {
	diag Diagnostic
}

// NewDiagnostic starts building a diagnostic for the given rule and offense range.
// Positions are 1-based; the end column is inclusive of the last byte.
func NewDiagnostic(ruleID string, r source.Range, message string) *DiagnosticBuilder {
	diag := Diagnostic{
		RuleID:  ruleID,
		Message: message,
		Range:   r,
	}

	if r.Valid() {
		diag.FilePath = r.Buffer().Name()
		diag.StartLine = r.Line()
		diag.StartColumn = r.Column() + 1
		diag.EndLine = r.LastLine()
		diag.EndColumn = r.LastColumn()
		if r.Empty() {
			diag.EndColumn = diag.StartColumn
		}
	}

	return &DiagnosticBuilder{diag: diag}
}

// WithSeverity sets the severity.
func (b *DiagnosticBuilder) WithSeverity(s config.Severity) *DiagnosticBuilder {
	b.diag.Severity = s
	return b
}

// WithSuggestion sets a human-readable fix suggestion.
func (b *DiagnosticBuilder) WithSuggestion(s string) *DiagnosticBuilder {
	b.diag.Suggestion = s
	return b
}

// WithFix attaches proposed edits. Edits from repeated calls accumulate.
func (b *DiagnosticBuilder) WithFix(builder *fix.EditBuilder) *DiagnosticBuilder {
	if builder == nil || builder.Empty() {
		return b
	}
	if b.diag.Fix == nil {
		b.diag.Fix = fix.NewEditBuilder()
	}
	b.diag.Fix.Append(builder)
	return b
}

// WithFixError records that a fix was attempted but could not be built.
func (b *DiagnosticBuilder) WithFixError(err error) *DiagnosticBuilder {
	b.diag.FixError = err
	return b
}

// Build returns the constructed Diagnostic.
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.diag
}
