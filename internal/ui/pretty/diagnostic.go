package pretty

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/lint"
)

const contextIndent = "        "

// DiagnosticView controls how a diagnostic is rendered.
type DiagnosticView struct {
	RuleFormat config.RuleFormat
	// Source is the line the offense starts on. Empty hides the excerpt.
	Source string
}

// FormatDiagnostic renders
//
//	path:line:col  severity  message  (rule)
//
// followed by the optional source excerpt, suggestion and fix failure.
func (s *Styles) FormatDiagnostic(diag *lint.Diagnostic, view DiagnosticView) string {
	message := s.Message.Render(diag.Message)
	if diag.Corrected {
		message = s.Corrected.Render("[Corrected]") + " " + message
	}
	rule := config.FormatRuleID(view.RuleFormat, diag.RuleID, diag.RuleName)

	var b strings.Builder
	fmt.Fprintf(&b, "  %s:%d:%d  %s  %s  %s\n",
		s.FilePath.Render(diag.FilePath), diag.StartLine, diag.StartColumn,
		s.FormatSeverity(diag.Severity),
		message,
		s.RuleID.Render("("+rule+")"),
	)

	if view.Source != "" {
		b.WriteString(s.FormatSourceContext(view.Source, diag.StartColumn))
	}
	if diag.Suggestion != "" {
		fmt.Fprintf(&b, "    %s %s\n", s.Dim.Render("Suggestion:"), s.Suggestion.Render(diag.Suggestion))
	}
	if diag.FixError != nil {
		fmt.Fprintf(&b, "    %s %v\n", s.Dim.Render("Not corrected:"), diag.FixError)
	}
	return b.String()
}

// FormatSeverity renders sev in its severity color.
func (s *Styles) FormatSeverity(sev config.Severity) string {
	switch sev {
	case config.SeverityError:
		return s.Error.Render(string(sev))
	case config.SeverityWarning:
		return s.Warning.Render(string(sev))
	case config.SeverityInfo:
		return s.Info.Render(string(sev))
	}
	return string(sev)
}

// FormatSourceContext renders line and, for a positive 1-based byte
// column, a caret beneath it.
func (s *Styles) FormatSourceContext(line string, column int) string {
	rendered := s.SourceLine.Render(line)
	if s.highlight {
		rendered = HighlightRuby(line)
	}
	out := contextIndent + rendered + "\n"
	if column > 0 {
		out += contextIndent + caretPadding(line, column) + s.Caret.Render("^") + "\n"
	}
	return out
}

// caretPadding keeps tabs and pads wide characters to two cells so the
// caret lines up in a terminal.
func caretPadding(line string, column int) string {
	prefix := line[:min(column-1, len(line))]

	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
		}
	}
	return b.String()
}

// FormatFileHeader renders the path heading a group of diagnostics.
func (s *Styles) FormatFileHeader(path string, issues int) string {
	if issues == 0 {
		return s.FilePath.Render(path)
	}
	return s.FilePath.Render(path) + s.Dim.Render(" ("+count(issues, "issue", "issues")+")")
}
