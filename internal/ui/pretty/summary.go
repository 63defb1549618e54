package pretty

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/runner"
)

func count(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}

// SummaryLine renders run statistics as one line, for example
// "12 issues (8 errors, 4 warnings) in 3 files, 6 fixable".
func (s *Styles) SummaryLine(stats runner.Stats) string {
	var parts []string

	if stats.DiagnosticsTotal == 0 {
		parts = append(parts, s.Success.Render("No issues found")+
			s.Dim.Render(fmt.Sprintf(" (%s checked)", count(stats.FilesProcessed, "file", "files"))))
	} else {
		head := count(stats.DiagnosticsTotal, "issue", "issues")
		if breakdown := s.severityBreakdown(stats.DiagnosticsBySeverity); breakdown != "" {
			head += " (" + breakdown + ")"
		}
		parts = append(parts, head+" in "+count(stats.FilesWithIssues, "file", "files"))
		if stats.DiagnosticsFixable > 0 {
			parts = append(parts, s.Success.Render(fmt.Sprintf("%d fixable", stats.DiagnosticsFixable)))
		}
	}

	if stats.DiagnosticsCorrected > 0 {
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d corrected in %s",
			stats.DiagnosticsCorrected, count(stats.FilesModified, "file", "files"))))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Error.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}
	if stats.PassLimitReached > 0 {
		parts = append(parts, s.Warning.Render(fmt.Sprintf("%d hit the pass limit", stats.PassLimitReached)))
	}

	return strings.Join(parts, ", ") + "\n"
}

func (s *Styles) severityBreakdown(bySeverity map[string]int) string {
	levels := []struct {
		severity config.Severity
		label    string
		style    lipgloss.Style
	}{
		{config.SeverityError, "errors", s.Error},
		{config.SeverityWarning, "warnings", s.Warning},
		{config.SeverityInfo, "info", s.Info},
	}

	var out []string
	for _, level := range levels {
		if n := bySeverity[string(level.severity)]; n > 0 {
			out = append(out, level.style.Render(fmt.Sprintf("%d %s", n, level.label)))
		}
	}
	return strings.Join(out, ", ")
}
