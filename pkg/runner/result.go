package runner

import (
	"github.com/yaklabco/rbfix/internal/logging"
	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/lint"
)

// FileOutcome is what happened to one file. Exactly one of Result and
// Error is set.
type FileOutcome struct {
	Path   string
	Result *lint.PipelineResult
	Error  error
}

// Stats are the totals of a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	// FilesSkipped counts files left alone after a successful check, for
	// example because they changed on disk while being corrected.
	FilesSkipped    int
	FilesErrored    int
	FilesWithIssues int
	FilesModified   int

	// Remaining offenses after correction.
	DiagnosticsTotal      int
	DiagnosticsFixable    int
	DiagnosticsBySeverity map[string]int

	DiagnosticsCorrected int
	EditsApplied         int

	// PassLimitReached counts files whose corrections did not converge.
	PassLimitReached int
}

func newStats() Stats {
	return Stats{DiagnosticsBySeverity: make(map[string]int)}
}

func (s *Stats) add(outcome FileOutcome) {
	if outcome.Error != nil {
		s.FilesErrored++
		return
	}
	pr := outcome.Result
	if pr == nil {
		return
	}

	s.FilesProcessed++
	if pr.Skipped {
		s.FilesSkipped++
	}
	if pr.Written {
		s.FilesModified++
	}
	if pr.PassLimitReached {
		s.PassLimitReached++
	}
	s.DiagnosticsCorrected += len(pr.Corrected)
	s.EditsApplied += pr.TotalEditsApplied

	if pr.FileResult == nil || len(pr.Diagnostics) == 0 {
		return
	}
	s.FilesWithIssues++
	s.DiagnosticsTotal += len(pr.Diagnostics)
	s.DiagnosticsFixable += pr.FixableCount()
	for _, diag := range pr.Diagnostics {
		severity := diag.Severity
		if severity == "" {
			severity = config.SeverityWarning
		}
		s.DiagnosticsBySeverity[string(severity)]++
	}
}

// LogFields returns the totals as structured log key-value pairs.
func (s Stats) LogFields() []any {
	return []any{
		logging.FieldFilesDiscovered, s.FilesDiscovered,
		logging.FieldFilesProcessed, s.FilesProcessed,
		logging.FieldFilesWithIssues, s.FilesWithIssues,
		logging.FieldDiagnosticsTotal, s.DiagnosticsTotal,
		logging.FieldCorrected, s.DiagnosticsCorrected,
		logging.FieldFilesModified, s.FilesModified,
		logging.FieldFilesFailed, s.FilesErrored,
	}
}

// Result is the outcome of a run. Files are sorted by path.
type Result struct {
	Files []FileOutcome
	Stats Stats

	// Errors holds failures not tied to a single file.
	Errors []error
}

func newResult(discovered int) *Result {
	r := &Result{Files: make([]FileOutcome, 0, discovered), Stats: newStats()}
	r.Stats.FilesDiscovered = discovered
	return r
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)
	r.Stats.add(outcome)
}

// HasFailures reports whether any error-severity offense remains.
func (r *Result) HasFailures() bool {
	return r != nil && r.Stats.DiagnosticsBySeverity[string(config.SeverityError)] > 0
}

// HasIssues reports whether any offense remains.
func (r *Result) HasIssues() bool {
	return r != nil && r.Stats.DiagnosticsTotal > 0
}
