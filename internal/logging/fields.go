package logging

// Keys for structured log fields. Use these rather than literals so that
// the same datum is spelled the same way everywhere.
const (
	FieldError = "error"

	// Inputs and outputs.
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"

	// Settings of a correction run.
	FieldParser = "parser"
	FieldCache  = "cache"
	FieldFormat = "format"
	FieldFix    = "fix"
	FieldDryRun = "dry_run"
	FieldJobs   = "jobs"
	FieldPasses = "passes"

	// Totals of a correction run.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesWithIssues  = "files_with_issues"
	FieldFilesModified    = "files_modified"
	FieldFilesFailed      = "files_failed"
	FieldDiagnosticsTotal = "diagnostics_total"
	FieldCorrected        = "corrected"

	// Build metadata.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"

	// Rule attributes.
	FieldSeverity    = "severity"
	FieldFixable     = "fixable"
	FieldDescription = "description"
)
