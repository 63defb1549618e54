package cli

import (
	"errors"

	"github.com/yaklabco/rbfix/pkg/runner"
)

// Exit codes for rbfix.
const (
	// ExitSuccess indicates successful execution with no remaining offenses.
	ExitSuccess = 0

	// ExitLintErrors indicates offenses with error severity remain.
	ExitLintErrors = 1

	// ExitLintWarnings indicates warnings remain (strict mode only).
	ExitLintWarnings = 2

	// ExitFilesFailed indicates at least one file could not be parsed or written.
	ExitFilesFailed = 3

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCodeFromResult determines the exit code based on result and strict mode.
// File failures outrank remaining offenses.
func ExitCodeFromResult(result *runner.Result, strict bool) int {
	if result == nil {
		return ExitSuccess
	}

	if result.Stats.FilesErrored > 0 {
		return ExitFilesFailed
	}

	errorCount := result.Stats.DiagnosticsBySeverity["error"]
	warnings := result.Stats.DiagnosticsBySeverity["warning"]

	if errorCount > 0 {
		return ExitLintErrors
	}

	if strict && warnings > 0 {
		return ExitLintWarnings
	}

	return ExitSuccess
}

// ExitError attaches a process exit code to a command error.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// withExitCode wraps err with code; a nil err stays nil.
func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &ExitError{Code: code, Err: err}
}

// ExitCode maps an error returned by the root command to a process exit
// code. Errors without an attached code come from cobra's argument and flag
// parsing.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitInvalidUsage
}
