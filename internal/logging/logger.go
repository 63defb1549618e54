// Package logging configures the charmbracelet/log loggers used by rbfix.
package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// EnvLevel names the environment variable that sets the initial level of
// the default logger.
const EnvLevel = "RBFIX_LOG_LEVEL"

//nolint:gochecknoglobals // process-wide logger
var defaultLogger atomic.Pointer[log.Logger]

// ParseLevel maps a level name to a log.Level. Matching ignores case and
// accepts "warning" for warn; anything unrecognized is info.
func ParseLevel(name string) log.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		name = "warn"
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// New creates a logger writing to w at the named level.
func New(w io.Writer, level string) *log.Logger {
	return log.NewWithOptions(w, log.Options{Level: ParseLevel(level)})
}

// Console creates an info-level logger for command output addressed to
// people, such as rule listings and version information.
func Console(w io.Writer) *log.Logger {
	return New(w, "info")
}

// Default returns the process-wide logger. It writes to stderr at the
// level named by RBFIX_LOG_LEVEL, or info.
func Default() *log.Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	defaultLogger.CompareAndSwap(nil, New(os.Stderr, os.Getenv(EnvLevel)))
	return defaultLogger.Load()
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *log.Logger) {
	defaultLogger.Store(logger)
}

// SetLevel changes the level of the process-wide logger.
func SetLevel(level string) {
	Default().SetLevel(ParseLevel(level))
}
