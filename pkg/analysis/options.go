package analysis

import "github.com/yaklabco/rbfix/pkg/config"

// SortField orders the per-file and per-rule views.
type SortField string

const (
	// SortByCount puts the most offenses first.
	SortByCount SortField = "count"
	// SortByAlpha orders by path or rule ID.
	SortByAlpha SortField = "alpha"
	// SortBySeverity puts the most errors first, then the most warnings.
	SortBySeverity SortField = "severity"
)

// IsValid reports whether s is a known sort field.
func (s SortField) IsValid() bool {
	return s == SortByCount || s == SortByAlpha || s == SortBySeverity
}

// Options configures Analyze.
type Options struct {
	SortBy     SortField
	RuleFormat config.RuleFormat

	// WorkingDir, when set, makes reported paths relative to it.
	WorkingDir string
}

// DefaultOptions sorts by count and shows rule IDs.
func DefaultOptions() Options {
	return Options{SortBy: SortByCount, RuleFormat: config.RuleFormatID}
}
