package configloader

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/fsutil"
	"github.com/yaklabco/rbfix/pkg/lint"
)

// ValidationError is one problem found in a merged configuration.
type ValidationError struct {
	// Field is the dotted key, e.g. "rules.Layout/EmptyComment.severity".
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationResult collects errors, which abort loading, and warnings,
// which are surfaced to the user.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid reports whether no errors were found.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	severities  = []string{string(config.SeverityError), string(config.SeverityWarning), string(config.SeverityInfo)}
	ruleFormats = []config.RuleFormat{config.RuleFormatID, config.RuleFormatName, config.RuleFormatCombined}
	backupModes = []string{"sidecar", "none"}
	dumpFormats = []config.DumpFormat{config.DumpMsgpack, config.DumpJSON}
)

// oneOf records an error when a non-empty value is not in valid.
func oneOf[T ~string](r *ValidationResult, field, what string, value T, valid []T) {
	if value == "" || slices.Contains(valid, value) {
		return
	}
	names := make([]string, len(valid))
	for i, v := range valid {
		names[i] = string(v)
	}
	r.fail(field, value, "invalid %s %q; must be one of: %s", what, value, strings.Join(names, ", "))
}

// Validate checks cfg after merging. Unknown rule keys are warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	oneOf(result, "severity_default", "severity", cfg.SeverityDefault, severities)
	oneOf(result, "format", "format", cfg.Format, config.OutputFormats())
	oneOf(result, "rule_format", "rule format", cfg.RuleFormat, ruleFormats)
	oneOf(result, "backups.mode", "backup mode", cfg.Backups.Mode, backupModes)

	if cfg.MaxFixPasses < 0 {
		result.fail("max_fix_passes", cfg.MaxFixPasses, "must be >= 0 (0 means the default)")
	}
	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "must be >= 0 (0 means auto)")
	}

	validateParser(cfg.Parser, result)
	validateRules(cfg.Rules, result)

	for i, pattern := range cfg.Ignore {
		if _, err := fsutil.CompileGlobs([]string{pattern}); err != nil {
			result.fail(fmt.Sprintf("ignore[%d]", i), pattern, "%v", err)
		}
	}
	return result
}

func validateParser(parser config.ParserConfig, result *ValidationResult) {
	if len(parser.Command) == 0 || strings.TrimSpace(parser.Command[0]) == "" {
		result.fail("parser.command", parser.Command, "parser command must not be empty")
	}
	oneOf(result, "parser.format", "dump format", parser.Format, dumpFormats)

	timeout, err := parser.TimeoutDuration()
	switch {
	case err != nil:
		result.fail("parser.timeout", parser.Timeout, "invalid duration %q", parser.Timeout)
	case timeout <= 0:
		result.fail("parser.timeout", parser.Timeout, "parser timeout must be positive")
	}
}

func validateRules(rules map[string]config.RuleConfig, result *ValidationResult) {
	keys := make([]string, 0, len(rules))
	for key := range rules {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if len(lint.DefaultRegistry.Select(key)) == 0 {
			result.warn("rules."+key, key, "unknown rule %q; it will be ignored", key)
		}
		if sev := rules[key].Severity; sev != nil {
			oneOf(result, "rules."+key+".severity", "severity", *sev, severities)
		}
	}
}
