// Package config defines core configuration types for rbfix.
// These types are pure data structures; loading and merging live in internal/configloader.
package config

import (
	"fmt"
	"slices"
	"time"
)

// Severity represents the severity level of a lint diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// DefaultMaxFixPasses bounds the correct-reparse loop.
const DefaultMaxFixPasses = 10

// DefaultParserTimeout is the per-file limit for the external parser.
const DefaultParserTimeout = 30 * time.Second

// RuleConfig holds per-rule configuration options.
type RuleConfig struct {
	Enabled  *bool          `mapstructure:"enabled" toml:"enabled,omitempty" yaml:"enabled,omitempty"`
	Severity *string        `mapstructure:"severity" toml:"severity,omitempty" yaml:"severity,omitempty"`
	AutoFix  *bool          `mapstructure:"auto_fix" toml:"auto_fix,omitempty" yaml:"auto_fix,omitempty"`
	Options  map[string]any `mapstructure:"options" toml:"options,omitempty" yaml:"options,omitempty"`
}

// BackupsConfig controls backup behavior when fixing files.
type BackupsConfig struct {
	Enabled bool   `mapstructure:"enabled" toml:"enabled" yaml:"enabled"`
	Mode    string `mapstructure:"mode" toml:"mode" yaml:"mode"` // "sidecar"
}

// DumpFormat is the wire format produced by the external parser.
type DumpFormat string

const (
	DumpJSON    DumpFormat = "json"
	DumpMsgpack DumpFormat = "msgpack"
)

// IsValid reports whether the dump format is known.
func (f DumpFormat) IsValid() bool {
	return f == DumpJSON || f == DumpMsgpack
}

// ParserConfig describes how to run the external Ruby parser.
type ParserConfig struct {
	// Command is the argv of the parser; the file path is appended.
	Command []string `mapstructure:"command" toml:"command,omitempty" yaml:"command,omitempty"`

	// Format is the dump format the command writes to stdout.
	Format DumpFormat `mapstructure:"format" toml:"format,omitempty" yaml:"format,omitempty"`

	// Timeout is a Go duration string ("30s").
	Timeout string `mapstructure:"timeout" toml:"timeout,omitempty" yaml:"timeout,omitempty"`

	// Cache enables the on-disk parse cache. Nil means enabled.
	Cache *bool `mapstructure:"cache" toml:"cache,omitempty" yaml:"cache,omitempty"`

	// CacheDir overrides the cache location. Empty means the user cache dir.
	CacheDir string `mapstructure:"cache_dir" toml:"cache_dir,omitempty" yaml:"cache_dir,omitempty"`
}

// TimeoutDuration parses Timeout, falling back to DefaultParserTimeout when unset.
func (p ParserConfig) TimeoutDuration() (time.Duration, error) {
	if p.Timeout == "" {
		return DefaultParserTimeout, nil
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0, fmt.Errorf("parser timeout %q: %w", p.Timeout, err)
	}
	return d, nil
}

// CacheEnabled reports whether the parse cache is on.
func (p ParserConfig) CacheEnabled() bool {
	return p.Cache == nil || *p.Cache
}

// OutputFormat specifies the output format for diagnostics.
type OutputFormat string

const (
	FormatText    OutputFormat = "text"
	FormatJSON    OutputFormat = "json"
	FormatDiff    OutputFormat = "diff"
	FormatSummary OutputFormat = "summary"
)

// OutputFormats lists the supported output formats.
func OutputFormats() []OutputFormat {
	return []OutputFormat{FormatText, FormatJSON, FormatDiff, FormatSummary}
}

// IsValid reports whether f is a supported output format.
func (f OutputFormat) IsValid() bool {
	return slices.Contains(OutputFormats(), f)
}

// RuleFormat controls how rule identifiers appear in output.
type RuleFormat string

const (
	RuleFormatName     RuleFormat = "name"     // "trailing-whitespace"
	RuleFormatID       RuleFormat = "id"       // "Layout/TrailingWhitespace"
	RuleFormatCombined RuleFormat = "combined" // "Layout/TrailingWhitespace (trailing-whitespace)"
)

// FormatRuleID labels a rule for output. Rules without a name, and
// unknown formats, use the ID.
func FormatRuleID(format RuleFormat, ruleID, ruleName string) string {
	switch {
	case ruleName == "":
		return ruleID
	case format == RuleFormatName:
		return ruleName
	case format == RuleFormatCombined:
		return ruleID + " (" + ruleName + ")"
	}
	return ruleID
}

// SummaryOrder controls the order of tables in summary output.
type SummaryOrder string

const (
	// SummaryOrderRules shows rules table first (default).
	SummaryOrderRules SummaryOrder = "rules"
	// SummaryOrderFiles shows files table first.
	SummaryOrderFiles SummaryOrder = "files"
)

// IsValid returns true if the summary order is valid.
func (s SummaryOrder) IsValid() bool {
	switch s {
	case SummaryOrderRules, SummaryOrderFiles:
		return true
	default:
		return false
	}
}

// Config is the root configuration structure for rbfix.
type Config struct {
	// SeverityDefault is the default severity for rules that don't specify one.
	SeverityDefault string `mapstructure:"severity_default" toml:"severity_default,omitempty" yaml:"severity_default,omitempty"`

	// MaxFixPasses bounds the number of correction passes per file.
	MaxFixPasses int `mapstructure:"max_fix_passes" toml:"max_fix_passes,omitempty" yaml:"max_fix_passes,omitempty"`

	// Parser configures the external parser.
	Parser ParserConfig `mapstructure:"parser" toml:"parser" yaml:"parser"`

	// Rules contains per-rule configuration keyed by rule ID.
	Rules map[string]RuleConfig `mapstructure:"rules" toml:"rules,omitempty" yaml:"rules,omitempty"`

	// Ignore contains glob patterns for files to ignore.
	Ignore []string `mapstructure:"ignore" toml:"ignore,omitempty" yaml:"ignore,omitempty"`

	// Backups configures backup behavior when fixing.
	Backups BackupsConfig `mapstructure:"backups" toml:"backups" yaml:"backups"`

	// CLI-level options (not persisted to config files).

	// Fix enables auto-fixing of issues.
	Fix bool `mapstructure:"-" toml:"-" yaml:"-"`

	// DryRun shows what would be fixed without making changes.
	DryRun bool `mapstructure:"-" toml:"-" yaml:"-"`

	// Format specifies the output format.
	Format OutputFormat `mapstructure:"-" toml:"-" yaml:"-"`

	// RuleFormat controls how rule identifiers appear in output.
	RuleFormat RuleFormat `mapstructure:"-" toml:"-" yaml:"-"`

	// Jobs specifies the number of parallel workers.
	Jobs int `mapstructure:"-" toml:"-" yaml:"-"`

	// EnableRules contains rule IDs to explicitly enable.
	EnableRules []string `mapstructure:"-" toml:"-" yaml:"-"`

	// DisableRules contains rule IDs to explicitly disable.
	DisableRules []string `mapstructure:"-" toml:"-" yaml:"-"`

	// FixRules limits auto-fixing to specific rule IDs.
	FixRules []string `mapstructure:"-" toml:"-" yaml:"-"`

	// NoBackups disables backup creation when fixing.
	NoBackups bool `mapstructure:"-" toml:"-" yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		SeverityDefault: string(SeverityWarning),
		MaxFixPasses:    DefaultMaxFixPasses,
		Parser: ParserConfig{
			Command: []string{"rbfix-parse"},
			Format:  DumpMsgpack,
		},
		Rules:  make(map[string]RuleConfig),
		Ignore: nil,
		Backups: BackupsConfig{
			Enabled: true,
			Mode:    "sidecar",
		},
		Format:     FormatText,
		RuleFormat: RuleFormatID,
		Jobs:       0, // 0 means use GOMAXPROCS
	}
}

// FixPasses returns MaxFixPasses or the default when unset.
func (c *Config) FixPasses() int {
	if c == nil || c.MaxFixPasses <= 0 {
		return DefaultMaxFixPasses
	}
	return c.MaxFixPasses
}
