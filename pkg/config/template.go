package config

import (
	"bytes"
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Template output formats.
const (
	TemplateYAML = string(SyntaxYAML)
	TemplateTOML = string(SyntaxTOML)
)

const commentWrapWidth = 70

// TemplateOptions selects what "rbfix init" writes.
type TemplateOptions struct {
	Full   bool   // document every rule
	Format string // TemplateYAML (default) or TemplateTOML

	// IncludeRules restricts a Full template to these rule IDs.
	IncludeRules []string

	// PresetRules, when set, are written as the rules section in place of
	// the rule defaults. PresetName labels them in the header.
	PresetName  string
	PresetRules map[string]RuleConfig
}

// RuleInfo is what templates need to know about a rule.
type RuleInfo struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
	Severity    Severity
	Tags        []string
	CanFix      bool
}

// RuleInfoProvider lists the registered rules. The rules package installs
// one as DefaultRuleInfoProvider, which keeps config free of a lint import.
type RuleInfoProvider func() []RuleInfo

//nolint:gochecknoglobals // set once by the rules package
var DefaultRuleInfoProvider RuleInfoProvider

// GenerateTemplate renders a starter configuration file.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	syntax := Syntax(cmp.Or(opts.Format, TemplateYAML))
	if syntax != SyntaxYAML && syntax != SyntaxTOML {
		return nil, fmt.Errorf("unknown template format %q", opts.Format)
	}

	switch {
	case opts.PresetRules != nil:
		return presetTemplate(syntax, opts)
	case syntax == SyntaxTOML:
		return tomlTemplate(opts)
	case opts.Full:
		return fullYAMLTemplate(opts), nil
	default:
		return []byte(minimalTemplate), nil
	}
}

// DefaultTemplateHeader is the comment block at the top of generated files.
func DefaultTemplateHeader() string {
	return "# rbfix configuration\n# See: https://github.com/yaklabco/rbfix"
}

const minimalTemplate = `# rbfix configuration
# See: https://github.com/yaklabco/rbfix

# Default severity for all rules: error, warning, or info
# severity_default: warning

# Maximum correction passes per file
# max_fix_passes: 10

# External parser producing the AST dump
parser:
  command: ["rbfix-parse"]
  format: msgpack
  # timeout: 30s
  cache: true

# File patterns to ignore (glob patterns)
# ignore:
#   - "vendor/**"
#   - "tmp/**"

# Rule-specific configuration
# rules:
#   Layout/IndentationConsistency:
#     enabled: true
#     severity: error
#   Layout/EmptyComment:
#     options:
#       allow_border_comment: false
`

const fullYAMLPreamble = `# rbfix configuration - Full Template
# See: https://github.com/yaklabco/rbfix
#
# Every registered rule is listed below with its default settings.

severity_default: warning
max_fix_passes: 10

parser:
  command: ["rbfix-parse"]
  format: msgpack
  timeout: 30s
  cache: true
  # cache_dir: ~/.cache/rbfix

backups:
  enabled: true
  mode: sidecar

ignore:
  - "vendor/**"
  - ".git/**"

rules:
`

func fullYAMLTemplate(opts TemplateOptions) []byte {
	var buf bytes.Buffer
	buf.WriteString(fullYAMLPreamble)

	for _, rule := range templateRules(opts) {
		fmt.Fprintf(&buf, "\n  # %s (%s)\n", rule.ID, rule.Name)
		for _, line := range wrapWords(rule.Description, commentWrapWidth) {
			fmt.Fprintf(&buf, "  # %s\n", line)
		}
		if len(rule.Tags) > 0 {
			fmt.Fprintf(&buf, "  # Tags: %s\n", strings.Join(rule.Tags, ", "))
		}
		if rule.CanFix {
			buf.WriteString("  # Auto-fix: yes\n")
		}
		fmt.Fprintf(&buf, "  %s:\n    enabled: %t\n    severity: %s\n", rule.ID, rule.Enabled, rule.Severity)
	}
	return buf.Bytes()
}

// templateConfig is the base document for encoder-rendered templates.
func templateConfig() *Config {
	cfg := NewConfig()
	cfg.Parser.Timeout = DefaultParserTimeout.String()
	return cfg
}

func tomlTemplate(opts TemplateOptions) ([]byte, error) {
	cfg := templateConfig()
	if opts.Full {
		cfg.Ignore = []string{"vendor/**", ".git/**"}
		for _, rule := range templateRules(opts) {
			enabled, severity := rule.Enabled, string(rule.Severity)
			cfg.Rules[rule.ID] = RuleConfig{Enabled: &enabled, Severity: &severity}
		}
	}
	return cfg.Encode(SyntaxTOML, DefaultTemplateHeader())
}

func presetTemplate(syntax Syntax, opts TemplateOptions) ([]byte, error) {
	cfg := templateConfig()
	for id, rc := range opts.PresetRules {
		cfg.Rules[id] = rc.Clone()
	}

	header := DefaultTemplateHeader()
	if opts.PresetName != "" {
		header += "\n#\n# Rule settings from the " + opts.PresetName + " pack."
	}
	return cfg.Encode(syntax, header)
}

// templateRules returns the registered rules, filtered by IncludeRules and
// sorted by ID.
func templateRules(opts TemplateOptions) []RuleInfo {
	var rules []RuleInfo
	if DefaultRuleInfoProvider != nil {
		rules = DefaultRuleInfoProvider()
	} else {
		rules = fallbackRuleInfos()
	}

	if len(opts.IncludeRules) > 0 {
		rules = slices.DeleteFunc(slices.Clone(rules), func(r RuleInfo) bool {
			return !slices.Contains(opts.IncludeRules, r.ID)
		})
	}
	slices.SortFunc(rules, func(a, b RuleInfo) int { return strings.Compare(a.ID, b.ID) })
	return rules
}

// fallbackRuleInfos stands in when no rule package has been linked.
func fallbackRuleInfos() []RuleInfo {
	return []RuleInfo{
		{
			ID: "Layout/TrailingWhitespace", Name: "trailing-whitespace", Enabled: true, Severity: SeverityWarning,
			Description: "Trailing spaces and tabs at the end of lines",
			Tags:        []string{"layout", "whitespace"}, CanFix: true,
		},
		{
			ID: "Lint/LiteralInInterpolation", Name: "literal-in-interpolation", Enabled: true, Severity: SeverityWarning,
			Description: "Literals interpolated into strings",
			Tags:        []string{"lint", "strings"}, CanFix: true,
		},
	}
}

// wrapWords breaks text into lines of at most width bytes. A single word
// longer than width gets a line of its own.
func wrapWords(text string, width int) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// PresetRuleIDs lists the rule IDs of a preset in sorted order.
func PresetRuleIDs(preset map[string]RuleConfig) []string {
	return slices.Sorted(maps.Keys(preset))
}
