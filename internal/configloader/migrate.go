package configloader

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/lint"
)

// MigrationResult contains the result of converting a RuboCop config.
type MigrationResult struct {
	// Config is the converted rbfix configuration.
	Config *config.Config

	// Warnings contains non-fatal issues encountered during conversion.
	Warnings []string

	// SourcePath is the path to the original .rubocop.yml.
	SourcePath string
}

// copMetadataKeys are RuboCop cop keys that describe the cop rather than configure it.
//
//nolint:gochecknoglobals // Read-only lookup table.
var copMetadataKeys = []string{
	"Description", "Details", "StyleGuide", "Reference", "References",
	"VersionAdded", "VersionChanged", "VersionRemoved", "Safe", "SafeAutoCorrect",
}

// ConvertRubocopConfig converts the cop settings of a .rubocop.yml into an
// rbfix configuration. Cops without an rbfix rule are skipped with a warning.
func ConvertRubocopConfig(path string) (*MigrationResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	result, err := ConvertRubocopYAML(content, lint.DefaultRegistry)
	if err != nil {
		return nil, err
	}
	result.SourcePath = path
	return result, nil
}

// ConvertRubocopYAML converts RuboCop YAML content using registry to match cops to rules.
func ConvertRubocopYAML(content []byte, registry *lint.Registry) (*MigrationResult, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	result := &MigrationResult{}
	cfg := config.NewConfig()

	processSpecialKeys(cfg, raw, result)

	keys := make([]string, 0, len(raw))
	for key := range raw {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		processCopKey(cfg, registry, key, raw[key], result)
	}

	result.Config = cfg
	return result, nil
}

// processSpecialKeys handles AllCops and the inheritance keys.
func processSpecialKeys(cfg *config.Config, raw map[string]any, result *MigrationResult) {
	for _, key := range []string{"inherit_from", "inherit_gem", "inherit_mode", "require", "plugins"} {
		if _, ok := raw[key]; ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%q is not supported; merge inherited settings manually", key))
			delete(raw, key)
		}
	}

	allCops, ok := raw["AllCops"].(map[string]any)
	delete(raw, "AllCops")
	if !ok {
		return
	}

	if exclude, ok := allCops["Exclude"].([]any); ok {
		for _, pattern := range exclude {
			if s, ok := pattern.(string); ok {
				cfg.Ignore = append(cfg.Ignore, s)
			}
		}
	}

	if disabled, ok := allCops["DisabledByDefault"].(bool); ok && disabled {
		result.Warnings = append(result.Warnings,
			"'DisabledByDefault: true' has no equivalent; rbfix rules are enabled by default and must be explicitly disabled")
	}
}

// processCopKey converts one top-level key, which names a cop or a department.
func processCopKey(cfg *config.Config, registry *lint.Registry, key string, value any, result *MigrationResult) {
	if rule, ok := registry.Lookup(key); ok {
		cfg.Rules[rule.ID()] = convertCopValue(key, value, result)
		return
	}

	if rules := registry.Department(key); len(rules) > 0 {
		ruleCfg := convertCopValue(key, value, result)
		ruleCfg.Options = nil
		for _, rule := range rules {
			cfg.Rules[rule.ID()] = ruleCfg
		}
		return
	}

	result.Warnings = append(result.Warnings,
		fmt.Sprintf("cop %q has no rbfix equivalent; skipping", key))
}

// convertCopValue converts a cop's settings to a RuleConfig.
func convertCopValue(cop string, value any, result *MigrationResult) config.RuleConfig {
	ruleCfg := config.RuleConfig{}

	settings, ok := value.(map[string]any)
	if !ok {
		enabled := valueToBool(value)
		ruleCfg.Enabled = &enabled
		return ruleCfg
	}

	keys := make([]string, 0, len(settings))
	for key := range settings {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	for _, key := range keys {
		optVal := settings[key]
		switch {
		case key == "Enabled":
			enabled := valueToBool(optVal)
			ruleCfg.Enabled = &enabled
		case key == "Severity":
			if severity, ok := mapSeverity(optVal); ok {
				ruleCfg.Severity = &severity
			} else {
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("%s: unknown severity %v; keeping the default", cop, optVal))
			}
		case key == "AutoCorrect":
			autoFix := valueToBool(optVal)
			ruleCfg.AutoFix = &autoFix
		case key == "Include" || key == "Exclude":
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s: per-cop %s is not supported; use top-level ignore patterns", cop, key))
		case slices.Contains(copMetadataKeys, key):
		default:
			if ruleCfg.Options == nil {
				ruleCfg.Options = make(map[string]any)
			}
			ruleCfg.Options[mapOptionName(key)] = optVal
		}
	}

	return ruleCfg
}

// mapSeverity maps RuboCop severities onto rbfix's three levels.
func mapSeverity(value any) (string, bool) {
	s, ok := value.(string)
	if !ok {
		return "", false
	}
	switch s {
	case "info", "refactor", "convention":
		return string(config.SeverityInfo), true
	case "warning":
		return string(config.SeverityWarning), true
	case "error", "fatal":
		return string(config.SeverityError), true
	default:
		return "", false
	}
}

// valueToBool converts various value types to a boolean.
// RuboCop uses "pending" for cops that are not yet enabled by default.
func valueToBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case nil:
		return false
	case string:
		return v != "pending" && v != "disabled" && v != "false"
	default:
		return true
	}
}

// mapOptionName converts a RuboCop option name to snake case
// ("AllowBorderComment" -> "allow_border_comment").
func mapOptionName(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && !unicode.IsUpper(runes[i-1])
			nextLower := i > 0 && i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || nextLower {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// GenerateMigrationHeader returns a header comment for imported configs.
func GenerateMigrationHeader(sourcePath string) string {
	return fmt.Sprintf(`# rbfix configuration
# Imported from: %s
# See: https://github.com/yaklabco/rbfix
`, filepath.Base(sourcePath))
}
