package configloader

import (
	"maps"

	"github.com/yaklabco/rbfix/pkg/config"
)

// override replaces *dst when v is not the zero value.
func override[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

// overrideSlice replaces *dst when v is non-nil, so an explicit empty list
// clears the inherited one.
func overrideSlice[T any](dst *[]T, v []T) {
	if v != nil {
		*dst = v
	}
}

// merge layers over onto base without modifying either. Unset values in
// over leave base untouched. Booleans can only be switched on by a higher
// layer.
func merge(base, over *config.Config) *config.Config {
	if over == nil {
		return base.Clone()
	}
	if base == nil {
		return over.Clone()
	}

	out := base.Clone()

	override(&out.SeverityDefault, over.SeverityDefault)
	override(&out.Format, over.Format)
	override(&out.RuleFormat, over.RuleFormat)
	override(&out.Jobs, over.Jobs)
	override(&out.MaxFixPasses, over.MaxFixPasses)
	override(&out.Fix, over.Fix)
	override(&out.DryRun, over.DryRun)
	override(&out.NoBackups, over.NoBackups)
	override(&out.Backups.Mode, over.Backups.Mode)
	override(&out.Backups.Enabled, over.Backups.Enabled)

	overrideSlice(&out.Parser.Command, over.Parser.Command)
	override(&out.Parser.Format, over.Parser.Format)
	override(&out.Parser.Timeout, over.Parser.Timeout)
	override(&out.Parser.CacheDir, over.Parser.CacheDir)
	if over.Parser.Cache != nil {
		cache := *over.Parser.Cache
		out.Parser.Cache = &cache
	}

	overrideSlice(&out.Ignore, over.Ignore)
	overrideSlice(&out.EnableRules, over.EnableRules)
	overrideSlice(&out.DisableRules, over.DisableRules)
	overrideSlice(&out.FixRules, over.FixRules)

	for id, rule := range over.Rules {
		if out.Rules == nil {
			out.Rules = make(map[string]config.RuleConfig)
		}
		if existing, ok := out.Rules[id]; ok {
			out.Rules[id] = mergeRuleConfig(existing, rule)
		} else {
			out.Rules[id] = rule.Clone()
		}
	}
	return out
}

// mergeRuleConfig overlays the fields set in over onto base. Options are
// merged key by key into a fresh map.
func mergeRuleConfig(base, over config.RuleConfig) config.RuleConfig {
	out := base.Clone()
	if over.Enabled != nil {
		out.Enabled = over.Enabled
	}
	if over.Severity != nil {
		out.Severity = over.Severity
	}
	if over.AutoFix != nil {
		out.AutoFix = over.AutoFix
	}
	if over.Options != nil {
		options := make(map[string]any, len(base.Options)+len(over.Options))
		maps.Copy(options, base.Options)
		maps.Copy(options, over.Options)
		out.Options = options
	}
	return out
}

// MergeAll layers configs in order; later configs win.
func MergeAll(configs ...*config.Config) *config.Config {
	var out *config.Config
	for _, cfg := range configs {
		out = merge(out, cfg)
	}
	return out
}
