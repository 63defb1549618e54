package config

import (
	"maps"
	"slices"
)

// Clone returns a deep copy of c. Values inside rule options are shared.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Parser.Command = slices.Clone(c.Parser.Command)
	clone.Parser.Cache = clonePtr(c.Parser.Cache)
	clone.Ignore = slices.Clone(c.Ignore)
	clone.EnableRules = slices.Clone(c.EnableRules)
	clone.DisableRules = slices.Clone(c.DisableRules)
	clone.FixRules = slices.Clone(c.FixRules)

	if c.Rules != nil {
		clone.Rules = make(map[string]RuleConfig, len(c.Rules))
		for id, rule := range c.Rules {
			clone.Rules[id] = rule.Clone()
		}
	}
	return &clone
}

// Clone returns a copy of rc that shares no pointers with it.
func (rc RuleConfig) Clone() RuleConfig {
	return RuleConfig{
		Enabled:  clonePtr(rc.Enabled),
		Severity: clonePtr(rc.Severity),
		AutoFix:  clonePtr(rc.AutoFix),
		Options:  maps.Clone(rc.Options),
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
