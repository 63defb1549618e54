package lint

import "github.com/yaklabco/rbfix/pkg/config"

// ResolvedRule is a rule with its effective settings for one run.
type ResolvedRule struct {
	Rule     Rule
	Enabled  bool
	Severity config.Severity
	AutoFix  bool

	// Config is the file configuration for the rule, if any.
	Config *config.RuleConfig
}

// ResolveRules returns the enabled rules of registry, sorted by ID, with
// cfg applied. Files set per-rule state; the CLI selectors in
// EnableRules, DisableRules and FixRules override it. A selector is a
// rule ID, name, alias or department.
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	var sel selection
	if cfg != nil {
		sel = selection{
			enable:  selectIDs(registry, cfg.EnableRules),
			disable: selectIDs(registry, cfg.DisableRules),
			fix:     selectIDs(registry, cfg.FixRules),
		}
	}

	var resolved []ResolvedRule
	for _, rule := range registry.Rules() {
		if rr := resolveRule(rule, cfg, sel); rr.Enabled {
			resolved = append(resolved, rr)
		}
	}
	return resolved
}

// selection holds the rule IDs picked by CLI selectors. A nil set means
// the selector list was empty.
type selection struct {
	enable, disable, fix map[string]bool
}

func selectIDs(registry *Registry, selectors []string) map[string]bool {
	if len(selectors) == 0 {
		return nil
	}
	ids := make(map[string]bool)
	for _, selector := range selectors {
		for _, rule := range registry.Select(selector) {
			ids[rule.ID()] = true
		}
	}
	return ids
}

func resolveRule(rule Rule, cfg *config.Config, sel selection) ResolvedRule {
	id := rule.ID()
	rr := ResolvedRule{
		Rule:     rule,
		Enabled:  rule.DefaultEnabled(),
		Severity: rule.DefaultSeverity(),
		AutoFix:  rule.CanFix(),
	}
	if cfg == nil {
		return rr
	}

	if ruleCfg, ok := cfg.Rules[id]; ok {
		rr.Config = &ruleCfg
		if ruleCfg.Enabled != nil {
			rr.Enabled = *ruleCfg.Enabled
		}
		if ruleCfg.Severity != nil {
			rr.Severity = config.Severity(*ruleCfg.Severity)
		}
		if ruleCfg.AutoFix != nil {
			rr.AutoFix = *ruleCfg.AutoFix && rule.CanFix()
		}
	}

	// Disable wins over enable.
	if sel.enable[id] {
		rr.Enabled = true
	}
	if sel.disable[id] {
		rr.Enabled = false
	}
	if sel.fix != nil {
		rr.AutoFix = rule.CanFix() && sel.fix[id]
	}
	if !cfg.Fix {
		rr.AutoFix = false
	}
	return rr
}
