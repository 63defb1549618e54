package lint

import "github.com/yaklabco/rbfix/pkg/config"

// BaseRule carries the metadata every rule reports. Rules embed it and
// implement Apply; DefaultEnabled and DefaultSeverity may be overridden.
type BaseRule struct {
	id, name, desc string
	tags           []string
	fixable        bool
}

// NewBaseRule creates the metadata for a rule. fixable declares that the
// rule attaches corrections to its offenses.
func NewBaseRule(id, name, desc string, tags []string, fixable bool) BaseRule {
	return BaseRule{id: id, name: name, desc: desc, tags: tags, fixable: fixable}
}

func (r *BaseRule) ID() string          { return r.id }
func (r *BaseRule) Name() string        { return r.name }
func (r *BaseRule) Description() string { return r.desc }
func (r *BaseRule) Tags() []string      { return r.tags }
func (r *BaseRule) CanFix() bool        { return r.fixable }

// DefaultEnabled reports true; built-in rules are all on unless configured off.
func (r *BaseRule) DefaultEnabled() bool { return true }

// DefaultSeverity reports warning.
func (r *BaseRule) DefaultSeverity() config.Severity { return config.SeverityWarning }

// Apply reports nothing.
func (r *BaseRule) Apply(*RuleContext) ([]Diagnostic, error) { return nil, nil }
