package rules

import (
	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/lint"
)

// RegisterAll registers all built-in rules with the given registry.
func RegisterAll(registry *lint.Registry) {
	// Whitespace
	registry.Register(NewTrailingWhitespaceRule())
	registry.Register(NewTrailingEmptyLinesRule())
	registry.Register(NewSpaceBeforeLineContinuationRule())

	// Comments
	registry.Register(NewSpaceBeforeCommentRule())
	registry.Register(NewEmptyCommentRule())

	// Alignment
	registry.Register(NewEndAlignmentRule())
	registry.Register(NewIndentationConsistencyRule())

	// Strings
	registry.Register(NewLiteralInInterpolationRule())
	registry.Register(NewAdjacentStringLiteralsRule())
}

// RegisterLegacyAliases registers the former IDs of rules that moved
// department, so configuration files written for them keep working.
func RegisterLegacyAliases(registry *lint.Registry) {
	registry.RegisterAlias("Style/TrailingWhitespace", "Layout/TrailingWhitespace")
	registry.RegisterAlias("Style/TrailingBlankLines", "Layout/TrailingEmptyLines")
	registry.RegisterAlias("Layout/TrailingBlankLines", "Layout/TrailingEmptyLines")
	registry.RegisterAlias("Style/SpaceBeforeComment", "Layout/SpaceBeforeComment")
	registry.RegisterAlias("Style/IndentationConsistency", "Layout/IndentationConsistency")
	registry.RegisterAlias("Lint/EndAlignment", "Layout/EndAlignment")
}

// RuleInfos describes the rules of registry for configuration templates.
func RuleInfos(registry *lint.Registry) []config.RuleInfo {
	rules := registry.Rules()
	infos := make([]config.RuleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, config.RuleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Enabled:     rule.DefaultEnabled(),
			Severity:    rule.DefaultSeverity(),
			Tags:        rule.Tags(),
			CanFix:      rule.CanFix(),
		})
	}
	return infos
}

// init registers all built-in rules with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(lint.DefaultRegistry)
	RegisterLegacyAliases(lint.DefaultRegistry)

	config.DefaultRuleInfoProvider = func() []config.RuleInfo {
		return RuleInfos(lint.DefaultRegistry)
	}
}
