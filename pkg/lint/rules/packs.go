package rules

import (
	"slices"

	"github.com/samber/lo"

	"github.com/yaklabco/rbfix/pkg/config"
)

// Pack is a named set of rule settings that "rbfix init --pack" writes as a
// starting configuration.
type Pack struct {
	Name        string
	Description string
	Rules       map[string]config.RuleConfig
}

//nolint:gochecknoglobals // read-only rule groupings
var (
	layoutRuleIDs = []string{
		"Layout/TrailingWhitespace",
		"Layout/TrailingEmptyLines",
		"Layout/SpaceBeforeLineContinuation",
		"Layout/SpaceBeforeComment",
		"Layout/EmptyComment",
		"Layout/EndAlignment",
		"Layout/IndentationConsistency",
	}
	lintRuleIDs = []string{
		"Lint/LiteralInInterpolation",
		"Lint/AdjacentStringLiterals",
	}
	whitespaceRuleIDs = []string{
		"Layout/TrailingWhitespace",
		"Layout/TrailingEmptyLines",
	}
)

// LayoutPack enables every Layout rule as a warning and leaves Lint rules
// at their defaults.
func LayoutPack() Pack {
	return Pack{
		Name:        "layout",
		Description: "Whitespace, comments and alignment as warnings",
		Rules:       atSeverity(config.SeverityWarning, layoutRuleIDs...),
	}
}

// StrictPack makes every rule an error and disallows border and margin
// comments.
func StrictPack() Pack {
	rules := atSeverity(config.SeverityError, slices.Concat(layoutRuleIDs, lintRuleIDs)...)

	emptyComment := rules["Layout/EmptyComment"]
	emptyComment.Options = map[string]any{
		"allow_border_comment": false,
		"allow_margin_comment": false,
	}
	rules["Layout/EmptyComment"] = emptyComment

	return Pack{
		Name:        "strict",
		Description: "Every rule as an error, no border or margin comments",
		Rules:       rules,
	}
}

// RelaxedPack keeps only the whitespace rules, reported as info. Suited to
// legacy code.
func RelaxedPack() Pack {
	return Pack{
		Name:        "relaxed",
		Description: "Only whitespace rules, minimal noise",
		Rules:       atSeverity(config.SeverityInfo, whitespaceRuleIDs...),
	}
}

// Packs returns the built-in packs.
func Packs() []Pack {
	return []Pack{LayoutPack(), StrictPack(), RelaxedPack()}
}

// PackByName returns the named pack, or nil.
func PackByName(name string) *Pack {
	pack, ok := lo.Find(Packs(), func(p Pack) bool { return p.Name == name })
	if !ok {
		return nil
	}
	return &pack
}

// PackNames lists pack names in Packs order.
func PackNames() []string {
	return lo.Map(Packs(), func(p Pack, _ int) string { return p.Name })
}

func atSeverity(severity config.Severity, ids ...string) map[string]config.RuleConfig {
	return lo.SliceToMap(ids, func(id string) (string, config.RuleConfig) {
		on, sev := true, string(severity)
		return id, config.RuleConfig{Enabled: &on, Severity: &sev}
	})
}
