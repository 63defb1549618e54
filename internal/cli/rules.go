package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/yaklabco/rbfix/internal/logging"
	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/lint"
)

const formatJSON = "json"

type rulesFlags struct {
	ruleFormat string
	format     string
	department string
}

// ruleInfo is the JSON form of a rule.
type ruleInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Department  string `json:"department"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Fixable     bool   `json:"fixable"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules [selector...]",
		Short: "List available rules",
		Long: `List the registered rules with their default severity and whether
they can correct what they find.

A selector is a rule ID (Layout/EmptyComment), a rule name
(empty-comment), an alias, or a department (Layout).`,
		Example: `  rbfix rules
  rbfix rules Layout/TrailingWhitespace
  rbfix rules --department Lint --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := selectRules(lint.DefaultRegistry, flags.department, args)
			if err != nil {
				return withExitCode(ExitInvalidUsage, err)
			}
			if flags.format == formatJSON {
				return writeRulesJSON(cmd.OutOrStdout(), rules)
			}
			writeRulesText(cmd.OutOrStdout(), rules, config.RuleFormat(flags.ruleFormat))
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "combined",
		"rule identifier format in output: id, name, combined")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")
	cmd.Flags().StringVar(&flags.department, "department", "",
		"only list rules of this department (Layout, Lint)")

	return cmd
}

// selectRules narrows the registry by department and selectors. Every
// selector must match at least one rule.
func selectRules(registry *lint.Registry, department string, selectors []string) ([]lint.Rule, error) {
	rules := registry.Rules()
	if department != "" {
		rules = registry.Department(department)
		if len(rules) == 0 {
			return nil, fmt.Errorf("unknown department %q; available: %v", department, registry.Departments())
		}
	}
	if len(selectors) == 0 {
		return rules, nil
	}

	var picked []lint.Rule
	for _, selector := range selectors {
		matched := registry.Select(selector)
		if len(matched) == 0 {
			return nil, fmt.Errorf("no rule matches %q", selector)
		}
		picked = append(picked, matched...)
	}
	picked = lo.UniqBy(picked, lint.Rule.ID)
	return lo.Filter(picked, func(r lint.Rule, _ int) bool {
		return lo.ContainsBy(rules, func(other lint.Rule) bool { return other.ID() == r.ID() })
	}), nil
}

func writeRulesText(w io.Writer, rules []lint.Rule, format config.RuleFormat) {
	logger := logging.Console(w)
	if len(rules) == 0 {
		logger.Info("no rules registered")
		return
	}
	for _, rule := range rules {
		logger.Info(config.FormatRuleID(format, rule.ID(), rule.Name()),
			logging.FieldSeverity, rule.DefaultSeverity(),
			logging.FieldFixable, lo.Ternary(rule.CanFix(), "yes", "-"),
			logging.FieldDescription, rule.Description(),
		)
	}
}

func writeRulesJSON(w io.Writer, rules []lint.Rule) error {
	infos := lo.Map(rules, func(rule lint.Rule, _ int) ruleInfo {
		return ruleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Department:  lint.Department(rule.ID()),
			Description: rule.Description(),
			Severity:    string(rule.DefaultSeverity()),
			Fixable:     rule.CanFix(),
		}
	})

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(infos); err != nil {
		return fmt.Errorf("encoding rules: %w", err)
	}
	return nil
}
