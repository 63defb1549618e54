package configloader

import (
	"strings"
	"testing"

	"github.com/yaklabco/rbfix/pkg/config"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	badSeverity := "fatal"
	tests := []struct {
		name       string
		mutate     func(*config.Config)
		wantField  string
		wantSubstr string
	}{
		{
			name:       "severity default",
			mutate:     func(c *config.Config) { c.SeverityDefault = "loud" },
			wantField:  "severity_default",
			wantSubstr: "must be one of: error, warning, info",
		},
		{
			name:       "output format",
			mutate:     func(c *config.Config) { c.Format = "xml" },
			wantField:  "format",
			wantSubstr: `invalid format "xml"`,
		},
		{
			name:       "rule format",
			mutate:     func(c *config.Config) { c.RuleFormat = "short" },
			wantField:  "rule_format",
			wantSubstr: "id, name, combined",
		},
		{
			name:      "negative jobs",
			mutate:    func(c *config.Config) { c.Jobs = -1 },
			wantField: "jobs",
		},
		{
			name:      "negative passes",
			mutate:    func(c *config.Config) { c.MaxFixPasses = -3 },
			wantField: "max_fix_passes",
		},
		{
			name:       "backup mode",
			mutate:     func(c *config.Config) { c.Backups.Mode = "git" },
			wantField:  "backups.mode",
			wantSubstr: "sidecar, none",
		},
		{
			name:      "empty parser command",
			mutate:    func(c *config.Config) { c.Parser.Command = []string{" "} },
			wantField: "parser.command",
		},
		{
			name:       "dump format",
			mutate:     func(c *config.Config) { c.Parser.Format = "yaml" },
			wantField:  "parser.format",
			wantSubstr: "msgpack, json",
		},
		{
			name:       "parser timeout",
			mutate:     func(c *config.Config) { c.Parser.Timeout = "soon" },
			wantField:  "parser.timeout",
			wantSubstr: "invalid duration",
		},
		{
			name:       "zero parser timeout",
			mutate:     func(c *config.Config) { c.Parser.Timeout = "0s" },
			wantField:  "parser.timeout",
			wantSubstr: "positive",
		},
		{
			name: "rule severity",
			mutate: func(c *config.Config) {
				c.Rules["Layout/TrailingWhitespace"] = config.RuleConfig{Severity: &badSeverity}
			},
			wantField: "rules.Layout/TrailingWhitespace.severity",
		},
		{
			name:       "ignore glob",
			mutate:     func(c *config.Config) { c.Ignore = []string{"vendor/**", "[a-"} },
			wantField:  "ignore[1]",
			wantSubstr: "invalid glob",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.mutate(cfg)

			result := Validate(cfg)
			if result.Valid() {
				t.Fatal("Validate() reported a valid config")
			}
			got := result.Errors[0]
			if got.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", got.Field, tt.wantField)
			}
			if !strings.Contains(got.Error(), tt.wantSubstr) {
				t.Errorf("Error() = %q, want substring %q", got.Error(), tt.wantSubstr)
			}
		})
	}
}

func TestValidate_Defaults(t *testing.T) {
	t.Parallel()

	result := Validate(config.NewConfig())
	if !result.Valid() {
		t.Errorf("default config invalid: %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none", result.Warnings)
	}
	if !Validate(nil).Valid() {
		t.Error("Validate(nil) should be valid")
	}
}

func TestValidate_UnknownRuleWarns(t *testing.T) {
	t.Parallel()

	cfg := config.NewConfig()
	cfg.Rules["Style/NoSuchCop"] = config.RuleConfig{}
	cfg.Rules["Layout"] = config.RuleConfig{}

	result := Validate(cfg)
	if !result.Valid() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("Warnings = %v, want exactly one", result.Warnings)
	}
	if w := result.Warnings[0]; w.Field != "rules.Style/NoSuchCop" {
		t.Errorf("warning field = %q", w.Field)
	}
}
