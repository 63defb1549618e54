package configloader

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yaklabco/rbfix/pkg/config"
)

// EnvPrefix starts every environment variable rbfix reads.
const EnvPrefix = "RBFIX_"

// EnvVar is one supported environment override.
type EnvVar struct {
	Name string
	Help string

	apply func(cfg *config.Config, value string) error
}

func text(set func(*config.Config, string)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		set(cfg, value)
		return nil
	}
}

func boolean(set func(*config.Config, bool)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("expected true/false/1/0, got %q", value)
		}
		set(cfg, b)
		return nil
	}
}

func integer(set func(*config.Config, int)) func(*config.Config, string) error {
	return func(cfg *config.Config, value string) error {
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("expected an integer, got %q", value)
		}
		set(cfg, n)
		return nil
	}
}

// commaList splits on commas, dropping blank elements.
func commaList(value string) []string {
	var out []string
	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

//nolint:gochecknoglobals // Read-only lookup table.
var envVars = []EnvVar{
	{"SEVERITY_DEFAULT", "Default severity: error, warning, or info",
		text(func(c *config.Config, v string) { c.SeverityDefault = v })},
	{"MAX_FIX_PASSES", "Maximum correction passes per file",
		integer(func(c *config.Config, n int) { c.MaxFixPasses = n })},
	{"FIX", "Enable auto-fix: true or false",
		boolean(func(c *config.Config, b bool) { c.Fix = b })},
	{"DRY_RUN", "Report corrections without writing: true or false",
		boolean(func(c *config.Config, b bool) { c.DryRun = b })},
	{"JOBS", "Number of parallel workers (0 = auto)",
		integer(func(c *config.Config, n int) { c.Jobs = n })},
	{"FORMAT", "Output format: text, json, diff, or summary",
		text(func(c *config.Config, v string) { c.Format = config.OutputFormat(v) })},
	{"RULE_FORMAT", "Rule identifiers in output: id, name, or combined",
		text(func(c *config.Config, v string) { c.RuleFormat = config.RuleFormat(v) })},
	{"BACKUPS_ENABLED", "Write backups when fixing: true or false",
		boolean(func(c *config.Config, b bool) { c.Backups.Enabled = b })},
	{"BACKUPS_MODE", "Backup mode: sidecar or none",
		text(func(c *config.Config, v string) { c.Backups.Mode = v })},
	{"NO_BACKUPS", "Disable backups: true or false",
		boolean(func(c *config.Config, b bool) { c.NoBackups = b })},
	{"IGNORE", "Comma-separated ignore patterns",
		text(func(c *config.Config, v string) { c.Ignore = commaList(v) })},
	{"PARSER_COMMAND", "Parser command line, split on whitespace",
		text(func(c *config.Config, v string) { c.Parser.Command = strings.Fields(v) })},
	{"PARSER_FORMAT", "Parser dump format: msgpack or json",
		text(func(c *config.Config, v string) { c.Parser.Format = config.DumpFormat(v) })},
	{"PARSER_TIMEOUT", "Per-file parser timeout (e.g. 30s)",
		text(func(c *config.Config, v string) { c.Parser.Timeout = v })},
	{"PARSER_CACHE", "Enable the parse cache: true or false",
		boolean(func(c *config.Config, b bool) { c.Parser.Cache = &b })},
	{"PARSER_CACHE_DIR", "Parse cache directory",
		text(func(c *config.Config, v string) { c.Parser.CacheDir = v })},
}

// EnvVars lists the supported overrides with their full names.
func EnvVars() []EnvVar {
	out := make([]EnvVar, len(envVars))
	for i, v := range envVars {
		v.Name = EnvPrefix + v.Name
		out[i] = v
	}
	return out
}

// LoadFromEnv applies every set RBFIX_* variable to cfg. Empty values
// are ignored.
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}
	for _, v := range EnvVars() {
		value := os.Getenv(v.Name)
		if value == "" {
			continue
		}
		if err := v.apply(cfg, value); err != nil {
			return fmt.Errorf("%s: %w", v.Name, err)
		}
	}
	return nil
}
