// Package configloader resolves the effective configuration for a run:
// discovery of system, user and project files, layered merging,
// environment overrides, validation and RuboCop import.
package configloader

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/term"

	"github.com/yaklabco/rbfix/internal/logging"
	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/lint"
)

const configFilePermissions = 0644

// LoadOptions controls which sources Load consults.
type LoadOptions struct {
	// WorkingDir anchors project discovery. Empty means the process
	// working directory.
	WorkingDir string

	// ExplicitPath is the --config file. It is loaded after the project
	// config and disables RuboCop import.
	ExplicitPath string

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool
	IgnoreRubocop       bool

	// NonInteractive turns the RuboCop import prompt into a warning.
	NonInteractive bool

	// CLIConfig holds flag values; it has the highest precedence.
	CLIConfig *config.Config
}

// LoadResult is the effective configuration and how it was assembled.
type LoadResult struct {
	Config *config.Config
	Paths  *ConfigPaths

	// LoadedFrom lists the files merged, lowest precedence first.
	LoadedFrom []string

	Warnings []string

	// ImportPerformed is set when a .rubocop.yml was converted.
	ImportPerformed bool
}

type layer struct {
	name string
	path string
	skip bool
}

// Load resolves the configuration. Precedence, highest first: CLI flags,
// RBFIX_* environment, --config file, project file, user file, system
// file, defaults.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	result := &LoadResult{Paths: paths}

	if !opts.IgnoreRubocop && !opts.IgnoreProjectConfig && opts.ExplicitPath == "" {
		imported, err := handleRubocopImport(paths, result, opts, workDir)
		if err != nil {
			return nil, err
		}
		if imported {
			if paths, err = DiscoverPaths(ctx, workDir); err != nil {
				return nil, fmt.Errorf("discover paths after import: %w", err)
			}
			result.Paths = paths
		}
	}
	paths.Explicit = opts.ExplicitPath

	logger := logging.FromContext(ctx)
	cfg := config.NewConfig()
	for _, l := range []layer{
		{"system", paths.System, opts.IgnoreSystemConfig},
		{"user", paths.User, opts.IgnoreUserConfig},
		{"project", paths.Project, opts.IgnoreProjectConfig},
		{"explicit", paths.Explicit, false},
	} {
		if l.skip || l.path == "" {
			continue
		}
		fileCfg, err := loadConfigFile(l.path)
		if err != nil {
			return nil, fmt.Errorf("load %s config %s: %w", l.name, l.path, err)
		}
		logger.Debug("config layer", "layer", l.name, logging.FieldPath, l.path)
		cfg = merge(cfg, fileCfg)
		result.LoadedFrom = append(result.LoadedFrom, l.path)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, fmt.Errorf("load environment: %w", err)
		}
	}
	cfg = merge(cfg, opts.CLIConfig)

	normalizeRuleKeys(cfg, lint.DefaultRegistry, result)

	validation := Validate(cfg)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Message)
	}

	result.Config = cfg
	return result, nil
}

func loadConfigFile(path string) (*config.Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return config.Decode(config.SyntaxFor(path), content)
}

// handleRubocopImport offers to convert .rubocop.yml when the project has
// no rbfix config of its own. It reports whether a file was written.
func handleRubocopImport(paths *ConfigPaths, result *LoadResult, opts LoadOptions, workDir string) (bool, error) {
	if paths.Rubocop == "" || paths.Project != "" {
		return false, nil
	}

	if opts.NonInteractive || !term.IsTerminal(int(os.Stdin.Fd())) {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("found %s but no .rbfix.yml; run 'rbfix migrate' to convert", paths.Rubocop))
		return false, nil
	}

	accepted, err := promptImport(paths.Rubocop)
	if err != nil || !accepted {
		return false, err
	}

	imported, err := ConvertRubocopConfig(paths.Rubocop)
	if err != nil {
		return false, fmt.Errorf("convert rubocop config: %w", err)
	}
	result.Warnings = append(result.Warnings, imported.Warnings...)

	outputPath := filepath.Join(workDir, ".rbfix.yml")
	if err := WriteConfig(imported.Config, outputPath, GenerateMigrationHeader(paths.Rubocop)); err != nil {
		return false, fmt.Errorf("write imported config: %w", err)
	}

	result.ImportPerformed = true
	result.Warnings = append(result.Warnings, fmt.Sprintf("imported %s into %s", paths.Rubocop, outputPath))
	return true, nil
}

func promptImport(rubocopPath string) (bool, error) {
	prompt := "Found " + rubocopPath + " but no .rbfix.yml\nImport its cop settings? [Y/n] "
	if _, err := os.Stdout.WriteString(prompt); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	response, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(response)) {
	case "", "y", "yes":
		return true, nil
	}
	return false, nil
}

// WriteConfig writes cfg to path in the syntax its extension names.
func WriteConfig(cfg *config.Config, path, header string) error {
	content, err := cfg.Encode(config.SyntaxFor(path), header)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

// normalizeRuleKeys rewrites rule names, legacy aliases and department
// keys to canonical rule IDs. A department entry ("Layout") applies to each
// of its rules; entries naming a rule directly take precedence over it.
func normalizeRuleKeys(cfg *config.Config, registry *lint.Registry, result *LoadResult) {
	if len(cfg.Rules) == 0 {
		return
	}

	keys := make([]string, 0, len(cfg.Rules))
	for key := range cfg.Rules {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	normalized := make(map[string]config.RuleConfig, len(cfg.Rules))
	seen := make(map[string]string) // canonical ID -> key it came from
	var departments []string

	for _, key := range keys {
		rule, ok := registry.Lookup(key)
		if !ok {
			if len(registry.Department(key)) > 0 {
				departments = append(departments, key)
			} else {
				normalized[key] = cfg.Rules[key] // unknown; validation warns
			}
			continue
		}

		id := rule.ID()
		if prev, dup := seen[id]; dup {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"duplicate rule configuration: %q and %q both refer to %s; using %q", prev, key, id, key))
		}
		seen[id] = key
		normalized[id] = cfg.Rules[key]
	}

	for _, dept := range departments {
		for _, rule := range registry.Department(dept) {
			if own, ok := normalized[rule.ID()]; ok {
				normalized[rule.ID()] = mergeRuleConfig(cfg.Rules[dept], own)
			} else {
				normalized[rule.ID()] = cfg.Rules[dept]
			}
		}
	}

	cfg.Rules = normalized
}
