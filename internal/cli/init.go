package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/rbfix/internal/logging"
	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/lint/rules"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
	pack   string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create an rbfix configuration file",
		Long: `Create a .rbfix.yml configuration file in the current directory with
the default parser settings and commented rule examples.

With --full every registered rule is listed with its description,
default severity and whether it can correct offenses.

With --pack the rules section holds the settings of a built-in rule pack
(layout, strict or relaxed) instead.`,
		Example: `  rbfix init                      # Minimal .rbfix.yml
  rbfix init --full               # Document every rule
  rbfix init --format toml        # Write .rbfix.toml instead
  rbfix init --pack strict        # Start from the strict pack
  rbfix init --output ci.yml      # Write to a custom path`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "document every rule in the generated file")
	cmd.Flags().StringVar(&flags.format, "format", config.TemplateYAML, "output format: yaml, toml")
	cmd.Flags().StringVar(&flags.pack, "pack", "",
		"start from a rule pack: "+strings.Join(rules.PackNames(), ", "))
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path (default: .rbfix.yml or .rbfix.toml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.Console(cmd.OutOrStdout())

	if flags.format != config.TemplateYAML && flags.format != config.TemplateTOML {
		return withExitCode(ExitInvalidUsage,
			fmt.Errorf("invalid format %q: must be yaml or toml", flags.format))
	}

	opts := config.TemplateOptions{Full: flags.full, Format: flags.format}
	if flags.pack != "" {
		pack := rules.PackByName(flags.pack)
		if pack == nil {
			return withExitCode(ExitInvalidUsage, fmt.Errorf("unknown pack %q: must be one of %s",
				flags.pack, strings.Join(rules.PackNames(), ", ")))
		}
		opts.PresetName, opts.PresetRules = pack.Name, pack.Rules
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = ".rbfix.yml"
		if flags.format == config.TemplateTOML {
			outputPath = ".rbfix.toml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := checkOverwrite(cmd, absPath, outputPath, flags.force); err != nil {
		return err
	}

	content, err := config.GenerateTemplate(opts)
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("write file: %w", err))
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	if opts.PresetRules != nil {
		logger.Info("rule pack applied", "pack", opts.PresetName,
			"rules", strings.Join(config.PresetRuleIDs(opts.PresetRules), ", "))
	}
	logger.Info("run 'rbfix rules' to see all available rules")

	return nil
}

// checkOverwrite refuses to replace an existing file unless force is set or
// an interactive user confirms.
func checkOverwrite(cmd *cobra.Command, absPath, displayPath string, force bool) error {
	if _, err := os.Stat(absPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return withExitCode(ExitIOError, fmt.Errorf("stat %s: %w", displayPath, err))
	}

	if force {
		logging.Console(cmd.ErrOrStderr()).Warn("overwriting existing file", logging.FieldPath, displayPath)
		return nil
	}

	if stdin, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(stdin.Fd())) {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s already exists. Overwrite? [y/N] ", displayPath)
		answer, err := bufio.NewReader(stdin).ReadString('\n')
		if err == nil {
			answer = strings.ToLower(strings.TrimSpace(answer))
			if answer == "y" || answer == "yes" {
				return nil
			}
		}
	}

	return withExitCode(ExitInvalidUsage,
		fmt.Errorf("file %q already exists; use --force to overwrite", displayPath))
}
