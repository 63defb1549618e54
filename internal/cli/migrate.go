package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rbfix/internal/configloader"
	"github.com/yaklabco/rbfix/internal/logging"
)

// migrateFlags holds the flags for the migrate command.
type migrateFlags struct {
	force  bool
	output string
	input  string
}

func newMigrateCommand() *cobra.Command {
	flags := &migrateFlags{}

	cmd := &cobra.Command{
		Use:   "migrate [.rubocop.yml]",
		Short: "Convert a RuboCop configuration to rbfix format",
		Long: `Convert the cop settings of a .rubocop.yml into an rbfix configuration.

Enabled, Severity and AutoCorrect map onto the matching rbfix rule;
other cop parameters become rule options in snake_case. AllCops/Exclude
becomes the top-level ignore list. Cops rbfix does not implement, and
inheritance keys such as inherit_from, are reported and skipped.

The output format follows the output file extension (.yml, .yaml or .toml).`,
		Example: `  rbfix migrate                          # Convert ./.rubocop.yml to .rbfix.yml
  rbfix migrate config/rubocop.yml       # Convert a specific file
  rbfix migrate --output .rbfix.toml     # Write TOML instead of YAML`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.input = args[0]
			}
			return runMigrate(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "overwrite an existing output file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", ".rbfix.yml", "output file path")

	return cmd
}

func runMigrate(cmd *cobra.Command, flags *migrateFlags) error {
	logger := logging.Console(cmd.OutOrStdout())

	inputPath := flags.input
	if inputPath == "" {
		inputPath = configloader.RubocopConfigFile
	}

	if _, err := os.Stat(inputPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return withExitCode(ExitIOError, fmt.Errorf("input file does not exist: %s", inputPath))
		}
		return withExitCode(ExitIOError, fmt.Errorf("stat input: %w", err))
	}

	if !configloader.IsTOMLConfig(flags.output) && !configloader.IsYAMLConfig(flags.output) {
		return withExitCode(ExitInvalidUsage,
			fmt.Errorf("output %q must end in .yml, .yaml or .toml", flags.output))
	}

	absOutput, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	if err := checkOverwrite(cmd, absOutput, flags.output, flags.force); err != nil {
		return err
	}

	result, err := configloader.ConvertRubocopConfig(inputPath)
	if err != nil {
		return withExitCode(ExitConfigError, fmt.Errorf("convert configuration: %w", err))
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}

	if err := configloader.WriteConfig(result.Config, absOutput, configloader.GenerateMigrationHeader(inputPath)); err != nil {
		return withExitCode(ExitIOError, err)
	}

	logger.Info("migration complete", logging.FieldInput, inputPath, logging.FieldOutput, flags.output)
	if len(result.Warnings) > 0 {
		logger.Warn("review the warnings above and verify the converted configuration")
	}

	return nil
}
