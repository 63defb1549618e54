package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rbfix/internal/configloader"
	"github.com/yaklabco/rbfix/internal/logging"
	"github.com/yaklabco/rbfix/pkg/config"
	"github.com/yaklabco/rbfix/pkg/lint"
	"github.com/yaklabco/rbfix/pkg/parser/external"
	"github.com/yaklabco/rbfix/pkg/reporter"
	"github.com/yaklabco/rbfix/pkg/runner"
)

// ErrLintIssuesFound is returned when offenses remain after the run.
var ErrLintIssuesFound = errors.New("lint issues found")

type lintFlags struct {
	format          string
	parser          string
	parserFormat    string
	noCache         bool
	maxPasses       int
	ignore          []string
	enable          []string
	disable         []string
	fixRules        []string
	strict          bool
	noContext       bool
	compact         bool
	ruleFormat      string
	summaryOrder    string
	includeVendored bool
	stdin           string
}

func newLintCommand() *cobra.Command {
	var cfg config.Config
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:     "lint [paths...]",
		Aliases: []string{"check"},
		Short:   "Check and correct Ruby files",
		Long:    lintLongDescription,
		Example: lintExamples,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, &cfg, flags)
		},
	}

	addLintFlags(cmd, &cfg, flags)

	return cmd
}

const lintLongDescription = `Check Ruby files for layout and lint offenses, optionally correcting them.

Without paths, every Ruby file below the current directory is checked:
.rb files, Rakefile, Gemfile, *.gemspec and extensionless scripts with a
ruby shebang. vendor/bundle and similar trees are skipped unless
--include-vendored is given.

Exit status is 0 when no error offenses remain, 1 when they do, 2 when
only warnings remain under --strict, and 3 when a file could not be parsed
or written.`

const lintExamples = `  rbfix lint                         # Check the current directory
  rbfix lint app/ lib/               # Check specific directories
  rbfix lint --fix                   # Correct offenses in place
  rbfix lint --fix --dry-run         # Show corrections as a diff
  rbfix lint --format json           # Machine-readable output
  rbfix lint --disable end-alignment # Turn off a rule by name
  rbfix lint --enable Lint           # Select a whole department
  rbfix lint --stdin app/x.rb < x.rb # Correct stdin, print to stdout`

func addLintFlags(cmd *cobra.Command, cfg *config.Config, flags *lintFlags) {
	cmd.Flags().BoolVarP(&cfg.Fix, "fix", "a", false, "correct offenses in place")
	cmd.Flags().BoolVar(&cfg.DryRun, "dry-run", false, "compute corrections without writing files (implies --fix)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "text", "output format: text, json, diff, summary")
	cmd.Flags().IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = auto)")

	cmd.Flags().StringVar(&flags.parser, "parser", "", "parser command emitting an AST dump (split on spaces)")
	cmd.Flags().StringVar(&flags.parserFormat, "parser-format", "", "AST dump encoding: json, msgpack")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the AST dump cache")
	cmd.Flags().IntVar(&flags.maxPasses, "max-passes", 0, "maximum correction passes per file")

	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "rule IDs, names or departments to run exclusively")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "rule IDs, names or departments to skip")
	cmd.Flags().StringSliceVar(&flags.fixRules, "fix-rules", nil, "limit corrections to these rules")
	cmd.Flags().BoolVar(&cfg.NoBackups, "no-backups", false, "disable backup creation when fixing")

	cmd.Flags().BoolVar(&flags.strict, "strict", false, "exit non-zero when warnings remain")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use compact output format")
	cmd.Flags().StringVar(&flags.ruleFormat, "rule-format", "", "rule identifier in output: id, name, combined")
	cmd.Flags().StringVar(&flags.summaryOrder, "summary-order", "rules",
		"order of tables in summary output: rules, files")

	cmd.Flags().BoolVar(&flags.includeVendored, "include-vendored", false, "also check vendored trees")
	cmd.Flags().StringVar(&flags.stdin, "stdin", "",
		"read source from stdin as if it were PATH; corrected source goes to stdout")
}

// applyLintFlags copies explicitly set flags into the CLI layer of the
// configuration.
func applyLintFlags(cmd *cobra.Command, cfg *config.Config, flags *lintFlags) {
	changed := cmd.Flags().Changed

	if changed("format") {
		cfg.Format = config.OutputFormat(flags.format)
	}
	if changed("rule-format") {
		cfg.RuleFormat = config.RuleFormat(flags.ruleFormat)
	}
	if changed("parser") {
		cfg.Parser.Command = strings.Fields(flags.parser)
	}
	if changed("parser-format") {
		cfg.Parser.Format = config.DumpFormat(flags.parserFormat)
	}
	if changed("no-cache") && flags.noCache {
		off := false
		cfg.Parser.Cache = &off
	}
	if changed("max-passes") {
		cfg.MaxFixPasses = flags.maxPasses
	}

	cfg.Ignore = flags.ignore
	cfg.EnableRules = flags.enable
	cfg.DisableRules = flags.disable
	cfg.FixRules = flags.fixRules
}

// resolveModes derives the fix mode from the merged configuration.
func resolveModes(cfg *config.Config, stdin bool) {
	if cfg.DryRun {
		cfg.Fix = true
	}
	// A diff without corrections is empty.
	if cfg.Format == config.FormatDiff && !cfg.Fix {
		cfg.Fix = true
		cfg.DryRun = true
	}
	if stdin {
		cfg.DryRun = true
	}
}

func runLint(cmd *cobra.Command, args []string, cfg *config.Config, flags *lintFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromContext(ctx)

	applyLintFlags(cmd, cfg, flags)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("get working directory: %w", err))
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:     workDir,
		ExplicitPath:   configPath,
		NonInteractive: flags.stdin != "",
		CLIConfig:      cfg,
	})
	if err != nil {
		return withExitCode(ExitConfigError, fmt.Errorf("load configuration: %w", err))
	}

	finalCfg := loadResult.Config
	resolveModes(finalCfg, flags.stdin != "")

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}
	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration", logging.FieldFiles, loadResult.LoadedFrom)
	}
	logger.Debug("configuration resolved",
		logging.FieldParser, strings.Join(finalCfg.Parser.Command, " "),
		logging.FieldFormat, finalCfg.Parser.Format,
		logging.FieldFix, finalCfg.Fix,
		logging.FieldDryRun, finalCfg.DryRun,
		logging.FieldJobs, finalCfg.Jobs,
		logging.FieldPasses, finalCfg.FixPasses(),
		logging.FieldCache, finalCfg.Parser.CacheEnabled(),
	)

	parser, err := external.NewFromConfig(finalCfg.Parser)
	if err != nil {
		return withExitCode(ExitConfigError, fmt.Errorf("create parser: %w", err))
	}

	lintRunner := runner.New(lint.NewPipeline(lint.NewEngine(parser, lint.DefaultRegistry)))

	runOpts := runner.Options{
		Paths:           args,
		WorkingDir:      workDir,
		ExcludeGlobs:    finalCfg.Ignore,
		IncludeVendored: flags.includeVendored,
		Jobs:            finalCfg.Jobs,
		Config:          finalCfg,
	}

	var (
		result    *runner.Result
		reportOut = cmd.OutOrStdout()
	)
	if flags.stdin != "" {
		result, err = lintStdin(ctx, cmd, lintRunner, flags.stdin, runOpts)
		if err != nil {
			return err
		}
		// Stdout carries the corrected source.
		reportOut = cmd.ErrOrStderr()
	} else {
		logger.Debug("starting run",
			logging.FieldPaths, runOpts.Paths,
			logging.FieldWorkingDir, workDir,
			logging.FieldJobs, runOpts.Jobs,
		)
		result, err = lintRunner.Run(ctx, runOpts)
		if err != nil {
			return withExitCode(ExitIOError, fmt.Errorf("lint run failed: %w", err))
		}
	}

	colorMode, err := cmd.Flags().GetString("color")
	if err != nil {
		colorMode = "auto"
	}

	format, err := reporter.ParseFormat(string(finalCfg.Format))
	if err != nil {
		return withExitCode(ExitInvalidUsage, err)
	}

	rep, err := reporter.New(reporter.Options{
		Writer:       reportOut,
		ErrorWriter:  cmd.ErrOrStderr(),
		Format:       format,
		Color:        colorMode,
		ShowContext:  !flags.noContext,
		ShowSummary:  true,
		GroupByFile:  true,
		Compact:      flags.compact,
		RuleFormat:   finalCfg.RuleFormat,
		SummaryOrder: config.SummaryOrder(flags.summaryOrder),
		WorkingDir:   workDir,
	})
	if err != nil {
		return withExitCode(ExitInvalidUsage, fmt.Errorf("create reporter: %w", err))
	}

	if _, err := rep.Report(ctx, result); err != nil {
		return withExitCode(ExitIOError, fmt.Errorf("report results: %w", err))
	}

	logger.Debug("run complete", result.Stats.LogFields()...)
	if result.Stats.PassLimitReached > 0 {
		logger.Warn("correction did not converge",
			logging.FieldFiles, result.Stats.PassLimitReached,
			logging.FieldPasses, finalCfg.FixPasses())
	}

	if code := ExitCodeFromResult(result, flags.strict); code != ExitSuccess {
		return withExitCode(code, ErrLintIssuesFound)
	}

	return nil
}

// lintStdin corrects the source read from stdin and writes the result,
// or the unchanged input, to stdout.
func lintStdin(
	ctx context.Context,
	cmd *cobra.Command,
	lintRunner *runner.Runner,
	path string,
	opts runner.Options,
) (*runner.Result, error) {
	content, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return nil, withExitCode(ExitIOError, fmt.Errorf("read stdin: %w", err))
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(opts.WorkingDir, path)
	}

	result := lintRunner.RunContent(ctx, path, content, opts)

	output := content
	if pr := result.Files[0].Result; pr != nil && pr.Modified {
		output = pr.ModifiedContent
	}
	if _, err := cmd.OutOrStdout().Write(output); err != nil {
		return nil, withExitCode(ExitIOError, fmt.Errorf("write stdout: %w", err))
	}

	return result, nil
}
