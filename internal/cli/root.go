// Package cli wires the rbfix commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rbfix/internal/logging"
)

// BuildInfo is injected by the linker.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", b.Version, b.Commit, b.Date)
}

type globalFlags struct {
	debug  bool
	config string
	color  string
}

// NewRootCommand builds the rbfix command tree.
func NewRootCommand(info BuildInfo) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:     "rbfix",
		Short:   "A fast, self-correcting Ruby source checker",
		Version: info.String(),
		Long: `rbfix checks Ruby source files for layout and lint offenses and can
correct most of them in place.

Source is parsed by an external command that prints an AST dump.
Corrections are applied in passes until the file stops changing, and a
file that changed on disk in the meantime is left alone.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if flags.debug {
				logging.SetLevel("debug")
			}
			cmd.SetContext(logging.WithLogger(cmd.Context(), logging.Default()))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("rbfix {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.BoolVar(&flags.debug, "debug", false, "enable debug logging (same as "+logging.EnvLevel+"=debug)")
	pf.StringVar(&flags.config, "config", "", "path to config file (.yml, .yaml or .toml)")
	pf.StringVar(&flags.color, "color", "auto", "colorize output: auto, always, never")

	root.AddCommand(
		newLintCommand(),
		newRulesCommand(),
		newInitCommand(),
		newMigrateCommand(),
		newEnvCommand(),
		newVersionCommand(info),
	)

	newHelpFormatter(flags.color, os.Stdout).Apply(root)
	return root
}
