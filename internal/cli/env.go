package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rbfix/internal/configloader"
	"github.com/yaklabco/rbfix/internal/logging"
)

func newEnvCommand() *cobra.Command {
	var onlySet bool

	cmd := &cobra.Command{
		Use:   "env",
		Short: "List environment variable overrides",
		Long: `List the RBFIX_* environment variables that override configuration
files. Values set in the current environment are shown alongside.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			logger := logging.Console(cmd.OutOrStdout())
			for _, v := range configloader.EnvVars() {
				value, set := os.LookupEnv(v.Name)
				if onlySet && !set {
					continue
				}
				if set {
					logger.Info(v.Name, "value", value, "help", v.Help)
					continue
				}
				logger.Info(v.Name, "help", v.Help)
			}
		},
	}

	cmd.Flags().BoolVar(&onlySet, "set", false, "only list variables set in the environment")
	return cmd
}
