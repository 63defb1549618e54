// Command rbfix checks and corrects Ruby source files.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/yaklabco/rbfix/internal/cli"
	"github.com/yaklabco/rbfix/internal/logging"

	_ "github.com/yaklabco/rbfix/pkg/lint/rules"
)

// Set with -ldflags -X; see stavefile.go.
//
//nolint:gochecknoglobals
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := cli.NewRootCommand(cli.BuildInfo{Version: version, Commit: commit, Date: date})
	err := root.ExecuteContext(ctx)

	// ErrLintIssuesFound only selects the exit status; the report was printed.
	if err != nil && !errors.Is(err, cli.ErrLintIssuesFound) {
		logging.Default().Error("command failed", logging.FieldError, err)
	}
	return cli.ExitCode(err)
}
