package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/nauticalab/devenv-compose/internal/cli"
	"github.com/spf13/cobra"
)

// Build-time variables (set with -ldflags)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
	goVersion = runtime.Version()
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// withApp runs fn against a freshly loaded App and flushes the registry afterwards.
// Failures are reported on stderr and end the process with a non-zero status.
func withApp(fn func(cmd *cobra.Command, args []string, app *cli.App) error) func(cmd *cobra.Command, args []string) {
	return func(cmd *cobra.Command, args []string) {
		if err := runWithApp(cmd, args, fn); err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			os.Exit(exitCode(err))
		}
	}
}

func runWithApp(cmd *cobra.Command, args []string, fn func(cmd *cobra.Command, args []string, app *cli.App) error) (err error) {
	app, err := cli.NewApp(cli.Options{
		ConfigPath: configPath,
		Verbose:    verbose,
		DryRun:     dryRun,
		Stdin:      cmd.InOrStdin(),
		Stdout:     cmd.OutOrStdout(),
		Stderr:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return fn(cmd, args, app)
}

// exitCode forwards the status of a failed external command
func exitCode(err error) int {
	var opErr *cli.OperationError
	if errors.As(err, &opErr) && opErr.ExitCode > 0 {
		return opErr.ExitCode
	}
	return 1
}

// argOrEmpty returns the first positional argument, or "" when there is none
func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
