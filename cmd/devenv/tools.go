package main

import (
	"github.com/nauticalab/devenv-compose/internal/cli"
	"github.com/spf13/cobra"
)

var (
	// Logs command flags
	logsTail        int
	logsEnvironment string

	// Terminal command flags
	terminalUser        string
	terminalEnvironment string

	// Database command flags
	databasePath string
)

var logsCmd = &cobra.Command{
	Use:   "logs [service]",
	Short: "Follow the logs of an environment",
	Long: `Follow the logs of every service of an environment, or of one service.

Examples:
  devenv logs                 # All services, new lines only
  devenv logs php --tail 100  # Last 100 lines of the php service, then follow`,
	Args: cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		var tail *int
		if cmd.Flags().Changed("tail") {
			tail = &logsTail
		}
		return app.Logs(cmd.Context(), logsEnvironment, argOrEmpty(args), tail)
	}),
}

var terminalCmd = &cobra.Command{
	Use:   "terminal <service>",
	Short: "Open a shell in a service container",
	Args:  cobra.ExactArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		return app.Terminal(cmd.Context(), terminalEnvironment, args[0], terminalUser)
	}),
}

var dataCmd = &cobra.Command{
	Use:   "data [environment]",
	Short: "Show the resource usage of the containers of an environment",
	Args:  cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		return app.Data(cmd.Context(), argOrEmpty(args))
	}),
}

var databaseCmd = &cobra.Command{
	Use:   "database",
	Short: "Back up or restore the database of an environment",
}

var databaseBackupCmd = &cobra.Command{
	Use:   "backup [environment]",
	Short: "Dump the database into a file",
	Args:  cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		return app.Backup(cmd.Context(), argOrEmpty(args), databasePath)
	}),
}

var databaseRestoreCmd = &cobra.Command{
	Use:   "restore [environment]",
	Short: "Load a dump file into the database",
	Args:  cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		return app.Restore(cmd.Context(), argOrEmpty(args), databasePath)
	}),
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Inspect file synchronization sessions",
}

var syncMonitorCmd = &cobra.Command{
	Use:   "monitor [environment]",
	Short: "Follow the synchronization session of an environment",
	Args:  cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		return app.SyncMonitor(cmd.Context(), argOrEmpty(args))
	}),
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that Docker, Docker Compose and Mutagen are available",
	Args:  cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		return app.Doctor(cmd.Context())
	}),
}

func init() {
	logsCmd.Flags().IntVarP(&logsTail, "tail", "t", 0, "Number of lines to show from the end of the logs")
	logsCmd.Flags().StringVarP(&logsEnvironment, "environment", "e", "", "Environment name")

	terminalCmd.Flags().StringVarP(&terminalUser, "user", "u", "", "User to run the shell as")
	terminalCmd.Flags().StringVarP(&terminalEnvironment, "environment", "e", "", "Environment name")

	for _, cmd := range []*cobra.Command{databaseBackupCmd, databaseRestoreCmd} {
		cmd.Flags().StringVarP(&databasePath, "path", "p", "", "Dump file path")
		_ = cmd.MarkFlagRequired("path")
	}
	databaseCmd.AddCommand(databaseBackupCmd, databaseRestoreCmd)

	syncCmd.AddCommand(syncMonitorCmd)
}
