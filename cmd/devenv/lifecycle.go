package main

import (
	"github.com/nauticalab/devenv-compose/internal/cli"
	"github.com/spf13/cobra"
)

var prepareCmd = &cobra.Command{
	Use:   "prepare [environment]",
	Short: "Pull and build the images of an environment",
	Args:  cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		return app.Prepare(cmd.Context(), argOrEmpty(args))
	}),
}

var startCmd = &cobra.Command{
	Use:   "start [environment]",
	Short: "Start an environment and make it the active one",
	Long: `Start the containers of an environment and make it the active one.

On macOS, the SSH agent socket is made available to the PHP container and the
file synchronization session is created or resumed.`,
	Args: cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		return app.Start(cmd.Context(), argOrEmpty(args))
	}),
}

var stopCmd = &cobra.Command{
	Use:   "stop [environment]",
	Short: "Stop an environment",
	Args:  cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		return app.Stop(cmd.Context(), argOrEmpty(args))
	}),
}

var restartCmd = &cobra.Command{
	Use:   "restart [environment]",
	Short: "Restart the containers of an environment",
	Args:  cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		return app.Restart(cmd.Context(), argOrEmpty(args))
	}),
}

var statusCmd = &cobra.Command{
	Use:     "status [environment]",
	Aliases: []string{"ps"},
	Short:   "List the containers of an environment",
	Args:    cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		return app.Status(cmd.Context(), argOrEmpty(args))
	}),
}
