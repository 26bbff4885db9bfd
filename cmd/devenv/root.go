package main

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags (available to all commands)
	verbose    bool
	dryRun     bool
	configPath string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "devenv",
	Short: "Manage Docker Compose development environments",
	Long: `devenv drives local development environments for PHP projects.

Each environment is a project directory holding generated Docker Compose
configuration under var/docker. devenv remembers registered environments,
selects the one a command applies to, and runs Docker Compose (and Mutagen
file synchronization on macOS) on its behalf.

The environment is selected in this order:
  1. the environment currently started (active)
  2. the name given on the command line
  3. the environment registered at the current directory`,
	SilenceUsage: true,
}

func init() {
	// Global flags available to all subcommands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print commands instead of running them and leave the registry untouched")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file (default ~/.devenv/config.yaml)")

	// Add subcommands to root
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(detailsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(uninstallCmd)
	rootCmd.AddCommand(prepareCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(logsCmd)
	rootCmd.AddCommand(terminalCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(databaseCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}
