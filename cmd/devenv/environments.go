package main

import (
	"strings"

	"github.com/nauticalab/devenv-compose/internal/cli"
	"github.com/nauticalab/devenv-compose/internal/environment"
	"github.com/spf13/cobra"
)

var (
	// Register command flags
	registerType     string
	registerPHP      string
	registerDatabase string
	registerDomains  string
)

var registerCmd = &cobra.Command{
	Use:   "register <name> [location]",
	Short: "Register a project directory as an environment",
	Long: `Register a project directory as a development environment.

The location defaults to the current directory. Names may contain lowercase
letters, digits and hyphens.

Examples:
  devenv register shop --type magento2 --php 8.2
  devenv register blog ~/projects/blog --type symfony --domains blog.localhost`,
	Args: cobra.RangeArgs(1, 2),
	Run: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		opts := cli.RegisterOptions{
			Name:            args[0],
			Type:            registerType,
			PHPVersion:      registerPHP,
			DatabaseVersion: registerDatabase,
			Domains:         registerDomains,
		}
		if len(args) == 2 {
			opts.Location = args[1]
		}
		return app.Register(opts)
	}),
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List registered environments",
	Args:    cobra.NoArgs,
	Run: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		return app.List(cmd.Context())
	}),
}

var detailsCmd = &cobra.Command{
	Use:   "details [environment]",
	Short: "Show the details of an environment",
	Args:  cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		return app.Details(cmd.Context(), argOrEmpty(args))
	}),
}

var validateCmd = &cobra.Command{
	Use:   "validate [environment]",
	Short: "Check that the configuration files of an environment are installed",
	Long: `Check that every configuration file expected for the environment type
exists under <location>/var/docker.

Examples:
  devenv validate           # Validate the selected environment
  devenv validate shop      # Validate a specific environment`,
	Args: cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		return app.Validate(argOrEmpty(args), verbose)
	}),
}

var uninstallCmd = &cobra.Command{
	Use:   "uninstall [environment]",
	Short: "Remove the containers, images and volumes of an environment and unregister it",
	Args:  cobra.MaximumNArgs(1),
	Run: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		return app.Uninstall(cmd.Context(), argOrEmpty(args))
	}),
}

func init() {
	types := make([]string, 0)
	for _, t := range environment.Types() {
		types = append(types, t.String())
	}

	registerCmd.Flags().StringVarP(&registerType, "type", "t", "", "Environment type ("+strings.Join(types, ", ")+")")
	registerCmd.Flags().StringVar(&registerPHP, "php", "", "PHP version, e.g. 8.2")
	registerCmd.Flags().StringVar(&registerDatabase, "database", "", "Database image version, e.g. mariadb:10.11 or postgres:16")
	registerCmd.Flags().StringVar(&registerDomains, "domains", "", "Comma separated domains served by the environment")
	_ = registerCmd.MarkFlagRequired("type")
}
