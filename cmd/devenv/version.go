package main

import (
	"fmt"
	"io"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the devenv build",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printVersion(cmd.OutOrStdout(), versionShort, verbose)
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print the version number only")
}

// printVersion writes the release, and with details the build metadata as well
func printVersion(w io.Writer, short, details bool) error {
	if short {
		_, err := fmt.Fprintln(w, version)
		return err
	}

	fmt.Fprintf(w, "devenv %s (%s/%s)\n", version, runtime.GOOS, runtime.GOARCH)
	if !details {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "  commit:\t%s\n", gitCommit)
	fmt.Fprintf(tw, "  built:\t%s\n", buildTime)
	fmt.Fprintf(tw, "  go:\t%s\n", goVersion)
	return tw.Flush()
}
