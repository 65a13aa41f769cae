package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nathantheresa/portfolio/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "portfolio %s\n", version.Info())
	},
}
