package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of " + app,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", app, version)
	},
}
