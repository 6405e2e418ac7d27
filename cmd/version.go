package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"batodl/config"
)

var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Display the current version of the app",
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipSettings,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), config.VersionString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
