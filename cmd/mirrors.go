package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"batodl/mirrors"
)

var mirrorsCmd = &cobra.Command{
	Use:               "mirrors",
	Short:             "List the mirror domains in the order they are probed",
	Args:              cobra.NoArgs,
	PersistentPreRunE: skipSettings,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		for i, domain := range mirrors.Candidates() {
			fmt.Fprintf(w, "%2d. %s\n", i+1, domain)
		}
	},
}

func init() {
	rootCmd.AddCommand(mirrorsCmd)
}
