package cmd

import (
	"github.com/kasuboski/reelbox/pkg/stats"
	"github.com/spf13/cobra"
)

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "summarize your collections",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := commandContext()

		collections, closeStore := openCollections(ctx, readConfig())
		defer closeStore()

		printSummary(cmd.OutOrStdout(), stats.Compute(collections.Snapshot()))
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
