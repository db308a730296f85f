package cmd

import (
	"github.com/kasuboski/reelbox/pkg/logger"
	"github.com/spf13/cobra"
)

// discoverCmd represents the discover command
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "list popular movies from the catalog",
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.Get()
		ctx := commandContext()

		cfg := readConfig()
		catalogClient, err := newCatalog(cfg.TMDB)
		if err != nil {
			log.Fatalw("failed to create catalog client", "error", err)
		}

		page, err := catalogClient.Discover(ctx)
		if err != nil {
			log.Fatalw("failed to discover movies", "error", err)
		}

		printMovies(cmd.OutOrStdout(), page.Results, nil)
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)
}
