package cmd

import (
	"fmt"
	"maps"
	"slices"

	"github.com/kasuboski/reelbox/pkg/logger"
	"github.com/spf13/cobra"
)

// genresCmd represents the genres command
var genresCmd = &cobra.Command{
	Use:   "genres",
	Short: "list the catalog's movie genres",
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.Get()
		ctx := commandContext()

		cfg := readConfig()
		catalogClient, err := newCatalog(cfg.TMDB)
		if err != nil {
			log.Fatalw("failed to create catalog client", "error", err)
		}

		genres, err := catalogClient.Genres(ctx)
		if err != nil {
			log.Fatalw("failed to list genres", "error", err)
		}

		for _, id := range slices.Sorted(maps.Keys(genres)) {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", id, genres[id])
		}
	},
}

func init() {
	rootCmd.AddCommand(genresCmd)
}
