package cmd

import (
	"strings"

	"github.com/kasuboski/reelbox/pkg/logger"
	"github.com/spf13/cobra"
)

var detailed bool

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "search the catalog for movies",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.Get()
		ctx := commandContext()

		cfg := readConfig()
		catalogClient, err := newCatalog(cfg.TMDB)
		if err != nil {
			log.Fatalw("failed to create catalog client", "error", err)
		}

		query := strings.Join(args, " ")
		search := catalogClient.Search
		if detailed {
			search = catalogClient.SearchDetailed
		}

		page, err := search(ctx, query)
		if err != nil {
			log.Fatalw("failed to search movies", "query", query, "error", err)
		}

		printMovies(cmd.OutOrStdout(), page.Results, nil)
	},
}

func init() {
	searchCmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "fetch runtime and genres for every result")
	rootCmd.AddCommand(searchCmd)
}
