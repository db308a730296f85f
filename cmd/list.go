package cmd

import (
	"fmt"

	"github.com/kasuboski/reelbox/pkg/collection"
	"github.com/kasuboski/reelbox/pkg/logger"
	"github.com/kasuboski/reelbox/pkg/query"
	"github.com/kasuboski/reelbox/pkg/stats"
	"github.com/spf13/cobra"
)

var listCollections = map[string]collection.Name{
	"favorites": collection.Favorites,
	"watched":   collection.Watched,
	"watchlist": collection.Watchlist,
}

var (
	searchTerm string
	genreName  string
	sortKey    string
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:       "list <favorites|watched|watchlist>",
	Short:     "list a collection",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"favorites", "watched", "watchlist"},
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.Get()
		ctx := commandContext()

		cfg := readConfig()
		collections, closeStore := openCollections(ctx, cfg)
		defer closeStore()

		snapshot := collections.Snapshot()
		src, _ := snapshot.List(listCollections[args[0]])

		view, err := query.Apply(src, query.Config{
			SearchTerm: searchTerm,
			GenreName:  genreName,
			SortKey:    query.SortKey(sortKey),
			Locale:     collationTag(cfg.Query),
		}, snapshot.Rating)
		if err != nil {
			log.Fatalw("failed to build view", "error", err)
		}

		printMovies(cmd.OutOrStdout(), view, snapshot.Rating)

		summary := stats.Summarize(view, snapshot.IsWatched, snapshot.Rating)
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d movies, %d rated", summary.Count, len(src), summary.RatedCount)
		if summary.RatedCount > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), ", average %.1f", summary.AverageRating)
		}
		fmt.Fprintln(cmd.OutOrStdout())
	},
}

func init() {
	listCmd.Flags().StringVarP(&searchTerm, "search", "s", "", "only keep titles containing the term")
	listCmd.Flags().StringVarP(&genreName, "genre", "g", "", "only keep movies with the genre")
	listCmd.Flags().StringVar(&sortKey, "sort", "", "insertionOrder, title, releaseDate, rating or popularity")
	rootCmd.AddCommand(listCmd)
}
