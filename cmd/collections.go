package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/kasuboski/reelbox/config"
	"github.com/kasuboski/reelbox/pkg/collection"
	"github.com/kasuboski/reelbox/pkg/logger"
	"github.com/kasuboski/reelbox/pkg/movie"
	"github.com/spf13/cobra"
)

type mutation func(ctx context.Context, mv movie.Movie) (collection.Change, error)

// resolveMovie prefers the record already kept in a collection and asks the catalog otherwise.
func resolveMovie(ctx context.Context, cfg config.Config, collections *collection.Manager, id int) (movie.Movie, error) {
	if mv, ok := collections.Lookup(id); ok {
		return mv, nil
	}

	catalogClient, err := newCatalog(cfg.TMDB)
	if err != nil {
		return movie.Movie{}, err
	}
	return catalogClient.Details(ctx, id)
}

func parseMovieID(arg string) int {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		logger.Get().Fatalw("movie id must be a positive integer", "id", arg)
	}
	return id
}

// movieCommand builds a command that applies op to the movie named by its only argument.
func movieCommand(use, short string, op func(*collection.Manager) mutation) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <movie id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			log := logger.Get()
			ctx := commandContext()

			id := parseMovieID(args[0])
			cfg := readConfig()

			collections, closeStore := openCollections(ctx, cfg)
			defer closeStore()

			mv, err := resolveMovie(ctx, cfg, collections, id)
			if err != nil {
				log.Fatalw("failed to find movie", "id", id, "error", err)
			}

			change, err := op(collections)(ctx, mv)
			if err != nil {
				log.Fatalw("failed to update collection", "id", id, "error", err)
			}

			printChange(cmd.OutOrStdout(), change)
		},
	}
}

var favoriteCmd = movieCommand("favorite", "toggle a movie in your favorites", func(m *collection.Manager) mutation {
	return m.ToggleFavorite
})

var watchedCmd = movieCommand("watched", "toggle whether you have watched a movie", func(m *collection.Manager) mutation {
	return m.ToggleWatched
})

// watchlistCmd represents the watchlist command
var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "manage the movies you plan to watch",
}

var rateCmd = &cobra.Command{
	Use:   "rate <movie id> <rating>",
	Short: "rate a movie from 1 to 10, or 0 to clear the rating",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.Get()
		ctx := commandContext()

		id := parseMovieID(args[0])
		rating, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatalw("rating must be an integer", "rating", args[1])
		}

		collections, closeStore := openCollections(ctx, readConfig())
		defer closeStore()

		change, err := collections.RateMovie(ctx, id, rating)
		if err != nil {
			log.Fatalw("failed to rate movie", "id", id, "error", err)
		}

		printChange(cmd.OutOrStdout(), change)
		if change.Action == collection.ActionIgnored {
			fmt.Fprintf(cmd.ErrOrStderr(), "ratings go from %d to %d\n", collection.MinRating, collection.MaxRating)
		}
	},
}

func init() {
	watchlistCmd.AddCommand(
		movieCommand("add", "queue a movie to watch later", func(m *collection.Manager) mutation {
			return m.AddToWatchlist
		}),
		movieCommand("remove", "drop a movie from your watchlist", func(m *collection.Manager) mutation {
			return m.RemoveFromWatchlist
		}),
		movieCommand("toggle", "add or remove a movie from your watchlist", func(m *collection.Manager) mutation {
			return m.ToggleWatchlist
		}),
	)

	rootCmd.AddCommand(favoriteCmd, watchedCmd, watchlistCmd, rateCmd)
}
