package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/kasuboski/reelbox/pkg/collection"
	"github.com/kasuboski/reelbox/pkg/movie"
	"github.com/kasuboski/reelbox/pkg/stats"
)

// printMovies writes one row per movie. rating may be nil when the rows are catalog results.
func printMovies(w io.Writer, ms []movie.Movie, rating func(id int) int) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tVOTE\tRATING\tGENRES")
	for _, m := range ms {
		year := "-"
		if y := m.Year(); y > 0 {
			year = fmt.Sprint(y)
		}

		vote := "-"
		if m.VoteAverage != nil {
			vote = humanize.FtoaWithDigits(m.Vote(), 1)
		}

		rated := "-"
		if rating != nil {
			if r := rating(m.ID); r > 0 {
				rated = fmt.Sprintf("%d/10", r)
			}
		}

		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", m.ID, m.Title, year, vote, rated, strings.Join(m.GenreNames(), ", "))
	}
	tw.Flush()
}

func printChange(w io.Writer, c collection.Change) {
	if c.Notification.Empty() {
		fmt.Fprintf(w, "%s: %s\n", c.Collection, c.Action)
		return
	}
	fmt.Fprintf(w, "[%s] %s\n", c.Notification.Kind, c.Notification.Message)
}

func printSummary(w io.Writer, s stats.Summary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "watched\t%s\n", humanize.Comma(int64(s.TotalWatched)))
	fmt.Fprintf(tw, "favorites\t%s\n", humanize.Comma(int64(s.TotalFavorites)))
	fmt.Fprintf(tw, "watchlist\t%s\n", humanize.Comma(int64(s.TotalWatchlist)))
	fmt.Fprintf(tw, "watch time\t%s\n", stats.FormatWatchTime(s.TotalWatchTimeMinutes))
	fmt.Fprintf(tw, "average runtime\t%d minutes\n", s.AverageRuntimeMinutes)
	fmt.Fprintf(tw, "rated\t%s (%d%%)\n", humanize.Comma(int64(s.TotalRated)), s.RatedPercentage)
	fmt.Fprintf(tw, "average rating\t%s\n", humanize.FtoaWithDigits(s.AverageRating, 1))
	fmt.Fprintf(tw, "watchlist completion\t%s%%\n", humanize.FtoaWithDigits(s.WatchlistCompletionRate, 1))
	if s.MostWatchedGenre != "" {
		fmt.Fprintf(tw, "most watched genre\t%s\n", s.MostWatchedGenre)
	}
	for i, g := range s.TopGenres {
		fmt.Fprintf(tw, "%s genre\t%s (%s)\n", humanize.Ordinal(i+1), g.Name, humanize.Comma(int64(g.Count)))
	}
	fmt.Fprintf(tw, "milestone\t%s\n", s.Milestone)
	tw.Flush()
}
