// Package stats computes read-only summaries of the user's collections.
// Nothing is cached; every call recomputes from the source it is given.
package stats

import (
	"fmt"
	"math"
	"slices"

	"github.com/kasuboski/reelbox/pkg/movie"
)

const topGenreLimit = 5

// enthusiastThreshold is the watched count at which the dashboard stops
// nudging the user to watch more.
const enthusiastThreshold = 5

// Source is a consistent view of the collections.
type Source interface {
	Favorites() []movie.Movie
	Watched() []movie.Movie
	Watchlist() []movie.Movie
	Ratings() map[int]int
}

type GenreCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type Milestone string

const (
	MilestoneNone       Milestone = "none"
	MilestoneStarter    Milestone = "starter"
	MilestoneEnthusiast Milestone = "enthusiast"
)

type Summary struct {
	TotalWatched          int            `json:"totalWatched"`
	TotalFavorites        int            `json:"totalFavorites"`
	TotalWatchlist        int            `json:"totalWatchlist"`
	TotalWatchTimeMinutes int            `json:"totalWatchTimeMinutes"`
	GenreCounts           map[string]int `json:"genreCounts"`
	MostWatchedGenre      string         `json:"mostWatchedGenre,omitempty"`
	TotalRated            int            `json:"totalRated"`
	AverageRating         float64        `json:"averageRating"`
	// WatchlistCompletionRate is a percentage between 0 and 100.
	WatchlistCompletionRate float64      `json:"watchlistCompletionRate"`
	AverageRuntimeMinutes   int          `json:"averageRuntimeMinutes"`
	RatedPercentage         int          `json:"ratedPercentage"`
	TopGenres               []GenreCount `json:"topGenres"`
	Milestone               Milestone    `json:"milestone"`
}

// Compute summarizes src.
func Compute(src Source) Summary {
	watched := src.Watched()
	ratings := src.Ratings()

	s := Summary{
		TotalWatched:   len(watched),
		TotalFavorites: len(src.Favorites()),
		TotalWatchlist: len(src.Watchlist()),
		TotalRated:     len(ratings),
	}

	for _, m := range watched {
		s.TotalWatchTimeMinutes += m.RuntimeMinutes()
	}

	s.GenreCounts, s.TopGenres = countGenres(watched)
	if len(s.TopGenres) > 0 {
		s.MostWatchedGenre = s.TopGenres[0].Name
	}
	if len(s.TopGenres) > topGenreLimit {
		s.TopGenres = s.TopGenres[:topGenreLimit]
	}

	s.AverageRating = AverageRating(ratings)

	if total := s.TotalWatched + s.TotalWatchlist; total > 0 {
		s.WatchlistCompletionRate = float64(s.TotalWatched) / float64(total) * 100
	}

	if s.TotalWatched > 0 {
		s.AverageRuntimeMinutes = int(math.Round(float64(s.TotalWatchTimeMinutes) / float64(s.TotalWatched)))
		s.RatedPercentage = int(math.Round(float64(s.TotalRated) / float64(s.TotalWatched) * 100))
	}

	switch {
	case s.TotalWatched == 0:
		s.Milestone = MilestoneNone
	case s.TotalWatched < enthusiastThreshold:
		s.Milestone = MilestoneStarter
	default:
		s.Milestone = MilestoneEnthusiast
	}

	return s
}

// countGenres returns the histogram and every genre ordered by count
// descending, ties in first encountered order.
func countGenres(ms []movie.Movie) (map[string]int, []GenreCount) {
	counts := make(map[string]int)
	var order []string
	for _, m := range ms {
		for _, g := range m.Genres {
			if g.Name == "" {
				continue
			}
			if _, ok := counts[g.Name]; !ok {
				order = append(order, g.Name)
			}
			counts[g.Name]++
		}
	}

	ranked := make([]GenreCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, GenreCount{Name: name, Count: counts[name]})
	}
	slices.SortStableFunc(ranked, func(a, b GenreCount) int {
		return b.Count - a.Count
	})

	return counts, ranked
}

// AverageRating is the mean of the rating values rounded to one decimal, or 0 when empty.
func AverageRating(ratings map[int]int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return roundTenth(float64(sum) / float64(len(ratings)))
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// ViewSummary describes a derived view relative to the other collections.
type ViewSummary struct {
	Count         int     `json:"count"`
	WatchedCount  int     `json:"watchedCount"`
	RatedCount    int     `json:"ratedCount"`
	AverageRating float64 `json:"averageRating"`
}

// Summarize counts how many records of view are watched and rated and
// averages the ratings of the rated ones.
func Summarize(view []movie.Movie, isWatched func(id int) bool, rating func(id int) int) ViewSummary {
	s := ViewSummary{Count: len(view)}
	sum := 0
	for _, m := range view {
		if isWatched != nil && isWatched(m.ID) {
			s.WatchedCount++
		}
		if rating == nil {
			continue
		}
		if r := rating(m.ID); r > 0 {
			s.RatedCount++
			sum += r
		}
	}
	if s.RatedCount > 0 {
		s.AverageRating = roundTenth(float64(sum) / float64(s.RatedCount))
	}
	return s
}

// FormatWatchTime renders minutes as days and hours once it reaches a full
// day, and as hours and minutes below that.
func FormatWatchTime(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	hours := minutes / 60
	days := hours / 24
	if days > 0 {
		return fmt.Sprintf("%d days %d hours", days, hours%24)
	}
	return fmt.Sprintf("%d hours %d minutes", hours, minutes%60)
}
