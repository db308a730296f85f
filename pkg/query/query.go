// Package query derives filtered and sorted views from a collection without
// modifying it.
package query

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/kasuboski/reelbox/pkg/movie"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortInsertionOrder SortKey = "insertionOrder"
	SortTitle          SortKey = "title"
	SortReleaseDate    SortKey = "releaseDate"
	SortRating         SortKey = "rating"
	SortPopularity     SortKey = "popularity"
)

var ErrUnknownSortKey = errors.New("unknown sort key")

var sortAliases = map[string]SortKey{
	"":                         SortInsertionOrder,
	"added":                    SortInsertionOrder,
	string(SortInsertionOrder): SortInsertionOrder,
	string(SortTitle):          SortTitle,
	"date":                     SortReleaseDate,
	string(SortReleaseDate):    SortReleaseDate,
	string(SortRating):         SortRating,
	string(SortPopularity):     SortPopularity,
}

// ParseSortKey accepts the canonical key names and the short forms the UI sends.
func ParseSortKey(s string) (SortKey, error) {
	key, ok := sortAliases[strings.TrimSpace(s)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
	}
	return key, nil
}

// Config describes one derived view. The zero value keeps every record in
// insertion order.
type Config struct {
	SearchTerm string
	GenreName  string
	SortKey    SortKey
	// Locale drives title collation. The zero tag collates as English.
	Locale language.Tag
}

// RatingLookup returns the user's rating for a movie id, or 0 when unrated.
type RatingLookup func(id int) int

// Apply filters src by cfg and sorts the result stably. The returned records
// are copies; src is left untouched.
func Apply(src []movie.Movie, cfg Config, ratings RatingLookup) ([]movie.Movie, error) {
	key, err := ParseSortKey(string(cfg.SortKey))
	if err != nil {
		return nil, err
	}

	out := Filter(src, cfg.SearchTerm, cfg.GenreName)

	switch key {
	case SortTitle:
		sortByTitle(out, cfg.Locale)
	case SortReleaseDate:
		sortByReleaseDate(out)
	case SortRating:
		sortByRating(out, ratings)
	case SortPopularity:
		slices.SortStableFunc(out, func(a, b movie.Movie) int {
			return cmp.Compare(b.PopularityScore(), a.PopularityScore())
		})
	}

	return out, nil
}

// Filter keeps the records whose title contains term, ignoring case, and
// which carry a genre named genre. Empty arguments match everything.
func Filter(src []movie.Movie, term, genre string) []movie.Movie {
	fold := cases.Fold()
	needle := fold.String(term)

	out := make([]movie.Movie, 0, len(src))
	for _, m := range src {
		if needle != "" && !strings.Contains(fold.String(m.Title), needle) {
			continue
		}
		if genre != "" && !m.HasGenre(genre) {
			continue
		}
		out = append(out, m.Clone())
	}
	return out
}

func newCollator(tag language.Tag) *collate.Collator {
	if tag == language.Und {
		tag = language.English
	}
	return collate.New(tag, collate.IgnoreCase)
}

func sortByTitle(ms []movie.Movie, tag language.Tag) {
	c := newCollator(tag)
	slices.SortStableFunc(ms, func(a, b movie.Movie) int {
		return c.CompareString(a.Title, b.Title)
	})
}

// sortByReleaseDate orders newest first; undated records keep their
// relative order at the end.
func sortByReleaseDate(ms []movie.Movie) {
	slices.SortStableFunc(ms, func(a, b movie.Movie) int {
		ta, okA := a.Released()
		tb, okB := b.Released()
		switch {
		case okA && okB:
			return tb.Compare(ta)
		case okA:
			return -1
		case okB:
			return 1
		default:
			return 0
		}
	})
}

func sortByRating(ms []movie.Movie, ratings RatingLookup) {
	score := func(m movie.Movie) float64 {
		if ratings != nil {
			if r := ratings(m.ID); r > 0 {
				return float64(r)
			}
		}
		return m.Vote()
	}
	slices.SortStableFunc(ms, func(a, b movie.Movie) int {
		return cmp.Compare(score(b), score(a))
	})
}

// Genres returns the distinct genre names used by src in collation order.
func Genres(src []movie.Movie, tag language.Tag) []string {
	seen := make(map[string]struct{})
	names := []string{}
	for _, m := range src {
		for _, g := range m.Genres {
			if g.Name == "" {
				continue
			}
			if _, ok := seen[g.Name]; ok {
				continue
			}
			seen[g.Name] = struct{}{}
			names = append(names, g.Name)
		}
	}

	c := newCollator(tag)
	c.SortStrings(names)
	return names
}
