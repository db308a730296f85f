package collection

import (
	"bytes"
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/kasuboski/reelbox/pkg/logger"
	"github.com/kasuboski/reelbox/pkg/metrics"
	"github.com/kasuboski/reelbox/pkg/movie"
	"github.com/kasuboski/reelbox/pkg/storage"
)

const (
	MinRating = 1
	MaxRating = 10
)

// state is everything the manager holds in memory.
type state struct {
	favorites *set
	watched   *set
	watchlist *set
	ratings   map[int]int
	theme     ThemeName
}

// watchedEntry accepts both the current record form and the legacy form
// where watched movies were stored as bare ids.
type watchedEntry struct {
	movie.Movie
	legacy bool
}

func (w *watchedEntry) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] == '{' {
		return json.Unmarshal(b, &w.Movie)
	}

	var id int
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		id = n
	} else if err := json.Unmarshal(b, &id); err != nil {
		return err
	}

	w.Movie = movie.Movie{ID: id}
	w.legacy = true
	return nil
}

// loadState reads every collection. It never fails: each key that is absent
// or unreadable falls back to its empty default. repairs lists the entries
// whose normalized form differs from what is stored.
func loadState(ctx context.Context, s storage.Store) (st state, repairs []Name) {
	log := logger.FromCtx(ctx)

	st.favorites = newSet(storage.Load(ctx, s, string(Favorites), []movie.Movie{}))
	st.watchlist = newSet(storage.Load(ctx, s, string(Watchlist), []movie.Movie{}))

	entries := storage.Load(ctx, s, string(Watched), []watchedEntry{})
	records := make([]movie.Movie, 0, len(entries))
	migrated := false
	for _, e := range entries {
		if e.legacy {
			migrated = true
		}
		records = append(records, e.Movie)
	}
	st.watched = newSet(records)
	if migrated {
		log.Infow("migrating legacy watched entries", "count", len(records))
		repairs = append(repairs, Watched)
	}

	// a movie cannot be both watched and queued; watched wins
	overlap := false
	for _, m := range st.watchlist.raw() {
		if st.watched.has(m.ID) {
			st.watchlist = st.watchlist.without(m.ID)
			overlap = true
		}
	}
	if overlap {
		log.Info("removing watched movies from the watchlist")
		repairs = append(repairs, Watchlist)
	}

	st.ratings = loadRatings(ctx, s)
	st.theme = loadTheme(ctx, s)

	return st, repairs
}

// loadRatings keeps only entries with an integer id key and an integral
// value within range.
func loadRatings(ctx context.Context, s storage.Store) map[int]int {
	log := logger.FromCtx(ctx)

	raw := storage.Load(ctx, s, string(Ratings), map[string]float64{})
	ratings := make(map[int]int, len(raw))
	dropped := 0
	for k, v := range raw {
		id, err := strconv.Atoi(k)
		if err != nil || id <= 0 || v != math.Trunc(v) || v < MinRating || v > MaxRating {
			dropped++
			continue
		}
		ratings[id] = int(v)
	}

	if dropped > 0 {
		log.Warnw("dropped invalid stored ratings", "count", dropped)
	}

	return ratings
}

// loadTheme accepts a JSON string or the bare theme name.
func loadTheme(ctx context.Context, s storage.Store) ThemeName {
	log := logger.FromCtx(ctx)

	raw, err := s.Get(ctx, string(Theme))
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			metrics.StoreFailures.WithLabelValues("read").Inc()
			log.Warnw("failed to read theme, using default", "error", err)
		}
		return DefaultTheme
	}

	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		name = strings.TrimSpace(string(raw))
	}

	t := ThemeName(name)
	if !t.Valid() {
		metrics.StoreFailures.WithLabelValues("corrupt").Inc()
		log.Warnw("discarding unknown theme", "theme", name)
		return DefaultTheme
	}

	return t
}

func encodeRatings(ratings map[int]int) map[string]int {
	out := make(map[string]int, len(ratings))
	for id, r := range ratings {
		out[strconv.Itoa(id)] = r
	}
	return out
}
