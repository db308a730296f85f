// Package collection holds the user's local movie lists and keeps them in
// step with durable storage.
package collection

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/kasuboski/reelbox/pkg/logger"
	"github.com/kasuboski/reelbox/pkg/metrics"
	"github.com/kasuboski/reelbox/pkg/movie"
	"github.com/kasuboski/reelbox/pkg/storage"
)

// Manager owns the favorites, watched, watchlist, ratings and theme state.
// Every mutation is written to the store before it becomes visible, so the
// in-memory view always matches what a restart would load.
type Manager struct {
	store storage.Store

	mu    sync.Mutex
	state state

	subMu       sync.Mutex
	nextSub     int
	subscribers []subscriber
}

type subscriber struct {
	id int
	fn func(Change)
}

// New loads every collection from store. Missing or unreadable values start
// empty; legacy watched entries are migrated and written back once.
func New(ctx context.Context, store storage.Store) *Manager {
	log := logger.FromCtx(ctx)

	st, repairs := loadState(ctx, store)
	m := &Manager{store: store, state: st}

	if len(repairs) > 0 {
		entries, err := m.entries(st, repairs...)
		if err == nil {
			err = store.Put(ctx, entries...)
		}
		if err != nil {
			metrics.StoreFailures.WithLabelValues("write").Inc()
			log.Warnw("failed to write repaired collections", "error", err)
		}
	}

	return m
}

// Subscribe registers fn to be called after every operation, in registration
// order. fn runs outside the manager's lock and may call back into it.
func (m *Manager) Subscribe(fn func(Change)) (cancel func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	m.nextSub++
	id := m.nextSub
	m.subscribers = append(m.subscribers, subscriber{id: id, fn: fn})

	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		for i, s := range m.subscribers {
			if s.id == id {
				m.subscribers = append(m.subscribers[:i:i], m.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) publish(c Change) {
	m.subMu.Lock()
	subs := make([]subscriber, len(m.subscribers))
	copy(subs, m.subscribers)
	m.subMu.Unlock()

	for _, s := range subs {
		s.fn(c)
	}
}

// ToggleFavorite adds mv to favorites, or removes it when already present.
func (m *Manager) ToggleFavorite(ctx context.Context, mv movie.Movie) (Change, error) {
	if err := mv.Validate(); err != nil {
		return Change{}, err
	}

	c, err := m.mutate(ctx, func(st *state) (Change, []Name) {
		c := Change{Collection: Favorites, MovieID: mv.ID, Title: title(st.favorites, mv)}
		if st.favorites.has(mv.ID) {
			st.favorites = st.favorites.without(mv.ID)
			c.Action = ActionRemoved
			c.Notification = info("%q removed from favorites", c.Title)
		} else {
			st.favorites = st.favorites.with(mv)
			c.Action = ActionAdded
			c.Member = true
			c.Notification = success("%q added to favorites", c.Title)
		}
		return c, []Name{Favorites}
	})
	return c, err
}

// ToggleWatched marks mv watched, or unmarks it when already watched.
// Marking a movie watched also takes it off the watchlist in the same write.
func (m *Manager) ToggleWatched(ctx context.Context, mv movie.Movie) (Change, error) {
	if err := mv.Validate(); err != nil {
		return Change{}, err
	}

	c, err := m.mutate(ctx, func(st *state) (Change, []Name) {
		c := Change{Collection: Watched, MovieID: mv.ID, Title: title(st.watched, mv)}
		if st.watched.has(mv.ID) {
			st.watched = st.watched.without(mv.ID)
			c.Action = ActionRemoved
			c.Notification = info("%q removed from watched", c.Title)
			return c, []Name{Watched}
		}

		st.watched = st.watched.with(mv)
		c.Action = ActionAdded
		c.Member = true

		if !st.watchlist.has(mv.ID) {
			c.Notification = success("%q marked as watched", c.Title)
			return c, []Name{Watched}
		}

		st.watchlist = st.watchlist.without(mv.ID)
		c.Also = []Change{{Collection: Watchlist, Action: ActionRemoved, MovieID: mv.ID, Title: c.Title}}
		c.Notification = success("%q marked as watched and removed from your watchlist", c.Title)
		return c, []Name{Watched, Watchlist}
	})
	return c, err
}

// AddToWatchlist queues mv. A watched movie is refused with an informational
// notification and nothing is written.
func (m *Manager) AddToWatchlist(ctx context.Context, mv movie.Movie) (Change, error) {
	if err := mv.Validate(); err != nil {
		return Change{}, err
	}

	return m.mutate(ctx, func(st *state) (Change, []Name) {
		return addToWatchlist(st, mv)
	})
}

func addToWatchlist(st *state, mv movie.Movie) (Change, []Name) {
	c := Change{Collection: Watchlist, MovieID: mv.ID, Title: title(st.watchlist, mv)}

	current := progressOf(st, mv.ID)
	if current == ProgressQueued {
		c.Action = ActionUnchanged
		c.Member = true
		c.Notification = info("%q is already in your watchlist", c.Title)
		return c, nil
	}

	if err := progressMachine(current).ToState(ProgressQueued); err != nil {
		c.Action = ActionRefused
		c.Notification = info("%q is already watched", c.Title)
		return c, nil
	}

	st.watchlist = st.watchlist.with(mv)
	c.Action = ActionAdded
	c.Member = true
	c.Notification = success("%q added to your watchlist", c.Title)
	return c, []Name{Watchlist}
}

// RemoveFromWatchlist removes the movie with mv's id from the watchlist.
func (m *Manager) RemoveFromWatchlist(ctx context.Context, mv movie.Movie) (Change, error) {
	if mv.ID <= 0 {
		return Change{}, fmt.Errorf("%w: id must be positive", movie.ErrInvalidMovie)
	}

	return m.mutate(ctx, func(st *state) (Change, []Name) {
		return removeFromWatchlist(st, mv)
	})
}

func removeFromWatchlist(st *state, mv movie.Movie) (Change, []Name) {
	c := Change{Collection: Watchlist, MovieID: mv.ID, Title: title(st.watchlist, mv)}
	if !st.watchlist.has(mv.ID) {
		c.Action = ActionUnchanged
		c.Notification = info("%q is not in your watchlist", c.Title)
		return c, nil
	}

	st.watchlist = st.watchlist.without(mv.ID)
	c.Action = ActionRemoved
	c.Notification = info("%q removed from your watchlist", c.Title)
	return c, []Name{Watchlist}
}

// ToggleWatchlist removes mv from the watchlist when queued and otherwise
// behaves like AddToWatchlist.
func (m *Manager) ToggleWatchlist(ctx context.Context, mv movie.Movie) (Change, error) {
	if err := mv.Validate(); err != nil {
		return Change{}, err
	}

	return m.mutate(ctx, func(st *state) (Change, []Name) {
		if st.watchlist.has(mv.ID) {
			return removeFromWatchlist(st, mv)
		}
		return addToWatchlist(st, mv)
	})
}

// RateMovie stores a rating between MinRating and MaxRating. A rating of 0
// clears it. Any other value is ignored without error.
func (m *Manager) RateMovie(ctx context.Context, id, rating int) (Change, error) {
	if id <= 0 {
		return Change{}, fmt.Errorf("%w: id must be positive", movie.ErrInvalidMovie)
	}

	return m.mutate(ctx, func(st *state) (Change, []Name) {
		c := Change{Collection: Ratings, MovieID: id, Title: lookupTitle(st, id)}
		previous, rated := st.ratings[id]

		switch {
		case rating == 0:
			if !rated {
				c.Action = ActionUnchanged
				return c, nil
			}
			next := maps.Clone(st.ratings)
			delete(next, id)
			st.ratings = next
			c.Action = ActionUnrated
			c.Notification = info("rating removed for %q", c.Title)
			return c, []Name{Ratings}

		case rating < MinRating || rating > MaxRating:
			c.Action = ActionIgnored
			c.Member = rated
			c.Rating = previous
			return c, nil

		case rated && previous == rating:
			c.Action = ActionUnchanged
			c.Member = true
			c.Rating = rating
			return c, nil
		}

		next := maps.Clone(st.ratings)
		next[id] = rating
		st.ratings = next
		c.Action = ActionRated
		c.Member = true
		c.Rating = rating
		c.Notification = success("rated %q %d/10", c.Title, rating)
		return c, []Name{Ratings}
	})
}

// SetTheme persists t.
func (m *Manager) SetTheme(ctx context.Context, t ThemeName) (Change, error) {
	if !t.Valid() {
		return Change{}, fmt.Errorf("%w: %q", ErrInvalidTheme, t)
	}

	return m.mutate(ctx, func(st *state) (Change, []Name) {
		return setTheme(st, t)
	})
}

// ToggleTheme flips between dark and light.
func (m *Manager) ToggleTheme(ctx context.Context) (Change, error) {
	return m.mutate(ctx, func(st *state) (Change, []Name) {
		next := ThemeDark
		if st.theme == ThemeDark {
			next = ThemeLight
		}
		return setTheme(st, next)
	})
}

func setTheme(st *state, t ThemeName) (Change, []Name) {
	c := Change{Collection: Theme, Title: string(t)}
	if st.theme == t {
		c.Action = ActionUnchanged
		return c, nil
	}
	st.theme = t
	c.Action = ActionChanged
	c.Notification = info("switched to %s theme", t)
	return c, []Name{Theme}
}

// mutate applies fn to a copy of the current state and persists every
// collection fn reports as dirty in one write. The copy only replaces the
// current state when that write succeeds.
func (m *Manager) mutate(ctx context.Context, fn func(st *state) (Change, []Name)) (Change, error) {
	log := logger.FromCtx(ctx)

	m.mu.Lock()
	next := m.state
	c, dirty := fn(&next)

	if len(dirty) > 0 {
		entries, err := m.entries(next, dirty...)
		if err == nil {
			err = m.store.Put(ctx, entries...)
		}
		if err != nil {
			m.mu.Unlock()
			metrics.StoreFailures.WithLabelValues("write").Inc()
			log.Errorw("failed to persist collection change", "collection", string(c.Collection), "error", err)
			return Change{}, fmt.Errorf("failed to save %s: %w", c.Collection, err)
		}
		m.state = next
	}
	m.mu.Unlock()

	m.publish(c)
	return c, nil
}

func (m *Manager) entries(st state, names ...Name) ([]storage.Entry, error) {
	entries := make([]storage.Entry, 0, len(names))
	for _, name := range names {
		var v any
		switch name {
		case Favorites:
			v = st.favorites.raw()
		case Watched:
			v = st.watched.raw()
		case Watchlist:
			v = st.watchlist.raw()
		case Ratings:
			v = encodeRatings(st.ratings)
		case Theme:
			v = string(st.theme)
		default:
			return nil, fmt.Errorf("unknown collection %q", name)
		}

		e, err := storage.Encode(string(name), v)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func progressOf(st *state, id int) Progress {
	switch {
	case st.watched.has(id):
		return ProgressWatched
	case st.watchlist.has(id):
		return ProgressQueued
	default:
		return ProgressNone
	}
}

// title prefers the stored record's title over the one passed in.
func title(s *set, mv movie.Movie) string {
	if stored, ok := s.get(mv.ID); ok && stored.Title != "" {
		return stored.Title
	}
	if mv.Title != "" {
		return mv.Title
	}
	return fmt.Sprintf("movie %d", mv.ID)
}

func lookupTitle(st *state, id int) string {
	for _, s := range []*set{st.favorites, st.watched, st.watchlist} {
		if stored, ok := s.get(id); ok && stored.Title != "" {
			return stored.Title
		}
	}
	return fmt.Sprintf("movie %d", id)
}

func info(format string, args ...any) Notification {
	return Notification{Kind: KindInfo, Message: fmt.Sprintf(format, args...)}
}

func success(format string, args ...any) Notification {
	return Notification{Kind: KindSuccess, Message: fmt.Sprintf(format, args...)}
}
