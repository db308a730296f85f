package collection

import (
	"maps"

	"github.com/kasuboski/reelbox/pkg/movie"
)

func (m *Manager) IsFavorite(id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.favorites.has(id)
}

func (m *Manager) IsWatched(id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.watched.has(id)
}

func (m *Manager) IsInWatchlist(id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.watchlist.has(id)
}

// Rating returns the stored rating for id, or 0 when unrated.
func (m *Manager) Rating(id int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.ratings[id]
}

func (m *Manager) Theme() ThemeName {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.theme
}

func (m *Manager) Membership(id int) Membership {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Membership{
		MovieID:     id,
		Favorite:    m.state.favorites.has(id),
		Watched:     m.state.watched.has(id),
		InWatchlist: m.state.watchlist.has(id),
		Rating:      m.state.ratings[id],
		Progress:    progressOf(&m.state, id),
	}
}

// Lookup returns the stored record for id from whichever collection holds it.
func (m *Manager) Lookup(id int) (movie.Movie, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range []*set{m.state.favorites, m.state.watched, m.state.watchlist} {
		if mv, ok := s.get(id); ok {
			return mv.Clone(), true
		}
	}
	return movie.Movie{}, false
}

func (m *Manager) Favorites() []movie.Movie {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.favorites.list()
}

func (m *Manager) Watched() []movie.Movie {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.watched.list()
}

func (m *Manager) Watchlist() []movie.Movie {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.watchlist.list()
}

// Ratings returns a copy of every stored rating keyed by movie id.
func (m *Manager) Ratings() map[int]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.state.ratings)
}

// List returns the collection named name, or false for anything that is not a movie list.
func (m *Manager) List(name Name) ([]movie.Movie, bool) {
	switch name {
	case Favorites:
		return m.Favorites(), true
	case Watched:
		return m.Watched(), true
	case Watchlist:
		return m.Watchlist(), true
	}
	return nil, false
}

// Snapshot returns a consistent copy of every movie collection and the ratings.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	watchedIDs := make(map[int]struct{}, m.state.watched.len())
	for id := range m.state.watched.index {
		watchedIDs[id] = struct{}{}
	}
	return Snapshot{
		favorites:  m.state.favorites.list(),
		watched:    m.state.watched.list(),
		watchlist:  m.state.watchlist.list(),
		ratings:    maps.Clone(m.state.ratings),
		watchedIDs: watchedIDs,
	}
}

// Sizes returns the number of entries in each collection.
func (m *Manager) Sizes() map[Name]int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return map[Name]int{
		Favorites: m.state.favorites.len(),
		Watched:   m.state.watched.len(),
		Watchlist: m.state.watchlist.len(),
		Ratings:   len(m.state.ratings),
	}
}
