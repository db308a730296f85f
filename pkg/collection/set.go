package collection

import "github.com/kasuboski/reelbox/pkg/movie"

// set is an insertion ordered set of movies keyed by id. It is never mutated
// in place: with and without return new sets so a failed write can simply
// drop the candidate.
type set struct {
	items []movie.Movie
	index map[int]int
}

func newSet(items []movie.Movie) *set {
	s := &set{
		items: make([]movie.Movie, 0, len(items)),
		index: make(map[int]int, len(items)),
	}
	for _, m := range items {
		if m.ID <= 0 {
			continue
		}
		if _, ok := s.index[m.ID]; ok {
			continue
		}
		s.index[m.ID] = len(s.items)
		s.items = append(s.items, m.Clone())
	}
	return s
}

func (s *set) has(id int) bool {
	_, ok := s.index[id]
	return ok
}

func (s *set) get(id int) (movie.Movie, bool) {
	i, ok := s.index[id]
	if !ok {
		return movie.Movie{}, false
	}
	return s.items[i], true
}

func (s *set) len() int {
	return len(s.items)
}

func (s *set) with(m movie.Movie) *set {
	if s.has(m.ID) {
		return s
	}

	next := &set{
		items: make([]movie.Movie, len(s.items), len(s.items)+1),
		index: make(map[int]int, len(s.index)+1),
	}
	copy(next.items, s.items)
	for k, v := range s.index {
		next.index[k] = v
	}
	next.index[m.ID] = len(next.items)
	next.items = append(next.items, m.Clone())
	return next
}

func (s *set) without(id int) *set {
	if !s.has(id) {
		return s
	}

	next := &set{
		items: make([]movie.Movie, 0, len(s.items)-1),
		index: make(map[int]int, len(s.index)-1),
	}
	for _, m := range s.items {
		if m.ID == id {
			continue
		}
		next.index[m.ID] = len(next.items)
		next.items = append(next.items, m)
	}
	return next
}

// list returns deep copies in insertion order.
func (s *set) list() []movie.Movie {
	out := make([]movie.Movie, len(s.items))
	for i, m := range s.items {
		out[i] = m.Clone()
	}
	return out
}

// raw returns the backing records for encoding. Callers must not modify them.
func (s *set) raw() []movie.Movie {
	return s.items
}
