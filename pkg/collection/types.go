package collection

import (
	"errors"

	"github.com/kasuboski/reelbox/pkg/machine"
	"github.com/kasuboski/reelbox/pkg/movie"
)

// Name is a collection's persisted key.
type Name string

const (
	Favorites Name = "favorites"
	Watched   Name = "watchedMovies"
	Watchlist Name = "watchlist"
	Ratings   Name = "movieRatings"
	Theme     Name = "theme"
)

type Action string

const (
	ActionAdded     Action = "added"
	ActionRemoved   Action = "removed"
	ActionRefused   Action = "refused"
	ActionUnchanged Action = "unchanged"
	ActionRated     Action = "rated"
	ActionUnrated   Action = "unrated"
	ActionIgnored   Action = "ignored"
	ActionChanged   Action = "changed"
)

type NotificationKind string

const (
	KindInfo    NotificationKind = "info"
	KindSuccess NotificationKind = "success"
)

// Notification is a transient, user facing description of a change.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}

// Empty reports whether there is nothing to show.
func (n Notification) Empty() bool {
	return n.Message == ""
}

// Change describes the outcome of one manager operation. Member is the
// membership of MovieID in Collection after the operation.
type Change struct {
	Collection   Name         `json:"collection"`
	Action       Action       `json:"action"`
	MovieID      int          `json:"movieId,omitempty"`
	Title        string       `json:"title,omitempty"`
	Member       bool         `json:"member"`
	Rating       int          `json:"rating,omitempty"`
	Also         []Change     `json:"also,omitempty"`
	Notification Notification `json:"notification"`
}

// Mutated reports whether the operation changed persisted state.
func (c Change) Mutated() bool {
	switch c.Action {
	case ActionAdded, ActionRemoved, ActionRated, ActionUnrated, ActionChanged:
		return true
	}
	return false
}

// ThemeName is the persisted UI theme.
type ThemeName string

const (
	ThemeDark  ThemeName = "dark"
	ThemeLight ThemeName = "light"

	DefaultTheme = ThemeLight
)

var ErrInvalidTheme = errors.New("theme must be dark or light")

func (t ThemeName) Valid() bool {
	return t == ThemeDark || t == ThemeLight
}

// Membership is every collection's view of a single movie and its watch progress.
type Membership struct {
	MovieID     int      `json:"movieId"`
	Favorite    bool     `json:"favorite"`
	Watched     bool     `json:"watched"`
	InWatchlist bool     `json:"inWatchlist"`
	Rating      int      `json:"rating"`
	Progress    Progress `json:"progress"`
}

// Snapshot is a consistent, deep copied view of all collections.
type Snapshot struct {
	favorites  []movie.Movie
	watched    []movie.Movie
	watchlist  []movie.Movie
	ratings    map[int]int
	watchedIDs map[int]struct{}
}

func (s Snapshot) Favorites() []movie.Movie { return s.favorites }
func (s Snapshot) Watched() []movie.Movie   { return s.watched }
func (s Snapshot) Watchlist() []movie.Movie { return s.watchlist }
func (s Snapshot) Ratings() map[int]int     { return s.ratings }

// Rating returns the stored rating for id, or 0.
func (s Snapshot) Rating(id int) int {
	return s.ratings[id]
}

func (s Snapshot) IsWatched(id int) bool {
	_, ok := s.watchedIDs[id]
	return ok
}

// List returns the movie collection named name.
func (s Snapshot) List(name Name) ([]movie.Movie, bool) {
	switch name {
	case Favorites:
		return s.favorites, true
	case Watched:
		return s.watched, true
	case Watchlist:
		return s.watchlist, true
	}
	return nil, false
}

// Progress is where a movie sits between "to watch" and "watched".
type Progress string

const (
	ProgressNone    Progress = "none"
	ProgressQueued  Progress = "queued"
	ProgressWatched Progress = "watched"
)

// progressMachine encodes the Watched and Watchlist exclusivity: a watched
// movie has to leave Watched before it can be queued again.
func progressMachine(current Progress) *machine.StateMachine[Progress] {
	return machine.New(current,
		machine.From(ProgressNone).To(ProgressQueued, ProgressWatched),
		machine.From(ProgressQueued).To(ProgressNone, ProgressWatched),
		machine.From(ProgressWatched).To(ProgressNone),
	)
}
