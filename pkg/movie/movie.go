// Package movie defines the catalog record shared by every reelbox component.
package movie

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// ReleaseDateFormat is the layout the catalog uses for release dates.
const ReleaseDateFormat = "2006-01-02"

var ErrInvalidMovie = errors.New("invalid movie record")

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Genre is a catalog genre.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie is an immutable snapshot of one catalog entry. Optional values are
// pointers or empty slices/strings; every computation treats absence as zero.
//
// JSON field names follow the catalog so that persisted collections stay
// readable by anything that understands the catalog's movie shape.
type Movie struct {
	ID          int      `json:"id" validate:"gt=0"`
	Title       string   `json:"title"`
	ReleaseDate string   `json:"release_date,omitempty"`
	Genres      []Genre  `json:"genres,omitempty"`
	Runtime     *int     `json:"runtime,omitempty" validate:"omitempty,gte=0"`
	VoteAverage *float64 `json:"vote_average,omitempty" validate:"omitempty,gte=0,lte=10"`
	Popularity  *float64 `json:"popularity,omitempty"`

	// passthrough, never interpreted by the core
	Overview         string `json:"overview,omitempty"`
	PosterPath       string `json:"poster_path,omitempty"`
	BackdropPath     string `json:"backdrop_path,omitempty"`
	OriginalTitle    string `json:"original_title,omitempty"`
	OriginalLanguage string `json:"original_language,omitempty"`
	VoteCount        *int   `json:"vote_count,omitempty"`
	Adult            *bool  `json:"adult,omitempty"`
}

// Validate reports whether m is well formed enough to be stored in a collection.
func (m Movie) Validate() error {
	if err := getValidator().Struct(m); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: field %s failed %s", ErrInvalidMovie, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %w", ErrInvalidMovie, err)
	}
	return nil
}

// Clone returns a deep copy of m.
func (m Movie) Clone() Movie {
	c := m
	if m.Genres != nil {
		c.Genres = make([]Genre, len(m.Genres))
		copy(c.Genres, m.Genres)
	}
	c.Runtime = clonePtr(m.Runtime)
	c.VoteAverage = clonePtr(m.VoteAverage)
	c.Popularity = clonePtr(m.Popularity)
	c.VoteCount = clonePtr(m.VoteCount)
	c.Adult = clonePtr(m.Adult)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// RuntimeMinutes returns the runtime, or 0 when unknown.
func (m Movie) RuntimeMinutes() int {
	if m.Runtime == nil || *m.Runtime < 0 {
		return 0
	}
	return *m.Runtime
}

// Vote returns the catalog vote average, or 0 when unknown.
func (m Movie) Vote() float64 {
	if m.VoteAverage == nil {
		return 0
	}
	return *m.VoteAverage
}

// PopularityScore returns the popularity, or 0 when unknown.
func (m Movie) PopularityScore() float64 {
	if m.Popularity == nil {
		return 0
	}
	return *m.Popularity
}

// HasGenre reports whether one of m's genres is named name.
func (m Movie) HasGenre(name string) bool {
	for _, g := range m.Genres {
		if g.Name == name {
			return true
		}
	}
	return false
}

// GenreNames returns the genre names in catalog order.
func (m Movie) GenreNames() []string {
	names := make([]string, 0, len(m.Genres))
	for _, g := range m.Genres {
		names = append(names, g.Name)
	}
	return names
}

var releaseLayouts = []string{ReleaseDateFormat, time.RFC3339, "2006-01", "2006"}

// Released parses ReleaseDate. ok is false when the date is missing or unparseable.
func (m Movie) Released() (t time.Time, ok bool) {
	s := strings.TrimSpace(m.ReleaseDate)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range releaseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// Year returns the release year, or 0 when unknown.
func (m Movie) Year() int {
	t, ok := m.Released()
	if !ok {
		return 0
	}
	return t.Year()
}

// Ptr returns a pointer to v. Handy for building records with optional fields.
func Ptr[T any](v T) *T {
	return &v
}
