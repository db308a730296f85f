package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/gorilla/mux"
	"github.com/kasuboski/reelbox/pkg/collection"
	"github.com/kasuboski/reelbox/pkg/logger"
	"github.com/kasuboski/reelbox/pkg/movie"
	"github.com/kasuboski/reelbox/pkg/pagination"
	"github.com/kasuboski/reelbox/pkg/query"
	"github.com/kasuboski/reelbox/pkg/stats"
)

// routeCollections maps path names to collection keys.
var routeCollections = map[string]collection.Name{
	"favorites": collection.Favorites,
	"watched":   collection.Watched,
	"watchlist": collection.Watchlist,
}

// CollectionView is a filtered, sorted and paginated derived view.
type CollectionView struct {
	Results    []movie.Movie     `json:"results"`
	Genres     []string          `json:"genres"`
	Summary    stats.ViewSummary `json:"summary"`
	Pagination pagination.Meta   `json:"pagination"`
	Sort       query.SortKey     `json:"sort"`
}

// MutationResponse carries the outcome of a collection change.
type MutationResponse struct {
	Change collection.Change `json:"change"`
}

// ListCollection renders a derived view of favorites, watched or the watchlist.
func (s Server) ListCollection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := routeCollections[mux.Vars(r)["collection"]]

		cfg, params, err := viewParams(r, s.locale)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		snap := s.collections.Snapshot()
		src, _ := snap.List(name)

		view, err := query.Apply(src, cfg, snap.Rating)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		page, meta := pagination.Window(view, params)
		respond(w, r, CollectionView{
			Results:    page,
			Genres:     query.Genres(src, s.locale),
			Summary:    stats.Summarize(view, snap.IsWatched, snap.Rating),
			Pagination: meta,
			Sort:       cfg.SortKey,
		})
	}
}

func (s Server) ToggleFavorite() http.HandlerFunc {
	return s.mutateMovie(s.collections.ToggleFavorite)
}

func (s Server) ToggleWatched() http.HandlerFunc {
	return s.mutateMovie(s.collections.ToggleWatched)
}

func (s Server) AddToWatchlist() http.HandlerFunc {
	return s.mutateMovie(s.collections.AddToWatchlist)
}

func (s Server) ToggleWatchlist() http.HandlerFunc {
	return s.mutateMovie(s.collections.ToggleWatchlist)
}

func (s Server) RemoveFromWatchlist() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := movieID(r)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		c, err := s.collections.RemoveFromWatchlist(r.Context(), movie.Movie{ID: id})
		writeMutation(w, r, c, err)
	}
}

type movieMutation func(ctx context.Context, m movie.Movie) (collection.Change, error)

// mutateMovie decodes a movie record from the body and applies op to it.
func (s Server) mutateMovie(op movieMutation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())
		b, err := io.ReadAll(r.Body)
		if err != nil {
			log.Debugw("invalid request body", "error", err)
			writeErrorResponse(w, http.StatusBadRequest, errors.New("invalid request body"))
			return
		}

		var m movie.Movie
		if err := json.Unmarshal(b, &m); err != nil {
			log.Debugw("invalid request body", "body", string(b))
			writeErrorResponse(w, http.StatusBadRequest, errors.New("invalid request body"))
			return
		}

		c, err := op(r.Context(), m)
		writeMutation(w, r, c, err)
	}
}

func writeMutation(w http.ResponseWriter, r *http.Request, c collection.Change, err error) {
	log := logger.FromCtx(r.Context())
	switch {
	case errors.Is(err, movie.ErrInvalidMovie), errors.Is(err, collection.ErrInvalidTheme):
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	case err != nil:
		log.Errorw("failed to update collection", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}

	respond(w, r, MutationResponse{Change: c})
}

func sortGenres(genres []movie.Genre) {
	slices.SortFunc(genres, func(a, b movie.Genre) int {
		return strings.Compare(a.Name, b.Name)
	})
}
