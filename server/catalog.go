package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/kasuboski/reelbox/pkg/catalog"
	"github.com/kasuboski/reelbox/pkg/collection"
	"github.com/kasuboski/reelbox/pkg/logger"
	"github.com/kasuboski/reelbox/pkg/movie"
)

// MovieResponse is a catalog record with the user's view of it.
type MovieResponse struct {
	Movie      movie.Movie           `json:"movie"`
	Membership collection.Membership `json:"membership"`
}

// SearchMovies searches the catalog. detailed=true replaces each result with its detail record.
func (s Server) SearchMovies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())
		qps := r.URL.Query()
		query := qps.Get("query")

		search := s.catalog.Search
		if detailed, _ := strconv.ParseBool(qps.Get("detailed")); detailed {
			search = s.catalog.SearchDetailed
		}

		result, err := search(r.Context(), query)
		if err != nil {
			log.Errorw("search failed", "query", query, "error", err)
			writeErrorResponse(w, http.StatusBadGateway, err)
			return
		}

		respond(w, r, result)
	}
}

func (s Server) DiscoverMovies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())
		result, err := s.catalog.Discover(r.Context())
		if err != nil {
			log.Errorw("discover failed", "error", err)
			writeErrorResponse(w, http.StatusBadGateway, err)
			return
		}

		respond(w, r, result)
	}
}

func (s Server) ListGenres() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())
		byID, err := s.catalog.Genres(r.Context())
		if err != nil {
			log.Errorw("failed to list genres", "error", err)
			writeErrorResponse(w, http.StatusBadGateway, err)
			return
		}

		genres := make([]movie.Genre, 0, len(byID))
		for id, name := range byID {
			genres = append(genres, movie.Genre{ID: id, Name: name})
		}
		sortGenres(genres)

		respond(w, r, genres)
	}
}

// GetMovie fetches a catalog record and reports its collection membership.
func (s Server) GetMovie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())
		id, err := movieID(r)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		m, err := s.catalog.Details(r.Context(), id)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			writeErrorResponse(w, http.StatusNotFound, err)
			return
		case err != nil:
			log.Errorw("failed to get movie", "id", id, "error", err)
			writeErrorResponse(w, http.StatusBadGateway, err)
			return
		}

		respond(w, r, MovieResponse{Movie: m, Membership: s.collections.Membership(id)})
	}
}

func movieID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		return 0, errors.New("invalid movie id")
	}
	return id, nil
}
