package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/kasuboski/reelbox/pkg/logger"
	"github.com/oapi-codegen/nullable"
)

// RateRequest sets a rating. A null rating clears it.
type RateRequest struct {
	Rating nullable.Nullable[int] `json:"rating"`
}

type RatingResponse struct {
	MovieID int `json:"movieId"`
	Rating  int `json:"rating"`
}

func (s Server) GetRating() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := movieID(r)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		respond(w, r, RatingResponse{MovieID: id, Rating: s.collections.Rating(id)})
	}
}

// RateMovie stores a 1-10 rating. Out of range values are ignored and the
// response reports the unchanged rating.
func (s Server) RateMovie() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromCtx(r.Context())
		id, err := movieID(r)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		b, err := io.ReadAll(r.Body)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, errors.New("invalid request body"))
			return
		}

		var request RateRequest
		if err := json.Unmarshal(b, &request); err != nil {
			log.Debugw("invalid request body", "body", string(b))
			writeErrorResponse(w, http.StatusBadRequest, errors.New("invalid request body"))
			return
		}
		if !request.Rating.IsSpecified() {
			writeErrorResponse(w, http.StatusBadRequest, errors.New("rating is required"))
			return
		}

		rating := 0
		if !request.Rating.IsNull() {
			rating = request.Rating.MustGet()
		}

		c, err := s.collections.RateMovie(r.Context(), id, rating)
		writeMutation(w, r, c, err)
	}
}

func (s Server) GetMembership() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := movieID(r)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, err)
			return
		}

		respond(w, r, s.collections.Membership(id))
	}
}
