package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kasuboski/reelbox/pkg/collection"
)

type ThemeBody struct {
	Theme collection.ThemeName `json:"theme"`
}

func (s Server) GetTheme() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, ThemeBody{Theme: s.collections.Theme()})
	}
}

func (s Server) SetTheme() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body ThemeBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeErrorResponse(w, http.StatusBadRequest, errors.New("invalid request body"))
			return
		}

		c, err := s.collections.SetTheme(r.Context(), body.Theme)
		writeMutation(w, r, c, err)
	}
}

func (s Server) ToggleTheme() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := s.collections.ToggleTheme(r.Context())
		writeMutation(w, r, c, err)
	}
}
