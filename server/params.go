package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/kasuboski/reelbox/pkg/pagination"
	"github.com/kasuboski/reelbox/pkg/query"
	"golang.org/x/text/language"
)

var (
	errInvalidPage     = errors.New("page must be a positive integer")
	errInvalidPageSize = errors.New("pageSize must be a non-negative integer")
)

// viewParams reads search, genre, sort, page and pageSize from the query string.
// A missing pageSize returns every record on one page.
func viewParams(r *http.Request, locale language.Tag) (query.Config, pagination.Params, error) {
	qps := r.URL.Query()

	key, err := query.ParseSortKey(qps.Get("sort"))
	if err != nil {
		return query.Config{}, pagination.Params{}, err
	}

	cfg := query.Config{
		SearchTerm: qps.Get("search"),
		GenreName:  qps.Get("genre"),
		SortKey:    key,
		Locale:     locale,
	}

	page, err := intParam(qps.Get("page"), 1, 1, errInvalidPage)
	if err != nil {
		return cfg, pagination.Params{}, err
	}
	size, err := intParam(qps.Get("pageSize"), 0, 0, errInvalidPageSize)
	if err != nil {
		return cfg, pagination.Params{}, err
	}

	return cfg, pagination.Params{Page: page, PageSize: size}.Normalize(), nil
}

func intParam(raw string, def, least int, invalid error) (int, error) {
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < least {
		return 0, invalid
	}
	return v, nil
}
