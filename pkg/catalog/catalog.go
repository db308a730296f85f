// Package catalog is a read-only client for the remote movie catalog (TMDB v3).
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/kasuboski/reelbox/pkg/cache"
	rhttp "github.com/kasuboski/reelbox/pkg/http"
	"github.com/kasuboski/reelbox/pkg/logger"
	"github.com/kasuboski/reelbox/pkg/metrics"
	"github.com/kasuboski/reelbox/pkg/movie"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultLanguage = "en-US"

	// detailConcurrency bounds the detail lookups SearchDetailed runs at once.
	detailConcurrency = 4

	endpointSearch   = "search"
	endpointDetails  = "details"
	endpointDiscover = "discover"
	endpointGenres   = "genres"
)

var (
	ErrNotFound         = errors.New("movie not found in catalog")
	ErrUnexpectedStatus = errors.New("unexpected catalog response")
)

// Client talks to the catalog over HTTP. It is safe for concurrent use.
type Client struct {
	baseURL  *url.URL
	http     rhttp.HTTPClient
	language string

	genreMu sync.Mutex
	genres  *cache.Cache[int, string]
}

type Option func(*Client)

// WithLanguage sets the language query parameter sent with every request.
func WithLanguage(language string) Option {
	return func(c *Client) {
		if language != "" {
			c.language = language
		}
	}
}

// New creates a client for the catalog rooted at baseURL, e.g. https://api.themoviedb.org.
func New(baseURL string, client rhttp.HTTPClient, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid catalog url %q: scheme and host are required", baseURL)
	}

	c := &Client{
		baseURL:  u,
		http:     client,
		language: DefaultLanguage,
		genres:   cache.New[int, string](),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Page is one page of catalog results.
type Page struct {
	Page         int           `json:"page"`
	Results      []movie.Movie `json:"results"`
	TotalPages   int           `json:"totalPages"`
	TotalResults int           `json:"totalResults"`
}

// result is a list entry. Lists carry genre ids rather than genre records.
type result struct {
	movie.Movie
	GenreIDs []int `json:"genre_ids"`
}

type resultPage struct {
	Page         int      `json:"page"`
	Results      []result `json:"results"`
	TotalPages   int      `json:"total_pages"`
	TotalResults int      `json:"total_results"`
}

type genreList struct {
	Genres []movie.Genre `json:"genres"`
}

// Search returns the first page of movies matching query. An empty query
// returns an empty page without contacting the catalog.
func (c *Client) Search(ctx context.Context, query string) (Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Page{Page: 1, Results: []movie.Movie{}}, nil
	}

	var res resultPage
	err := c.get(ctx, endpointSearch, "/3/search/movie", url.Values{"query": {query}, "include_adult": {"false"}}, &res)
	if err != nil {
		return Page{}, err
	}

	return c.toPage(ctx, res), nil
}

// SearchDetailed searches and replaces every result with its full detail
// record. A result whose detail lookup fails is kept as returned by the search.
func (c *Client) SearchDetailed(ctx context.Context, query string) (Page, error) {
	log := logger.FromCtx(ctx)

	page, err := c.Search(ctx, query)
	if err != nil || len(page.Results) == 0 {
		return page, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(detailConcurrency)
	for i := range page.Results {
		g.Go(func() error {
			det, err := c.Details(gctx, page.Results[i].ID)
			if err != nil {
				log.Debugw("keeping search result without details", "id", page.Results[i].ID, "error", err)
				return nil
			}
			page.Results[i] = merge(page.Results[i], det)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Page{}, err
	}

	return page, nil
}

// Details fetches one movie by id.
func (c *Client) Details(ctx context.Context, id int) (movie.Movie, error) {
	if id <= 0 {
		return movie.Movie{}, fmt.Errorf("%w: id must be positive", movie.ErrInvalidMovie)
	}

	var m movie.Movie
	if err := c.get(ctx, endpointDetails, "/3/movie/"+strconv.Itoa(id), nil, &m); err != nil {
		return movie.Movie{}, err
	}
	if m.ID == 0 {
		return movie.Movie{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}

	return m, nil
}

// Discover lists currently popular movies, most popular first.
func (c *Client) Discover(ctx context.Context) (Page, error) {
	var res resultPage
	err := c.get(ctx, endpointDiscover, "/3/discover/movie", url.Values{"sort_by": {"popularity.desc"}, "include_adult": {"false"}}, &res)
	if err != nil {
		return Page{}, err
	}

	return c.toPage(ctx, res), nil
}

// Genres returns the catalog's genre names keyed by id. The list is fetched
// once and then served from memory.
func (c *Client) Genres(ctx context.Context) (map[int]string, error) {
	c.genreMu.Lock()
	defer c.genreMu.Unlock()

	if c.genres.Size() > 0 {
		return c.genres.Snapshot(), nil
	}

	var list genreList
	if err := c.get(ctx, endpointGenres, "/3/genre/movie/list", nil, &list); err != nil {
		return nil, err
	}

	byID := make(map[int]string, len(list.Genres))
	for _, g := range list.Genres {
		byID[g.ID] = g.Name
	}
	c.genres.Replace(byID)

	return c.genres.Snapshot(), nil
}

func (c *Client) toPage(ctx context.Context, res resultPage) Page {
	log := logger.FromCtx(ctx)

	var names map[int]string
	for _, r := range res.Results {
		if len(r.Genres) == 0 && len(r.GenreIDs) > 0 {
			var err error
			names, err = c.Genres(ctx)
			if err != nil {
				log.Debugw("genre names unavailable", "error", err)
			}
			break
		}
	}

	page := Page{
		Page:         res.Page,
		Results:      make([]movie.Movie, 0, len(res.Results)),
		TotalPages:   res.TotalPages,
		TotalResults: res.TotalResults,
	}
	for _, r := range res.Results {
		m := r.Movie
		if len(m.Genres) == 0 {
			for _, id := range r.GenreIDs {
				if name, ok := names[id]; ok {
					m.Genres = append(m.Genres, movie.Genre{ID: id, Name: name})
				}
			}
		}
		page.Results = append(page.Results, m)
	}

	return page
}

// merge prefers detail values and falls back to the list entry for anything
// the detail record leaves empty.
func merge(list, det movie.Movie) movie.Movie {
	out := det.Clone()
	if out.Title == "" {
		out.Title = list.Title
	}
	if out.ReleaseDate == "" {
		out.ReleaseDate = list.ReleaseDate
	}
	if len(out.Genres) == 0 {
		out.Genres = list.Clone().Genres
	}
	if out.VoteAverage == nil {
		out.VoteAverage = list.Clone().VoteAverage
	}
	if out.Popularity == nil {
		out.Popularity = list.Clone().Popularity
	}
	if out.PosterPath == "" {
		out.PosterPath = list.PosterPath
	}
	if out.Overview == "" {
		out.Overview = list.Overview
	}
	return out
}

func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values, out any) error {
	u := *c.baseURL
	u.Path = strings.TrimSuffix(u.Path, "/") + path

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("language", c.language)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return err
	}

	res, err := c.http.Do(req)
	if err != nil {
		metrics.RecordCatalogRequest(endpoint, 0)
		return fmt.Errorf("catalog %s request failed: %w", endpoint, err)
	}
	defer res.Body.Close()
	metrics.RecordCatalogRequest(endpoint, res.StatusCode)

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("failed to read catalog %s response: %w", endpoint, err)
	}

	switch {
	case res.StatusCode == http.StatusNotFound && endpoint == endpointDetails:
		return ErrNotFound
	case res.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: %s returned %d: %s", ErrUnexpectedStatus, endpoint, res.StatusCode, string(b))
	}

	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("failed to decode catalog %s response: %w", endpoint, err)
	}

	return nil
}
