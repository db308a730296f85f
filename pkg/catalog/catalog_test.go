package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	rhttp "github.com/kasuboski/reelbox/pkg/http"
	"github.com/kasuboski/reelbox/pkg/http/mocks"
	"github.com/kasuboski/reelbox/pkg/movie"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	genresBody = `{"genres":[{"id":28,"name":"Action"},{"id":878,"name":"Science Fiction"},{"id":18,"name":"Drama"}]}`
	searchBody = `{"page":1,"total_pages":1,"total_results":2,"results":[
		{"id":603,"title":"The Matrix","release_date":"1999-03-30","genre_ids":[28,878],"vote_average":8.2,"popularity":80.1},
		{"id":604,"title":"The Matrix Reloaded","release_date":"2003-05-15","genre_ids":[28,999],"vote_average":7.0}
	]}`
	matrixDetail = `{"id":603,"title":"The Matrix","release_date":"1999-03-30","runtime":136,"genres":[{"id":28,"name":"Action"},{"id":878,"name":"Science Fiction"}],"vote_average":8.2}`
)

type fakeCatalog struct {
	t        *testing.T
	requests atomic.Int32
	genres   atomic.Int32
}

func (f *fakeCatalog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.requests.Add(1)
	assert.Equal(f.t, "Bearer key", r.Header.Get("Authorization"))
	assert.Equal(f.t, "en-US", r.URL.Query().Get("language"))

	switch r.URL.Path {
	case "/3/genre/movie/list":
		f.genres.Add(1)
		_, _ = w.Write([]byte(genresBody))
	case "/3/search/movie":
		assert.Equal(f.t, "matrix", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(searchBody))
	case "/3/discover/movie":
		assert.Equal(f.t, "popularity.desc", r.URL.Query().Get("sort_by"))
		_, _ = w.Write([]byte(searchBody))
	case "/3/movie/603":
		_, _ = w.Write([]byte(matrixDetail))
	case "/3/movie/604":
		w.WriteHeader(http.StatusInternalServerError)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_message":"The resource you requested could not be found."}`))
	}
}

func newTestClient(t *testing.T) (*Client, *fakeCatalog) {
	t.Helper()
	fake := &fakeCatalog{t: t}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, rhttp.NewAuthClient("key", rhttp.WithHTTPClient(srv.Client())))
	require.NoError(t, err)
	return c, fake
}

func TestNew(t *testing.T) {
	_, err := New("api.themoviedb.org", nil)
	assert.Error(t, err)

	c, err := New("https://api.themoviedb.org", nil, WithLanguage("tr-TR"))
	require.NoError(t, err)
	assert.Equal(t, "tr-TR", c.language)

	c, err = New("https://api.themoviedb.org", nil, WithLanguage(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, c.language)
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	c, fake := newTestClient(t)

	page, err := c.Search(ctx, "  matrix ")
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalResults)
	require.Len(t, page.Results, 2)

	first := page.Results[0]
	assert.Equal(t, 603, first.ID)
	assert.Equal(t, []movie.Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}}, first.Genres)
	assert.Equal(t, 8.2, first.Vote())

	// unknown genre ids are dropped
	assert.Equal(t, []movie.Genre{{ID: 28, Name: "Action"}}, page.Results[1].Genres)

	_, err = c.Search(ctx, "matrix")
	require.NoError(t, err)
	assert.Equal(t, int32(1), fake.genres.Load())
}

func TestSearchEmptyQuerySendsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockHTTPClient(ctrl)

	c, err := New("https://api.themoviedb.org", client)
	require.NoError(t, err)

	page, err := c.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.NotNil(t, page.Results)
}

func TestSearchDetailed(t *testing.T) {
	c, _ := newTestClient(t)

	page, err := c.SearchDetailed(context.Background(), "matrix")
	require.NoError(t, err)
	require.Len(t, page.Results, 2)

	assert.Equal(t, 136, page.Results[0].RuntimeMinutes())
	assert.Equal(t, 80.1, page.Results[0].PopularityScore())

	// the failed detail lookup falls back to the search record
	assert.Equal(t, "The Matrix Reloaded", page.Results[1].Title)
	assert.Nil(t, page.Results[1].Runtime)
}

func TestDetails(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestClient(t)

	m, err := c.Details(ctx, 603)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", m.Title)
	assert.Equal(t, 136, m.RuntimeMinutes())
	assert.Equal(t, 1999, m.Year())

	_, err = c.Details(ctx, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Details(ctx, 604)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)

	_, err = c.Details(ctx, 0)
	assert.ErrorIs(t, err, movie.ErrInvalidMovie)
}

func TestDiscover(t *testing.T) {
	c, _ := newTestClient(t)

	page, err := c.Discover(context.Background())
	require.NoError(t, err)
	assert.Len(t, page.Results, 2)
}

func TestGenres(t *testing.T) {
	ctx := context.Background()
	c, fake := newTestClient(t)

	genres, err := c.Genres(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int]string{28: "Action", 878: "Science Fiction", 18: "Drama"}, genres)

	genres[28] = "changed"
	again, err := c.Genres(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Action", again[28])
	assert.Equal(t, int32(1), fake.genres.Load())
}

func TestTransportFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockHTTPClient(ctrl)
	client.EXPECT().Do(gomock.Any()).Return(nil, errors.New("dial tcp: connection refused"))

	c, err := New("https://api.themoviedb.org", client)
	require.NoError(t, err)

	_, err = c.Discover(context.Background())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "connection refused"))
}

func TestMerge(t *testing.T) {
	list := movie.Movie{ID: 1, Title: "A", Popularity: movie.Ptr(3.0), PosterPath: "/a.jpg", Genres: []movie.Genre{{ID: 1, Name: "Drama"}}}
	det := movie.Movie{ID: 1, Runtime: movie.Ptr(90)}

	got := merge(list, det)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, 90, got.RuntimeMinutes())
	assert.Equal(t, 3.0, got.PopularityScore())
	assert.Equal(t, "/a.jpg", got.PosterPath)
	assert.Equal(t, []movie.Genre{{ID: 1, Name: "Drama"}}, got.Genres)
}
