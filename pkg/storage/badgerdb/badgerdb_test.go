package badgerdb

import (
	"context"
	"testing"

	"github.com/kasuboski/reelbox/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initBadger(t *testing.T) *Store {
	s, err := OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := initBadger(t)

	_, err := s.Get(ctx, "watchlist")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = s.Put(ctx,
		storage.Entry{Name: "watchedMovies", Value: []byte(`[{"id":1}]`)},
		storage.Entry{Name: "watchlist", Value: []byte(`[]`)},
	)
	require.NoError(t, err)

	got, err := s.Get(ctx, "watchedMovies")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(got))

	require.NoError(t, s.Put(ctx, storage.Entry{Name: "watchedMovies", Value: []byte(`[]`)}))
	got, err = s.Get(ctx, "watchedMovies")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	names, err := s.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"watchedMovies", "watchlist"}, names)

	require.NoError(t, s.Delete(ctx, "watchlist"))
	_, err = s.Get(ctx, "watchlist")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestOpenOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, storage.Save(ctx, s, "theme", "dark"))
	require.NoError(t, s.Close())

	s, err = Open(dir)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "dark", storage.Load(ctx, s, "theme", "light"))
}
