package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/kasuboski/reelbox/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initSqlite(t *testing.T, ctx context.Context) *SQLite {
	store, err := New(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestInit(t *testing.T) {
	store := initSqlite(t, context.Background())
	assert.NotNil(t, store)

	version, dirty, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func TestCollectionStorage(t *testing.T) {
	ctx := context.Background()
	store := initSqlite(t, ctx)

	_, err := store.Get(ctx, "favorites")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	names, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	err = store.Put(ctx,
		storage.Entry{Name: "watchedMovies", Value: []byte(`[{"id":603}]`)},
		storage.Entry{Name: "watchlist", Value: []byte(`[]`)},
	)
	require.NoError(t, err)

	got, err := store.Get(ctx, "watchedMovies")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":603}]`, string(got))

	err = store.Put(ctx, storage.Entry{Name: "watchedMovies", Value: []byte(`[]`)})
	require.NoError(t, err)

	got, err = store.Get(ctx, "watchedMovies")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	names, err = store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"watchedMovies", "watchlist"}, names)

	require.NoError(t, store.Delete(ctx, "watchlist"))
	require.NoError(t, store.Delete(ctx, "watchlist"))
	_, err = store.Get(ctx, "watchlist")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReopenKeepsValues(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reelbox.sqlite")

	store, err := New(ctx, path)
	require.NoError(t, err)
	require.NoError(t, storage.Save(ctx, store, "movieRatings", map[string]int{"1": 9}))
	require.NoError(t, store.Close())

	store, err = New(ctx, path)
	require.NoError(t, err)
	defer store.Close()

	ratings := storage.Load(ctx, store, "movieRatings", map[string]int{})
	assert.Equal(t, map[string]int{"1": 9}, ratings)

	version, _, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
}
