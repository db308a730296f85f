package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/kasuboski/reelbox/pkg/movie"
	"github.com/kasuboski/reelbox/pkg/storage"
	"github.com/kasuboski/reelbox/pkg/storage/memory"
	"github.com/kasuboski/reelbox/pkg/storage/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	matrix = movie.Movie{
		ID:          603,
		Title:       "The Matrix",
		ReleaseDate: "1999-03-30",
		Runtime:     movie.Ptr(136),
		Genres:      []movie.Genre{{ID: 28, Name: "Action"}, {ID: 878, Name: "Science Fiction"}},
	}
	fightClub = movie.Movie{ID: 550, Title: "Fight Club", Runtime: movie.Ptr(139)}
)

func newManager(t *testing.T) (*Manager, *memory.Store) {
	t.Helper()
	store := memory.New()
	return New(context.Background(), store), store
}

// emptyStore expects the reads New performs against an empty backend.
func emptyStore(ctrl *gomock.Controller) *mocks.MockStore {
	store := mocks.NewMockStore(ctrl)
	store.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, storage.ErrNotFound).Times(5)
	return store
}

func TestToggleFavorite(t *testing.T) {
	ctx := context.Background()
	m, store := newManager(t)

	c, err := m.ToggleFavorite(ctx, matrix)
	require.NoError(t, err)
	assert.Equal(t, ActionAdded, c.Action)
	assert.True(t, c.Member)
	assert.Equal(t, KindSuccess, c.Notification.Kind)
	assert.Contains(t, c.Notification.Message, "The Matrix")
	assert.True(t, m.IsFavorite(matrix.ID))

	stored, err := storage.Lookup[[]movie.Movie](ctx, store, string(Favorites))
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, matrix, stored[0])

	c, err = m.ToggleFavorite(ctx, matrix)
	require.NoError(t, err)
	assert.Equal(t, ActionRemoved, c.Action)
	assert.False(t, c.Member)
	assert.Equal(t, KindInfo, c.Notification.Kind)
	assert.False(t, m.IsFavorite(matrix.ID))

	stored, err = storage.Lookup[[]movie.Movie](ctx, store, string(Favorites))
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestToggleFavoritePairIsIdempotent(t *testing.T) {
	ctx := context.Background()
	records := []movie.Movie{matrix, fightClub, {ID: 1}, {ID: 42, Title: "no genres"}}

	for _, rec := range records {
		m, _ := newManager(t)
		_, err := m.ToggleFavorite(ctx, fightClub)
		require.NoError(t, err)

		before := m.IsFavorite(rec.ID)
		_, err = m.ToggleFavorite(ctx, rec)
		require.NoError(t, err)
		_, err = m.ToggleFavorite(ctx, rec)
		require.NoError(t, err)
		assert.Equal(t, before, m.IsFavorite(rec.ID), "movie %d", rec.ID)
	}
}

func TestToggleFavoriteKeepsInsertionOrderAndCopies(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	rec := matrix.Clone()
	_, err := m.ToggleFavorite(ctx, rec)
	require.NoError(t, err)
	_, err = m.ToggleFavorite(ctx, fightClub)
	require.NoError(t, err)

	rec.Genres[0].Name = "changed"
	*rec.Runtime = 1

	got := m.Favorites()
	require.Len(t, got, 2)
	assert.Equal(t, []int{603, 550}, []int{got[0].ID, got[1].ID})
	assert.Equal(t, "Action", got[0].Genres[0].Name)
	assert.Equal(t, 136, got[0].RuntimeMinutes())

	got[0].Title = "mutated"
	assert.Equal(t, "The Matrix", m.Favorites()[0].Title)
}

func TestInvalidRecordIsRejected(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	_, err := m.ToggleFavorite(ctx, movie.Movie{Title: "no id"})
	assert.ErrorIs(t, err, movie.ErrInvalidMovie)

	_, err = m.RateMovie(ctx, 0, 5)
	assert.ErrorIs(t, err, movie.ErrInvalidMovie)
	assert.Empty(t, m.Favorites())
}

func TestToggleWatchedRemovesFromWatchlist(t *testing.T) {
	ctx := context.Background()
	m, store := newManager(t)

	_, err := m.AddToWatchlist(ctx, matrix)
	require.NoError(t, err)
	require.True(t, m.IsInWatchlist(matrix.ID))

	c, err := m.ToggleWatched(ctx, matrix)
	require.NoError(t, err)
	assert.Equal(t, ActionAdded, c.Action)
	assert.True(t, m.IsWatched(matrix.ID))
	assert.False(t, m.IsInWatchlist(matrix.ID))
	require.Len(t, c.Also, 1)
	assert.Equal(t, Watchlist, c.Also[0].Collection)
	assert.Equal(t, ActionRemoved, c.Also[0].Action)
	assert.Contains(t, c.Notification.Message, "removed from your watchlist")

	watchlist, err := storage.Lookup[[]movie.Movie](ctx, store, string(Watchlist))
	require.NoError(t, err)
	assert.Empty(t, watchlist)

	c, err = m.ToggleWatched(ctx, matrix)
	require.NoError(t, err)
	assert.Equal(t, ActionRemoved, c.Action)
	assert.False(t, m.IsWatched(matrix.ID))
	assert.False(t, m.IsInWatchlist(matrix.ID))
}

func TestToggleWatchedWritesBothCollectionsAtOnce(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := emptyStore(ctrl)

	m := New(ctx, store)

	gomock.InOrder(
		store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil),
		store.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, entries ...storage.Entry) error {
				require.Len(t, entries, 2)
				assert.Equal(t, string(Watched), entries[0].Name)
				assert.Equal(t, string(Watchlist), entries[1].Name)
				assert.JSONEq(t, `[]`, string(entries[1].Value))
				return nil
			}),
	)

	_, err := m.AddToWatchlist(ctx, matrix)
	require.NoError(t, err)
	_, err = m.ToggleWatched(ctx, matrix)
	require.NoError(t, err)
}

func TestAddToWatchlistRefusesWatchedMovie(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := emptyStore(ctrl)
	m := New(ctx, store)

	// only the watched write is expected; a refused add must not touch the store
	store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	_, err := m.ToggleWatched(ctx, matrix)
	require.NoError(t, err)

	c, err := m.AddToWatchlist(ctx, matrix)
	require.NoError(t, err)
	assert.Equal(t, ActionRefused, c.Action)
	assert.False(t, c.Member)
	assert.Equal(t, KindInfo, c.Notification.Kind)
	assert.Contains(t, c.Notification.Message, "already watched")
	assert.False(t, m.IsInWatchlist(matrix.ID))
	assert.Equal(t, ProgressWatched, m.Membership(matrix.ID).Progress)

	c, err = m.ToggleWatchlist(ctx, matrix)
	require.NoError(t, err)
	assert.Equal(t, ActionRefused, c.Action)
}

func TestWatchlistOperations(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	c, err := m.AddToWatchlist(ctx, matrix)
	require.NoError(t, err)
	assert.Equal(t, ActionAdded, c.Action)
	assert.Equal(t, KindSuccess, c.Notification.Kind)
	assert.Equal(t, ProgressQueued, m.Membership(matrix.ID).Progress)

	c, err = m.AddToWatchlist(ctx, matrix)
	require.NoError(t, err)
	assert.Equal(t, ActionUnchanged, c.Action)
	assert.True(t, c.Member)
	assert.Len(t, m.Watchlist(), 1)

	c, err = m.ToggleWatchlist(ctx, matrix)
	require.NoError(t, err)
	assert.Equal(t, ActionRemoved, c.Action)
	assert.False(t, m.IsInWatchlist(matrix.ID))

	c, err = m.ToggleWatchlist(ctx, fightClub)
	require.NoError(t, err)
	assert.Equal(t, ActionAdded, c.Action)

	c, err = m.RemoveFromWatchlist(ctx, movie.Movie{ID: fightClub.ID})
	require.NoError(t, err)
	assert.Equal(t, ActionRemoved, c.Action)
	assert.Equal(t, "Fight Club", c.Title)

	c, err = m.RemoveFromWatchlist(ctx, fightClub)
	require.NoError(t, err)
	assert.Equal(t, ActionUnchanged, c.Action)
	assert.Equal(t, ProgressNone, m.Membership(fightClub.ID).Progress)
}

func TestRateMovie(t *testing.T) {
	ctx := context.Background()
	m, store := newManager(t)

	c, err := m.RateMovie(ctx, 603, 8)
	require.NoError(t, err)
	assert.Equal(t, ActionRated, c.Action)
	assert.Equal(t, 8, m.Rating(603))

	stored, err := storage.Lookup[map[string]int](ctx, store, string(Ratings))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"603": 8}, stored)

	for _, invalid := range []int{11, -1, 100} {
		c, err = m.RateMovie(ctx, 603, invalid)
		require.NoError(t, err)
		assert.Equal(t, ActionIgnored, c.Action)
		assert.True(t, c.Notification.Empty())
		assert.Equal(t, 8, m.Rating(603))
	}

	c, err = m.RateMovie(ctx, 603, 0)
	require.NoError(t, err)
	assert.Equal(t, ActionUnrated, c.Action)
	assert.Equal(t, 0, m.Rating(603))
	_, ok := m.Ratings()[603]
	assert.False(t, ok)

	stored, err = storage.Lookup[map[string]int](ctx, store, string(Ratings))
	require.NoError(t, err)
	assert.Empty(t, stored)

	c, err = m.RateMovie(ctx, 603, 0)
	require.NoError(t, err)
	assert.Equal(t, ActionUnchanged, c.Action)
}

func TestRateThenClearForAnyRating(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	for r := MinRating; r <= MaxRating; r++ {
		_, err := m.RateMovie(ctx, 7, r)
		require.NoError(t, err)
		assert.Equal(t, r, m.Rating(7))

		_, err = m.RateMovie(ctx, 7, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, m.Rating(7))
	}
}

func TestFailedWriteLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := emptyStore(ctrl)
	m := New(ctx, store)

	store.EXPECT().Put(gomock.Any(), gomock.Any()).Return(errors.New("disk full")).Times(2)

	var seen []Change
	m.Subscribe(func(c Change) { seen = append(seen, c) })

	_, err := m.ToggleFavorite(ctx, matrix)
	require.Error(t, err)
	assert.False(t, m.IsFavorite(matrix.ID))

	_, err = m.RateMovie(ctx, matrix.ID, 9)
	require.Error(t, err)
	assert.Equal(t, 0, m.Rating(matrix.ID))

	assert.Empty(t, seen)
}

func TestTheme(t *testing.T) {
	ctx := context.Background()
	m, store := newManager(t)
	assert.Equal(t, ThemeLight, m.Theme())

	c, err := m.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, ActionChanged, c.Action)
	assert.Equal(t, ThemeDark, m.Theme())

	raw, err := store.Get(ctx, string(Theme))
	require.NoError(t, err)
	assert.Equal(t, `"dark"`, string(raw))

	c, err = m.SetTheme(ctx, ThemeDark)
	require.NoError(t, err)
	assert.Equal(t, ActionUnchanged, c.Action)

	_, err = m.SetTheme(ctx, "blue")
	assert.ErrorIs(t, err, ErrInvalidTheme)
	assert.Equal(t, ThemeDark, m.Theme())

	assert.Equal(t, ThemeDark, New(ctx, store).Theme())
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	var order []string
	cancelFirst := m.Subscribe(func(c Change) {
		order = append(order, "first:"+string(c.Action))
	})
	m.Subscribe(func(c Change) {
		// subscribers run outside the lock and may read back
		order = append(order, "second:"+string(c.Action))
		assert.Equal(t, c.Member, m.IsFavorite(c.MovieID))
	})

	_, err := m.ToggleFavorite(ctx, matrix)
	require.NoError(t, err)
	assert.Equal(t, []string{"first:added", "second:added"}, order)

	cancelFirst()
	cancelFirst()

	_, err = m.ToggleFavorite(ctx, matrix)
	require.NoError(t, err)
	assert.Equal(t, []string{"first:added", "second:added", "second:removed"}, order)
}

func TestMembershipAndLookup(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	_, err := m.ToggleFavorite(ctx, matrix)
	require.NoError(t, err)
	_, err = m.ToggleWatched(ctx, matrix)
	require.NoError(t, err)
	_, err = m.RateMovie(ctx, matrix.ID, 9)
	require.NoError(t, err)

	assert.Equal(t, Membership{MovieID: 603, Favorite: true, Watched: true, Rating: 9, Progress: ProgressWatched}, m.Membership(603))

	got, ok := m.Lookup(603)
	require.True(t, ok)
	assert.Equal(t, "The Matrix", got.Title)

	_, ok = m.Lookup(1)
	assert.False(t, ok)

	assert.Equal(t, map[Name]int{Favorites: 1, Watched: 1, Watchlist: 0, Ratings: 1}, m.Sizes())
}

func TestFavoriteRateWatchUnfavorite(t *testing.T) {
	ctx := context.Background()
	m, store := newManager(t)
	a := movie.Movie{ID: 1, Title: "A"}

	_, err := m.ToggleFavorite(ctx, a)
	require.NoError(t, err)
	_, err = m.RateMovie(ctx, a.ID, 9)
	require.NoError(t, err)
	_, err = m.ToggleWatched(ctx, a)
	require.NoError(t, err)
	_, err = m.ToggleFavorite(ctx, a)
	require.NoError(t, err)

	check := func(m *Manager) {
		assert.Empty(t, m.Favorites())
		require.Len(t, m.Watched(), 1)
		assert.Equal(t, 1, m.Watched()[0].ID)
		assert.Equal(t, 9, m.Rating(1))
	}
	check(m)
	check(New(ctx, store))
}

func TestSnapshotIsIsolated(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t)

	_, err := m.ToggleWatched(ctx, matrix)
	require.NoError(t, err)
	_, err = m.RateMovie(ctx, matrix.ID, 7)
	require.NoError(t, err)

	snap := m.Snapshot()
	snap.Ratings()[matrix.ID] = 1
	snap.Watched()[0].Genres[0].Name = "changed"

	assert.Equal(t, 7, m.Rating(matrix.ID))
	assert.Equal(t, "Action", m.Watched()[0].Genres[0].Name)

	_, err = m.ToggleFavorite(ctx, fightClub)
	require.NoError(t, err)
	assert.Empty(t, snap.Favorites())
	assert.Equal(t, 7, m.Snapshot().Rating(matrix.ID))
}
