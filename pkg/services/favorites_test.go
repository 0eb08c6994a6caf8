package services

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLoadFavoritesMissingKey(t *testing.T) {
	store := new(mockStore)
	store.On("Get", mock.Anything, FavoritesKey).Return("", false, nil)

	f := LoadFavorites(context.Background(), store, FavoritesOptions{})

	assert.Empty(t, f.Books())
	store.AssertExpectations(t)
}

func TestLoadFavoritesMalformed(t *testing.T) {
	for _, raw := range []string{"{not json", `{"id":"a"}`, `"favorites"`, ""} {
		store := new(mockStore)
		store.On("Get", mock.Anything, FavoritesKey).Return(raw, true, nil)

		f := LoadFavorites(context.Background(), store, FavoritesOptions{})
		assert.Empty(t, f.Books(), "raw=%q", raw)
	}
}

func TestLoadFavoritesStoreError(t *testing.T) {
	store := new(mockStore)
	store.On("Get", mock.Anything, FavoritesKey).Return("", false, errors.New("disk on fire"))

	f := LoadFavorites(context.Background(), store, FavoritesOptions{})
	assert.Empty(t, f.Books())
}

func TestLoadFavoritesDecodesList(t *testing.T) {
	raw, err := json.Marshal([]data.Book{book("a"), book("b")})
	require.NoError(t, err)

	store := new(mockStore)
	store.On("Get", mock.Anything, FavoritesKey).Return(string(raw), true, nil)

	f := LoadFavorites(context.Background(), store, FavoritesOptions{})
	assert.Equal(t, []string{"a", "b"}, bookIDs(f.Books()))
}

func TestLoadFavoritesReadsOriginalFormat(t *testing.T) {
	raw := `[{"id":"zyTCAlFPjgYC","volumeInfo":{"title":"The Google Story","authors":["David A. Vise","Mark Malseed"]}}]`
	store := newMemStore()
	store.values[FavoritesKey] = raw

	f := LoadFavorites(context.Background(), store, FavoritesOptions{})

	require.Equal(t, 1, f.Len())
	assert.Equal(t, "The Google Story", f.Books()[0].Title())
}

func TestFavoritesAddPersistsWholeList(t *testing.T) {
	store := new(mockStore)
	store.On("Get", mock.Anything, FavoritesKey).Return("", false, nil)
	store.On("Set", mock.Anything, FavoritesKey, mock.MatchedBy(func(v string) bool {
		var got []data.Book
		if err := json.Unmarshal([]byte(v), &got); err != nil {
			return false
		}
		return len(got) == 1 && got[0].ID == "a"
	})).Return(nil).Once()

	f := LoadFavorites(context.Background(), store, FavoritesOptions{})
	require.NoError(t, f.Add(context.Background(), book("a")))

	assert.Equal(t, []string{"a"}, bookIDs(f.Books()))
	store.AssertExpectations(t)
}

func TestFavoritesAddAllowsDuplicates(t *testing.T) {
	f := LoadFavorites(context.Background(), newMemStore(), FavoritesOptions{})

	require.NoError(t, f.Add(context.Background(), book("a")))
	require.NoError(t, f.Add(context.Background(), book("a")))

	assert.Equal(t, []string{"a", "a"}, bookIDs(f.Books()))
}

func TestFavoritesAddDedupe(t *testing.T) {
	f := LoadFavorites(context.Background(), newMemStore(), FavoritesOptions{Dedupe: true})

	require.NoError(t, f.Add(context.Background(), book("a")))
	require.NoError(t, f.Add(context.Background(), book("b")))
	require.NoError(t, f.Add(context.Background(), book("a")))

	assert.Equal(t, []string{"a", "b"}, bookIDs(f.Books()))
}

func TestFavoritesAddWriteFailure(t *testing.T) {
	store := newMemStore()
	f := LoadFavorites(context.Background(), store, FavoritesOptions{})
	require.NoError(t, f.Add(context.Background(), book("a")))

	store.setErr = errors.New("read-only")
	err := f.Add(context.Background(), book("b"))

	var perr *PersistenceError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, FavoritesKey, perr.Key)
	assert.EqualError(t, errors.Unwrap(err), "read-only")

	// Memory still matches what the store holds.
	assert.Equal(t, []string{"a"}, bookIDs(f.Books()))
}

func TestFavoritesAppendOrderSurvivesReload(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "shelf.db")
	ctx := context.Background()

	store, err := data.NewDuckDBStore(dbPath)
	require.NoError(t, err)

	f := LoadFavorites(ctx, store, FavoritesOptions{})
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, f.Add(ctx, book(id)))
	}
	require.NoError(t, store.Close())

	reopened, err := data.NewDuckDBStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	again := LoadFavorites(ctx, reopened, FavoritesOptions{})
	got := again.Books()
	assert.Equal(t, []string{"a", "b", "c"}, bookIDs(got))
	assert.Equal(t, "c", got[len(got)-1].ID)
}

func TestFavoritesContains(t *testing.T) {
	f := LoadFavorites(context.Background(), newMemStore(), FavoritesOptions{})
	require.NoError(t, f.Add(context.Background(), book("a")))

	assert.True(t, f.Contains("a"))
	assert.False(t, f.Contains("b"))
}
