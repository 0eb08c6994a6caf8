package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/kerbaras/bookshelf/pkg/data"
)

// FavoritesKey is the store key holding the JSON-encoded favorites list.
const FavoritesKey = "favorites"

type FavoritesOptions struct {
	// Dedupe skips books whose ID is already a favorite. Off by default:
	// the same book can be favorited more than once.
	Dedupe bool
	Logger *slog.Logger
}

// Favorites is an append-only list mirrored to a Store after every Add.
type Favorites struct {
	store  data.Store
	books  []data.Book
	dedupe bool
	logger *slog.Logger
}

// LoadFavorites reads the persisted list once. A missing, unreadable or
// malformed entry yields an empty list rather than an error.
func LoadFavorites(ctx context.Context, store data.Store, opts FavoritesOptions) *Favorites {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	f := &Favorites{store: store, dedupe: opts.Dedupe, logger: logger}

	raw, ok, err := store.Get(ctx, FavoritesKey)
	if err != nil {
		logger.Warn("favorites unreadable, starting empty", slog.String("error", err.Error()))
		return f
	}
	if !ok || raw == "" {
		return f
	}

	var books []data.Book
	if err := json.Unmarshal([]byte(raw), &books); err != nil {
		logger.Warn("favorites malformed, starting empty", slog.String("error", err.Error()))
		return f
	}
	f.books = books

	logger.Debug("favorites loaded", slog.Int("count", len(books)))
	return f
}

func (f *Favorites) Books() []data.Book {
	return append([]data.Book(nil), f.books...)
}

func (f *Favorites) Len() int {
	return len(f.books)
}

func (f *Favorites) Contains(id string) bool {
	for _, b := range f.books {
		if b.ID == id {
			return true
		}
	}
	return false
}

// Add appends book and writes the whole list. On a failed write the append
// is undone so memory never runs ahead of the store.
func (f *Favorites) Add(ctx context.Context, book data.Book) error {
	if f.dedupe && f.Contains(book.ID) {
		return nil
	}

	prev := f.books
	next := make([]data.Book, len(prev), len(prev)+1)
	copy(next, prev)
	next = append(next, book)

	raw, err := json.Marshal(next)
	if err != nil {
		return &PersistenceError{Key: FavoritesKey, Err: err}
	}
	if err := f.store.Set(ctx, FavoritesKey, string(raw)); err != nil {
		f.logger.Error("favorites write failed",
			slog.String("book_id", book.ID),
			slog.String("error", err.Error()),
		)
		return &PersistenceError{Key: FavoritesKey, Err: err}
	}

	f.books = next
	return nil
}
