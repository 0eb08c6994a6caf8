package services

import "github.com/kerbaras/bookshelf/pkg/data"

const DefaultRecentLimit = 20

// RecentlyViewed is most-recent-first, unique by book ID and capped at limit.
type RecentlyViewed struct {
	books []data.Book
	limit int
}

func NewRecentlyViewed(limit int) *RecentlyViewed {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return &RecentlyViewed{limit: limit}
}

func (r *RecentlyViewed) RecordView(book data.Book) {
	out := make([]data.Book, 0, min(len(r.books)+1, r.limit))
	out = append(out, book)
	for _, b := range r.books {
		if len(out) == r.limit {
			break
		}
		if b.ID != book.ID {
			out = append(out, b)
		}
	}
	r.books = out
}

func (r *RecentlyViewed) Books() []data.Book {
	return append([]data.Book(nil), r.books...)
}

func (r *RecentlyViewed) Len() int {
	return len(r.books)
}
