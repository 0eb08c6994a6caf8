package sources

import (
	"context"
	"errors"

	"github.com/kerbaras/bookshelf/pkg/data"
)

// ErrNetwork covers every transport or protocol failure talking to a
// catalog. Callers do not distinguish status codes.
var ErrNetwork = errors.New("catalog request failed")

type SortOption string

const (
	SortRelevance SortOption = "relevance"
	SortNewest    SortOption = "newest"
)

func ParseSortOption(s string) (SortOption, bool) {
	switch SortOption(s) {
	case SortRelevance:
		return SortRelevance, true
	case SortNewest:
		return SortNewest, true
	}
	return "", false
}

type Query struct {
	Text   string
	Sort   SortOption
	Offset int
	Limit  int
}

type Page struct {
	Books      []data.Book
	TotalItems int
}

type Source interface {
	Search(ctx context.Context, q Query) (Page, error)
}
