package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kerbaras/bookshelf/pkg/sources"
)

// SearchOnce drives a fresh SearchController to the given 1-based page and
// runs only the final fetch. Empty results return ErrNoResults; a failed
// request returns the collaborator error.
func SearchOnce(ctx context.Context, source sources.Source, text string, sort sources.SortOption, page int, logger *slog.Logger) (SearchState, error) {
	search := NewSearchController(ctx, source, logger)
	search.SetSort(sort)
	search.SetQuery(text)

	f, err := search.Submit()
	if err != nil {
		return search.State(), err
	}
	for i := 1; i < page; i++ {
		if next := search.Paginate(Next); next != nil {
			f = next
		}
	}

	res := f.Run()
	search.Apply(res)

	state := search.State()
	switch state.Status {
	case StatusError:
		return state, fmt.Errorf("search %q: %w", state.Query, res.Err)
	case StatusEmpty:
		return state, ErrNoResults
	}
	return state, nil
}
