package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kerbaras/bookshelf/pkg/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSearch(src *mockSource) *SearchController {
	return NewSearchController(context.Background(), src, nil)
}

// run executes the fetch and applies it, as the UI loop would.
func run(t *testing.T, c *SearchController, f *Fetch) {
	t.Helper()
	require.NotNil(t, f, "expected a fetch to be issued")
	c.Apply(f.Run())
}

func TestSearchInitialState(t *testing.T) {
	c := newTestSearch(&mockSource{})
	s := c.State()

	assert.Equal(t, StatusIdle, s.Status)
	assert.Equal(t, sources.SortRelevance, s.Sort)
	assert.Equal(t, 0, s.Offset)
	assert.Empty(t, s.Page)
	assert.Equal(t, 1, s.PageNumber())
}

func TestSearchSuccess(t *testing.T) {
	src := &mockSource{searchFunc: pageOf(2)}
	c := newTestSearch(src)

	c.SetQuery("dune")
	f, err := c.Submit()
	require.NoError(t, err)
	assert.Equal(t, StatusLoading, c.State().Status)

	run(t, c, f)

	s := c.State()
	assert.Equal(t, StatusSuccess, s.Status)
	assert.Len(t, s.Page, 2)
	assert.Empty(t, s.Message)
	assert.Equal(t, 100, s.TotalItems)

	last := src.Calls()[len(src.Calls())-1]
	assert.Equal(t, sources.Query{Text: "dune", Sort: sources.SortRelevance, Offset: 0, Limit: PageSize}, last)
}

func TestSearchEmptyResult(t *testing.T) {
	c := newTestSearch(&mockSource{searchFunc: pageOf(0)})

	run(t, c, c.SetQuery("zzzzznoresults"))

	s := c.State()
	assert.Equal(t, StatusEmpty, s.Status)
	assert.Empty(t, s.Page)
	assert.Equal(t, MsgNoResults, s.Message)
}

func TestSearchNetworkFailureClearsPreviousPage(t *testing.T) {
	fail := false
	src := &mockSource{searchFunc: func(ctx context.Context, q sources.Query) (sources.Page, error) {
		if fail {
			return sources.Page{}, fmt.Errorf("%w: connection reset", sources.ErrNetwork)
		}
		return pageOf(3)(ctx, q)
	}}
	c := newTestSearch(src)

	run(t, c, c.SetQuery("dune"))
	require.Len(t, c.State().Page, 3)

	fail = true
	f, err := c.Submit()
	require.NoError(t, err)
	run(t, c, f)

	s := c.State()
	assert.Equal(t, StatusError, s.Status)
	assert.Empty(t, s.Page)
	assert.Equal(t, MsgNetwork, s.Message)
	assert.Zero(t, s.TotalItems)
}

func TestSearchTimeoutIsNetworkFailure(t *testing.T) {
	src := &mockSource{searchFunc: func(ctx context.Context, q sources.Query) (sources.Page, error) {
		return sources.Page{}, context.DeadlineExceeded
	}}
	c := newTestSearch(src)

	run(t, c, c.SetQuery("dune"))

	assert.Equal(t, StatusError, c.State().Status)
	assert.Equal(t, MsgNetwork, c.State().Message)
}

func TestSearchSubmitEmptyQuery(t *testing.T) {
	for _, q := range []string{"", "   "} {
		src := &mockSource{searchFunc: pageOf(1)}
		c := newTestSearch(src)
		c.SetQuery(q)

		f, err := c.Submit()

		assert.Nil(t, f)
		assert.ErrorIs(t, err, ErrEmptyQuery)
		assert.Empty(t, src.Calls(), "no collaborator call expected")

		s := c.State()
		assert.Equal(t, StatusError, s.Status)
		assert.Equal(t, MsgEmptyQuery, s.Message)
		assert.Empty(t, s.Page)
	}
}

func TestSearchSubmitResetsOffset(t *testing.T) {
	src := &mockSource{searchFunc: pageOf(10)}
	c := newTestSearch(src)

	run(t, c, c.SetQuery("dune"))
	run(t, c, c.Paginate(Next))
	run(t, c, c.Paginate(Next))
	require.Equal(t, 20, c.State().Offset)

	f, err := c.Submit()
	require.NoError(t, err)
	assert.Equal(t, 0, f.Query.Offset)
	assert.Equal(t, 0, c.State().Offset)
}

func TestSearchSubmitFetchesEvenWhenUnchanged(t *testing.T) {
	src := &mockSource{searchFunc: pageOf(1)}
	c := newTestSearch(src)

	run(t, c, c.SetQuery("dune"))
	f, err := c.Submit()
	require.NoError(t, err)
	run(t, c, f)

	assert.Len(t, src.Calls(), 2)
}

func TestSearchSubmitTrimsQuery(t *testing.T) {
	c := newTestSearch(&mockSource{})
	c.SetQuery("  dune  ")

	f, err := c.Submit()
	require.NoError(t, err)
	assert.Equal(t, "dune", f.Query.Text)
}

func TestSearchPaginateNext(t *testing.T) {
	c := newTestSearch(&mockSource{searchFunc: pageOf(10)})
	run(t, c, c.SetQuery("dune"))

	for want := PageSize; want <= 5*PageSize; want += PageSize {
		f := c.Paginate(Next)
		require.NotNil(t, f)
		assert.Equal(t, want, f.Query.Offset)
		assert.Equal(t, want, c.State().Offset)
		run(t, c, f)
	}
	assert.Equal(t, 6, c.State().PageNumber())
}

func TestSearchPaginatePrevious(t *testing.T) {
	c := newTestSearch(&mockSource{searchFunc: pageOf(10)})
	run(t, c, c.SetQuery("dune"))
	run(t, c, c.Paginate(Next))
	run(t, c, c.Paginate(Next))

	f := c.Paginate(Previous)
	require.NotNil(t, f)
	assert.Equal(t, PageSize, f.Query.Offset)
	assert.Equal(t, PageSize, c.State().Offset)
}

func TestSearchPaginatePreviousAtFirstPageIsNoop(t *testing.T) {
	src := &mockSource{searchFunc: pageOf(4)}
	c := newTestSearch(src)
	run(t, c, c.SetQuery("dune"))

	before := c.State()
	calls := len(src.Calls())

	f := c.Paginate(Previous)

	assert.Nil(t, f)
	assert.Equal(t, before, c.State())
	assert.Len(t, src.Calls(), calls)
}

func TestSearchPaginateWithoutQuery(t *testing.T) {
	src := &mockSource{}
	c := newTestSearch(src)

	f := c.Paginate(Next)

	assert.Nil(t, f)
	assert.Equal(t, PageSize, c.State().Offset)
	assert.Empty(t, src.Calls())
}

func TestSearchSetQueryResetsOffset(t *testing.T) {
	c := newTestSearch(&mockSource{searchFunc: pageOf(10)})
	run(t, c, c.SetQuery("dune"))
	run(t, c, c.Paginate(Next))

	f := c.SetQuery("foundation")
	require.NotNil(t, f)
	assert.Equal(t, 0, f.Query.Offset)
	assert.Equal(t, "foundation", f.Query.Text)
}

func TestSearchSetSortResetsOffset(t *testing.T) {
	c := newTestSearch(&mockSource{searchFunc: pageOf(10)})
	run(t, c, c.SetQuery("dune"))
	run(t, c, c.Paginate(Next))

	f := c.SetSort(sources.SortNewest)
	require.NotNil(t, f)
	assert.Equal(t, 0, f.Query.Offset)
	assert.Equal(t, sources.SortNewest, f.Query.Sort)
	assert.Equal(t, sources.SortNewest, c.State().Sort)
}

func TestSearchUnchangedTupleDoesNotFetch(t *testing.T) {
	src := &mockSource{searchFunc: pageOf(1)}
	c := newTestSearch(src)
	run(t, c, c.SetQuery("dune"))

	assert.Nil(t, c.SetQuery("dune"))
	assert.Nil(t, c.SetSort(sources.SortRelevance))
	assert.Len(t, src.Calls(), 1)
}

func TestSearchSetSortOnLaterPageRefetches(t *testing.T) {
	src := &mockSource{searchFunc: pageOf(10)}
	c := newTestSearch(src)
	run(t, c, c.SetQuery("dune"))
	run(t, c, c.Paginate(Next))

	// Same sort, but the offset goes back to 0.
	f := c.SetSort(sources.SortRelevance)
	require.NotNil(t, f)
	assert.Equal(t, 0, f.Query.Offset)
}

func TestSearchClearingQueryReturnsToIdle(t *testing.T) {
	c := newTestSearch(&mockSource{searchFunc: pageOf(3)})
	run(t, c, c.SetQuery("dune"))

	assert.Nil(t, c.SetQuery(""))

	s := c.State()
	assert.Equal(t, StatusIdle, s.Status)
	assert.Empty(t, s.Page)
	assert.Empty(t, s.Message)
}

func TestSearchStatusReturnsToLoading(t *testing.T) {
	c := newTestSearch(&mockSource{searchFunc: pageOf(0)})
	run(t, c, c.SetQuery("dune"))
	require.Equal(t, StatusEmpty, c.State().Status)

	c.SetSort(sources.SortNewest)
	assert.Equal(t, StatusLoading, c.State().Status)
}

func TestSearchOutOfOrderResponses(t *testing.T) {
	c := newTestSearch(&mockSource{searchFunc: pageOf(10)})

	first := c.SetQuery("dune")
	second := c.Paginate(Next)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Greater(t, second.Token, first.Token)

	// offset 10 lands first, offset 0 arrives late.
	assert.True(t, c.Apply(second.Run()))
	assert.False(t, c.Apply(first.Run()))

	s := c.State()
	assert.Equal(t, StatusSuccess, s.Status)
	assert.Equal(t, PageSize, s.Offset)
	assert.Equal(t, "dune@10-0", s.Page[0].ID)
}

func TestSearchStaleResponseAfterNewerApplied(t *testing.T) {
	c := newTestSearch(&mockSource{searchFunc: pageOf(10)})

	first := c.SetQuery("dune")
	second := c.Paginate(Next)

	// In-order arrival still only applies the newest.
	assert.False(t, c.Apply(first.Run()))
	assert.Equal(t, StatusLoading, c.State().Status)
	assert.True(t, c.Apply(second.Run()))
}

func TestSearchResultAppliedOnce(t *testing.T) {
	c := newTestSearch(&mockSource{searchFunc: pageOf(2)})
	f := c.SetQuery("dune")
	res := f.Run()

	assert.True(t, c.Apply(res))
	assert.False(t, c.Apply(res))
}

func TestSearchSupersededFetchIsCancelled(t *testing.T) {
	started := make(chan struct{})
	src := &mockSource{searchFunc: func(ctx context.Context, q sources.Query) (sources.Page, error) {
		if q.Offset == 0 {
			close(started)
			<-ctx.Done()
			return sources.Page{}, ctx.Err()
		}
		return pageOf(10)(ctx, q)
	}}
	c := newTestSearch(src)

	first := c.SetQuery("dune")
	results := make(chan FetchResult, 1)
	go func() { results <- first.Run() }()
	<-started

	second := c.Paginate(Next)

	select {
	case res := <-results:
		assert.True(t, errors.Is(res.Err, context.Canceled))
		assert.False(t, c.Apply(res))
	case <-time.After(2 * time.Second):
		t.Fatal("superseded fetch was not cancelled")
	}

	assert.True(t, c.Apply(second.Run()))
	assert.Equal(t, StatusSuccess, c.State().Status)
}

func TestSearchConcurrentSlowFirstResponse(t *testing.T) {
	release := make(chan struct{})
	src := &mockSource{searchFunc: func(ctx context.Context, q sources.Query) (sources.Page, error) {
		if q.Offset == 0 {
			// Ignores cancellation, as a misbehaving collaborator might.
			<-release
		}
		return pageOf(10)(context.Background(), q)
	}}
	c := newTestSearch(src)

	first := c.SetQuery("dune")
	second := c.Paginate(Next)

	results := make(chan FetchResult, 2)
	go func() { results <- first.Run() }()
	go func() { results <- second.Run() }()

	r1 := <-results
	close(release)
	r2 := <-results

	c.Apply(r1)
	c.Apply(r2)

	s := c.State()
	assert.Equal(t, PageSize, s.Offset)
	assert.Equal(t, "dune@10-0", s.Page[0].ID)
}

func TestSearchEmptySubmitDiscardsOutstandingFetch(t *testing.T) {
	c := newTestSearch(&mockSource{searchFunc: pageOf(2)})
	f := c.SetQuery("dune")

	c.SetQuery("")
	_, err := c.Submit()
	require.ErrorIs(t, err, ErrEmptyQuery)

	assert.False(t, c.Apply(f.Run()))
	assert.Equal(t, StatusError, c.State().Status)
}

func TestSearchOffsetAlwaysMultipleOfPageSize(t *testing.T) {
	c := newTestSearch(&mockSource{searchFunc: pageOf(10)})
	c.SetQuery("dune")

	moves := []Direction{Next, Next, Previous, Previous, Previous, Next, Previous, Next, Next, Next}
	for _, d := range moves {
		if f := c.Paginate(d); f != nil {
			c.Apply(f.Run())
		}
		off := c.State().Offset
		assert.GreaterOrEqual(t, off, 0)
		assert.Zero(t, off%PageSize)
	}
}

func TestSearchStateIsACopy(t *testing.T) {
	c := newTestSearch(&mockSource{searchFunc: pageOf(2)})
	run(t, c, c.SetQuery("dune"))

	s := c.State()
	s.Page[0].ID = "mutated"

	assert.NotEqual(t, "mutated", c.State().Page[0].ID)
}

func TestFetchCancelledWithParentContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &mockSource{searchFunc: func(ctx context.Context, q sources.Query) (sources.Page, error) {
		return sources.Page{}, ctx.Err()
	}}
	c := NewSearchController(ctx, src, nil)

	f := c.SetQuery("dune")
	cancel()

	res := f.Run()
	assert.ErrorIs(t, res.Err, context.Canceled)
	c.Apply(res)
	assert.Equal(t, StatusError, c.State().Status)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "success", StatusSuccess.String())
	assert.Equal(t, "empty", StatusEmpty.String())
	assert.Equal(t, "error", StatusError.String())
	assert.Equal(t, "unknown", Status(42).String())
}
