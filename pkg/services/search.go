package services

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/kerbaras/bookshelf/pkg/sources"
)

// PageSize is the number of results requested per fetch.
const PageSize = 10

const (
	MsgEmptyQuery = "Please enter a book title or author"
	MsgNoResults  = "No results found."
	MsgNetwork    = "Network error occurred. Please try again later."
)

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusEmpty
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusEmpty:
		return "empty"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

type Direction int

const (
	Next Direction = iota
	Previous
)

// SearchState is a read-only snapshot of the search.
type SearchState struct {
	Query      string
	Sort       sources.SortOption
	Offset     int
	Page       []data.Book
	Status     Status
	Message    string
	TotalItems int
}

// PageNumber is the 1-based page shown at Offset.
func (s SearchState) PageNumber() int {
	return s.Offset/PageSize + 1
}

// Fetch is one issued catalog request. Run it off the caller's goroutine
// and hand the result back to Apply.
type Fetch struct {
	Token uint64
	Query sources.Query

	ctx    context.Context
	source sources.Source
}

func (f *Fetch) Run() FetchResult {
	page, err := f.source.Search(f.ctx, f.Query)
	return FetchResult{Token: f.Token, Query: f.Query, Page: page, Err: err}
}

type FetchResult struct {
	Token uint64
	Query sources.Query
	Page  sources.Page
	Err   error
}

type tuple struct {
	query  string
	sort   sources.SortOption
	offset int
}

// SearchController is the search and pagination state machine. It is not
// safe for concurrent use; only Fetch.Run may happen elsewhere.
type SearchController struct {
	source sources.Source
	base   context.Context
	logger *slog.Logger

	state SearchState

	// token identifies the only fetch whose result may still be applied.
	token   uint64
	pending bool
	cancel  context.CancelFunc
}

// NewSearchController binds fetches to ctx; cancelling it cancels every
// outstanding request.
func NewSearchController(ctx context.Context, source sources.Source, logger *slog.Logger) *SearchController {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SearchController{
		source: source,
		base:   ctx,
		logger: logger,
		state: SearchState{
			Sort:   sources.SortRelevance,
			Status: StatusIdle,
		},
	}
}

func (c *SearchController) State() SearchState {
	s := c.state
	s.Page = append([]data.Book(nil), c.state.Page...)
	return s
}

func (c *SearchController) SetQuery(text string) *Fetch {
	prev := c.current()
	c.state.Query = text
	c.state.Offset = 0
	return c.transition(prev)
}

func (c *SearchController) SetSort(opt sources.SortOption) *Fetch {
	prev := c.current()
	c.state.Sort = opt
	c.state.Offset = 0
	return c.transition(prev)
}

// Submit always fetches the first page of the current query, even when the
// tuple did not change.
func (c *SearchController) Submit() (*Fetch, error) {
	if c.queryText() == "" {
		c.supersede()
		c.state.Page = nil
		c.state.TotalItems = 0
		c.state.Status = StatusError
		c.state.Message = MsgEmptyQuery
		return nil, ErrEmptyQuery
	}
	c.state.Offset = 0
	return c.issue(), nil
}

// Paginate moves one page. Previous on the first page changes nothing.
func (c *SearchController) Paginate(dir Direction) *Fetch {
	prev := c.current()
	switch dir {
	case Next:
		c.state.Offset += PageSize
	case Previous:
		if c.state.Offset == 0 {
			return nil
		}
		c.state.Offset -= PageSize
	}
	return c.transition(prev)
}

// Apply installs a fetch result. Results from superseded fetches are
// dropped and Apply reports false.
func (c *SearchController) Apply(res FetchResult) bool {
	if !c.pending || res.Token != c.token {
		c.logger.Debug("fetch result discarded",
			slog.Uint64("token", res.Token),
			slog.Uint64("current", c.token),
		)
		return false
	}
	c.pending = false
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	switch {
	case res.Err != nil:
		c.logger.Warn("fetch failed",
			slog.Uint64("token", res.Token),
			slog.String("query", res.Query.Text),
			slog.Int("offset", res.Query.Offset),
			slog.String("error", res.Err.Error()),
		)
		c.state.Page = nil
		c.state.TotalItems = 0
		c.state.Status = StatusError
		c.state.Message = MsgNetwork
	case len(res.Page.Books) == 0:
		c.state.Page = nil
		c.state.TotalItems = res.Page.TotalItems
		c.state.Status = StatusEmpty
		c.state.Message = MsgNoResults
	default:
		c.state.Page = append([]data.Book(nil), res.Page.Books...)
		c.state.TotalItems = res.Page.TotalItems
		c.state.Status = StatusSuccess
		c.state.Message = ""
	}

	c.logger.Debug("fetch applied",
		slog.Uint64("token", res.Token),
		slog.String("status", c.state.Status.String()),
		slog.Int("results", len(c.state.Page)),
	)
	return true
}

func (c *SearchController) ClearMessage() {
	c.state.Message = ""
}

func (c *SearchController) current() tuple {
	return tuple{query: c.state.Query, sort: c.state.Sort, offset: c.state.Offset}
}

func (c *SearchController) queryText() string {
	return strings.TrimSpace(c.state.Query)
}

// transition issues a fetch when the tuple changed and there is something
// to search for. A blank query drops back to Idle.
func (c *SearchController) transition(prev tuple) *Fetch {
	if c.queryText() == "" {
		c.supersede()
		c.state.Page = nil
		c.state.TotalItems = 0
		c.state.Status = StatusIdle
		c.state.Message = ""
		return nil
	}
	if c.current() == prev {
		return nil
	}
	return c.issue()
}

func (c *SearchController) supersede() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.pending = false
	c.token++
}

func (c *SearchController) issue() *Fetch {
	c.supersede()

	ctx, cancel := context.WithCancel(c.base)
	c.cancel = cancel
	c.pending = true
	c.state.Status = StatusLoading

	f := &Fetch{
		Token: c.token,
		Query: sources.Query{
			Text:   c.queryText(),
			Sort:   c.state.Sort,
			Offset: c.state.Offset,
			Limit:  PageSize,
		},
		ctx:    ctx,
		source: c.source,
	}

	c.logger.Debug("fetch issued",
		slog.Uint64("token", f.Token),
		slog.String("query", f.Query.Text),
		slog.String("sort", string(f.Query.Sort)),
		slog.Int("offset", f.Query.Offset),
	)
	return f
}
