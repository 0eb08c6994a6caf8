package services

import (
	"context"
	"io"
	"log/slog"

	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/kerbaras/bookshelf/pkg/sources"
)

type ControllerConfig struct {
	RecentLimit     int
	DedupeFavorites bool
	Logger          *slog.Logger
}

// BookController owns every collection of one session and is the only
// mutation surface for the presentation layer.
type BookController struct {
	gate      *SessionGate
	search    *SearchController
	favorites *Favorites
	recent    *RecentlyViewed
	selected  *data.Book
	logger    *slog.Logger
}

// NewBookController loads favorites from store once; ctx also bounds every
// fetch issued during the session.
func NewBookController(ctx context.Context, source sources.Source, store data.Store, config ControllerConfig) *BookController {
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &BookController{
		gate:   NewSessionGate(),
		search: NewSearchController(ctx, source, logger),
		favorites: LoadFavorites(ctx, store, FavoritesOptions{
			Dedupe: config.DedupeFavorites,
			Logger: logger,
		}),
		recent: NewRecentlyViewed(config.RecentLimit),
		logger: logger,
	}
}

func (c *BookController) Login(name string) (Session, error) {
	session, err := c.gate.Login(name)
	if err != nil {
		return session, err
	}
	c.search.ClearMessage()
	c.logger.Info("session started",
		slog.String("session_id", session.ID.String()),
		slog.String("name", session.DisplayName),
	)
	return session, nil
}

func (c *BookController) SetQuery(text string) (*Fetch, error) {
	if !c.gate.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return c.search.SetQuery(text), nil
}

func (c *BookController) SubmitSearch() (*Fetch, error) {
	if !c.gate.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return c.search.Submit()
}

func (c *BookController) SetSortOption(opt sources.SortOption) (*Fetch, error) {
	if !c.gate.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return c.search.SetSort(opt), nil
}

func (c *BookController) Paginate(dir Direction) (*Fetch, error) {
	if !c.gate.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return c.search.Paginate(dir), nil
}

// SelectBook opens book for inspection and records it as viewed.
func (c *BookController) SelectBook(book data.Book) error {
	if !c.gate.LoggedIn() {
		return ErrNotLoggedIn
	}
	b := book
	c.selected = &b
	c.recent.RecordView(book)
	return nil
}

func (c *BookController) ClearSelection() {
	c.selected = nil
}

func (c *BookController) AddFavorite(ctx context.Context, book data.Book) error {
	if !c.gate.LoggedIn() {
		return ErrNotLoggedIn
	}
	return c.favorites.Add(ctx, book)
}

// Apply hands a finished fetch to the search state machine.
func (c *BookController) Apply(res FetchResult) bool {
	return c.search.Apply(res)
}

func (c *BookController) Search() SearchState {
	return c.search.State()
}

func (c *BookController) Favorites() []data.Book {
	return c.favorites.Books()
}

func (c *BookController) IsFavorite(id string) bool {
	return c.favorites.Contains(id)
}

func (c *BookController) RecentlyViewed() []data.Book {
	return c.recent.Books()
}

func (c *BookController) Session() (Session, bool) {
	return c.gate.Session()
}

func (c *BookController) Selected() (data.Book, bool) {
	if c.selected == nil {
		return data.Book{}, false
	}
	return *c.selected, true
}
