package sources

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/kerbaras/bookshelf/pkg/utils"
)

const DefaultGoogleBooksURL = "https://www.googleapis.com/books/v1"

type GoogleBooksConfig struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
}

type GoogleBooks struct {
	api    *utils.API
	apiKey string
}

func NewGoogleBooks(cfg GoogleBooksConfig) *GoogleBooks {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGoogleBooksURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &GoogleBooks{
		api:    utils.NewAPI(cfg.BaseURL, cfg.Timeout, cfg.RequestsPerSecond),
		apiKey: cfg.APIKey,
	}
}

type volumesResponse struct {
	TotalItems int         `json:"totalItems"`
	Items      []data.Book `json:"items"`
}

func (g *GoogleBooks) Search(ctx context.Context, q Query) (Page, error) {
	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("orderBy", string(q.Sort))
	params.Set("startIndex", strconv.Itoa(q.Offset))
	params.Set("maxResults", strconv.Itoa(q.Limit))
	if g.apiKey != "" {
		params.Set("key", g.apiKey)
	}

	var resp volumesResponse
	if err := g.api.Get(ctx, "/volumes", params, &resp); err != nil {
		// Supersession cancels requests; keep that distinguishable.
		if errors.Is(err, context.Canceled) {
			return Page{}, err
		}
		return Page{}, fmt.Errorf("%w: %w", ErrNetwork, err)
	}

	// Volumes without an id cannot be tracked in the shelf.
	books := make([]data.Book, 0, len(resp.Items))
	for _, b := range resp.Items {
		if b.ID != "" {
			books = append(books, b)
		}
	}

	return Page{Books: books, TotalItems: resp.TotalItems}, nil
}
