package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/kerbaras/bookshelf/pkg/data"
	"github.com/kerbaras/bookshelf/pkg/sources"
	"github.com/stretchr/testify/mock"
)

type mockSource struct {
	mu         sync.Mutex
	calls      []sources.Query
	searchFunc func(ctx context.Context, q sources.Query) (sources.Page, error)
}

func (m *mockSource) Search(ctx context.Context, q sources.Query) (sources.Page, error) {
	m.mu.Lock()
	m.calls = append(m.calls, q)
	m.mu.Unlock()
	if m.searchFunc != nil {
		return m.searchFunc(ctx, q)
	}
	return sources.Page{}, nil
}

func (m *mockSource) Calls() []sources.Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sources.Query(nil), m.calls...)
}

// mockStore is a testify mock for the key-value surface.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *mockStore) Close() error {
	return nil
}

// memStore is an in-memory Store for tests that only need get/set.
type memStore struct {
	values map[string]string
	setErr error
}

func newMemStore() *memStore {
	return &memStore{values: map[string]string{}}
}

func (m *memStore) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memStore) Set(_ context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *memStore) Close() error {
	return nil
}

func book(id string) data.Book {
	return data.Book{ID: id, VolumeInfo: data.VolumeInfo{Title: "Book " + id}}
}

func books(n int, prefix string) []data.Book {
	out := make([]data.Book, n)
	for i := range out {
		out[i] = book(fmt.Sprintf("%s-%d", prefix, i))
	}
	return out
}

// pageOf answers every query with n books tagged by the query offset.
func pageOf(n int) func(context.Context, sources.Query) (sources.Page, error) {
	return func(_ context.Context, q sources.Query) (sources.Page, error) {
		return sources.Page{Books: books(n, fmt.Sprintf("%s@%d", q.Text, q.Offset)), TotalItems: 100}, nil
	}
}

func bookIDs(bs []data.Book) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.ID
	}
	return out
}
