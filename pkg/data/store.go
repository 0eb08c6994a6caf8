package data

import "context"

// Store is a scoped key-value surface. Get reports ok=false when the key
// has never been set.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
