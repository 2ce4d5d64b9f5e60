package cache

import (
	"context"
	"time"

	"github.com/goliatone/go-menu-catalog/internal/cacheinfra"
)

// ErrMiss is returned by Store.Get when a key is absent or expired.
var ErrMiss = cacheinfra.ErrMiss

// Store is the key-value contract the catalog caches through.
// A ttl of 0 on Set means the entry does not expire. The in-process store
// cannot hold entries forever and keeps them for Config.PersistentTTL
// instead; the catalog always passes an explicit ttl.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeleteMatching deletes every key matching a glob pattern, iterating the
	// keyspace incrementally.
	DeleteMatching(ctx context.Context, pattern string) error
	FlushAll(ctx context.Context) error
}

// FetchFn is the function signature GetOrFetch expects when fetching from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)
