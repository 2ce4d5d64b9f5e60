package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ReadThrough stores JSON encoded values in a Store with a fixed TTL and
// collapses concurrent misses on the same key into one fetch.
type ReadThrough struct {
	store  Store
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.Logger
}

// NewReadThrough returns a ReadThrough writing entries with ttl.
func NewReadThrough(store Store, ttl time.Duration, logger *zap.Logger) *ReadThrough {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReadThrough{store: store, ttl: ttl, logger: logger}
}

// Store returns the underlying store.
func (r *ReadThrough) Store() Store { return r.store }

// TTL returns the entry lifetime.
func (r *ReadThrough) TTL() time.Duration { return r.ttl }

// Put encodes value and writes it under key. Failures are logged only.
func (r *ReadThrough) Put(ctx context.Context, key string, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		r.logger.Error("cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.store.Set(ctx, key, payload, r.ttl); err != nil {
		r.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Lookup decodes the entry under key. Undecodable entries are deleted and
// reported as absent.
func Lookup[T any](ctx context.Context, r *ReadThrough, key string) (T, bool) {
	var zero T
	payload, err := r.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			r.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return zero, false
	}

	var value T
	if err := json.Unmarshal(payload, &value); err != nil {
		r.logger.Warn("cache entry undecodable, dropping", zap.String("key", key), zap.Error(err))
		if err := r.store.Delete(ctx, key); err != nil {
			r.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
		}
		return zero, false
	}
	return value, true
}

// GetOrFetch returns the cached value under key or calls fetch, caches its
// result and returns it. Errors from fetch are returned untouched and
// nothing is cached.
func GetOrFetch[T any](ctx context.Context, r *ReadThrough, key string, fetch FetchFn[T]) (T, error) {
	if !Bypassed(ctx) {
		if value, ok := Lookup[T](ctx, r, key); ok {
			return value, nil
		}
	}

	// the fetch is shared with every caller waiting on key, so it must not
	// end with the first caller's context
	shared := context.WithoutCancel(ctx)
	result, err, _ := r.group.Do(key, func() (any, error) {
		value, err := fetch(shared)
		if err != nil {
			return nil, err
		}
		r.Put(shared, key, value)
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	value, ok := result.(T)
	if !ok {
		var zero T
		if result == nil {
			return zero, nil
		}
		return zero, fmt.Errorf("cache: key %s holds %T, want %T", key, result, zero)
	}
	return value, nil
}
