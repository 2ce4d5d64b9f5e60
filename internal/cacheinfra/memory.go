package cacheinfra

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viccon/sturdyc"
)

// MemoryStore is an in-process Backend on top of sturdyc.
//
// sturdyc fixes the TTL per client, so entries are grouped into one client per
// TTL class and an index remembers which class currently holds a key.
type MemoryStore struct {
	cfg     Config
	opts    []sturdyc.Option
	clients *xsync.MapOf[time.Duration, *sturdyc.Client[[]byte]]
	index   *xsync.MapOf[string, time.Duration]
}

// MemoryOption customizes a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock replaces the clock used by every sturdyc client, mostly for tests.
func WithClock(clock sturdyc.Clock) MemoryOption {
	return func(s *MemoryStore) {
		s.opts = append(s.opts, sturdyc.WithClock(clock))
	}
}

// NewMemoryStore validates cfg and returns an empty store.
func NewMemoryStore(cfg Config, opts ...MemoryOption) (*MemoryStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &MemoryStore{
		cfg:     cfg,
		opts:    cfg.ToSturdycOptions(),
		clients: xsync.NewMapOf[time.Duration, *sturdyc.Client[[]byte]](),
		index:   xsync.NewMapOf[string, time.Duration](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *MemoryStore) client(ttl time.Duration) *sturdyc.Client[[]byte] {
	c, _ := s.clients.LoadOrCompute(ttl, func() *sturdyc.Client[[]byte] {
		return sturdyc.New[[]byte](
			s.cfg.Capacity,
			s.cfg.NumShards,
			ttl,
			s.cfg.EvictionPercentage,
			s.opts...,
		)
	})
	return c
}

// Get returns the stored bytes or ErrMiss.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	ttl, ok := s.index.Load(key)
	if !ok {
		return nil, ErrMiss
	}

	value, ok := s.client(ttl).Get(key)
	if !ok {
		// expired or evicted
		s.index.Compute(key, func(current time.Duration, loaded bool) (time.Duration, bool) {
			return current, !loaded || current == ttl
		})
		return nil, ErrMiss
	}
	return value, nil
}

// Set stores value under key. sturdyc has no unbounded entries, so a
// ttl <= 0 keeps the value for the configured PersistentTTL.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.cfg.PersistentTTL
	}

	if prev, ok := s.index.Load(key); ok && prev != ttl {
		s.client(prev).Delete(key)
	}

	s.client(ttl).Set(key, value)
	s.index.Store(key, ttl)
	return nil
}

// Delete removes keys. Absent keys are ignored.
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		if ttl, ok := s.index.LoadAndDelete(key); ok {
			s.client(ttl).Delete(key)
		}
	}
	return nil
}

// DeleteMatching removes every key matching pattern. Keys are collected
// and deleted in batches, so writers are never blocked for the whole walk.
func (s *MemoryStore) DeleteMatching(ctx context.Context, pattern string) error {
	batch := make([]string, 0, scanBatch)
	var err error

	s.index.Range(func(key string, _ time.Duration) bool {
		if !MatchPattern(pattern, key) {
			return true
		}
		batch = append(batch, key)
		if len(batch) == scanBatch {
			if err = ctx.Err(); err != nil {
				return false
			}
			_ = s.Delete(ctx, batch...)
			batch = batch[:0]
		}
		return true
	})
	if err != nil {
		return err
	}

	return s.Delete(ctx, batch...)
}

// FlushAll removes every entry from every TTL class.
func (s *MemoryStore) FlushAll(_ context.Context) error {
	s.clients.Range(func(_ time.Duration, c *sturdyc.Client[[]byte]) bool {
		for _, key := range c.ScanKeys() {
			c.Delete(key)
		}
		return true
	})
	s.index.Clear()
	return nil
}

// Len returns the number of indexed keys, expired ones included until read.
func (s *MemoryStore) Len() int {
	return s.index.Size()
}
