package cacheinfra

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerConfig holds configuration for the cache circuit breaker.
type BreakerConfig struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// FailureThreshold is the failure ratio that trips the breaker.
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns a default configuration for the cache breaker.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      5,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		FailureThreshold: 0.5,
		MinRequests:      10,
	}
}

// ResilientStore shields callers from backend outages. Reads that fail are
// reported as misses and single-key writes that fail are logged and dropped;
// the breaker stops hammering a backend that keeps failing. FlushAll is the
// one bulk path and returns its error.
type ResilientStore struct {
	next    Backend
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewResilientStore wraps next.
func NewResilientStore(next Backend, cfg BreakerConfig, logger *zap.Logger) *ResilientStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("breaker", cfg.Name))

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("cache breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrMiss)
		},
	})

	return &ResilientStore{next: next, breaker: cb, logger: logger}
}

// State exposes the breaker state.
func (r *ResilientStore) State() gobreaker.State {
	return r.breaker.State()
}

// Strict returns a Backend sharing this breaker that reports every failure,
// including gobreaker.ErrOpenState while the breaker is open. Callers that
// must know whether a write landed, such as retrying invalidators and the
// importer, use it.
func (r *ResilientStore) Strict() Backend {
	return strictStore{r: r}
}

// Get never fails with anything but ErrMiss.
func (r *ResilientStore) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := r.get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			r.logger.Warn("cache get failed, treating as miss", zap.String("key", key), zap.Error(err))
		}
		return nil, ErrMiss
	}
	return value, nil
}

// Set is best effort.
func (r *ResilientStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	r.dropped("set", key, r.exec(func() error { return r.next.Set(ctx, key, value, ttl) }))
	return nil
}

// Delete is best effort.
func (r *ResilientStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	r.dropped("delete", keys[0], r.exec(func() error { return r.next.Delete(ctx, keys...) }))
	return nil
}

// DeleteMatching is best effort.
func (r *ResilientStore) DeleteMatching(ctx context.Context, pattern string) error {
	r.dropped("delete_matching", pattern, r.exec(func() error { return r.next.DeleteMatching(ctx, pattern) }))
	return nil
}

// FlushAll returns the backend error. A flush that did not happen leaves
// every cached view in place.
func (r *ResilientStore) FlushAll(ctx context.Context) error {
	return r.exec(func() error { return r.next.FlushAll(ctx) })
}

func (r *ResilientStore) get(ctx context.Context, key string) ([]byte, error) {
	result, err := r.breaker.Execute(func() (any, error) {
		return r.next.Get(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	value, _ := result.([]byte)
	return value, nil
}

func (r *ResilientStore) exec(fn func() error) error {
	_, err := r.breaker.Execute(func() (any, error) {
		return nil, fn()
	})
	return err
}

func (r *ResilientStore) dropped(op, key string, err error) {
	if err != nil {
		r.logger.Warn("cache write dropped",
			zap.String("op", op),
			zap.String("key", key),
			zap.Error(err))
	}
}

type strictStore struct {
	r *ResilientStore
}

func (s strictStore) Get(ctx context.Context, key string) ([]byte, error) {
	return s.r.get(ctx, key)
}

func (s strictStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.r.exec(func() error { return s.r.next.Set(ctx, key, value, ttl) })
}

func (s strictStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.r.exec(func() error { return s.r.next.Delete(ctx, keys...) })
}

func (s strictStore) DeleteMatching(ctx context.Context, pattern string) error {
	return s.r.exec(func() error { return s.r.next.DeleteMatching(ctx, pattern) })
}

func (s strictStore) FlushAll(ctx context.Context) error {
	return s.r.FlushAll(ctx)
}
