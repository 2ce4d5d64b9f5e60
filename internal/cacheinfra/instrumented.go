package cacheinfra

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// InstrumentedStore records per-operation counters and latencies.
type InstrumentedStore struct {
	next     Backend
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewInstrumentedStore wraps next. ops must carry the labels (op, result)
// and duration the label (op).
func NewInstrumentedStore(next Backend, ops *prometheus.CounterVec, duration *prometheus.HistogramVec) *InstrumentedStore {
	return &InstrumentedStore{next: next, ops: ops, duration: duration}
}

func (s *InstrumentedStore) observe(op string, start time.Time, result string) {
	s.ops.WithLabelValues(op, result).Inc()
	s.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	value, err := s.next.Get(ctx, key)
	switch {
	case err == nil:
		s.observe("get", start, "hit")
	case errors.Is(err, ErrMiss):
		s.observe("get", start, "miss")
	default:
		s.observe("get", start, "error")
	}
	return value, err
}

func (s *InstrumentedStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	start := time.Now()
	err := s.next.Set(ctx, key, value, ttl)
	s.observe("set", start, outcome(err))
	return err
}

func (s *InstrumentedStore) Delete(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := s.next.Delete(ctx, keys...)
	s.observe("delete", start, outcome(err))
	return err
}

func (s *InstrumentedStore) DeleteMatching(ctx context.Context, pattern string) error {
	start := time.Now()
	err := s.next.DeleteMatching(ctx, pattern)
	s.observe("delete_matching", start, outcome(err))
	return err
}

func (s *InstrumentedStore) FlushAll(ctx context.Context) error {
	start := time.Now()
	err := s.next.FlushAll(ctx)
	s.observe("flush", start, outcome(err))
	return err
}
