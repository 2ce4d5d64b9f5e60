package catalogcache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-menu-catalog/cache"
)

// Invalidator executes invalidation plans.
type Invalidator interface {
	Invalidate(ctx context.Context, plan cache.Plan) error
}

// SyncInvalidator deletes a plan's keys and patterns concurrently and
// returns once all of them finished.
type SyncInvalidator struct {
	store cache.Store
}

// NewSyncInvalidator returns an invalidator on store.
func NewSyncInvalidator(store cache.Store) *SyncInvalidator {
	return &SyncInvalidator{store: store}
}

// Invalidate runs every delete even if some fail and returns the first error.
func (i *SyncInvalidator) Invalidate(ctx context.Context, plan cache.Plan) error {
	var g errgroup.Group
	for _, key := range plan.Keys {
		g.Go(func() error { return i.store.Delete(ctx, key) })
	}
	for _, pattern := range plan.Patterns {
		g.Go(func() error { return i.store.DeleteMatching(ctx, pattern) })
	}
	return g.Wait()
}

// DeferredConfig tunes a DeferredInvalidator.
type DeferredConfig struct {
	QueueSize   int
	Workers     int
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultDeferredConfig returns conservative defaults.
func DefaultDeferredConfig() DeferredConfig {
	return DeferredConfig{
		QueueSize:   256,
		Workers:     2,
		MaxAttempts: 3,
		Backoff:     50 * time.Millisecond,
	}
}

type invalidation struct {
	ctx  context.Context
	plan cache.Plan
}

// DeferredInvalidator queues plans and runs them on background workers so
// callers do not wait for the cache. Plans are never dropped: a full queue
// or a closed invalidator runs the plan inline instead.
type DeferredInvalidator struct {
	next   Invalidator
	cfg    DeferredConfig
	logger *zap.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan invalidation
	wg     sync.WaitGroup
}

// NewDeferredInvalidator starts cfg.Workers workers feeding plans to next.
func NewDeferredInvalidator(next Invalidator, cfg DeferredConfig, logger *zap.Logger) *DeferredInvalidator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.QueueSize < 0 {
		cfg.QueueSize = 0
	}

	d := &DeferredInvalidator{
		next:   next,
		cfg:    cfg,
		logger: logger.Named("invalidator"),
		queue:  make(chan invalidation, cfg.QueueSize),
	}
	for n := 0; n < cfg.Workers; n++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// Invalidate enqueues plan. The request context is detached so the work
// survives the caller going away.
func (d *DeferredInvalidator) Invalidate(ctx context.Context, plan cache.Plan) error {
	if plan.Empty() {
		return nil
	}
	job := invalidation{ctx: context.WithoutCancel(ctx), plan: plan}

	d.mu.RLock()
	if !d.closed {
		select {
		case d.queue <- job:
			d.mu.RUnlock()
			return nil
		default:
		}
	}
	d.mu.RUnlock()

	d.logger.Debug("queue unavailable, invalidating inline", zap.Stringer("plan", plan))
	return d.run(job)
}

func (d *DeferredInvalidator) worker() {
	defer d.wg.Done()

	for job := range d.queue {
		_ = d.run(job)
	}
}

func (d *DeferredInvalidator) run(job invalidation) error {
	var err error
	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		if err = d.next.Invalidate(job.ctx, job.plan); err == nil {
			return nil
		}
		d.logger.Warn("invalidation failed",
			zap.Stringer("plan", job.plan),
			zap.Int("attempt", attempt),
			zap.Error(err))
		if attempt < d.cfg.MaxAttempts {
			time.Sleep(d.cfg.Backoff * time.Duration(attempt))
		}
	}
	d.logger.Error("invalidation abandoned", zap.Stringer("plan", job.plan), zap.Error(err))
	return err
}

// Close stops accepting work and waits for queued plans to finish.
func (d *DeferredInvalidator) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
