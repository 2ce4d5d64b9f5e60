package importer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-menu-catalog/cache"
	"github.com/goliatone/go-menu-catalog/catalog"
)

// DefaultDiscountTTL is how long an imported discount stays in effect
// without a new import.
const DefaultDiscountTTL = 15 * time.Second

// Syncer replaces the stored catalog.
type Syncer interface {
	Sync(ctx context.Context, trees []catalog.MenuTree) error
}

// Result summarizes one import.
type Result struct {
	Menus     int
	Submenus  int
	Dishes    int
	Discounts int
}

// Job imports the sheet, flushes the cache and seeds the discounts.
type Job struct {
	source      Source
	store       Syncer
	cache       cache.Store
	discountTTL time.Duration
	logger      *zap.Logger
}

// JobOption customizes a Job.
type JobOption func(*Job)

// WithDiscountTTL overrides DefaultDiscountTTL.
func WithDiscountTTL(ttl time.Duration) JobOption {
	return func(j *Job) {
		if ttl > 0 {
			j.discountTTL = ttl
		}
	}
}

// WithLogger sets the job logger.
func WithLogger(logger *zap.Logger) JobOption {
	return func(j *Job) {
		if logger != nil {
			j.logger = logger
		}
	}
}

// NewJob builds an import job.
func NewJob(source Source, store Syncer, cacheStore cache.Store, opts ...JobOption) *Job {
	j := &Job{
		source:      source,
		store:       store,
		cache:       cacheStore,
		discountTTL: DefaultDiscountTTL,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(j)
	}
	j.logger = j.logger.Named("importer")
	return j
}

// Run performs one import. A parse or store failure leaves both the store
// and the cache untouched.
func (j *Job) Run(ctx context.Context) (Result, error) {
	rows, err := j.source.Rows(ctx)
	if err != nil {
		return Result{}, err
	}

	batch, err := Parse(rows)
	if err != nil {
		return Result{}, fmt.Errorf("parse sheet: %w", err)
	}

	if err := j.store.Sync(ctx, batch.Menus); err != nil {
		return Result{}, fmt.Errorf("sync catalog: %w", err)
	}

	// every cached view may describe rows that changed or vanished
	if err := j.cache.FlushAll(ctx); err != nil {
		return Result{}, fmt.Errorf("flush cache: %w", err)
	}

	var res Result
	res.Menus, res.Submenus, res.Dishes = batch.Counts()
	for id, discount := range batch.Discounts {
		if err := j.cache.Set(ctx, cache.DiscountKey(id), []byte(discount), j.discountTTL); err != nil {
			j.logger.Warn("discount not stored", zap.Stringer("dish_id", id), zap.Error(err))
			continue
		}
		res.Discounts++
	}

	j.logger.Info("catalog imported",
		zap.Int("menus", res.Menus),
		zap.Int("submenus", res.Submenus),
		zap.Int("dishes", res.Dishes),
		zap.Int("discounts", res.Discounts))
	return res, nil
}
