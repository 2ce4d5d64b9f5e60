package di

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/goliatone/go-menu-catalog/cache"
	"github.com/goliatone/go-menu-catalog/catalogcache"
	"github.com/goliatone/go-menu-catalog/internal/cacheinfra"
	"github.com/goliatone/go-menu-catalog/internal/config"
	"github.com/goliatone/go-menu-catalog/internal/httpapi"
	"github.com/goliatone/go-menu-catalog/internal/importer"
	"github.com/goliatone/go-menu-catalog/internal/metrics"
	"github.com/goliatone/go-menu-catalog/internal/store"
)

// Container owns every long-lived component of the service. Components are
// built once by NewContainer and released in reverse order by Close.
type Container struct {
	config  *config.Config
	logger  *zap.Logger
	metrics *metrics.Collector

	db       *bun.DB
	store    *store.Store
	redis    *redis.Client
	cache    cache.Store
	deferred *catalogcache.DeferredInvalidator
	catalog  *catalogcache.Catalog

	// strictCache reports write failures to the importer and the invalidators.
	strictCache cache.Store

	importJob *importer.Job
	scheduler *importer.Scheduler
	api       *httpapi.API

	closers []func() error
}

// NewContainer connects to the database and the cache and wires the catalog,
// the importer and the HTTP API. Nothing runs in the background until Start.
func NewContainer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Container, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Container{
		config:  cfg,
		logger:  logger,
		metrics: metrics.NewCollector("catalog"),
	}

	steps := []func(context.Context) error{
		c.initDatabase,
		c.initCache,
		c.initCatalog,
		c.initImporter,
		c.initAPI,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
	}
	return c, nil
}

// NewContainerWithDefaults builds a container from config.Default.
func NewContainerWithDefaults(ctx context.Context) (*Container, error) {
	return NewContainer(ctx, config.Default(), nil)
}

func (c *Container) initDatabase(ctx context.Context) error {
	dbCfg := c.config.Database
	db, err := store.Open(ctx, store.Options{
		Driver:          dbCfg.Driver,
		DSN:             dbCfg.DSN,
		MaxOpenConns:    dbCfg.MaxOpenConns,
		MaxIdleConns:    dbCfg.MaxIdleConns,
		ConnMaxLifetime: dbCfg.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	c.db = db
	c.closers = append(c.closers, db.Close)

	if dbCfg.AutoMigrate {
		if err := store.CreateSchema(ctx, db); err != nil {
			return fmt.Errorf("database schema: %w", err)
		}
	}

	c.store = store.New(db, c.logger)
	return nil
}

func (c *Container) initCache(ctx context.Context) error {
	cacheCfg := c.config.Cache

	var backend cacheinfra.Backend
	switch cacheCfg.Backend {
	case "redis":
		client, err := cacheinfra.DialRedis(ctx, cacheinfra.RedisOptions{
			Addr:         cacheCfg.Redis.Addr,
			Password:     cacheCfg.Redis.Password,
			DB:           cacheCfg.Redis.DB,
			DialTimeout:  cacheCfg.Redis.DialTimeout,
			ReadTimeout:  cacheCfg.Redis.ReadTimeout,
			WriteTimeout: cacheCfg.Redis.WriteTimeout,
		})
		if err != nil {
			return fmt.Errorf("cache: %w", err)
		}
		c.redis = client
		c.closers = append(c.closers, client.Close)
		backend = cacheinfra.NewRedisStore(client)

	case "memory":
		memCfg := cacheinfra.DefaultConfig()
		memCfg.Capacity = cacheCfg.Memory.Capacity
		memCfg.NumShards = cacheCfg.Memory.NumShards
		memCfg.EvictionPercentage = cacheCfg.Memory.EvictionPercentage
		memCfg.EvictionInterval = cacheCfg.Memory.EvictionInterval
		mem, err := cacheinfra.NewMemoryStore(memCfg)
		if err != nil {
			return fmt.Errorf("cache: %w", err)
		}
		backend = mem

	default:
		return fmt.Errorf("cache: unsupported backend %q", cacheCfg.Backend)
	}

	backend = cacheinfra.NewInstrumentedStore(backend, c.metrics.CacheOps, c.metrics.CacheDuration)
	c.strictCache = backend

	if cacheCfg.Breaker.Enabled {
		resilient := cacheinfra.NewResilientStore(backend, cacheinfra.BreakerConfig{
			Name:             "cache-" + cacheCfg.Backend,
			MaxRequests:      cacheCfg.Breaker.MaxRequests,
			Interval:         cacheCfg.Breaker.Interval,
			Timeout:          cacheCfg.Breaker.Timeout,
			FailureThreshold: cacheCfg.Breaker.FailureThreshold,
			MinRequests:      cacheCfg.Breaker.MinRequests,
		}, c.logger.Named("cache"))
		backend = resilient
		c.strictCache = resilient.Strict()
	}

	c.cache = backend
	return nil
}

func (c *Container) initCatalog(context.Context) error {
	cacheCfg := c.config.Cache
	opts := []catalogcache.Option{
		catalogcache.WithTTL(cacheCfg.EntityTTL),
		catalogcache.WithLogger(c.logger),
	}

	var invalidator catalogcache.Invalidator = catalogcache.NewSyncInvalidator(c.strictCache)
	if cacheCfg.DeferInvalidation {
		c.deferred = catalogcache.NewDeferredInvalidator(
			invalidator,
			catalogcache.DeferredConfig{
				QueueSize:   cacheCfg.Deferred.QueueSize,
				Workers:     cacheCfg.Deferred.Workers,
				MaxAttempts: cacheCfg.Deferred.MaxAttempts,
				Backoff:     cacheCfg.Deferred.Backoff,
			},
			c.logger,
		)
		c.closers = append(c.closers, func() error {
			c.deferred.Close()
			return nil
		})
		invalidator = c.deferred
	}
	opts = append(opts, catalogcache.WithInvalidator(invalidator))

	c.catalog = catalogcache.New(c.store, c.cache, opts...)
	return nil
}

func (c *Container) initImporter(context.Context) error {
	impCfg := c.config.Importer
	c.importJob = importer.NewJob(
		importer.NewWorkbookSource(impCfg.Path, impCfg.Sheet),
		c.store,
		c.strictCache,
		importer.WithDiscountTTL(c.config.Cache.DiscountTTL),
		importer.WithLogger(c.logger),
	)

	if impCfg.Enabled {
		runner := &instrumentedJob{next: c.importJob, collector: c.metrics}
		c.scheduler = importer.NewScheduler(runner, impCfg.Interval, c.logger)
		c.closers = append(c.closers, func() error {
			c.scheduler.Stop()
			return nil
		})
	}
	return nil
}

func (c *Container) initAPI(context.Context) error {
	opts := []httpapi.Option{
		httpapi.WithLogger(c.logger),
		httpapi.WithMetrics(c.metrics),
		httpapi.WithHealthCheck("database", c.db.PingContext),
	}
	if c.redis != nil {
		client := c.redis
		opts = append(opts, httpapi.WithHealthCheck("cache", func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}))
	}
	c.api = httpapi.New(c.catalog, opts...)
	return nil
}

// Start flushes the cache when configured to and starts the import
// scheduler. Background work stops when ctx ends or on Close.
func (c *Container) Start(ctx context.Context) error {
	if c.config.Cache.FlushOnStart {
		if err := c.catalog.Flush(ctx); err != nil {
			return fmt.Errorf("flush cache: %w", err)
		}
	}
	if c.scheduler != nil {
		c.scheduler.Start(ctx)
	}
	return nil
}

// Close releases components in reverse construction order.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Config returns the configuration the container was built with.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the service logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// Metrics returns the metrics collector.
func (c *Container) Metrics() *metrics.Collector {
	return c.metrics
}

// DB returns the database handle.
func (c *Container) DB() *bun.DB {
	return c.db
}

// Store returns the aggregate store.
func (c *Container) Store() *store.Store {
	return c.store
}

// Cache returns the decorated cache store handed to the catalog.
func (c *Container) Cache() cache.Store {
	return c.cache
}

// Catalog returns the cached catalog services.
func (c *Container) Catalog() *catalogcache.Catalog {
	return c.catalog
}

// ImportJob returns the spreadsheet import job.
func (c *Container) ImportJob() *importer.Job {
	return c.importJob
}

// Handler returns the HTTP handler.
func (c *Container) Handler() http.Handler {
	return c.api.Routes()
}

// instrumentedJob counts import outcomes.
type instrumentedJob struct {
	next      importer.Runner
	collector *metrics.Collector
}

func (j *instrumentedJob) Run(ctx context.Context) (importer.Result, error) {
	res, err := j.next.Run(ctx)
	result := "ok"
	if err != nil {
		result = "error"
	}
	j.collector.ImportRuns.WithLabelValues(result).Inc()
	return res, err
}
