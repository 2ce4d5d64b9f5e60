package catalogcache

import (
	"time"

	"go.uber.org/zap"
)

// DefaultTTL bounds how long an entity or listing entry may be served.
const DefaultTTL = 60 * time.Second

type options struct {
	ttl         time.Duration
	logger      *zap.Logger
	invalidator Invalidator
}

// Option customizes a Catalog.
type Option func(*options)

// WithTTL sets the lifetime of entity and listing entries.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithInvalidator replaces the default SyncInvalidator.
func WithInvalidator(inv Invalidator) Option {
	return func(o *options) {
		if inv != nil {
			o.invalidator = inv
		}
	}
}
