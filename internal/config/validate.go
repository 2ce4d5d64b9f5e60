package config

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks every section and reports the first invalid one.
func (c *Config) Validate() error {
	checks := []struct {
		section string
		err     error
	}{
		{"server", validation.ValidateStruct(&c.Server,
			validation.Field(&c.Server.Addr, validation.Required),
			validation.Field(&c.Server.ShutdownTimeout, validation.Min(0)),
		)},
		{"database", validation.ValidateStruct(&c.Database,
			validation.Field(&c.Database.Driver, validation.Required, validation.In("postgres", "sqlite3")),
			validation.Field(&c.Database.DSN, validation.Required),
			validation.Field(&c.Database.MaxOpenConns, validation.Min(0)),
			validation.Field(&c.Database.MaxIdleConns, validation.Min(0)),
		)},
		{"cache", validation.ValidateStruct(&c.Cache,
			validation.Field(&c.Cache.Backend, validation.Required, validation.In("redis", "memory")),
			validation.Field(&c.Cache.EntityTTL, validation.Required, validation.Min(time.Millisecond)),
			validation.Field(&c.Cache.DiscountTTL, validation.Required, validation.Min(time.Millisecond)),
		)},
		{"cache.redis", c.validateRedis()},
		{"cache.memory", c.validateMemory()},
		{"cache.deferred", validation.ValidateStruct(&c.Cache.Deferred,
			validation.Field(&c.Cache.Deferred.QueueSize, validation.Min(0)),
			validation.Field(&c.Cache.Deferred.Workers, validation.Required, validation.Min(1)),
			validation.Field(&c.Cache.Deferred.MaxAttempts, validation.Required, validation.Min(1)),
		)},
		{"cache.breaker", validation.ValidateStruct(&c.Cache.Breaker,
			validation.Field(&c.Cache.Breaker.FailureThreshold, validation.Min(0.0), validation.Max(1.0)),
		)},
		{"importer", c.validateImporter()},
		{"log", validation.ValidateStruct(&c.Log,
			validation.Field(&c.Log.Level, validation.Required, validation.In("debug", "info", "warn", "error")),
			validation.Field(&c.Log.Format, validation.Required, validation.In("json", "console")),
		)},
	}

	for _, check := range checks {
		if check.err != nil {
			return &ValidationError{Section: check.section, Err: check.err}
		}
	}
	return nil
}

func (c *Config) validateRedis() error {
	if c.Cache.Backend != "redis" {
		return nil
	}
	return validation.ValidateStruct(&c.Cache.Redis,
		validation.Field(&c.Cache.Redis.Addr, validation.Required),
		validation.Field(&c.Cache.Redis.DB, validation.Min(0)),
	)
}

func (c *Config) validateMemory() error {
	if c.Cache.Backend != "memory" {
		return nil
	}
	return validation.ValidateStruct(&c.Cache.Memory,
		validation.Field(&c.Cache.Memory.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.Cache.Memory.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.Cache.Memory.EvictionPercentage, validation.Min(0), validation.Max(100)),
	)
}

func (c *Config) validateImporter() error {
	if !c.Importer.Enabled {
		return nil
	}
	return validation.ValidateStruct(&c.Importer,
		validation.Field(&c.Importer.Path, validation.Required),
		validation.Field(&c.Importer.Interval, validation.Required, validation.Min(time.Second)),
	)
}
