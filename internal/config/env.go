package config

import (
	"fmt"
	"strconv"
	"time"
)

// EnvPrefix prefixes every supported environment variable.
const EnvPrefix = "CATALOG_"

type envVar struct {
	name string
	set  func(c *Config, value string) error
}

func setString(dst func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*dst(c) = v
		return nil
	}
}

func setInt(dst func(*Config) *int) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		*dst(c) = n
		return nil
	}
}

func setBool(dst func(*Config) *bool) func(*Config, string) error {
	return func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		*dst(c) = b
		return nil
	}
}

func setDuration(dst func(*Config) *time.Duration) func(*Config, string) error {
	return func(c *Config, v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*dst(c) = d
		return nil
	}
}

var envVars = []envVar{
	{"SERVER_ADDR", setString(func(c *Config) *string { return &c.Server.Addr })},
	{"SERVER_SHUTDOWN_TIMEOUT", setDuration(func(c *Config) *time.Duration { return &c.Server.ShutdownTimeout })},

	{"DATABASE_DRIVER", setString(func(c *Config) *string { return &c.Database.Driver })},
	{"DATABASE_DSN", setString(func(c *Config) *string { return &c.Database.DSN })},
	{"DATABASE_MAX_OPEN_CONNS", setInt(func(c *Config) *int { return &c.Database.MaxOpenConns })},
	{"DATABASE_AUTO_MIGRATE", setBool(func(c *Config) *bool { return &c.Database.AutoMigrate })},

	{"CACHE_BACKEND", setString(func(c *Config) *string { return &c.Cache.Backend })},
	{"CACHE_ENTITY_TTL", setDuration(func(c *Config) *time.Duration { return &c.Cache.EntityTTL })},
	{"CACHE_DISCOUNT_TTL", setDuration(func(c *Config) *time.Duration { return &c.Cache.DiscountTTL })},
	{"CACHE_DEFER_INVALIDATION", setBool(func(c *Config) *bool { return &c.Cache.DeferInvalidation })},
	{"CACHE_FLUSH_ON_START", setBool(func(c *Config) *bool { return &c.Cache.FlushOnStart })},
	{"CACHE_BREAKER_ENABLED", setBool(func(c *Config) *bool { return &c.Cache.Breaker.Enabled })},
	{"REDIS_ADDR", setString(func(c *Config) *string { return &c.Cache.Redis.Addr })},
	{"REDIS_PASSWORD", setString(func(c *Config) *string { return &c.Cache.Redis.Password })},
	{"REDIS_DB", setInt(func(c *Config) *int { return &c.Cache.Redis.DB })},

	{"IMPORTER_ENABLED", setBool(func(c *Config) *bool { return &c.Importer.Enabled })},
	{"IMPORTER_PATH", setString(func(c *Config) *string { return &c.Importer.Path })},
	{"IMPORTER_SHEET", setString(func(c *Config) *string { return &c.Importer.Sheet })},
	{"IMPORTER_INTERVAL", setDuration(func(c *Config) *time.Duration { return &c.Importer.Interval })},

	{"LOG_LEVEL", setString(func(c *Config) *string { return &c.Log.Level })},
	{"LOG_FORMAT", setString(func(c *Config) *string { return &c.Log.Format })},
}

// ApplyEnv overlays the CATALOG_* variables found through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	for _, v := range envVars {
		name := EnvPrefix + v.name
		value, ok := lookup(name)
		if !ok {
			continue
		}
		if err := v.set(c, value); err != nil {
			return fmt.Errorf("env %s: %w", name, err)
		}
	}
	return nil
}
