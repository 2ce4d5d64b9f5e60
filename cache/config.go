package cache

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-menu-catalog/internal/cacheinfra"
)

// Config exposes in-process store options for consumers of the cache package.
type Config struct {
	Capacity           int
	NumShards          int
	EvictionPercentage int
	EvictionInterval   time.Duration
	PersistentTTL      time.Duration
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewMemoryStore constructs the in-process Store using the provided configuration.
func NewMemoryStore(cfg Config) (Store, error) {
	return cacheinfra.NewMemoryStore(cfg.toInternal())
}

// NewRedisStore wraps a connected Redis client.
func NewRedisStore(client redis.UniversalClient) Store {
	return cacheinfra.NewRedisStore(client)
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
		PersistentTTL:      c.PersistentTTL,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
		PersistentTTL:      cfg.PersistentTTL,
	}
}
