package cache

import (
	"context"
	"time"

	"team-calendar-api/core/config"
	"team-calendar-api/core/logger"
)

// Cache is a small string key/value cache with per-key expiry.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}

// New returns a redis cache when an address is configured and an
// in-process cache otherwise.
func New(ctx context.Context, cfg config.RedisConfig) (Cache, error) {
	if cfg.Addr == "" {
		logger.Info("Redis address not configured, using in-process cache")
		return NewMemoryCache(time.Minute), nil
	}
	return NewRedisCache(ctx, cfg)
}
