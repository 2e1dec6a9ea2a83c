package cache

import (
	"context"
	"fmt"

	"github.com/rentaldocs/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// FactoryOption configures New
type FactoryOption func(*factory)

type factory struct {
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// WithLogger sets the logger used to report the chosen backend
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// the in-memory cache. Fallback is enabled by default.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *factory) {
		f.allowInMemoryFallback = allow
	}
}

// New creates the cache selected by cfg.Backend
func New(ctx context.Context, cfg config.CacheConfig, redisCfg config.RedisConfig, opts ...FactoryOption) (Cache, error) {
	f := &factory{logger: zap.NewNop(), allowInMemoryFallback: true}
	for _, opt := range opts {
		opt(f)
	}

	if cfg.Backend != config.CacheBackendRedis {
		f.logger.Info("using in-memory cache")
		return NewMemoryCache(), nil
	}

	store, err := NewRedisCache(ctx, redisCfg)
	if err == nil {
		f.logger.Info("using Redis cache", zap.String("addr", redisCfg.Addr()))
		return store, nil
	}
	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis cache unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory cache. "+
		"Duplicate saves are only suppressed within this instance.",
		zap.Error(err))
	return NewMemoryCache(), nil
}
