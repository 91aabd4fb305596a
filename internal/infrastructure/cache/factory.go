package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewPermissionCache builds the backend selected by cfg.PermissionCache.
// The returned closer releases the backend's resources.
func NewPermissionCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) (identity.PermissionCache, io.Closer, error) {
	switch cfg.PermissionCache.Backend {
	case config.CacheBackendRedis:
		client, err := NewRedisClient(ctx, RedisConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("permission cache: %w", err)
		}
		logger.Info("Using Redis permission cache",
			zap.String("addr", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)))
		return NewRedisPermissionCache(client, cfg.PermissionCache.KeyPrefix, logger), client, nil
	default:
		logger.Info("Using in-memory permission cache")
		c := NewInMemoryPermissionCache(WithInMemoryLogger(logger))
		return c, c, nil
	}
}
