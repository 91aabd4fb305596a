package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ identity.PermissionCache = (*RedisPermissionCache)(nil)

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisPermissionCache shares cached permission slugs between instances, so
// an invalidation on one instance is seen by all of them.
type RedisPermissionCache struct {
	client    redis.UniversalClient
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisPermissionCache creates a cache on an existing client.
// The caller keeps ownership of the client.
func NewRedisPermissionCache(client redis.UniversalClient, keyPrefix string, logger *zap.Logger) *RedisPermissionCache {
	if keyPrefix == "" {
		keyPrefix = "pos:permissions:"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPermissionCache{client: client, keyPrefix: keyPrefix, logger: logger}
}

func (c *RedisPermissionCache) key(userID uuid.UUID) string {
	return c.keyPrefix + userID.String()
}

// Get returns the cached slugs of a user
func (c *RedisPermissionCache) Get(ctx context.Context, userID uuid.UUID) ([]string, bool, error) {
	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get permissions from cache: %w", err)
	}

	var slugs []string
	if err := json.Unmarshal(data, &slugs); err != nil {
		c.logger.Warn("Dropping corrupted permission cache entry",
			zap.String("user_id", userID.String()), zap.Error(err))
		_ = c.client.Del(ctx, c.key(userID)).Err()
		return nil, false, nil
	}
	return slugs, true, nil
}

// Set caches the slugs of a user for ttl
func (c *RedisPermissionCache) Set(ctx context.Context, userID uuid.UUID, slugs []string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if slugs == nil {
		slugs = []string{}
	}
	data, err := json.Marshal(slugs)
	if err != nil {
		return fmt.Errorf("failed to marshal permissions: %w", err)
	}
	if err := c.client.Set(ctx, c.key(userID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set permissions in cache: %w", err)
	}
	return nil
}

// Delete drops the cached slugs of a user
func (c *RedisPermissionCache) Delete(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete permissions from cache: %w", err)
	}
	return nil
}
