// Package cache holds the permission cache backends.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/identity"
	"go.uber.org/zap"
)

const defaultCleanupInterval = 30 * time.Second

var _ identity.PermissionCache = (*InMemoryPermissionCache)(nil)

// InMemoryPermissionCache caches permission slugs per process.
// Invalidation only reaches the local process, so multi-instance deployments
// should use the Redis backend.
type InMemoryPermissionCache struct {
	entries sync.Map // map[uuid.UUID]*cacheEntry
	logger  *zap.Logger
	now     func() time.Time
	stopCh  chan struct{}
	stopped int32

	hits   int64
	misses int64
}

type cacheEntry struct {
	slugs     []string
	expiresAt time.Time
}

// InMemoryPermissionCacheOption configures InMemoryPermissionCache
type InMemoryPermissionCacheOption func(*InMemoryPermissionCache)

// WithInMemoryLogger sets the logger
func WithInMemoryLogger(logger *zap.Logger) InMemoryPermissionCacheOption {
	return func(c *InMemoryPermissionCache) {
		c.logger = logger
	}
}

// NewInMemoryPermissionCache creates the cache and starts its cleanup loop.
// Call Close to stop the loop.
func NewInMemoryPermissionCache(opts ...InMemoryPermissionCacheOption) *InMemoryPermissionCache {
	c := &InMemoryPermissionCache{
		logger: zap.NewNop(),
		now:    time.Now,
		stopCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.cleanupLoop(defaultCleanupInterval)
	return c
}

// Get returns the cached slugs of a user
func (c *InMemoryPermissionCache) Get(_ context.Context, userID uuid.UUID) ([]string, bool, error) {
	if v, ok := c.entries.Load(userID); ok {
		entry := v.(*cacheEntry)
		if c.now().Before(entry.expiresAt) {
			atomic.AddInt64(&c.hits, 1)
			return append([]string(nil), entry.slugs...), true, nil
		}
		c.entries.CompareAndDelete(userID, v)
	}
	atomic.AddInt64(&c.misses, 1)
	return nil, false, nil
}

// Set caches the slugs of a user for ttl
func (c *InMemoryPermissionCache) Set(_ context.Context, userID uuid.UUID, slugs []string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	c.entries.Store(userID, &cacheEntry{
		slugs:     append([]string(nil), slugs...),
		expiresAt: c.now().Add(ttl),
	})
	return nil
}

// Delete drops the cached slugs of a user
func (c *InMemoryPermissionCache) Delete(_ context.Context, userID uuid.UUID) error {
	c.entries.Delete(userID)
	return nil
}

// Stats returns hit and miss counters
func (c *InMemoryPermissionCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// Close stops the cleanup loop
func (c *InMemoryPermissionCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

func (c *InMemoryPermissionCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			if removed := c.removeExpired(); removed > 0 {
				c.logger.Debug("Removed expired permission cache entries", zap.Int("removed", removed))
			}
		}
	}
}

func (c *InMemoryPermissionCache) removeExpired() int {
	now := c.now()
	removed := 0
	c.entries.Range(func(key, value any) bool {
		if !now.Before(value.(*cacheEntry).expiresAt) {
			c.entries.CompareAndDelete(key, value)
			removed++
		}
		return true
	})
	return removed
}
