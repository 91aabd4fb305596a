// Package identity implements permission lookup and assignment.
package identity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/transaction"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// DefaultPermissionCacheTTL bounds how long a revoked permission can stay usable
// when the cache is shared with a process that did not see the revocation.
const DefaultPermissionCacheTTL = 5 * time.Minute

// PermissionsResponse is the permission set of a user
type PermissionsResponse struct {
	UserID      uuid.UUID `json:"user_id"`
	Permissions []string  `json:"permissions"`
}

// PermissionService resolves user permissions through a read-through cache
type PermissionService struct {
	repos  transaction.TransactionalRepositories
	scope  transaction.TransactionScope
	cache  identity.PermissionCache
	ttl    time.Duration
	logger *zap.Logger

	// generation is bumped on every assignment. A lookup only fills the
	// cache if no assignment committed while it was reading.
	mu         sync.RWMutex
	generation uint64
}

// NewPermissionService creates a new PermissionService.
// A nil cache disables caching.
func NewPermissionService(
	repos transaction.TransactionalRepositories,
	scope transaction.TransactionScope,
	cache identity.PermissionCache,
	logger *zap.Logger,
) *PermissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PermissionService{
		repos:  repos,
		scope:  scope,
		cache:  cache,
		ttl:    DefaultPermissionCacheTTL,
		logger: logger,
	}
}

// SetTTL overrides the cache TTL
func (s *PermissionService) SetTTL(ttl time.Duration) {
	if ttl > 0 {
		s.ttl = ttl
	}
}

// Permissions returns the permission slugs of a user
func (s *PermissionService) Permissions(ctx context.Context, userID uuid.UUID) (identity.PermissionSet, error) {
	if s.cache != nil {
		slugs, found, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn("permission cache read failed", zap.String("user_id", userID.String()), zap.Error(err))
		} else if found {
			return identity.NewPermissionSet(slugs), nil
		}
	}

	s.mu.RLock()
	generation := s.generation
	s.mu.RUnlock()

	slugs, err := s.repos.Permissions().FindSlugsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}

	if s.cache != nil {
		s.fillCache(ctx, userID, slugs, generation)
	}
	return identity.NewPermissionSet(slugs), nil
}

func (s *PermissionService) fillCache(ctx context.Context, userID uuid.UUID, slugs []string, generation uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.generation != generation {
		s.logger.Debug("permission cache fill skipped, assignment in between",
			zap.String("user_id", userID.String()))
		return
	}
	if err := s.cache.Set(ctx, userID, slugs, s.ttl); err != nil {
		s.logger.Warn("permission cache write failed", zap.String("user_id", userID.String()), zap.Error(err))
	}
}

// HasPermission reports whether a user holds the slug
func (s *PermissionService) HasPermission(ctx context.Context, userID uuid.UUID, slug string) (bool, error) {
	set, err := s.Permissions(ctx, userID)
	if err != nil {
		return false, err
	}
	return set.Has(slug), nil
}

// AssignPermissions replaces the permission set of a user and drops the
// cached copy so the next request sees the new set.
func (s *PermissionService) AssignPermissions(ctx context.Context, userID uuid.UUID, slugs []string) (*PermissionsResponse, error) {
	normalized, err := identity.NormalizeSlugs(slugs)
	if err != nil {
		return nil, err
	}

	exists, err := s.repos.Users().Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return nil, shared.NewNotFoundError(fmt.Sprintf("User %s not found", userID))
	}

	err = s.scope.Execute(ctx, func(repos transaction.TransactionalRepositories) error {
		return repos.Permissions().ReplaceForUser(ctx, userID, normalized)
	})
	if err != nil {
		return nil, fmt.Errorf("assign permissions: %w", err)
	}

	s.invalidate(ctx, userID)

	s.logger.Info("permissions assigned",
		zap.String("user_id", userID.String()),
		zap.Strings("permissions", normalized),
	)
	return &PermissionsResponse{UserID: userID, Permissions: normalized}, nil
}

// invalidate drops the cached set of userID and makes in-flight lookups
// that started before the assignment skip their cache fill
func (s *PermissionService) invalidate(ctx context.Context, userID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Error("permission cache invalidation failed",
			zap.String("user_id", userID.String()), zap.Error(err))
	}
}
