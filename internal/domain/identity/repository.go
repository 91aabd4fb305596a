package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PermissionRepository reads and replaces the permission slugs of a user
type PermissionRepository interface {
	FindSlugsByUser(ctx context.Context, userID uuid.UUID) ([]string, error)

	// ReplaceForUser swaps the whole permission set of a user
	ReplaceForUser(ctx context.Context, userID uuid.UUID, slugs []string) error
}

// UserDirectory answers whether a user exists
type UserDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// PermissionCache holds the permission slugs of recently seen users.
// A miss is reported with found == false and a nil error.
type PermissionCache interface {
	Get(ctx context.Context, userID uuid.UUID) (slugs []string, found bool, err error)
	Set(ctx context.Context, userID uuid.UUID, slugs []string, ttl time.Duration) error
	Delete(ctx context.Context, userID uuid.UUID) error
}
