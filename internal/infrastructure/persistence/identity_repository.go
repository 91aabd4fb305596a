package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPermissionRepository implements PermissionRepository using GORM
type GormPermissionRepository struct {
	db *gorm.DB
}

// NewGormPermissionRepository creates a new GormPermissionRepository
func NewGormPermissionRepository(db *gorm.DB) *GormPermissionRepository {
	return &GormPermissionRepository{db: db}
}

// FindSlugsByUser returns the permission slugs granted to a user, sorted
func (r *GormPermissionRepository) FindSlugsByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	slugs := []string{}
	if err := r.db.WithContext(ctx).Model(&models.UserPermissionModel{}).
		Where("user_id = ?", userID).
		Order("slug ASC").
		Pluck("slug", &slugs).Error; err != nil {
		return nil, err
	}
	return slugs, nil
}

// ReplaceForUser deletes the current grants of a user and inserts slugs.
// Callers run it inside a transaction.
func (r *GormPermissionRepository) ReplaceForUser(ctx context.Context, userID uuid.UUID, slugs []string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("user_id = ?", userID).Delete(&models.UserPermissionModel{}).Error; err != nil {
		return err
	}
	if len(slugs) == 0 {
		return nil
	}
	rows := make([]models.UserPermissionModel, len(slugs))
	for i, slug := range slugs {
		rows[i] = models.UserPermissionModel{UserID: userID, Slug: slug}
	}
	return translateError(db.Create(&rows).Error, nil)
}

var _ identity.PermissionRepository = (*GormPermissionRepository)(nil)

// GormUserDirectory implements UserDirectory using GORM
type GormUserDirectory struct {
	db *gorm.DB
}

// NewGormUserDirectory creates a new GormUserDirectory
func NewGormUserDirectory(db *gorm.DB) *GormUserDirectory {
	return &GormUserDirectory{db: db}
}

// Exists reports whether the user exists
func (d *GormUserDirectory) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(ctx, d.db, &models.UserModel{}, id)
}

var _ identity.UserDirectory = (*GormUserDirectory)(nil)

func exists(ctx context.Context, db *gorm.DB, model any, id uuid.UUID) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
