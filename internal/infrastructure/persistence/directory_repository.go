package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/purchasing"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCustomerDirectory implements CustomerDirectory using GORM
type GormCustomerDirectory struct {
	db *gorm.DB
}

// NewGormCustomerDirectory creates a new GormCustomerDirectory
func NewGormCustomerDirectory(db *gorm.DB) *GormCustomerDirectory {
	return &GormCustomerDirectory{db: db}
}

// Exists reports whether the customer exists
func (d *GormCustomerDirectory) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(ctx, d.db, &models.CustomerModel{}, id)
}

var _ sales.CustomerDirectory = (*GormCustomerDirectory)(nil)

// GormSupplierDirectory implements SupplierDirectory using GORM
type GormSupplierDirectory struct {
	db *gorm.DB
}

// NewGormSupplierDirectory creates a new GormSupplierDirectory
func NewGormSupplierDirectory(db *gorm.DB) *GormSupplierDirectory {
	return &GormSupplierDirectory{db: db}
}

// Exists reports whether the supplier exists
func (d *GormSupplierDirectory) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(ctx, d.db, &models.SupplierModel{}, id)
}

var _ purchasing.SupplierDirectory = (*GormSupplierDirectory)(nil)
