package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// Create inserts the invoice row and its items and payments
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *sales.Invoice) error {
	return translateError(r.db.WithContext(ctx).Create(models.InvoiceModelFromDomain(invoice)).Error, nil)
}

// FindByID loads an invoice with its items and payments
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Invoice, error) {
	var model models.InvoiceModel
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("payment_date ASC, id ASC") }).
		First(&model, "id = ?", id).Error
	if err != nil {
		return nil, translateError(err, shared.NewNotFoundError(fmt.Sprintf("Invoice %s not found", id)))
	}
	return model.ToDomain(), nil
}

// FindAll lists invoices without their children
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter sales.InvoiceFilter) ([]sales.Invoice, error) {
	var rows []models.InvoiceModel
	query := paginate(r.filtered(ctx, filter), filter.Filter, InvoiceSortFields)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	invoices := make([]sales.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter sales.InvoiceFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormInvoiceRepository) filtered(ctx context.Context, filter sales.InvoiceFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.InvoiceModel{})
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

var _ sales.InvoiceRepository = (*GormInvoiceRepository)(nil)
