package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/purchasing"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSupplierBillRepository implements SupplierBillRepository using GORM
type GormSupplierBillRepository struct {
	db *gorm.DB
}

// NewGormSupplierBillRepository creates a new GormSupplierBillRepository
func NewGormSupplierBillRepository(db *gorm.DB) *GormSupplierBillRepository {
	return &GormSupplierBillRepository{db: db}
}

func billNotFound(id uuid.UUID) *shared.DomainError {
	return shared.NewNotFoundError(fmt.Sprintf("Supplier bill %s not found", id))
}

// Create inserts a bill
func (r *GormSupplierBillRepository) Create(ctx context.Context, bill *purchasing.SupplierBill) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).
		Create(models.SupplierBillModelFromDomain(bill)).Error, nil)
}

// FindByID loads a bill without locking it
func (r *GormSupplierBillRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.SupplierBill, error) {
	var model models.SupplierBillModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, billNotFound(id))
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads the bill with SELECT ... FOR UPDATE
func (r *GormSupplierBillRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*purchasing.SupplierBill, error) {
	var model models.SupplierBillModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, billNotFound(id))
	}
	return model.ToDomain(), nil
}

// FindAll lists bills
func (r *GormSupplierBillRepository) FindAll(ctx context.Context, filter purchasing.BillFilter) ([]purchasing.SupplierBill, error) {
	var rows []models.SupplierBillModel
	if err := paginate(r.filtered(ctx, filter), filter.Filter, SupplierBillSortFields).Find(&rows).Error; err != nil {
		return nil, err
	}
	bills := make([]purchasing.SupplierBill, len(rows))
	for i := range rows {
		bills[i] = *rows[i].ToDomain()
	}
	return bills, nil
}

// Count counts bills matching the filter
func (r *GormSupplierBillRepository) Count(ctx context.Context, filter purchasing.BillFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSupplierBillRepository) filtered(ctx context.Context, filter purchasing.BillFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.SupplierBillModel{})
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

// UpdateBalance persists due amount, status and version
func (r *GormSupplierBillRepository) UpdateBalance(ctx context.Context, bill *purchasing.SupplierBill) error {
	result := r.db.WithContext(ctx).Model(&models.SupplierBillModel{}).
		Where("id = ?", bill.ID).
		Updates(map[string]any{
			"due_amount": bill.DueAmount,
			"status":     bill.Status,
			"version":    bill.Version,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return billNotFound(bill.ID)
	}
	return nil
}

// Delete removes a bill; payment details cascade
func (r *GormSupplierBillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("supplier_bill_id = ?", id).
		Delete(&models.SupplierPaymentDetailModel{}).Error; err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&models.SupplierBillModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return billNotFound(id)
	}
	return nil
}

// ExistsByNumber checks whether the supplier already has a bill with this number
func (r *GormSupplierBillRepository) ExistsByNumber(ctx context.Context, supplierID uuid.UUID, billNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SupplierBillModel{}).
		Where("supplier_id = ? AND bill_number = ?", supplierID, billNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ purchasing.SupplierBillRepository = (*GormSupplierBillRepository)(nil)

// GormSupplierPaymentRepository implements SupplierPaymentRepository using GORM
type GormSupplierPaymentRepository struct {
	db *gorm.DB
}

// NewGormSupplierPaymentRepository creates a new GormSupplierPaymentRepository
func NewGormSupplierPaymentRepository(db *gorm.DB) *GormSupplierPaymentRepository {
	return &GormSupplierPaymentRepository{db: db}
}

func paymentNotFound(id uuid.UUID) *shared.DomainError {
	return shared.NewNotFoundError(fmt.Sprintf("Payment %s not found", id))
}

// Create inserts a payment detail
func (r *GormSupplierPaymentRepository) Create(ctx context.Context, detail *purchasing.SupplierPaymentDetail) error {
	return translateError(r.db.WithContext(ctx).Create(models.SupplierPaymentDetailModelFromDomain(detail)).Error, nil)
}

// FindByID loads a payment detail that belongs to billID
func (r *GormSupplierPaymentRepository) FindByID(ctx context.Context, billID, id uuid.UUID) (*purchasing.SupplierPaymentDetail, error) {
	var model models.SupplierPaymentDetailModel
	if err := r.db.WithContext(ctx).
		First(&model, "id = ? AND supplier_bill_id = ?", id, billID).Error; err != nil {
		return nil, translateError(err, paymentNotFound(id))
	}
	return model.ToDomain(), nil
}

// Update rewrites a payment detail
func (r *GormSupplierPaymentRepository) Update(ctx context.Context, detail *purchasing.SupplierPaymentDetail) error {
	detail.Touch()
	m := models.SupplierPaymentDetailModelFromDomain(detail)
	result := r.db.WithContext(ctx).Model(m).
		Where("supplier_bill_id = ?", detail.SupplierBillID).
		Select("paid_amount", "payment_method", "note", "proof_image", "payment_date", "paid_by", "updated_at").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return paymentNotFound(detail.ID)
	}
	return nil
}

// Delete removes a payment detail that belongs to billID
func (r *GormSupplierPaymentRepository) Delete(ctx context.Context, billID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Delete(&models.SupplierPaymentDetailModel{}, "id = ? AND supplier_bill_id = ?", id, billID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return paymentNotFound(id)
	}
	return nil
}

// ListByBill lists the payments of a bill, oldest first
func (r *GormSupplierPaymentRepository) ListByBill(ctx context.Context, billID uuid.UUID) ([]purchasing.SupplierPaymentDetail, error) {
	var rows []models.SupplierPaymentDetailModel
	if err := r.db.WithContext(ctx).
		Where("supplier_bill_id = ?", billID).
		Order("payment_date ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]purchasing.SupplierPaymentDetail, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountByBill counts the payments of a bill
func (r *GormSupplierPaymentRepository) CountByBill(ctx context.Context, billID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SupplierPaymentDetailModel{}).
		Where("supplier_bill_id = ?", billID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ purchasing.SupplierPaymentRepository = (*GormSupplierPaymentRepository)(nil)
