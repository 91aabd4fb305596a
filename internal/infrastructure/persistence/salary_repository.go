package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/payroll"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSalaryRepository implements SalaryRepository using GORM.
// The paid total of every loaded salary is summed from salary_payments
// with the same handle, so inside a transaction it sees uncommitted writes.
type GormSalaryRepository struct {
	db *gorm.DB
}

// NewGormSalaryRepository creates a new GormSalaryRepository
func NewGormSalaryRepository(db *gorm.DB) *GormSalaryRepository {
	return &GormSalaryRepository{db: db}
}

func salaryNotFound(id uuid.UUID) *shared.DomainError {
	return shared.NewNotFoundError(fmt.Sprintf("Salary %s not found", id))
}

// Create inserts a salary
func (r *GormSalaryRepository) Create(ctx context.Context, salary *payroll.Salary) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).
		Create(models.SalaryModelFromDomain(salary)).Error, nil)
}

// FindByID loads a salary with its live paid total
func (r *GormSalaryRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.Salary, error) {
	return r.load(ctx, r.db.WithContext(ctx), id)
}

// FindByIDForUpdate locks the salary row before summing its payments
func (r *GormSalaryRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*payroll.Salary, error) {
	return r.load(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormSalaryRepository) load(ctx context.Context, query *gorm.DB, id uuid.UUID) (*payroll.Salary, error) {
	var model models.SalaryModel
	if err := query.First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, salaryNotFound(id))
	}
	paid, err := NewGormSalaryPaymentRepository(r.db).SumBySalary(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(paid), nil
}

// FindAll lists salaries with their paid totals
func (r *GormSalaryRepository) FindAll(ctx context.Context, filter payroll.SalaryFilter) ([]payroll.Salary, error) {
	var rows []models.SalaryModel
	if err := paginate(r.filtered(ctx, filter), filter.Filter, SalarySortFields).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []payroll.Salary{}, nil
	}

	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	var sums []struct {
		SalaryID uuid.UUID
		Paid     decimal.Decimal
	}
	if err := r.db.WithContext(ctx).Model(&models.SalaryPaymentModel{}).
		Select("salary_id, COALESCE(SUM(paid_amount), 0) AS paid").
		Where("salary_id IN ?", ids).
		Group("salary_id").
		Scan(&sums).Error; err != nil {
		return nil, err
	}
	paidBySalary := make(map[uuid.UUID]decimal.Decimal, len(sums))
	for _, s := range sums {
		paidBySalary[s.SalaryID] = s.Paid
	}

	salaries := make([]payroll.Salary, len(rows))
	for i := range rows {
		salaries[i] = *rows[i].ToDomain(paidBySalary[rows[i].ID])
	}
	return salaries, nil
}

// Count counts salaries matching the filter
func (r *GormSalaryRepository) Count(ctx context.Context, filter payroll.SalaryFilter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormSalaryRepository) filtered(ctx context.Context, filter payroll.SalaryFilter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.SalaryModel{})
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.SalaryMonth != "" {
		query = query.Where("salary_month = ?", filter.SalaryMonth)
	}
	return query
}

// ExistsForMonth checks whether the employee already has a salary for the month
func (r *GormSalaryRepository) ExistsForMonth(ctx context.Context, employeeID uuid.UUID, salaryMonth string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SalaryModel{}).
		Where("employee_id = ? AND salary_month = ?", employeeID, salaryMonth).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ payroll.SalaryRepository = (*GormSalaryRepository)(nil)

// GormSalaryPaymentRepository implements SalaryPaymentRepository using GORM
type GormSalaryPaymentRepository struct {
	db *gorm.DB
}

// NewGormSalaryPaymentRepository creates a new GormSalaryPaymentRepository
func NewGormSalaryPaymentRepository(db *gorm.DB) *GormSalaryPaymentRepository {
	return &GormSalaryPaymentRepository{db: db}
}

func salaryPaymentNotFound(id uuid.UUID) *shared.DomainError {
	return shared.NewNotFoundError(fmt.Sprintf("Salary payment %s not found", id))
}

// Create inserts a salary payment
func (r *GormSalaryPaymentRepository) Create(ctx context.Context, payment *payroll.SalaryPayment) error {
	return translateError(r.db.WithContext(ctx).Create(models.SalaryPaymentModelFromDomain(payment)).Error, nil)
}

// FindByID loads a salary payment
func (r *GormSalaryPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.SalaryPayment, error) {
	var model models.SalaryPaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, salaryPaymentNotFound(id))
	}
	return model.ToDomain(), nil
}

// Update rewrites a salary payment
func (r *GormSalaryPaymentRepository) Update(ctx context.Context, payment *payroll.SalaryPayment) error {
	payment.Touch()
	m := models.SalaryPaymentModelFromDomain(payment)
	result := r.db.WithContext(ctx).Model(m).
		Select("paid_by", "payment_type", "payment_method", "paid_amount", "payment_date", "note", "updated_at").
		Updates(m)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return salaryPaymentNotFound(payment.ID)
	}
	return nil
}

// Delete removes a salary payment
func (r *GormSalaryPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.SalaryPaymentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return salaryPaymentNotFound(id)
	}
	return nil
}

// ListBySalary lists the payments of a salary, oldest first
func (r *GormSalaryPaymentRepository) ListBySalary(ctx context.Context, salaryID uuid.UUID) ([]payroll.SalaryPayment, error) {
	var rows []models.SalaryPaymentModel
	if err := r.db.WithContext(ctx).
		Where("salary_id = ?", salaryID).
		Order("payment_date ASC, created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]payroll.SalaryPayment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// SumBySalary sums the paid amounts of a salary
func (r *GormSalaryPaymentRepository) SumBySalary(ctx context.Context, salaryID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	if err := r.db.WithContext(ctx).Model(&models.SalaryPaymentModel{}).
		Select("SUM(paid_amount)").
		Where("salary_id = ?", salaryID).
		Row().Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

var _ payroll.SalaryPaymentRepository = (*GormSalaryPaymentRepository)(nil)
