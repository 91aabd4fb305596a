package payroll

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SalaryRepository defines the persistence operations for Salary.
// Loaded salaries always carry the live sum of their payments.
type SalaryRepository interface {
	Create(ctx context.Context, salary *Salary) error
	FindByID(ctx context.Context, id uuid.UUID) (*Salary, error)

	// FindByIDForUpdate locks the salary row so concurrent payment writes
	// against it are serialized
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Salary, error)

	FindAll(ctx context.Context, filter SalaryFilter) ([]Salary, error)
	Count(ctx context.Context, filter SalaryFilter) (int64, error)
	ExistsForMonth(ctx context.Context, employeeID uuid.UUID, salaryMonth string) (bool, error)
}

// SalaryFilter narrows salary listings
type SalaryFilter struct {
	shared.Filter
	EmployeeID  *uuid.UUID
	SalaryMonth string
}

// SalaryPaymentRepository defines the persistence operations for SalaryPayment
type SalaryPaymentRepository interface {
	Create(ctx context.Context, payment *SalaryPayment) error
	FindByID(ctx context.Context, id uuid.UUID) (*SalaryPayment, error)
	Update(ctx context.Context, payment *SalaryPayment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListBySalary(ctx context.Context, salaryID uuid.UUID) ([]SalaryPayment, error)
	SumBySalary(ctx context.Context, salaryID uuid.UUID) (decimal.Decimal, error)
}
