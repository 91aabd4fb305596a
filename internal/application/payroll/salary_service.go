// Package payroll implements salary and salary payment use cases.
package payroll

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/transaction"
	"github.com/pos/backend/internal/domain/payroll"
	"github.com/pos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const documentType = "salary"

// Metrics records allocation outcomes
type Metrics interface {
	RecordAllocation(ctx context.Context, documentType, operation string)
}

type noopMetrics struct{}

func (noopMetrics) RecordAllocation(context.Context, string, string) {}

// SalaryService handles salaries and salary payments
type SalaryService struct {
	repos   transaction.TransactionalRepositories
	scope   transaction.TransactionScope
	metrics Metrics
	logger  *zap.Logger
}

// NewSalaryService creates a new SalaryService
func NewSalaryService(
	repos transaction.TransactionalRepositories,
	scope transaction.TransactionScope,
	logger *zap.Logger,
) *SalaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SalaryService{
		repos:   repos,
		scope:   scope,
		metrics: noopMetrics{},
		logger:  logger,
	}
}

// SetMetrics sets the business metrics recorder
func (s *SalaryService) SetMetrics(m Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// CreateSalary creates the salary of an employee for a month
func (s *SalaryService) CreateSalary(ctx context.Context, in CreateSalaryInput) (*SalaryResponse, error) {
	salary, err := payroll.NewSalary(in.EmployeeID, in.SalaryMonth, in.TotalSalary, in.Note)
	if err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, "employee_id", in.EmployeeID); err != nil {
		return nil, err
	}

	exists, err := s.repos.Salaries().ExistsForMonth(ctx, salary.EmployeeID, salary.SalaryMonth)
	if err != nil {
		return nil, fmt.Errorf("check salary month: %w", err)
	}
	if exists {
		return nil, shared.NewConflictError(fmt.Sprintf("Salary for %s already exists for this employee", salary.SalaryMonth))
	}
	if err := s.repos.Salaries().Create(ctx, salary); err != nil {
		return nil, err
	}

	resp := ToSalaryResponse(salary)
	return &resp, nil
}

// GetSalary retrieves a salary with its payments and live balance
func (s *SalaryService) GetSalary(ctx context.Context, id uuid.UUID) (*SalaryResponse, error) {
	salary, err := s.repos.Salaries().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := s.repos.SalaryPayments().ListBySalary(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := ToSalaryResponse(salary)
	resp.Payments = make([]SalaryPaymentResponse, len(payments))
	for i := range payments {
		resp.Payments[i] = ToSalaryPaymentResponse(&payments[i], salary.Balance())
	}
	return &resp, nil
}

// ListSalaries lists salaries with pagination
func (s *SalaryService) ListSalaries(ctx context.Context, f SalaryListFilter) (*shared.Paginated[SalaryResponse], error) {
	filter := payroll.SalaryFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
		}.Normalize(),
		EmployeeID:  f.EmployeeID,
		SalaryMonth: f.SalaryMonth,
	}

	salaries, err := s.repos.Salaries().FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repos.Salaries().Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]SalaryResponse, len(salaries))
	for i := range salaries {
		items[i] = ToSalaryResponse(&salaries[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// AddPayment records a payment against a salary
func (s *SalaryService) AddPayment(ctx context.Context, in PaymentInput) (*SalaryPaymentResponse, error) {
	if in.SalaryID == uuid.Nil {
		verr := shared.NewValidationError()
		verr.Add("salary_id", "Salary ID is required")
		return nil, verr
	}
	if err := s.requireUser(ctx, "salary_paid_by", in.PaidBy); err != nil {
		return nil, err
	}

	var resp SalaryPaymentResponse
	err := s.scope.Execute(ctx, func(repos transaction.TransactionalRepositories) error {
		salary, err := repos.Salaries().FindByIDForUpdate(ctx, in.SalaryID)
		if err != nil {
			return err
		}
		payment, err := salary.AddPayment(toDomainInput(in))
		if err != nil {
			return err
		}
		if err := repos.SalaryPayments().Create(ctx, payment); err != nil {
			return err
		}
		resp = ToSalaryPaymentResponse(payment, salary.Balance())
		return nil
	})
	if err != nil {
		return nil, s.handleError("add", err)
	}
	s.metrics.RecordAllocation(ctx, documentType, "create")
	s.logBalance(resp)
	return &resp, nil
}

// UpdatePayment revises a salary payment
func (s *SalaryService) UpdatePayment(ctx context.Context, paymentID uuid.UUID, in PaymentInput) (*SalaryPaymentResponse, error) {
	if err := s.requireUser(ctx, "salary_paid_by", in.PaidBy); err != nil {
		return nil, err
	}

	var resp SalaryPaymentResponse
	err := s.scope.Execute(ctx, func(repos transaction.TransactionalRepositories) error {
		salary, payment, err := lockPayment(ctx, repos, paymentID)
		if err != nil {
			return err
		}
		if in.SalaryID != uuid.Nil && in.SalaryID != salary.ID {
			verr := shared.NewValidationError()
			verr.Add("salary_id", "A payment cannot be moved to another salary")
			return verr
		}
		if err := salary.RevisePayment(payment, toDomainInput(in)); err != nil {
			return err
		}
		if err := repos.SalaryPayments().Update(ctx, payment); err != nil {
			return err
		}
		resp = ToSalaryPaymentResponse(payment, salary.Balance())
		return nil
	})
	if err != nil {
		return nil, s.handleError("update", err)
	}
	s.metrics.RecordAllocation(ctx, documentType, "update")
	s.logBalance(resp)
	return &resp, nil
}

// DeletePayment removes a salary payment
func (s *SalaryService) DeletePayment(ctx context.Context, paymentID uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos transaction.TransactionalRepositories) error {
		salary, payment, err := lockPayment(ctx, repos, paymentID)
		if err != nil {
			return err
		}
		if err := salary.RemovePayment(payment); err != nil {
			return err
		}
		return repos.SalaryPayments().Delete(ctx, payment.ID)
	})
	if err != nil {
		return s.handleError("delete", err)
	}
	s.metrics.RecordAllocation(ctx, documentType, "delete")
	return nil
}

// lockPayment locks the salary that owns the payment and re-reads the
// payment under that lock
func lockPayment(ctx context.Context, repos transaction.TransactionalRepositories, paymentID uuid.UUID) (*payroll.Salary, *payroll.SalaryPayment, error) {
	unlocked, err := repos.SalaryPayments().FindByID(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	salary, err := repos.Salaries().FindByIDForUpdate(ctx, unlocked.SalaryID)
	if err != nil {
		return nil, nil, err
	}
	payment, err := repos.SalaryPayments().FindByID(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	return salary, payment, nil
}

func (s *SalaryService) requireUser(ctx context.Context, field string, id uuid.UUID) error {
	if id == uuid.Nil {
		verr := shared.NewValidationError()
		verr.Add(field, "User is required")
		return verr
	}
	exists, err := s.repos.Users().Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		verr := shared.NewValidationError()
		verr.Add(field, "The selected user does not exist")
		return verr
	}
	return nil
}

func (s *SalaryService) handleError(op string, err error) error {
	var derr *shared.DomainError
	if errors.As(err, &derr) {
		return err
	}
	s.logger.Error("salary payment failed", zap.String("operation", op), zap.Error(err))
	return fmt.Errorf("%s salary payment: %w", op, err)
}

func (s *SalaryService) logBalance(resp SalaryPaymentResponse) {
	if resp.SalaryBalance.IsNegative() {
		s.logger.Warn("salary paid beyond its total",
			zap.String("salary_id", resp.SalaryID.String()),
			zap.String("balance", resp.SalaryBalance.StringFixed(2)),
		)
	}
}

func toDomainInput(in PaymentInput) payroll.PaymentInput {
	return payroll.PaymentInput{
		PaidBy:        in.PaidBy,
		PaymentType:   payroll.PaymentType(in.PaymentType),
		PaymentMethod: in.PaymentMethod,
		PaidAmount:    in.PaidAmount,
		PaymentDate:   in.PaymentDate,
		Note:          in.Note,
	}
}
