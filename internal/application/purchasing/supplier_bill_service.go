// Package purchasing implements supplier bill and supplier payment use cases.
package purchasing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/transaction"
	"github.com/pos/backend/internal/domain/ledger"
	"github.com/pos/backend/internal/domain/purchasing"
	"github.com/pos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const documentType = "supplier_bill"

// Metrics records allocation outcomes
type Metrics interface {
	RecordAllocation(ctx context.Context, documentType, operation string)
	RecordAllocationRejected(ctx context.Context, documentType string)
}

type noopMetrics struct{}

func (noopMetrics) RecordAllocation(context.Context, string, string) {}
func (noopMetrics) RecordAllocationRejected(context.Context, string) {}

// SupplierBillService handles supplier bills and the payments against them.
// Every payment change locks the bill row first and writes the payment and
// the bill's due amount in the same transaction.
type SupplierBillService struct {
	repos   transaction.TransactionalRepositories
	scope   transaction.TransactionScope
	metrics Metrics
	logger  *zap.Logger
}

// NewSupplierBillService creates a new SupplierBillService
func NewSupplierBillService(
	repos transaction.TransactionalRepositories,
	scope transaction.TransactionScope,
	logger *zap.Logger,
) *SupplierBillService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierBillService{
		repos:   repos,
		scope:   scope,
		metrics: noopMetrics{},
		logger:  logger,
	}
}

// SetMetrics sets the business metrics recorder
func (s *SupplierBillService) SetMetrics(m Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// CreateBill creates a supplier bill
func (s *SupplierBillService) CreateBill(ctx context.Context, in CreateBillInput) (*BillResponse, error) {
	var billDate time.Time
	if in.BillDate != nil {
		billDate = *in.BillDate
	}
	bill, err := purchasing.NewSupplierBill(in.SupplierID, in.BillNumber, billDate, in.Total, in.Note)
	if err != nil {
		return nil, err
	}

	exists, err := s.repos.Suppliers().Exists(ctx, in.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("check supplier: %w", err)
	}
	if !exists {
		verr := shared.NewValidationError()
		verr.Add("supplier_id", "The selected supplier does not exist")
		return nil, verr
	}

	dup, err := s.repos.SupplierBills().ExistsByNumber(ctx, bill.SupplierID, bill.BillNumber)
	if err != nil {
		return nil, fmt.Errorf("check bill number: %w", err)
	}
	if dup {
		return nil, shared.NewConflictError(fmt.Sprintf("Bill number %s already exists for this supplier", bill.BillNumber))
	}

	if err := s.repos.SupplierBills().Create(ctx, bill); err != nil {
		return nil, err
	}
	s.logger.Info("supplier bill created",
		zap.String("bill_id", bill.ID.String()),
		zap.String("total", bill.Total.StringFixed(2)),
	)
	resp := ToBillResponse(bill)
	return &resp, nil
}

// GetBill retrieves a supplier bill
func (s *SupplierBillService) GetBill(ctx context.Context, id uuid.UUID) (*BillResponse, error) {
	bill, err := s.repos.SupplierBills().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBillResponse(bill)
	return &resp, nil
}

// ListBills lists supplier bills with pagination
func (s *SupplierBillService) ListBills(ctx context.Context, f BillListFilter) (*shared.Paginated[BillResponse], error) {
	filter := purchasing.BillFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
		}.Normalize(),
		SupplierID: f.SupplierID,
	}
	if f.Status != "" {
		status := ledger.Status(f.Status)
		filter.Status = &status
	}

	bills, err := s.repos.SupplierBills().FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repos.SupplierBills().Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]BillResponse, len(bills))
	for i := range bills {
		items[i] = ToBillResponse(&bills[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// DeleteBill deletes a bill that has no payment history
func (s *SupplierBillService) DeleteBill(ctx context.Context, id uuid.UUID) error {
	return s.scope.Execute(ctx, func(repos transaction.TransactionalRepositories) error {
		bill, err := repos.SupplierBills().FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		count, err := repos.SupplierPayments().CountByBill(ctx, bill.ID)
		if err != nil {
			return err
		}
		if err := bill.EnsureDeletable(count); err != nil {
			return err
		}
		return repos.SupplierBills().Delete(ctx, bill.ID)
	})
}

// ListPayments lists the payments of a bill
func (s *SupplierBillService) ListPayments(ctx context.Context, billID uuid.UUID) ([]PaymentResponse, error) {
	if _, err := s.repos.SupplierBills().FindByID(ctx, billID); err != nil {
		return nil, err
	}
	details, err := s.repos.SupplierPayments().ListByBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	resp := make([]PaymentResponse, len(details))
	for i := range details {
		resp[i] = ToPaymentResponse(&details[i])
	}
	return resp, nil
}

// AddPayment allocates a new payment against a bill
func (s *SupplierBillService) AddPayment(ctx context.Context, actorID, billID uuid.UUID, in PaymentInput) (*PaymentResponse, error) {
	var detail *purchasing.SupplierPaymentDetail
	err := s.scope.Execute(ctx, func(repos transaction.TransactionalRepositories) error {
		bill, err := repos.SupplierBills().FindByIDForUpdate(ctx, billID)
		if err != nil {
			return err
		}
		detail, err = bill.RecordPayment(toDomainInput(actorID, in))
		if err != nil {
			return err
		}
		if err := repos.SupplierPayments().Create(ctx, detail); err != nil {
			return err
		}
		return repos.SupplierBills().UpdateBalance(ctx, bill)
	})
	if err != nil {
		return nil, s.handleAllocationError(ctx, "add", billID, err)
	}

	s.metrics.RecordAllocation(ctx, documentType, "create")
	resp := ToPaymentResponse(detail)
	return &resp, nil
}

// UpdatePayment revises an existing payment of a bill
func (s *SupplierBillService) UpdatePayment(ctx context.Context, actorID, billID, paymentID uuid.UUID, in PaymentInput) (*PaymentResponse, error) {
	var detail *purchasing.SupplierPaymentDetail
	err := s.scope.Execute(ctx, func(repos transaction.TransactionalRepositories) error {
		bill, err := repos.SupplierBills().FindByIDForUpdate(ctx, billID)
		if err != nil {
			return err
		}
		detail, err = repos.SupplierPayments().FindByID(ctx, billID, paymentID)
		if err != nil {
			return err
		}
		if err := bill.RevisePayment(detail, toDomainInput(actorID, in)); err != nil {
			return err
		}
		if err := repos.SupplierPayments().Update(ctx, detail); err != nil {
			return err
		}
		return repos.SupplierBills().UpdateBalance(ctx, bill)
	})
	if err != nil {
		return nil, s.handleAllocationError(ctx, "update", billID, err)
	}

	s.metrics.RecordAllocation(ctx, documentType, "update")
	resp := ToPaymentResponse(detail)
	return &resp, nil
}

// DeletePayment removes a payment and gives its amount back to the bill
func (s *SupplierBillService) DeletePayment(ctx context.Context, billID, paymentID uuid.UUID) error {
	err := s.scope.Execute(ctx, func(repos transaction.TransactionalRepositories) error {
		bill, err := repos.SupplierBills().FindByIDForUpdate(ctx, billID)
		if err != nil {
			return err
		}
		detail, err := repos.SupplierPayments().FindByID(ctx, billID, paymentID)
		if err != nil {
			return err
		}
		if err := bill.RemovePayment(detail); err != nil {
			return err
		}
		if err := repos.SupplierPayments().Delete(ctx, billID, paymentID); err != nil {
			return err
		}
		return repos.SupplierBills().UpdateBalance(ctx, bill)
	})
	if err != nil {
		return s.handleAllocationError(ctx, "delete", billID, err)
	}
	s.metrics.RecordAllocation(ctx, documentType, "delete")
	return nil
}

func (s *SupplierBillService) handleAllocationError(ctx context.Context, op string, billID uuid.UUID, err error) error {
	var exceeds *ledger.AllocationExceedsBalanceError
	if errors.As(err, &exceeds) {
		s.metrics.RecordAllocationRejected(ctx, documentType)
		s.logger.Warn("supplier payment rejected: exceeds due amount",
			zap.String("operation", op),
			zap.String("bill_id", billID.String()),
			zap.String("due", exceeds.Due.StringFixed(2)),
			zap.String("requested", exceeds.Requested.StringFixed(2)),
		)
		return err
	}
	var derr *shared.DomainError
	if errors.As(err, &derr) {
		return err
	}
	s.logger.Error("supplier payment failed",
		zap.String("operation", op),
		zap.String("bill_id", billID.String()),
		zap.Error(err),
	)
	return fmt.Errorf("%s supplier payment: %w", op, err)
}

func toDomainInput(actorID uuid.UUID, in PaymentInput) purchasing.PaymentInput {
	return purchasing.PaymentInput{
		PaidAmount:    in.PaidAmount,
		PaymentMethod: purchasing.PaymentMethod(in.PaymentMethod),
		Note:          in.Note,
		ProofImage:    in.ProofImage,
		PaymentDate:   in.PaymentDate,
		PaidBy:        actorID,
	}
}
