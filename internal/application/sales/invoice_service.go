// Package sales implements the invoice use cases.
package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/transaction"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/ledger"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Metrics records invoice business metrics
type Metrics interface {
	RecordInvoiceCreated(ctx context.Context, grandTotal decimal.Decimal, status string)
	RecordStockRejection(ctx context.Context)
}

type noopMetrics struct{}

func (noopMetrics) RecordInvoiceCreated(context.Context, decimal.Decimal, string) {}
func (noopMetrics) RecordStockRejection(context.Context)                          {}

// InvoiceService handles invoice creation and queries
type InvoiceService struct {
	repos   transaction.TransactionalRepositories
	scope   transaction.TransactionScope
	engine  *inventory.ReservationEngine
	metrics Metrics
	logger  *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	repos transaction.TransactionalRepositories,
	scope transaction.TransactionScope,
	logger *zap.Logger,
) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		repos:   repos,
		scope:   scope,
		engine:  inventory.NewReservationEngine(),
		metrics: noopMetrics{},
		logger:  logger,
	}
}

// SetMetrics sets the business metrics recorder
func (s *InvoiceService) SetMetrics(m Metrics) {
	if m != nil {
		s.metrics = m
	}
}

// Create creates an invoice, reserving its stock and applying its payments in
// one transaction. Nothing is written unless every line can be supplied.
func (s *InvoiceService) Create(ctx context.Context, actorID uuid.UUID, in CreateInvoiceInput) (*InvoiceResponse, error) {
	if actorID == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeUnauthorized, "Authentication required to create an invoice")
	}

	items := make([]sales.ItemInput, len(in.Items))
	for i, it := range in.Items {
		items[i] = sales.ItemInput{
			StockID:      it.StockID,
			Qty:          it.Qty,
			UnitPrice:    it.UnitPrice,
			DiscountRate: it.DiscountRate,
		}
	}
	payments := make([]sales.PaymentInput, len(in.Payments))
	for i, p := range in.Payments {
		payments[i] = sales.PaymentInput{
			PaymentMethod:    sales.PaymentMethod(p.PaymentMethod),
			TotalGivenAmount: p.TotalGivenAmount,
			PaymentDate:      p.PaymentDate,
		}
	}

	invoice, err := sales.NewInvoice(in.CustomerID, actorID, in.InvoiceDiscount, items, payments)
	if err != nil {
		s.logRejection(err, "invoice rejected before reservation")
		return nil, err
	}

	exists, err := s.repos.Customers().Exists(ctx, in.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("check customer: %w", err)
	}
	if !exists {
		verr := shared.NewValidationError()
		verr.Add("customer_id", "The selected customer does not exist")
		return nil, verr
	}

	err = s.scope.Execute(ctx, func(repos transaction.TransactionalRepositories) error {
		if _, err := s.engine.Reserve(ctx, repos.Stocks(), invoice.StockRequests()); err != nil {
			return err
		}
		return repos.Invoices().Create(ctx, invoice)
	})
	if err != nil {
		var insufficient *inventory.InsufficientStockError
		if errors.As(err, &insufficient) {
			s.metrics.RecordStockRejection(ctx)
			s.logger.Warn("invoice rejected: insufficient stock",
				zap.String("stock_id", insufficient.StockID.String()),
				zap.String("available", insufficient.Available.String()),
				zap.String("requested", insufficient.Requested.String()),
			)
			return nil, err
		}
		var derr *shared.DomainError
		if errors.As(err, &derr) {
			return nil, err
		}
		s.logger.Error("invoice creation failed", zap.Error(err))
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	s.metrics.RecordInvoiceCreated(ctx, invoice.GrandTotal, invoice.Status.String())
	s.logger.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("grand_total", invoice.GrandTotal.StringFixed(2)),
		zap.String("status", invoice.Status.String()),
	)

	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// GetByID retrieves an invoice with its items and payments
func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.repos.Invoices().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToInvoiceResponse(invoice)
	return &resp, nil
}

// List lists invoices with pagination
func (s *InvoiceService) List(ctx context.Context, f InvoiceListFilter) (*shared.Paginated[InvoiceResponse], error) {
	filter := sales.InvoiceFilter{
		Filter: shared.Filter{
			Page:     f.Page,
			PageSize: f.PageSize,
			OrderBy:  f.OrderBy,
			OrderDir: f.OrderDir,
		}.Normalize(),
		CustomerID: f.CustomerID,
	}
	if f.Status != "" {
		status := sales.InvoiceStatus(f.Status)
		filter.Status = &status
	}

	invoices, err := s.repos.Invoices().FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.repos.Invoices().Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		items[i] = ToInvoiceResponse(&invoices[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *InvoiceService) logRejection(err error, msg string) {
	var exceeds *ledger.AllocationExceedsBalanceError
	if errors.As(err, &exceeds) {
		s.logger.Warn(msg,
			zap.String("due", exceeds.Due.StringFixed(2)),
			zap.String("requested", exceeds.Requested.StringFixed(2)),
		)
	}
}
