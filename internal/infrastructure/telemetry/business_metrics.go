package telemetry

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics counts invoices and payment allocations.
// It satisfies the Metrics interfaces of the sales, purchasing and payroll services.
type BusinessMetrics struct {
	logger *zap.Logger

	invoiceCreatedTotal     *Counter
	invoiceAmountTotal      *FloatCounter
	stockRejectionTotal     *Counter
	allocationTotal         *Counter
	allocationRejectedTotal *Counter
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	bm := &BusinessMetrics{logger: logger}

	var err error
	bm.invoiceCreatedTotal, err = NewCounter(cfg.Meter,
		"pos_invoice_created_total", "Total number of invoices created", "{invoices}")
	if err != nil {
		return nil, err
	}
	bm.invoiceAmountTotal, err = NewFloatCounter(cfg.Meter,
		"pos_invoice_amount_total", "Sum of invoice grand totals", "{currency}")
	if err != nil {
		return nil, err
	}
	bm.stockRejectionTotal, err = NewCounter(cfg.Meter,
		"pos_stock_reservation_rejected_total", "Invoices rejected for insufficient stock", "{invoices}")
	if err != nil {
		return nil, err
	}
	bm.allocationTotal, err = NewCounter(cfg.Meter,
		"pos_payment_allocation_total", "Payment allocations applied to ledger documents", "{allocations}")
	if err != nil {
		return nil, err
	}
	bm.allocationRejectedTotal, err = NewCounter(cfg.Meter,
		"pos_payment_allocation_rejected_total", "Payment allocations rejected for exceeding the balance", "{allocations}")
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// RecordInvoiceCreated counts a committed invoice and its grand total
func (bm *BusinessMetrics) RecordInvoiceCreated(ctx context.Context, grandTotal decimal.Decimal, status string) {
	bm.invoiceCreatedTotal.Inc(ctx, AttrInvoiceStatus.String(status))
	bm.invoiceAmountTotal.Add(ctx, grandTotal.InexactFloat64(), AttrInvoiceStatus.String(status))
}

// RecordStockRejection counts an invoice refused by the stock check
func (bm *BusinessMetrics) RecordStockRejection(ctx context.Context) {
	bm.stockRejectionTotal.Inc(ctx)
}

// RecordAllocation counts an applied allocation.
// operation is one of create, update, delete.
func (bm *BusinessMetrics) RecordAllocation(ctx context.Context, documentType, operation string) {
	bm.allocationTotal.Inc(ctx, AttrDocumentType.String(documentType), AttrOperation.String(operation))
}

// RecordAllocationRejected counts an allocation refused by the strict policy
func (bm *BusinessMetrics) RecordAllocationRejected(ctx context.Context, documentType string) {
	bm.allocationRejectedTotal.Inc(ctx, AttrDocumentType.String(documentType))
}

// MetricsError represents an error in metrics operations.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}
