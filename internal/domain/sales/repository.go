package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// InvoiceRepository defines the persistence operations for Invoice
type InvoiceRepository interface {
	// Create inserts the invoice together with its items and payments
	Create(ctx context.Context, invoice *Invoice) error

	// FindByID loads an invoice with its items and payments
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)

	// FindAll lists invoices without their children
	FindAll(ctx context.Context, filter InvoiceFilter) ([]Invoice, error)

	// Count counts invoices matching the filter
	Count(ctx context.Context, filter InvoiceFilter) (int64, error)
}

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	shared.Filter
	CustomerID *uuid.UUID
	Status     *InvoiceStatus
}

// CustomerDirectory answers whether a customer exists
type CustomerDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
