package purchasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/ledger"
	"github.com/pos/backend/internal/domain/shared"
)

// SupplierBillRepository defines the persistence operations for SupplierBill
type SupplierBillRepository interface {
	Create(ctx context.Context, bill *SupplierBill) error
	FindByID(ctx context.Context, id uuid.UUID) (*SupplierBill, error)

	// FindByIDForUpdate loads the bill and holds its row lock until the
	// surrounding transaction ends. Every payment change goes through it.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*SupplierBill, error)

	FindAll(ctx context.Context, filter BillFilter) ([]SupplierBill, error)
	Count(ctx context.Context, filter BillFilter) (int64, error)

	// UpdateBalance persists due amount, status and version
	UpdateBalance(ctx context.Context, bill *SupplierBill) error

	Delete(ctx context.Context, id uuid.UUID) error
	ExistsByNumber(ctx context.Context, supplierID uuid.UUID, billNumber string) (bool, error)
}

// BillFilter narrows bill listings
type BillFilter struct {
	shared.Filter
	SupplierID *uuid.UUID
	Status     *ledger.Status
}

// SupplierPaymentRepository defines the persistence operations for payment details
type SupplierPaymentRepository interface {
	Create(ctx context.Context, detail *SupplierPaymentDetail) error
	FindByID(ctx context.Context, billID, id uuid.UUID) (*SupplierPaymentDetail, error)
	Update(ctx context.Context, detail *SupplierPaymentDetail) error
	Delete(ctx context.Context, billID, id uuid.UUID) error
	ListByBill(ctx context.Context, billID uuid.UUID) ([]SupplierPaymentDetail, error)
	CountByBill(ctx context.Context, billID uuid.UUID) (int64, error)
}

// SupplierDirectory answers whether a supplier exists
type SupplierDirectory interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
