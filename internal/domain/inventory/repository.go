package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockRepository defines the persistence operations for Stock
type StockRepository interface {
	// FindByID finds a stock unit without locking it
	FindByID(ctx context.Context, id uuid.UUID) (*Stock, error)

	// LockByIDs takes an exclusive row lock on every given stock row, acquiring
	// the locks in ascending id order, and returns the rows that exist.
	// Missing ids are simply absent from the result.
	// Must be called inside a transaction; the locks are held until it ends.
	LockByIDs(ctx context.Context, ids []uuid.UUID) ([]Stock, error)

	// Save creates or updates a stock unit
	Save(ctx context.Context, stock *Stock) error

	// UpdateQuantity writes a quantity computed under the row lock
	UpdateQuantity(ctx context.Context, id uuid.UUID, qty decimal.Decimal, version int) error

	// ExistsByBarcode checks if a barcode is already used
	ExistsByBarcode(ctx context.Context, barcode string) (bool, error)
}
