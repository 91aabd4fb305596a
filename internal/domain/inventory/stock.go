package inventory

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Stock is a sellable unit of a product with its on-hand quantity.
// Many invoices read and decrement the same Stock concurrently, so every
// quantity change must happen while holding its row lock.
type Stock struct {
	shared.BaseAggregateRoot
	ProductID     uuid.UUID
	Barcode       string
	Qty           decimal.Decimal // fractional quantities are allowed, never negative
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
}

// NewStock creates a stock unit for a product
func NewStock(productID uuid.UUID, barcode string, qty, purchasePrice, sellingPrice decimal.Decimal) (*Stock, error) {
	verr := shared.NewValidationError()
	if productID == uuid.Nil {
		verr.Add("product_id", "Product ID cannot be empty")
	}
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		verr.Add("barcode", "Barcode cannot be empty")
	}
	if len(barcode) > 64 {
		verr.Add("barcode", "Barcode cannot exceed 64 characters")
	}
	if qty.IsNegative() {
		verr.Add("qty", "Quantity cannot be negative")
	}
	if purchasePrice.IsNegative() {
		verr.Add("purchase_price", "Purchase price cannot be negative")
	}
	if sellingPrice.IsNegative() {
		verr.Add("selling_price", "Selling price cannot be negative")
	}
	shared.CheckMoneyScale(verr, "purchase_price", purchasePrice)
	shared.CheckMoneyScale(verr, "selling_price", sellingPrice)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return &Stock{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		Barcode:           barcode,
		Qty:               qty,
		PurchasePrice:     purchasePrice,
		SellingPrice:      sellingPrice,
	}, nil
}

// CanSupply reports whether qty can be taken from the stock
func (s *Stock) CanSupply(qty decimal.Decimal) bool {
	return s.Qty.GreaterThanOrEqual(qty)
}

// Decrease takes qty out of the stock, refusing to go negative
func (s *Stock) Decrease(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Quantity must be positive")
	}
	if !s.CanSupply(qty) {
		return &InsufficientStockError{StockID: s.ID, Available: s.Qty, Requested: qty}
	}
	s.Qty = s.Qty.Sub(qty)
	s.IncrementVersion()
	return nil
}

// Increase adds received goods to the stock
func (s *Stock) Increase(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Quantity must be positive")
	}
	s.Qty = s.Qty.Add(qty)
	s.IncrementVersion()
	return nil
}
