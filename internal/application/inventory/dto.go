package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// CreateStockInput is the payload for registering a stock unit
type CreateStockInput struct {
	ProductID     uuid.UUID
	Barcode       string
	Qty           decimal.Decimal
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
}

// ReceiveStockInput is the payload of a goods receipt
type ReceiveStockInput struct {
	Qty decimal.Decimal
}

// StockResponse represents a stock unit in API responses
type StockResponse struct {
	ID            uuid.UUID       `json:"id"`
	ProductID     uuid.UUID       `json:"product_id"`
	Barcode       string          `json:"barcode"`
	Qty           decimal.Decimal `json:"qty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToStockResponse converts a domain Stock to its response
func ToStockResponse(s *inventory.Stock) StockResponse {
	return StockResponse{
		ID:            s.ID,
		ProductID:     s.ProductID,
		Barcode:       s.Barcode,
		Qty:           s.Qty,
		PurchasePrice: s.PurchasePrice,
		SellingPrice:  s.SellingPrice,
		Version:       s.Version,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
