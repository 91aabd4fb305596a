package models

import (
	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// StockModel is the persistence model for the Stock aggregate root.
type StockModel struct {
	AggregateModel
	ProductID     uuid.UUID       `gorm:"size:36;not null;index"`
	Barcode       string          `gorm:"size:64;not null;uniqueIndex"`
	Qty           decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockModel) TableName() string {
	return "stocks"
}

// ToDomain converts the persistence model to a domain Stock entity.
func (m *StockModel) ToDomain() *inventory.Stock {
	return &inventory.Stock{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ProductID:         m.ProductID,
		Barcode:           m.Barcode,
		Qty:               m.Qty,
		PurchasePrice:     m.PurchasePrice,
		SellingPrice:      m.SellingPrice,
	}
}

// FromDomain populates the persistence model from a domain Stock entity.
func (m *StockModel) FromDomain(s *inventory.Stock) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.ProductID = s.ProductID
	m.Barcode = s.Barcode
	m.Qty = s.Qty
	m.PurchasePrice = s.PurchasePrice
	m.SellingPrice = s.SellingPrice
}

// StockModelFromDomain creates a new persistence model from a domain Stock entity.
func StockModelFromDomain(s *inventory.Stock) *StockModel {
	m := &StockModel{}
	m.FromDomain(s)
	return m
}
