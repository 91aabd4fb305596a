package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber   string              `gorm:"size:32;not null;uniqueIndex"`
	CustomerID      uuid.UUID           `gorm:"size:36;not null;index"`
	CreatedBy       uuid.UUID           `gorm:"size:36;not null;index"`
	TotalAmount     decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	InvoiceDiscount decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	FinalDiscount   decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	Tax             decimal.Decimal     `gorm:"type:decimal(18,2);not null;default:0"`
	GrandTotal      decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Balance         decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	Status          sales.InvoiceStatus `gorm:"size:20;not null;index"`

	Items    []InvoiceItemModel    `gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:CASCADE"`
	Payments []InvoicePaymentModel `gorm:"foreignKey:InvoiceID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
// Items and payments are only present when they were preloaded.
func (m *InvoiceModel) ToDomain() *sales.Invoice {
	inv := &sales.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		CustomerID:        m.CustomerID,
		CreatedBy:         m.CreatedBy,
		TotalAmount:       m.TotalAmount,
		InvoiceDiscount:   m.InvoiceDiscount,
		FinalDiscount:     m.FinalDiscount,
		Tax:               m.Tax,
		GrandTotal:        m.GrandTotal,
		Balance:           m.Balance,
		Status:            m.Status,
		Items:             make([]sales.InvoiceItem, len(m.Items)),
		Payments:          make([]sales.InvoicePayment, len(m.Payments)),
	}
	for i := range m.Items {
		inv.Items[i] = m.Items[i].ToDomain()
	}
	for i := range m.Payments {
		inv.Payments[i] = m.Payments[i].ToDomain()
	}
	return inv
}

// InvoiceModelFromDomain creates the invoice model together with its children.
func InvoiceModelFromDomain(inv *sales.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		CreatedBy:       inv.CreatedBy,
		TotalAmount:     inv.TotalAmount,
		InvoiceDiscount: inv.InvoiceDiscount,
		FinalDiscount:   inv.FinalDiscount,
		Tax:             inv.Tax,
		GrandTotal:      inv.GrandTotal,
		Balance:         inv.Balance,
		Status:          inv.Status,
		Items:           make([]InvoiceItemModel, len(inv.Items)),
		Payments:        make([]InvoicePaymentModel, len(inv.Payments)),
	}
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	for i, it := range inv.Items {
		m.Items[i] = InvoiceItemModel{
			InvoiceID:    inv.ID,
			StockID:      it.StockID,
			Qty:          it.Qty,
			SoldPrice:    it.SoldPrice,
			DiscountRate: it.DiscountRate,
			Discount:     it.Discount,
			Subtotal:     it.Subtotal,
		}
		m.Items[i].FromDomainBaseEntity(it.BaseEntity)
	}
	for i, p := range inv.Payments {
		m.Payments[i] = InvoicePaymentModel{
			InvoiceID:        inv.ID,
			PaymentMethod:    p.PaymentMethod,
			TotalGivenAmount: p.TotalGivenAmount,
			PaymentDate:      p.PaymentDate,
		}
		m.Payments[i].FromDomainBaseEntity(p.BaseEntity)
	}
	return m
}

// InvoiceItemModel is the persistence model for an invoice line.
type InvoiceItemModel struct {
	BaseModel
	InvoiceID    uuid.UUID       `gorm:"size:36;not null;index"`
	StockID      uuid.UUID       `gorm:"size:36;not null;index"`
	Qty          int64           `gorm:"not null"`
	SoldPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DiscountRate decimal.Decimal `gorm:"type:decimal(5,4);not null;default:0"`
	Discount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceItemModel) TableName() string {
	return "invoice_items"
}

// ToDomain converts the persistence model to a domain InvoiceItem.
func (m *InvoiceItemModel) ToDomain() sales.InvoiceItem {
	return sales.InvoiceItem{
		BaseEntity:   m.BaseModel.ToDomain(),
		InvoiceID:    m.InvoiceID,
		StockID:      m.StockID,
		Qty:          m.Qty,
		SoldPrice:    m.SoldPrice,
		DiscountRate: m.DiscountRate,
		Discount:     m.Discount,
		Subtotal:     m.Subtotal,
	}
}

// InvoicePaymentModel is the persistence model for a payment tendered at sale time.
type InvoicePaymentModel struct {
	BaseModel
	InvoiceID        uuid.UUID           `gorm:"size:36;not null;index"`
	PaymentMethod    sales.PaymentMethod `gorm:"size:20;not null"`
	TotalGivenAmount decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	PaymentDate      time.Time           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoicePaymentModel) TableName() string {
	return "invoice_payments"
}

// ToDomain converts the persistence model to a domain InvoicePayment.
func (m *InvoicePaymentModel) ToDomain() sales.InvoicePayment {
	return sales.InvoicePayment{
		BaseEntity:       m.BaseModel.ToDomain(),
		InvoiceID:        m.InvoiceID,
		PaymentMethod:    m.PaymentMethod,
		TotalGivenAmount: m.TotalGivenAmount,
		PaymentDate:      m.PaymentDate,
	}
}
