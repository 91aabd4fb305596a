package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/ledger"
	"github.com/pos/backend/internal/domain/purchasing"
	"github.com/shopspring/decimal"
)

// SupplierBillModel is the persistence model for the SupplierBill aggregate root.
type SupplierBillModel struct {
	AggregateModel
	SupplierID uuid.UUID       `gorm:"size:36;not null;uniqueIndex:idx_supplier_bill_number,priority:1"`
	BillNumber string          `gorm:"size:50;not null;uniqueIndex:idx_supplier_bill_number,priority:2"`
	BillDate   time.Time       `gorm:"not null"`
	Total      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	DueAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Status     ledger.Status   `gorm:"size:20;not null;index"`
	Note       string          `gorm:"type:text"`

	Payments []SupplierPaymentDetailModel `gorm:"foreignKey:SupplierBillID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (SupplierBillModel) TableName() string {
	return "supplier_bills"
}

// ToDomain converts the persistence model to a domain SupplierBill.
func (m *SupplierBillModel) ToDomain() *purchasing.SupplierBill {
	return &purchasing.SupplierBill{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SupplierID:        m.SupplierID,
		BillNumber:        m.BillNumber,
		BillDate:          m.BillDate,
		Total:             m.Total,
		DueAmount:         m.DueAmount,
		Status:            m.Status,
		Note:              m.Note,
	}
}

// FromDomain populates the persistence model from a domain SupplierBill.
func (m *SupplierBillModel) FromDomain(b *purchasing.SupplierBill) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.SupplierID = b.SupplierID
	m.BillNumber = b.BillNumber
	m.BillDate = b.BillDate
	m.Total = b.Total
	m.DueAmount = b.DueAmount
	m.Status = b.Status
	m.Note = b.Note
}

// SupplierBillModelFromDomain creates a new persistence model from a domain SupplierBill.
func SupplierBillModelFromDomain(b *purchasing.SupplierBill) *SupplierBillModel {
	m := &SupplierBillModel{}
	m.FromDomain(b)
	return m
}

// SupplierPaymentDetailModel is the persistence model for a payment against a bill.
type SupplierPaymentDetailModel struct {
	BaseModel
	SupplierBillID uuid.UUID                `gorm:"size:36;not null;index"`
	PaidAmount     decimal.Decimal          `gorm:"type:decimal(18,2);not null"`
	PaymentMethod  purchasing.PaymentMethod `gorm:"size:20;not null"`
	Note           string                   `gorm:"type:text"`
	ProofImage     string                   `gorm:"size:255"`
	PaymentDate    time.Time                `gorm:"not null"`
	PaidBy         uuid.UUID                `gorm:"size:36"`
}

// TableName returns the table name for GORM
func (SupplierPaymentDetailModel) TableName() string {
	return "supplier_payment_details"
}

// ToDomain converts the persistence model to a domain SupplierPaymentDetail.
func (m *SupplierPaymentDetailModel) ToDomain() *purchasing.SupplierPaymentDetail {
	return &purchasing.SupplierPaymentDetail{
		BaseEntity:     m.BaseModel.ToDomain(),
		SupplierBillID: m.SupplierBillID,
		PaidAmount:     m.PaidAmount,
		PaymentMethod:  m.PaymentMethod,
		Note:           m.Note,
		ProofImage:     m.ProofImage,
		PaymentDate:    m.PaymentDate,
		PaidBy:         m.PaidBy,
	}
}

// FromDomain populates the persistence model from a domain SupplierPaymentDetail.
func (m *SupplierPaymentDetailModel) FromDomain(d *purchasing.SupplierPaymentDetail) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.SupplierBillID = d.SupplierBillID
	m.PaidAmount = d.PaidAmount
	m.PaymentMethod = d.PaymentMethod
	m.Note = d.Note
	m.ProofImage = d.ProofImage
	m.PaymentDate = d.PaymentDate
	m.PaidBy = d.PaidBy
}

// SupplierPaymentDetailModelFromDomain creates a new persistence model from a domain payment.
func SupplierPaymentDetailModelFromDomain(d *purchasing.SupplierPaymentDetail) *SupplierPaymentDetailModel {
	m := &SupplierPaymentDetailModel{}
	m.FromDomain(d)
	return m
}
