package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/purchasing"
	"github.com/shopspring/decimal"
)

// CreateBillInput is the payload of a supplier bill creation
type CreateBillInput struct {
	SupplierID uuid.UUID
	BillNumber string
	BillDate   *time.Time
	Total      decimal.Decimal
	Note       string
}

// PaymentInput is the payload of a supplier payment create or update
type PaymentInput struct {
	PaidAmount    decimal.Decimal
	PaymentMethod string
	Note          string
	ProofImage    string
	PaymentDate   *time.Time
}

// BillResponse represents a supplier bill in API responses
type BillResponse struct {
	ID         uuid.UUID       `json:"id"`
	SupplierID uuid.UUID       `json:"supplier_id"`
	BillNumber string          `json:"bill_number"`
	BillDate   time.Time       `json:"bill_date"`
	Total      decimal.Decimal `json:"total"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
	DueAmount  decimal.Decimal `json:"due_amount"`
	Status     string          `json:"status"`
	Note       string          `json:"note,omitempty"`
	Version    int             `json:"version"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// PaymentResponse represents a supplier payment detail in API responses
type PaymentResponse struct {
	ID             uuid.UUID       `json:"id"`
	SupplierBillID uuid.UUID       `json:"supplier_bill_id"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	PaymentMethod  string          `json:"payment_method"`
	Note           string          `json:"note,omitempty"`
	ProofImage     string          `json:"proof_image,omitempty"`
	PaymentDate    time.Time       `json:"payment_date"`
	PaidBy         uuid.UUID       `json:"paid_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ToBillResponse converts a domain SupplierBill to its response
func ToBillResponse(b *purchasing.SupplierBill) BillResponse {
	return BillResponse{
		ID:         b.ID,
		SupplierID: b.SupplierID,
		BillNumber: b.BillNumber,
		BillDate:   b.BillDate,
		Total:      b.Total,
		PaidAmount: b.PaidTotal(),
		DueAmount:  b.DueAmount,
		Status:     b.Status.String(),
		Note:       b.Note,
		Version:    b.Version,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// ToPaymentResponse converts a domain SupplierPaymentDetail to its response
func ToPaymentResponse(d *purchasing.SupplierPaymentDetail) PaymentResponse {
	return PaymentResponse{
		ID:             d.ID,
		SupplierBillID: d.SupplierBillID,
		PaidAmount:     d.PaidAmount,
		PaymentMethod:  string(d.PaymentMethod),
		Note:           d.Note,
		ProofImage:     d.ProofImage,
		PaymentDate:    d.PaymentDate,
		PaidBy:         d.PaidBy,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// BillListFilter represents filter options for bill lists
type BillListFilter struct {
	SupplierID *uuid.UUID `form:"supplier_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=pending partial paid"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=created_at bill_date total due_amount"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
