package handler

import (
	"time"

	"github.com/google/uuid"
	purchasingapp "github.com/pos/backend/internal/application/purchasing"
	"github.com/shopspring/decimal"
)

// CreateSupplierBillRequest is the body of POST /supplier-bills
type CreateSupplierBillRequest struct {
	SupplierID string          `json:"supplier_id" binding:"required,uuid"`
	BillNumber string          `json:"bill_number" binding:"required,max=100"`
	BillDate   *time.Time      `json:"bill_date"`
	Total      decimal.Decimal `json:"total" binding:"gt=0"`
	Note       string          `json:"note" binding:"max=1000"`
}

func (r CreateSupplierBillRequest) toInput() purchasingapp.CreateBillInput {
	return purchasingapp.CreateBillInput{
		SupplierID: uuid.MustParse(r.SupplierID),
		BillNumber: r.BillNumber,
		BillDate:   r.BillDate,
		Total:      r.Total,
		Note:       r.Note,
	}
}

// SupplierPaymentRequest is the body of the supplier payment create and update routes
type SupplierPaymentRequest struct {
	PaidAmount    decimal.Decimal `json:"paid_amount" binding:"gt=0"`
	PaymentMethod string          `json:"payment_method" binding:"required,max=50"`
	Note          string          `json:"note" binding:"max=1000"`
	// ProofImage is the object key returned by POST /uploads/payment-proofs
	ProofImage  string     `json:"proof_image" binding:"max=500"`
	PaymentDate *time.Time `json:"payment_date"`
}

func (r SupplierPaymentRequest) toInput() purchasingapp.PaymentInput {
	return purchasingapp.PaymentInput{
		PaidAmount:    r.PaidAmount,
		PaymentMethod: r.PaymentMethod,
		Note:          r.Note,
		ProofImage:    r.ProofImage,
		PaymentDate:   r.PaymentDate,
	}
}

// SupplierBillListQuery is the query string of GET /supplier-bills
type SupplierBillListQuery struct {
	SupplierID string `form:"supplier_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=pending partial paid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by" binding:"omitempty,oneof=created_at bill_date total due_amount"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (q SupplierBillListQuery) toFilter() purchasingapp.BillListFilter {
	return purchasingapp.BillListFilter{
		SupplierID: optionalUUID(q.SupplierID),
		Status:     q.Status,
		Page:       q.Page,
		PageSize:   q.PageSize,
		OrderBy:    q.OrderBy,
		OrderDir:   q.OrderDir,
	}
}
