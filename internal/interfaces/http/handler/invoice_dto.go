package handler

import (
	"time"

	"github.com/google/uuid"
	salesapp "github.com/pos/backend/internal/application/sales"
	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest is the body of POST /invoices
type CreateInvoiceRequest struct {
	CustomerID      string                  `json:"customer_id" binding:"required,uuid"`
	InvoiceDiscount decimal.Decimal         `json:"invoice_discount" binding:"gte=0"`
	Items           []InvoiceItemRequest    `json:"items" binding:"required,min=1,max=200,dive"`
	Payments        []InvoicePaymentRequest `json:"payments" binding:"required,min=1,max=10,dive"`
}

// InvoiceItemRequest is one sold line
type InvoiceItemRequest struct {
	StockID   string          `json:"stock_id" binding:"required,uuid"`
	Qty       int64           `json:"qty" binding:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"gte=0"`
	// DiscountRate is a fraction of the line subtotal, 0.05 for 5%
	DiscountRate *decimal.Decimal `json:"discount_rate" binding:"omitempty,gte=0,lte=1"`
}

// InvoicePaymentRequest is one tender
type InvoicePaymentRequest struct {
	PaymentMethod    string          `json:"payment_method" binding:"required,max=50"`
	TotalGivenAmount decimal.Decimal `json:"total_given_amount" binding:"gte=0"`
	PaymentDate      *time.Time      `json:"payment_date"`
}

func (r CreateInvoiceRequest) toInput() salesapp.CreateInvoiceInput {
	in := salesapp.CreateInvoiceInput{
		CustomerID:      uuid.MustParse(r.CustomerID),
		InvoiceDiscount: r.InvoiceDiscount,
		Items:           make([]salesapp.InvoiceItemInput, 0, len(r.Items)),
		Payments:        make([]salesapp.InvoicePaymentInput, 0, len(r.Payments)),
	}
	for _, it := range r.Items {
		in.Items = append(in.Items, salesapp.InvoiceItemInput{
			StockID:      uuid.MustParse(it.StockID),
			Qty:          it.Qty,
			UnitPrice:    it.UnitPrice,
			DiscountRate: it.DiscountRate,
		})
	}
	for _, p := range r.Payments {
		in.Payments = append(in.Payments, salesapp.InvoicePaymentInput{
			PaymentMethod:    p.PaymentMethod,
			TotalGivenAmount: p.TotalGivenAmount,
			PaymentDate:      p.PaymentDate,
		})
	}
	return in
}

// InvoiceListQuery is the query string of GET /invoices
type InvoiceListQuery struct {
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=pending partial_paid paid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by" binding:"omitempty,oneof=created_at grand_total invoice_number"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (q InvoiceListQuery) toFilter() salesapp.InvoiceListFilter {
	return salesapp.InvoiceListFilter{
		CustomerID: optionalUUID(q.CustomerID),
		Status:     q.Status,
		Page:       q.Page,
		PageSize:   q.PageSize,
		OrderBy:    q.OrderBy,
		OrderDir:   q.OrderDir,
	}
}
