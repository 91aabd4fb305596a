package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// CreateInvoiceInput is the validated payload of an invoice creation
type CreateInvoiceInput struct {
	CustomerID      uuid.UUID
	InvoiceDiscount decimal.Decimal
	Items           []InvoiceItemInput
	Payments        []InvoicePaymentInput
}

// InvoiceItemInput is one requested line
type InvoiceItemInput struct {
	StockID      uuid.UUID
	Qty          int64
	UnitPrice    decimal.Decimal
	DiscountRate *decimal.Decimal
}

// InvoicePaymentInput is one tender
type InvoicePaymentInput struct {
	PaymentMethod    string
	TotalGivenAmount decimal.Decimal
	PaymentDate      *time.Time
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID              uuid.UUID                `json:"id"`
	InvoiceNumber   string                   `json:"invoice_number"`
	CustomerID      uuid.UUID                `json:"customer_id"`
	CreatedBy       uuid.UUID                `json:"created_by"`
	TotalAmount     decimal.Decimal          `json:"total_amount"`
	InvoiceDiscount decimal.Decimal          `json:"invoice_discount"`
	FinalDiscount   decimal.Decimal          `json:"final_discount"`
	Tax             decimal.Decimal          `json:"tax"`
	GrandTotal      decimal.Decimal          `json:"grand_total"`
	PaidAmount      decimal.Decimal          `json:"paid_amount"`
	Balance         decimal.Decimal          `json:"balance"`
	Status          string                   `json:"status"`
	Items           []InvoiceItemResponse    `json:"items,omitempty"`
	Payments        []InvoicePaymentResponse `json:"payments,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// InvoiceItemResponse represents an invoice line
type InvoiceItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	StockID      uuid.UUID       `json:"stock_id"`
	Qty          int64           `json:"qty"`
	SoldPrice    decimal.Decimal `json:"sold_price"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	Discount     decimal.Decimal `json:"discount"`
	Subtotal     decimal.Decimal `json:"subtotal"`
}

// InvoicePaymentResponse represents an invoice tender
type InvoicePaymentResponse struct {
	ID               uuid.UUID       `json:"id"`
	PaymentMethod    string          `json:"payment_method"`
	TotalGivenAmount decimal.Decimal `json:"total_given_amount"`
	PaymentDate      time.Time       `json:"payment_date"`
}

// ToInvoiceResponse converts a domain Invoice to its response
func ToInvoiceResponse(inv *sales.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:              inv.ID,
		InvoiceNumber:   inv.InvoiceNumber,
		CustomerID:      inv.CustomerID,
		CreatedBy:       inv.CreatedBy,
		TotalAmount:     inv.TotalAmount,
		InvoiceDiscount: inv.InvoiceDiscount,
		FinalDiscount:   inv.FinalDiscount,
		Tax:             inv.Tax,
		GrandTotal:      inv.GrandTotal,
		PaidAmount:      inv.PaidTotal(),
		Balance:         inv.Balance,
		Status:          inv.Status.String(),
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
	}
	for _, it := range inv.Items {
		resp.Items = append(resp.Items, InvoiceItemResponse{
			ID:           it.ID,
			StockID:      it.StockID,
			Qty:          it.Qty,
			SoldPrice:    it.SoldPrice,
			DiscountRate: it.DiscountRate,
			Discount:     it.Discount,
			Subtotal:     it.Subtotal,
		})
	}
	for _, p := range inv.Payments {
		resp.Payments = append(resp.Payments, InvoicePaymentResponse{
			ID:               p.ID,
			PaymentMethod:    string(p.PaymentMethod),
			TotalGivenAmount: p.TotalGivenAmount,
			PaymentDate:      p.PaymentDate,
		})
	}
	return resp
}

// InvoiceListFilter represents filter options for invoice lists
type InvoiceListFilter struct {
	CustomerID *uuid.UUID `form:"customer_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=pending partial_paid paid"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by" binding:"omitempty,oneof=created_at grand_total invoice_number"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
