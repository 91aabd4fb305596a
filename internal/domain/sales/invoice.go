// Package sales contains the Invoice aggregate: a sale of stock to a customer
// whose payments are tendered in full when the invoice is created.
package sales

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/ledger"
	"github.com/pos/backend/internal/domain/pricing"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the settlement status of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPending     InvoiceStatus = "pending"
	InvoiceStatusPartialPaid InvoiceStatus = "partial_paid"
	InvoiceStatusPaid        InvoiceStatus = "paid"
)

// IsValid checks if the status is valid
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPartialPaid, InvoiceStatusPaid:
		return true
	}
	return false
}

// String returns the string representation of InvoiceStatus
func (s InvoiceStatus) String() string {
	return string(s)
}

// invoiceStatusFromLedger maps the shared ledger status to the invoice vocabulary
func invoiceStatusFromLedger(s ledger.Status) InvoiceStatus {
	switch s {
	case ledger.StatusPaid:
		return InvoiceStatusPaid
	case ledger.StatusPartial:
		return InvoiceStatusPartialPaid
	default:
		return InvoiceStatusPending
	}
}

// Ledger maps the invoice status back to the shared ledger status
func (s InvoiceStatus) Ledger() ledger.Status {
	switch s {
	case InvoiceStatusPaid:
		return ledger.StatusPaid
	case InvoiceStatusPartialPaid:
		return ledger.StatusPartial
	default:
		return ledger.StatusPending
	}
}

// PaymentMethod is how an invoice payment was tendered
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "Cash"
	PaymentMethodCreditCard   PaymentMethod = "Credit Card"
	PaymentMethodBankTransfer PaymentMethod = "Bank Transfer"
	PaymentMethodCheque       PaymentMethod = "Cheque"
)

// AllPaymentMethods lists the accepted invoice payment methods
func AllPaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodBankTransfer, PaymentMethodCheque}
}

// IsValid checks if the payment method is accepted for invoices
func (m PaymentMethod) IsValid() bool {
	for _, v := range AllPaymentMethods() {
		if m == v {
			return true
		}
	}
	return false
}

// invoiceAllocator rejects tenders above the grand total
var invoiceAllocator = ledger.NewAllocator("invoice", ledger.PolicyStrict)

// InvoiceItem is one sold line. SoldPrice is the unit price at the time of
// sale and does not follow later price changes of the stock.
type InvoiceItem struct {
	shared.BaseEntity
	InvoiceID    uuid.UUID
	StockID      uuid.UUID
	Qty          int64
	SoldPrice    decimal.Decimal
	DiscountRate decimal.Decimal
	Discount     decimal.Decimal // absolute amount
	Subtotal     decimal.Decimal
}

// InvoicePayment is one tender applied to the invoice
type InvoicePayment struct {
	shared.BaseEntity
	InvoiceID        uuid.UUID
	PaymentMethod    PaymentMethod
	TotalGivenAmount decimal.Decimal
	PaymentDate      time.Time
}

// Invoice is the aggregate root for a sale
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber   string
	CustomerID      uuid.UUID
	CreatedBy       uuid.UUID
	TotalAmount     decimal.Decimal
	InvoiceDiscount decimal.Decimal // header discount
	FinalDiscount   decimal.Decimal
	Tax             decimal.Decimal
	GrandTotal      decimal.Decimal
	Balance         decimal.Decimal
	Status          InvoiceStatus
	Items           []InvoiceItem
	Payments        []InvoicePayment
}

// ItemInput is a requested invoice line
type ItemInput struct {
	StockID      uuid.UUID
	Qty          int64
	UnitPrice    decimal.Decimal
	DiscountRate *decimal.Decimal
}

// PaymentInput is a tender supplied with the invoice
type PaymentInput struct {
	PaymentMethod    PaymentMethod
	TotalGivenAmount decimal.Decimal
	PaymentDate      *time.Time
}

// NewInvoice prices the lines, applies the payments and derives the balance
// and status. Stock availability is not checked here.
func NewInvoice(customerID, createdBy uuid.UUID, invoiceDiscount decimal.Decimal, items []ItemInput, payments []PaymentInput) (*Invoice, error) {
	if err := validateInvoiceInput(customerID, createdBy, items, payments); err != nil {
		return nil, err
	}

	lines := make([]pricing.Line, len(items))
	for i, it := range items {
		lines[i] = pricing.Line{Qty: it.Qty, UnitPrice: it.UnitPrice, DiscountRate: it.DiscountRate}
	}
	priced, err := pricing.Calculate(invoiceDiscount, lines)
	if err != nil {
		return nil, err
	}

	inv := &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		CreatedBy:         createdBy,
		TotalAmount:       priced.TotalAmount,
		InvoiceDiscount:   priced.HeaderDiscount,
		FinalDiscount:     priced.FinalDiscount,
		Tax:               priced.Tax,
		GrandTotal:        priced.GrandTotal,
		Items:             make([]InvoiceItem, len(items)),
		Payments:          make([]InvoicePayment, 0, len(payments)),
	}
	inv.InvoiceNumber = generateInvoiceNumber(inv.CreatedAt, inv.ID)
	inv.SetLedgerDue(priced.GrandTotal)

	for i, it := range items {
		rate := decimal.Zero
		if it.DiscountRate != nil {
			rate = *it.DiscountRate
		}
		inv.Items[i] = InvoiceItem{
			BaseEntity:   shared.NewBaseEntity(),
			InvoiceID:    inv.ID,
			StockID:      it.StockID,
			Qty:          it.Qty,
			SoldPrice:    it.UnitPrice,
			DiscountRate: rate,
			Discount:     priced.Lines[i].Discount,
			Subtotal:     priced.Lines[i].Subtotal,
		}
	}

	for _, p := range payments {
		if err := invoiceAllocator.Allocate(inv, p.TotalGivenAmount); err != nil {
			return nil, err
		}
		paidAt := inv.CreatedAt
		if p.PaymentDate != nil {
			paidAt = *p.PaymentDate
		}
		inv.Payments = append(inv.Payments, InvoicePayment{
			BaseEntity:       shared.NewBaseEntity(),
			InvoiceID:        inv.ID,
			PaymentMethod:    p.PaymentMethod,
			TotalGivenAmount: p.TotalGivenAmount,
			PaymentDate:      paidAt,
		})
	}

	return inv, nil
}

func validateInvoiceInput(customerID, createdBy uuid.UUID, items []ItemInput, payments []PaymentInput) error {
	verr := shared.NewValidationError()
	if customerID == uuid.Nil {
		verr.Add("customer_id", "Customer ID is required")
	}
	if createdBy == uuid.Nil {
		verr.Add("created_by", "Invoice creator is required")
	}
	if len(items) == 0 {
		verr.Add("items", "At least one item is required")
	}
	for i, it := range items {
		if it.StockID == uuid.Nil {
			verr.Add(fmt.Sprintf("items[%d].stock_id", i), "Stock ID is required")
		}
	}
	if len(payments) == 0 {
		verr.Add("payments", "At least one payment is required")
	}
	for i, p := range payments {
		if !p.PaymentMethod.IsValid() {
			verr.Add(fmt.Sprintf("payments[%d].payment_method", i), "Payment method is not supported")
		}
		if p.TotalGivenAmount.LessThan(decimal.New(1, -2)) {
			verr.Add(fmt.Sprintf("payments[%d].total_given_amount", i), "Given amount must be at least 0.01")
		}
		shared.CheckMoneyScale(verr, fmt.Sprintf("payments[%d].total_given_amount", i), p.TotalGivenAmount)
	}
	return verr.OrNil()
}

// generateInvoiceNumber derives a unique number from the issue date and the id
func generateInvoiceNumber(issuedAt time.Time, id uuid.UUID) string {
	suffix := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
	return fmt.Sprintf("INV-%s-%s", issuedAt.Format("20060102"), suffix)
}

// PaidTotal returns the sum of tendered payments
func (i *Invoice) PaidTotal() decimal.Decimal {
	return ledger.PaidTotal(i)
}

// StockRequests lists the stock consumed by each line, in line order
func (i *Invoice) StockRequests() []inventory.Request {
	reqs := make([]inventory.Request, len(i.Items))
	for idx, it := range i.Items {
		reqs[idx] = inventory.Request{StockID: it.StockID, Qty: decimal.NewFromInt(it.Qty)}
	}
	return reqs
}

// LedgerID implements ledger.Document
func (i *Invoice) LedgerID() uuid.UUID { return i.ID }

// LedgerTotal implements ledger.Document
func (i *Invoice) LedgerTotal() decimal.Decimal { return i.GrandTotal }

// LedgerDue implements ledger.Document
func (i *Invoice) LedgerDue() decimal.Decimal { return i.Balance }

// LedgerStatus implements ledger.Document
func (i *Invoice) LedgerStatus() ledger.Status { return i.Status.Ledger() }

// SetLedgerDue implements ledger.Document
func (i *Invoice) SetLedgerDue(due decimal.Decimal) {
	i.Balance = due
	i.Status = invoiceStatusFromLedger(ledger.DeriveStatus(i.GrandTotal, due))
}

var _ ledger.Document = (*Invoice)(nil)
