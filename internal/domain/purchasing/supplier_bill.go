// Package purchasing contains supplier bills and the payments allocated
// against their stored due amount.
package purchasing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/ledger"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how a supplier was paid
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "Cash"
	PaymentMethodBankTransfer PaymentMethod = "Bank Transfer"
	PaymentMethodCheque       PaymentMethod = "Cheque"
	PaymentMethodCreditCard   PaymentMethod = "Credit Card"
)

// AllPaymentMethods lists the accepted supplier payment methods
func AllPaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentMethodCash, PaymentMethodBankTransfer, PaymentMethodCheque, PaymentMethodCreditCard}
}

// IsValid checks if the payment method is accepted for supplier payments
func (m PaymentMethod) IsValid() bool {
	for _, v := range AllPaymentMethods() {
		if m == v {
			return true
		}
	}
	return false
}

// billAllocator never lets payments exceed what is still due on a bill
var billAllocator = ledger.NewAllocator("bill", ledger.PolicyStrict)

var minPaidAmount = decimal.New(1, -2)

// SupplierBill is a payable owed to a supplier. DueAmount and Status are
// stored and must be written in the same transaction as every payment change,
// while holding the bill's row lock.
type SupplierBill struct {
	shared.BaseAggregateRoot
	SupplierID uuid.UUID
	BillNumber string
	BillDate   time.Time
	Total      decimal.Decimal
	DueAmount  decimal.Decimal
	Status     ledger.Status
	Note       string
}

// NewSupplierBill creates an unpaid bill
func NewSupplierBill(supplierID uuid.UUID, billNumber string, billDate time.Time, total decimal.Decimal, note string) (*SupplierBill, error) {
	verr := shared.NewValidationError()
	if supplierID == uuid.Nil {
		verr.Add("supplier_id", "Supplier ID is required")
	}
	billNumber = strings.TrimSpace(billNumber)
	if billNumber == "" {
		verr.Add("bill_number", "Bill number is required")
	}
	if len(billNumber) > 50 {
		verr.Add("bill_number", "Bill number cannot exceed 50 characters")
	}
	if total.LessThan(minPaidAmount) {
		verr.Add("total", "Total must be at least 0.01")
	}
	shared.CheckMoneyScale(verr, "total", total)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	if billDate.IsZero() {
		billDate = time.Now()
	}

	bill := &SupplierBill{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierID:        supplierID,
		BillNumber:        billNumber,
		BillDate:          billDate,
		Total:             total,
		Note:              note,
	}
	bill.SetLedgerDue(total)
	return bill, nil
}

// PaymentInput carries the fields of a supplier payment
type PaymentInput struct {
	PaidAmount    decimal.Decimal
	PaymentMethod PaymentMethod
	Note          string
	ProofImage    string
	PaymentDate   *time.Time
	PaidBy        uuid.UUID
}

func (in PaymentInput) validate() error {
	verr := shared.NewValidationError()
	if in.PaidAmount.LessThan(minPaidAmount) {
		verr.Add("paid_amount", "Paid amount must be at least 0.01")
	}
	shared.CheckMoneyScale(verr, "paid_amount", in.PaidAmount)
	if !in.PaymentMethod.IsValid() {
		verr.Add("payment_method", "Payment method is not supported")
	}
	if len(in.ProofImage) > 255 {
		verr.Add("proof_image", "Proof image reference cannot exceed 255 characters")
	}
	return verr.OrNil()
}

// RecordPayment allocates a new payment against the bill
func (b *SupplierBill) RecordPayment(in PaymentInput) (*SupplierPaymentDetail, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if err := billAllocator.Allocate(b, in.PaidAmount); err != nil {
		return nil, err
	}
	b.IncrementVersion()

	paidAt := time.Now()
	if in.PaymentDate != nil {
		paidAt = *in.PaymentDate
	}
	return &SupplierPaymentDetail{
		BaseEntity:     shared.NewBaseEntity(),
		SupplierBillID: b.ID,
		PaidAmount:     in.PaidAmount,
		PaymentMethod:  in.PaymentMethod,
		Note:           in.Note,
		ProofImage:     in.ProofImage,
		PaymentDate:    paidAt,
		PaidBy:         in.PaidBy,
	}, nil
}

// RevisePayment replaces the fields of an existing payment of this bill and
// re-derives the due amount from the state before that payment.
func (b *SupplierBill) RevisePayment(detail *SupplierPaymentDetail, in PaymentInput) error {
	if detail.SupplierBillID != b.ID {
		return shared.NewNotFoundError("Payment does not belong to this bill")
	}
	if err := in.validate(); err != nil {
		return err
	}
	if err := billAllocator.Reallocate(b, detail.PaidAmount, in.PaidAmount); err != nil {
		return err
	}
	b.IncrementVersion()

	detail.PaidAmount = in.PaidAmount
	detail.PaymentMethod = in.PaymentMethod
	detail.Note = in.Note
	if in.ProofImage != "" {
		detail.ProofImage = in.ProofImage
	}
	if in.PaymentDate != nil {
		detail.PaymentDate = *in.PaymentDate
	}
	detail.Touch()
	return nil
}

// RemovePayment gives the amount of a deleted payment back to the due amount
func (b *SupplierBill) RemovePayment(detail *SupplierPaymentDetail) error {
	if detail.SupplierBillID != b.ID {
		return shared.NewNotFoundError("Payment does not belong to this bill")
	}
	billAllocator.Release(b, detail.PaidAmount)
	b.IncrementVersion()
	return nil
}

// EnsureDeletable refuses deletion of a bill that has any payment history
func (b *SupplierBill) EnsureDeletable(paymentCount int64) error {
	if paymentCount > 0 {
		return shared.NewConflictError("Cannot delete a supplier bill that has payment history")
	}
	return nil
}

// PaidTotal returns the amount paid so far
func (b *SupplierBill) PaidTotal() decimal.Decimal {
	return ledger.PaidTotal(b)
}

// LedgerID implements ledger.Document
func (b *SupplierBill) LedgerID() uuid.UUID { return b.ID }

// LedgerTotal implements ledger.Document
func (b *SupplierBill) LedgerTotal() decimal.Decimal { return b.Total }

// LedgerDue implements ledger.Document
func (b *SupplierBill) LedgerDue() decimal.Decimal { return b.DueAmount }

// LedgerStatus implements ledger.Document
func (b *SupplierBill) LedgerStatus() ledger.Status { return b.Status }

// SetLedgerDue implements ledger.Document
func (b *SupplierBill) SetLedgerDue(due decimal.Decimal) {
	b.DueAmount = due
	b.Status = ledger.DeriveStatus(b.Total, due)
}

var _ ledger.Document = (*SupplierBill)(nil)

// SupplierPaymentDetail is one payment allocated against a supplier bill
type SupplierPaymentDetail struct {
	shared.BaseEntity
	SupplierBillID uuid.UUID
	PaidAmount     decimal.Decimal
	PaymentMethod  PaymentMethod
	Note           string
	ProofImage     string // object storage key
	PaymentDate    time.Time
	PaidBy         uuid.UUID
}
