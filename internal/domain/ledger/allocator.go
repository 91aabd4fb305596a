package ledger

import (
	"fmt"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Policy controls whether an allocation may exceed the outstanding due amount
type Policy int

const (
	// PolicyStrict rejects any allocation larger than the current due amount
	PolicyStrict Policy = iota
	// PolicyPermissive applies allocations without a balance check
	PolicyPermissive
)

// String returns the policy name
func (p Policy) String() string {
	if p == PolicyPermissive {
		return "permissive"
	}
	return "strict"
}

// AllocationExceedsBalanceError is returned when a payment is larger than the
// amount still due on its document
type AllocationExceedsBalanceError struct {
	DocumentType string
	Due          decimal.Decimal
	Requested    decimal.Decimal
}

// Error implements the error interface
func (e *AllocationExceedsBalanceError) Error() string {
	return fmt.Sprintf("Paid amount %s exceeds the %s due amount %s",
		e.Requested.StringFixed(2), e.DocumentType, e.Due.StringFixed(2))
}

// Unwrap maps the error onto the ALLOCATION_EXCEEDS_BALANCE domain error
func (e *AllocationExceedsBalanceError) Unwrap() error {
	return shared.NewDomainError(shared.CodeAllocationExceedsBalance, e.Error())
}

// Allocator applies, revises and releases payment allocations on a Document.
// It only does arithmetic on the in-memory document; callers persist the
// document and the allocation row in the same transaction while holding a
// row lock on the document.
type Allocator struct {
	policy       Policy
	documentType string
}

// NewAllocator creates an allocator for the given document type label
func NewAllocator(documentType string, policy Policy) Allocator {
	return Allocator{policy: policy, documentType: documentType}
}

// Policy returns the allocation policy
func (a Allocator) Policy() Policy {
	return a.policy
}

// Allocate applies a new allocation: due -= amount
func (a Allocator) Allocate(doc Document, amount decimal.Decimal) error {
	if err := requirePositive(amount); err != nil {
		return err
	}
	due := doc.LedgerDue()
	if err := a.check(due, amount); err != nil {
		return err
	}
	doc.SetLedgerDue(due.Sub(amount))
	return nil
}

// Reallocate replaces an existing allocation of original with amount.
// The old allocation is reverted first so the check runs against the
// balance as it was before that allocation was made.
func (a Allocator) Reallocate(doc Document, original, amount decimal.Decimal) error {
	if err := requirePositive(amount); err != nil {
		return err
	}
	dueAfterRevert := doc.LedgerDue().Add(original)
	if err := a.check(dueAfterRevert, amount); err != nil {
		return err
	}
	doc.SetLedgerDue(dueAfterRevert.Sub(amount))
	return nil
}

// Release removes an allocation: due += amount
func (a Allocator) Release(doc Document, amount decimal.Decimal) {
	doc.SetLedgerDue(doc.LedgerDue().Add(amount))
}

func (a Allocator) check(due, amount decimal.Decimal) error {
	if a.policy == PolicyStrict && amount.GreaterThan(due) {
		return &AllocationExceedsBalanceError{
			DocumentType: a.documentType,
			Due:          due,
			Requested:    amount,
		}
	}
	return nil
}

func requirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		verr := shared.NewValidationError()
		verr.Add("paid_amount", "Paid amount must be greater than zero")
		return verr
	}
	return nil
}
