// Package ledger holds the balance and status rules shared by every document
// that payments are allocated against (invoices, supplier bills, salaries).
package ledger

import (
	"github.com/shopspring/decimal"
)

// Status is the settlement status of a ledger document
type Status string

const (
	StatusPending Status = "pending" // nothing paid yet
	StatusPartial Status = "partial" // 0 < paid < total
	StatusPaid    Status = "paid"    // due <= 0
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusPartial, StatusPaid:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// DeriveStatus computes the status of a document from its total and its
// outstanding due amount.
func DeriveStatus(total, due decimal.Decimal) Status {
	if !due.IsPositive() {
		return StatusPaid
	}
	paid := total.Sub(due)
	if paid.IsPositive() && paid.LessThan(total) {
		return StatusPartial
	}
	return StatusPending
}

// DeriveStatusFromPaid computes the status from the total and the sum of
// allocations applied so far.
func DeriveStatusFromPaid(total, paid decimal.Decimal) Status {
	return DeriveStatus(total, total.Sub(paid))
}
