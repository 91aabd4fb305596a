package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Document is an entity with a total against which payments are allocated.
// Implementations keep their status consistent with their due amount:
// SetLedgerDue must recompute the status.
type Document interface {
	LedgerID() uuid.UUID
	LedgerTotal() decimal.Decimal
	LedgerDue() decimal.Decimal
	LedgerStatus() Status
	SetLedgerDue(due decimal.Decimal)
}

// PaidTotal returns the amount allocated against the document so far
func PaidTotal(doc Document) decimal.Decimal {
	return doc.LedgerTotal().Sub(doc.LedgerDue())
}
