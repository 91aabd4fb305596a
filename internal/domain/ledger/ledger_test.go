package ledger

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDocument is a minimal Document used to exercise the allocator
type testDocument struct {
	id     uuid.UUID
	total  decimal.Decimal
	due    decimal.Decimal
	status Status
}

func newTestDocument(total, due string) *testDocument {
	d := &testDocument{
		id:    uuid.New(),
		total: decimal.RequireFromString(total),
	}
	d.SetLedgerDue(decimal.RequireFromString(due))
	return d
}

func (d *testDocument) LedgerID() uuid.UUID          { return d.id }
func (d *testDocument) LedgerTotal() decimal.Decimal { return d.total }
func (d *testDocument) LedgerDue() decimal.Decimal   { return d.due }
func (d *testDocument) LedgerStatus() Status         { return d.status }
func (d *testDocument) SetLedgerDue(due decimal.Decimal) {
	d.due = due
	d.status = DeriveStatus(d.total, due)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusPending, true},
		{StatusPartial, true},
		{StatusPaid, true},
		{Status("overdue"), false},
		{Status(""), false},
	}

	for _, tc := range tests {
		t.Run(string(tc.status), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.status.IsValid())
		})
	}
}

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name     string
		total    string
		due      string
		expected Status
	}{
		{"nothing paid", "500", "500", StatusPending},
		{"partly paid", "500", "300", StatusPartial},
		{"fully paid", "500", "0", StatusPaid},
		{"overpaid", "500", "-20", StatusPaid},
		{"zero total", "0", "0", StatusPaid},
		{"due above total", "500", "600", StatusPending},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DeriveStatus(dec(tc.total), dec(tc.due)))
		})
	}
}

func TestDeriveStatusFromPaid(t *testing.T) {
	assert.Equal(t, StatusPending, DeriveStatusFromPaid(dec("1000"), decimal.Zero))
	assert.Equal(t, StatusPartial, DeriveStatusFromPaid(dec("1000"), dec("400")))
	assert.Equal(t, StatusPaid, DeriveStatusFromPaid(dec("1000"), dec("1000")))
}

func TestAllocator_Allocate(t *testing.T) {
	t.Run("reduces due and moves to partial", func(t *testing.T) {
		doc := newTestDocument("500", "500")
		a := NewAllocator("bill", PolicyStrict)

		require.NoError(t, a.Allocate(doc, dec("200")))
		assert.True(t, dec("300").Equal(doc.LedgerDue()))
		assert.Equal(t, StatusPartial, doc.LedgerStatus())
		assert.True(t, dec("200").Equal(PaidTotal(doc)))
	})

	t.Run("settles exactly", func(t *testing.T) {
		doc := newTestDocument("500", "300")
		a := NewAllocator("bill", PolicyStrict)

		require.NoError(t, a.Allocate(doc, dec("300")))
		assert.True(t, doc.LedgerDue().IsZero())
		assert.Equal(t, StatusPaid, doc.LedgerStatus())
	})

	t.Run("strict policy rejects overpayment and leaves document untouched", func(t *testing.T) {
		doc := newTestDocument("500", "100")
		a := NewAllocator("bill", PolicyStrict)

		err := a.Allocate(doc, dec("150"))
		require.Error(t, err)

		var exceeds *AllocationExceedsBalanceError
		require.True(t, errors.As(err, &exceeds))
		assert.True(t, dec("100").Equal(exceeds.Due))
		assert.True(t, dec("150").Equal(exceeds.Requested))
		assert.True(t, errors.Is(err, shared.ErrAllocationExceedsBalance))
		assert.Contains(t, err.Error(), "100.00")

		assert.True(t, dec("100").Equal(doc.LedgerDue()))
		assert.Equal(t, StatusPartial, doc.LedgerStatus())
	})

	t.Run("permissive policy lets due go negative", func(t *testing.T) {
		doc := newTestDocument("1000", "200")
		a := NewAllocator("salary", PolicyPermissive)

		require.NoError(t, a.Allocate(doc, dec("300")))
		assert.True(t, dec("-100").Equal(doc.LedgerDue()))
		assert.Equal(t, StatusPaid, doc.LedgerStatus())
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		doc := newTestDocument("500", "500")
		a := NewAllocator("bill", PolicyPermissive)

		for _, amount := range []string{"0", "-5"} {
			err := a.Allocate(doc, dec(amount))
			require.Error(t, err)
			var verr *shared.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Contains(t, verr.Fields, "paid_amount")
		}
		assert.True(t, dec("500").Equal(doc.LedgerDue()))
	})
}

func TestAllocator_Reallocate(t *testing.T) {
	t.Run("checks against the balance before the original allocation", func(t *testing.T) {
		// total 500 with a single 200 allocation
		doc := newTestDocument("500", "300")
		a := NewAllocator("bill", PolicyStrict)

		require.NoError(t, a.Reallocate(doc, dec("200"), dec("350")))
		assert.True(t, dec("150").Equal(doc.LedgerDue()))
		assert.Equal(t, StatusPartial, doc.LedgerStatus())
	})

	t.Run("rejects amount above due after revert", func(t *testing.T) {
		doc := newTestDocument("500", "300")
		a := NewAllocator("bill", PolicyStrict)

		err := a.Reallocate(doc, dec("200"), dec("501"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrAllocationExceedsBalance))
		assert.True(t, dec("300").Equal(doc.LedgerDue()))
	})

	t.Run("lowering an allocation reopens the balance", func(t *testing.T) {
		doc := newTestDocument("500", "0")
		a := NewAllocator("bill", PolicyStrict)

		require.NoError(t, a.Reallocate(doc, dec("500"), dec("100")))
		assert.True(t, dec("400").Equal(doc.LedgerDue()))
		assert.Equal(t, StatusPartial, doc.LedgerStatus())
	})
}

func TestAllocator_Release(t *testing.T) {
	doc := newTestDocument("500", "0")
	a := NewAllocator("bill", PolicyStrict)

	a.Release(doc, dec("500"))
	assert.True(t, dec("500").Equal(doc.LedgerDue()))
	assert.Equal(t, StatusPending, doc.LedgerStatus())
}

func TestAllocator_RoundTrip(t *testing.T) {
	// create, update and delete leave the document where it started
	doc := newTestDocument("800", "800")
	a := NewAllocator("bill", PolicyStrict)

	require.NoError(t, a.Allocate(doc, dec("300")))
	require.NoError(t, a.Allocate(doc, dec("200")))
	require.NoError(t, a.Reallocate(doc, dec("300"), dec("450")))
	a.Release(doc, dec("200"))
	a.Release(doc, dec("450"))

	assert.True(t, dec("800").Equal(doc.LedgerDue()))
	assert.Equal(t, StatusPending, doc.LedgerStatus())
}

func TestPolicy_String(t *testing.T) {
	assert.Equal(t, "strict", PolicyStrict.String())
	assert.Equal(t, "permissive", PolicyPermissive.String())
	assert.Equal(t, PolicyPermissive, NewAllocator("salary", PolicyPermissive).Policy())
}
