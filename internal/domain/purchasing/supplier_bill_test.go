package purchasing

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/ledger"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newBill(t *testing.T, total string) *SupplierBill {
	t.Helper()
	bill, err := NewSupplierBill(uuid.New(), "BILL-001", time.Now(), dec(total), "")
	require.NoError(t, err)
	return bill
}

func payment(amount string) PaymentInput {
	return PaymentInput{PaidAmount: dec(amount), PaymentMethod: PaymentMethodBankTransfer}
}

func TestNewSupplierBill(t *testing.T) {
	t.Run("starts pending with full due", func(t *testing.T) {
		bill := newBill(t, "500")
		assert.True(t, dec("500").Equal(bill.DueAmount))
		assert.Equal(t, ledger.StatusPending, bill.Status)
		assert.Equal(t, 1, bill.Version)
	})

	t.Run("validates fields", func(t *testing.T) {
		_, err := NewSupplierBill(uuid.Nil, " ", time.Time{}, decimal.Zero, "")
		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		for _, field := range []string{"supplier_id", "bill_number", "total"} {
			assert.Contains(t, verr.Fields, field)
		}
	})

	t.Run("defaults bill date", func(t *testing.T) {
		bill, err := NewSupplierBill(uuid.New(), "B-2", time.Time{}, dec("1"), "")
		require.NoError(t, err)
		assert.False(t, bill.BillDate.IsZero())
	})
}

func TestSupplierBill_RecordPayment(t *testing.T) {
	t.Run("reduces due and returns the detail", func(t *testing.T) {
		bill := newBill(t, "500")
		paidBy := uuid.New()
		in := payment("200")
		in.PaidBy = paidBy
		in.ProofImage = "payment-proofs/abc.png"

		detail, err := bill.RecordPayment(in)
		require.NoError(t, err)
		assert.Equal(t, bill.ID, detail.SupplierBillID)
		assert.Equal(t, paidBy, detail.PaidBy)
		assert.Equal(t, "payment-proofs/abc.png", detail.ProofImage)
		assert.False(t, detail.PaymentDate.IsZero())
		assert.True(t, dec("300").Equal(bill.DueAmount))
		assert.Equal(t, ledger.StatusPartial, bill.Status)
		assert.Equal(t, 2, bill.Version)
	})

	t.Run("rejects amount above due and keeps the due amount", func(t *testing.T) {
		bill := newBill(t, "500")
		_, err := bill.RecordPayment(payment("400"))
		require.NoError(t, err)
		require.True(t, dec("100").Equal(bill.DueAmount))

		_, err = bill.RecordPayment(payment("150"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrAllocationExceedsBalance))
		assert.Contains(t, err.Error(), "100.00")
		assert.True(t, dec("100").Equal(bill.DueAmount))
		assert.Equal(t, ledger.StatusPartial, bill.Status)
	})

	t.Run("settles the bill", func(t *testing.T) {
		bill := newBill(t, "500")
		_, err := bill.RecordPayment(payment("500"))
		require.NoError(t, err)
		assert.True(t, bill.DueAmount.IsZero())
		assert.Equal(t, ledger.StatusPaid, bill.Status)
	})

	t.Run("validates payment input", func(t *testing.T) {
		bill := newBill(t, "500")
		_, err := bill.RecordPayment(PaymentInput{PaidAmount: dec("0.001"), PaymentMethod: "Paypal"})
		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "paid_amount")
		assert.Contains(t, verr.Fields, "payment_method")
		assert.True(t, dec("500").Equal(bill.DueAmount))
	})
}

func TestSupplierBill_RevisePayment(t *testing.T) {
	t.Run("re-derives due from the reverted state", func(t *testing.T) {
		bill := newBill(t, "500")
		detail, err := bill.RecordPayment(payment("200"))
		require.NoError(t, err)
		require.True(t, dec("300").Equal(bill.DueAmount))

		newDate := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
		in := payment("350")
		in.PaymentMethod = PaymentMethodCheque
		in.PaymentDate = &newDate
		require.NoError(t, bill.RevisePayment(detail, in))

		assert.True(t, dec("150").Equal(bill.DueAmount))
		assert.Equal(t, ledger.StatusPartial, bill.Status)
		assert.True(t, dec("350").Equal(detail.PaidAmount))
		assert.Equal(t, PaymentMethodCheque, detail.PaymentMethod)
		assert.Equal(t, newDate, detail.PaymentDate)
	})

	t.Run("rejects amount above due after revert", func(t *testing.T) {
		bill := newBill(t, "500")
		detail, err := bill.RecordPayment(payment("200"))
		require.NoError(t, err)

		err = bill.RevisePayment(detail, payment("600"))
		assert.True(t, errors.Is(err, shared.ErrAllocationExceedsBalance))
		assert.True(t, dec("300").Equal(bill.DueAmount))
		assert.True(t, dec("200").Equal(detail.PaidAmount))
	})

	t.Run("keeps the existing proof when none is given", func(t *testing.T) {
		bill := newBill(t, "500")
		in := payment("100")
		in.ProofImage = "payment-proofs/first.jpg"
		detail, err := bill.RecordPayment(in)
		require.NoError(t, err)

		require.NoError(t, bill.RevisePayment(detail, payment("120")))
		assert.Equal(t, "payment-proofs/first.jpg", detail.ProofImage)
	})

	t.Run("refuses a payment of another bill", func(t *testing.T) {
		bill, other := newBill(t, "500"), newBill(t, "500")
		detail, err := other.RecordPayment(payment("100"))
		require.NoError(t, err)

		err = bill.RevisePayment(detail, payment("50"))
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestSupplierBill_RemovePayment(t *testing.T) {
	bill := newBill(t, "500")
	first, err := bill.RecordPayment(payment("200"))
	require.NoError(t, err)
	second, err := bill.RecordPayment(payment("300"))
	require.NoError(t, err)
	require.Equal(t, ledger.StatusPaid, bill.Status)

	require.NoError(t, bill.RemovePayment(second))
	assert.True(t, dec("300").Equal(bill.DueAmount))
	assert.Equal(t, ledger.StatusPartial, bill.Status)

	require.NoError(t, bill.RemovePayment(first))
	assert.True(t, dec("500").Equal(bill.DueAmount))
	assert.Equal(t, ledger.StatusPending, bill.Status)
}

func TestSupplierBill_EnsureDeletable(t *testing.T) {
	bill := newBill(t, "500")
	assert.NoError(t, bill.EnsureDeletable(0))

	err := bill.EnsureDeletable(1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrConflict))
}

func TestPaymentMethod_IsValid(t *testing.T) {
	for _, m := range AllPaymentMethods() {
		assert.True(t, m.IsValid())
	}
	assert.False(t, PaymentMethod("Paypal").IsValid())
}

func TestSupplierBill_RejectsSubCentAmounts(t *testing.T) {
	t.Run("bill total", func(t *testing.T) {
		_, err := NewSupplierBill(uuid.New(), "B-3", time.Now(), dec("100.001"), "")
		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "total")
	})

	t.Run("payment leaves the bill untouched", func(t *testing.T) {
		bill := newBill(t, "100.00")

		_, err := bill.RecordPayment(payment("99.995"))
		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "paid_amount")
		assert.True(t, dec("100").Equal(bill.DueAmount))
		assert.Equal(t, ledger.StatusPending, bill.Status)
	})

	t.Run("revision", func(t *testing.T) {
		bill := newBill(t, "100.00")
		detail, err := bill.RecordPayment(payment("40"))
		require.NoError(t, err)

		err = bill.RevisePayment(detail, payment("40.004"))
		require.Error(t, err)
		assert.True(t, dec("60").Equal(bill.DueAmount))
		assert.True(t, dec("40").Equal(detail.PaidAmount))
	})

	t.Run("trailing zeros are fine", func(t *testing.T) {
		bill := newBill(t, "100.00")
		_, err := bill.RecordPayment(payment("100.000"))
		require.NoError(t, err)
		assert.True(t, bill.DueAmount.IsZero())
		assert.Equal(t, ledger.StatusPaid, bill.Status)
	})
}
