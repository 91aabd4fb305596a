package sales

import (
	"errors"
	"regexp"
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

func sampleItems(stockID uuid.UUID) []ItemInput {
	rate := dec("0.05")
	return []ItemInput{{StockID: stockID, Qty: 2, UnitPrice: dec("500.00"), DiscountRate: &rate}}
}

func cash(amount string) PaymentInput {
	return PaymentInput{PaymentMethod: PaymentMethodCash, TotalGivenAmount: dec(amount)}
}

func TestNewInvoice_DerivesAmounts(t *testing.T) {
	stockID := uuid.New()
	inv, err := NewInvoice(uuid.New(), uuid.New(), dec("10.00"), sampleItems(stockID), []PaymentInput{cash("1034.00")})
	require.NoError(t, err)

	assert.True(t, dec("1000.00").Equal(inv.TotalAmount))
	assert.True(t, dec("60.00").Equal(inv.FinalDiscount))
	assert.True(t, dec("94.00").Equal(inv.Tax))
	assert.True(t, dec("1034.00").Equal(inv.GrandTotal))
	assert.True(t, inv.Balance.IsZero())
	assert.Equal(t, InvoiceStatusPaid, inv.Status)

	require.Len(t, inv.Items, 1)
	item := inv.Items[0]
	assert.Equal(t, inv.ID, item.InvoiceID)
	assert.Equal(t, stockID, item.StockID)
	assert.True(t, dec("500.00").Equal(item.SoldPrice))
	assert.True(t, dec("50.00").Equal(item.Discount))

	require.Len(t, inv.Payments, 1)
	assert.Equal(t, inv.ID, inv.Payments[0].InvoiceID)
	assert.Equal(t, inv.CreatedAt, inv.Payments[0].PaymentDate)

	reqs := inv.StockRequests()
	require.Len(t, reqs, 1)
	assert.Equal(t, stockID, reqs[0].StockID)
	assert.True(t, dec("2").Equal(reqs[0].Qty))
}

func TestNewInvoice_StatusFromPayments(t *testing.T) {
	tests := []struct {
		name     string
		payments []PaymentInput
		balance  string
		status   InvoiceStatus
	}{
		{"exact tender", []PaymentInput{cash("1034.00")}, "0", InvoiceStatusPaid},
		{"split tender", []PaymentInput{cash("500.00"), {PaymentMethod: PaymentMethodCreditCard, TotalGivenAmount: dec("534.00")}}, "0", InvoiceStatusPaid},
		{"partial", []PaymentInput{cash("500.00")}, "534.00", InvoiceStatusPartialPaid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			inv, err := NewInvoice(uuid.New(), uuid.New(), dec("10.00"), sampleItems(uuid.New()), tc.payments)
			require.NoError(t, err)
			assert.True(t, dec(tc.balance).Equal(inv.Balance), "balance %s", inv.Balance)
			assert.Equal(t, tc.status, inv.Status)
			assert.True(t, inv.GrandTotal.Sub(inv.Balance).Equal(inv.PaidTotal()))
		})
	}
}

func TestInvoice_SetLedgerDue(t *testing.T) {
	inv := &Invoice{GrandTotal: dec("1034.00")}

	inv.SetLedgerDue(dec("1034.00"))
	assert.Equal(t, InvoiceStatusPending, inv.Status)
	assert.Equal(t, ledger.StatusPending, inv.LedgerStatus())

	inv.SetLedgerDue(dec("534.00"))
	assert.Equal(t, InvoiceStatusPartialPaid, inv.Status)
	assert.Equal(t, ledger.StatusPartial, inv.LedgerStatus())

	inv.SetLedgerDue(decimal.Zero)
	assert.Equal(t, InvoiceStatusPaid, inv.Status)
	assert.Equal(t, ledger.StatusPaid, inv.LedgerStatus())
}

func TestNewInvoice_RejectsOverTender(t *testing.T) {
	_, err := NewInvoice(uuid.New(), uuid.New(), dec("10.00"), sampleItems(uuid.New()), []PaymentInput{cash("1000.00"), cash("100.00")})
	require.Error(t, err)

	var exceeds *ledger.AllocationExceedsBalanceError
	require.True(t, errors.As(err, &exceeds))
	assert.True(t, dec("34.00").Equal(exceeds.Due))
	assert.True(t, errors.Is(err, shared.ErrAllocationExceedsBalance))
}

func TestNewInvoice_Validation(t *testing.T) {
	t.Run("missing references and lists", func(t *testing.T) {
		_, err := NewInvoice(uuid.Nil, uuid.Nil, decimal.Zero, nil, nil)
		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		for _, field := range []string{"customer_id", "created_by", "items", "payments"} {
			assert.Contains(t, verr.Fields, field)
		}
	})

	t.Run("bad payment method and amount", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), uuid.New(), decimal.Zero, sampleItems(uuid.New()), []PaymentInput{
			{PaymentMethod: PaymentMethod("Bitcoin"), TotalGivenAmount: dec("0")},
		})
		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "payments[0].payment_method")
		assert.Contains(t, verr.Fields, "payments[0].total_given_amount")
	})

	t.Run("given amount finer than a cent", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), uuid.New(), decimal.Zero, sampleItems(uuid.New()), []PaymentInput{cash("100.005")})
		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "payments[0].total_given_amount")
	})

	t.Run("pricing errors surface as validation", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), uuid.New(), decimal.Zero,
			[]ItemInput{{StockID: uuid.New(), Qty: 0, UnitPrice: dec("1")}},
			[]PaymentInput{cash("1")})
		var verr *shared.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "items[0].qty")
	})
}

func TestNewInvoice_PaymentDate(t *testing.T) {
	paidAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	inv, err := NewInvoice(uuid.New(), uuid.New(), decimal.Zero, sampleItems(uuid.New()), []PaymentInput{
		{PaymentMethod: PaymentMethodBankTransfer, TotalGivenAmount: dec("100"), PaymentDate: &paidAt},
	})
	require.NoError(t, err)
	assert.Equal(t, paidAt, inv.Payments[0].PaymentDate)
}

func TestGenerateInvoiceNumber(t *testing.T) {
	id := uuid.MustParse("0a1b2c3d-4e5f-6789-abcd-ef0123456789")
	number := generateInvoiceNumber(time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC), id)
	assert.Equal(t, "INV-20240517-0A1B2C3D", number)

	inv, err := NewInvoice(uuid.New(), uuid.New(), decimal.Zero, sampleItems(uuid.New()), []PaymentInput{cash("1")})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^INV-\d{8}-[0-9A-F]{8}$`), inv.InvoiceNumber)
}

func TestPaymentMethod_IsValid(t *testing.T) {
	for _, m := range AllPaymentMethods() {
		assert.True(t, m.IsValid(), m)
	}
	assert.False(t, PaymentMethod("cash").IsValid())
	assert.False(t, PaymentMethod("").IsValid())
}
