package dto

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/ledger"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{CodeValidation, http.StatusUnprocessableEntity},
		{CodeNotFound, http.StatusNotFound},
		{CodeInsufficientStock, http.StatusBadRequest},
		{CodeAllocationExceedsBalance, http.StatusUnprocessableEntity},
		{CodeConflict, http.StatusConflict},
		{CodeAlreadyExists, http.StatusConflict},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{"SOMETHING_NEW", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, GetHTTPStatus(tt.code))
		})
	}
}

func TestFromError(t *testing.T) {
	t.Run("validation error lists fields in order", func(t *testing.T) {
		verr := shared.NewValidationError()
		verr.Add("qty", "Quantity must be greater than 0")
		verr.Add("customer_id", "Customer ID is required")

		status, resp := FromError(fmt.Errorf("create invoice: %w", verr), "req-1")

		assert.Equal(t, http.StatusUnprocessableEntity, status)
		require.NotNil(t, resp.Error)
		assert.False(t, resp.Success)
		assert.Equal(t, CodeValidation, resp.Error.Code)
		assert.Equal(t, "req-1", resp.Error.RequestID)
		assert.Equal(t, []ValidationDetail{
			{Field: "customer_id", Message: "Customer ID is required"},
			{Field: "qty", Message: "Quantity must be greater than 0"},
		}, resp.Error.Details)
	})

	t.Run("insufficient stock carries the shortage", func(t *testing.T) {
		stockID := uuid.New()
		err := &inventory.InsufficientStockError{
			StockID:   stockID,
			Available: decimal.NewFromInt(2),
			Requested: decimal.NewFromInt(5),
		}

		status, resp := FromError(err, "")

		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, CodeInsufficientStock, resp.Error.Code)
		detail, ok := resp.Error.Details.(StockShortageDetail)
		require.True(t, ok)
		assert.Equal(t, stockID.String(), detail.StockID)
		assert.True(t, detail.Available.Equal(decimal.NewFromInt(2)))
	})

	t.Run("allocation over the balance", func(t *testing.T) {
		err := &ledger.AllocationExceedsBalanceError{
			DocumentType: "supplier_bill",
			Due:          decimal.RequireFromString("100.00"),
			Requested:    decimal.RequireFromString("150.00"),
		}

		status, resp := FromError(err, "")

		assert.Equal(t, http.StatusUnprocessableEntity, status)
		assert.Equal(t, CodeAllocationExceedsBalance, resp.Error.Code)
		assert.Contains(t, resp.Error.Message, "150.00")
		_, ok := resp.Error.Details.(AllocationDetail)
		assert.True(t, ok)
	})

	t.Run("domain error keeps its message", func(t *testing.T) {
		status, resp := FromError(shared.NewNotFoundError("Invoice not found"), "")

		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, CodeNotFound, resp.Error.Code)
		assert.Equal(t, "Invoice not found", resp.Error.Message)
	})

	t.Run("conflict", func(t *testing.T) {
		status, _ := FromError(shared.NewConflictError("duplicate"), "")
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("unknown errors are hidden", func(t *testing.T) {
		status, resp := FromError(errors.New("pq: connection refused"), "req-2")

		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, CodeInternal, resp.Error.Code)
		assert.NotContains(t, resp.Error.Message, "pq")
		assert.Equal(t, "req-2", resp.Error.RequestID)
	})
}
