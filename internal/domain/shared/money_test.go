package shared

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHasMoneyScale(t *testing.T) {
	tests := []struct {
		amount string
		want   bool
	}{
		{"100", true},
		{"99.99", true},
		{"0.01", true},
		{"10.000", true},
		{"-3.5", true},
		{"99.995", false},
		{"0.001", false},
		{"-0.125", false},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, HasMoneyScale(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestCheckMoneyScale(t *testing.T) {
	verr := NewValidationError()
	CheckMoneyScale(verr, "paid_amount", decimal.RequireFromString("1.005"))
	CheckMoneyScale(verr, "total", decimal.RequireFromString("1.50"))

	assert.Equal(t, map[string]string{"paid_amount": "Amount cannot have more than 2 decimal places"}, verr.Fields)
}
