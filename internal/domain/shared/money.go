package shared

import "github.com/shopspring/decimal"

// MoneyScale is the number of decimal places money columns are stored with
const MoneyScale int32 = 2

// HasMoneyScale reports whether amount fits in MoneyScale decimal places.
// Trailing zeros do not count, so 10.000 is accepted.
func HasMoneyScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(MoneyScale))
}

// CheckMoneyScale records a field error on verr when amount carries
// fractions of a cent
func CheckMoneyScale(verr *ValidationError, field string, amount decimal.Decimal) {
	if !HasMoneyScale(amount) {
		verr.Add(field, "Amount cannot have more than 2 decimal places")
	}
}
