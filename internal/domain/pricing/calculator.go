// Package pricing derives invoice amounts (discounts, tax and grand total)
// from the requested lines. It performs no I/O.
package pricing

import (
	"fmt"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TaxRate is the flat sales tax applied to the taxable amount
var TaxRate = decimal.NewFromFloat(0.10)

// Scale is the number of decimal places every amount is rounded to
const Scale int32 = 2

var minUnitPrice = decimal.New(1, -Scale) // 0.01

// Line is one priced invoice line
type Line struct {
	Qty          int64
	UnitPrice    decimal.Decimal
	DiscountRate *decimal.Decimal // nil means no line discount
}

// LineResult carries the derived amounts of a single line
type LineResult struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
}

// Result is the outcome of pricing a document
type Result struct {
	Lines                 []LineResult
	TotalAmount           decimal.Decimal // sum of line subtotals, before any discount
	ItemDiscount          decimal.Decimal // sum of line discounts
	SubTotalAfterDiscount decimal.Decimal
	HeaderDiscount        decimal.Decimal
	FinalDiscount         decimal.Decimal // item discounts + header discount
	TaxableAmount         decimal.Decimal
	Tax                   decimal.Decimal
	GrandTotal            decimal.Decimal
}

// Calculate prices the lines and applies the header discount and tax.
// The header discount only reduces the taxable base, which is floored at zero.
func Calculate(headerDiscount decimal.Decimal, lines []Line) (Result, error) {
	if err := validate(headerDiscount, lines); err != nil {
		return Result{}, err
	}

	res := Result{
		Lines:          make([]LineResult, len(lines)),
		TotalAmount:    decimal.Zero,
		ItemDiscount:   decimal.Zero,
		HeaderDiscount: round(headerDiscount),
	}

	for i, l := range lines {
		subtotal := round(decimal.NewFromInt(l.Qty).Mul(l.UnitPrice))
		discount := decimal.Zero
		if l.DiscountRate != nil {
			discount = round(subtotal.Mul(*l.DiscountRate))
		}
		res.Lines[i] = LineResult{Subtotal: subtotal, Discount: discount}
		res.TotalAmount = res.TotalAmount.Add(subtotal)
		res.ItemDiscount = res.ItemDiscount.Add(discount)
	}

	res.SubTotalAfterDiscount = res.TotalAmount.Sub(res.ItemDiscount)
	res.FinalDiscount = res.ItemDiscount.Add(res.HeaderDiscount)

	res.TaxableAmount = res.SubTotalAfterDiscount.Sub(res.HeaderDiscount)
	if res.TaxableAmount.IsNegative() {
		res.TaxableAmount = decimal.Zero
	}
	res.Tax = round(res.TaxableAmount.Mul(TaxRate))
	res.GrandTotal = res.TaxableAmount.Add(res.Tax)

	return res, nil
}

func validate(headerDiscount decimal.Decimal, lines []Line) error {
	verr := shared.NewValidationError()
	if headerDiscount.IsNegative() {
		verr.Add("invoice_discount", "Invoice discount cannot be negative")
	}
	shared.CheckMoneyScale(verr, "invoice_discount", headerDiscount)
	if len(lines) == 0 {
		verr.Add("items", "At least one item is required")
	}
	for i, l := range lines {
		if l.Qty < 1 {
			verr.Add(fmt.Sprintf("items[%d].qty", i), "Quantity must be at least 1")
		}
		if l.UnitPrice.LessThan(minUnitPrice) {
			verr.Add(fmt.Sprintf("items[%d].unit_price", i), "Unit price must be at least 0.01")
		}
		shared.CheckMoneyScale(verr, fmt.Sprintf("items[%d].unit_price", i), l.UnitPrice)
		if r := l.DiscountRate; r != nil && (r.IsNegative() || r.GreaterThan(decimal.NewFromInt(1))) {
			verr.Add(fmt.Sprintf("items[%d].discount_rate", i), "Discount rate must be between 0 and 1")
		}
	}
	return verr.OrNil()
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}
