// Package payroll contains monthly salaries and the payments made against
// them. A salary's balance is never stored: it is always the total minus the
// live sum of its payments.
package payroll

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/ledger"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PaymentType classifies a salary payment
type PaymentType string

const (
	PaymentTypeRegular    PaymentType = "regular"
	PaymentTypeAdvance    PaymentType = "advance"
	PaymentTypeBonus      PaymentType = "bonus"
	PaymentTypeOvertime   PaymentType = "overtime"
	PaymentTypeCommission PaymentType = "commission"
	PaymentTypeAllowance  PaymentType = "allowance"
	PaymentTypeAdjustment PaymentType = "adjustment"
)

// IsValid checks if the payment type is known
func (t PaymentType) IsValid() bool {
	switch t {
	case PaymentTypeRegular, PaymentTypeAdvance, PaymentTypeBonus, PaymentTypeOvertime,
		PaymentTypeCommission, PaymentTypeAllowance, PaymentTypeAdjustment:
		return true
	}
	return false
}

// salaryAllocator applies payments without a balance check.
// TODO: confirm with payroll owners whether payments beyond total_salary
// must be rejected before this goes to production; switch to PolicyStrict if so.
var salaryAllocator = ledger.NewAllocator("salary", ledger.PolicyPermissive)

var (
	salaryMonthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	minPaidAmount      = decimal.New(1, -2)
)

// Salary is the amount owed to an employee for one month
type Salary struct {
	shared.BaseAggregateRoot
	EmployeeID  uuid.UUID
	SalaryMonth string // YYYY-MM
	TotalSalary decimal.Decimal
	Note        string

	paidTotal decimal.Decimal
}

// NewSalary creates a salary with no payments
func NewSalary(employeeID uuid.UUID, salaryMonth string, totalSalary decimal.Decimal, note string) (*Salary, error) {
	verr := shared.NewValidationError()
	if employeeID == uuid.Nil {
		verr.Add("employee_id", "Employee ID is required")
	}
	salaryMonth = strings.TrimSpace(salaryMonth)
	if !salaryMonthPattern.MatchString(salaryMonth) {
		verr.Add("salary_month", "Salary month must use the YYYY-MM format")
	}
	if totalSalary.LessThan(minPaidAmount) {
		verr.Add("total_salary", "Total salary must be at least 0.01")
	}
	shared.CheckMoneyScale(verr, "total_salary", totalSalary)
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return &Salary{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EmployeeID:        employeeID,
		SalaryMonth:       salaryMonth,
		TotalSalary:       totalSalary,
		Note:              note,
		paidTotal:         decimal.Zero,
	}, nil
}

// LoadPaidTotal sets the live sum of the salary's payments.
// Repositories call it after reading the salary row.
func (s *Salary) LoadPaidTotal(paid decimal.Decimal) {
	s.paidTotal = paid
}

// PaidTotal returns the sum of payments
func (s *Salary) PaidTotal() decimal.Decimal {
	return s.paidTotal
}

// Balance returns what is still owed
func (s *Salary) Balance() decimal.Decimal {
	return s.TotalSalary.Sub(s.paidTotal)
}

// Status returns the derived settlement status
func (s *Salary) Status() ledger.Status {
	return ledger.DeriveStatusFromPaid(s.TotalSalary, s.paidTotal)
}

// PaymentInput carries the fields of a salary payment
type PaymentInput struct {
	PaidBy        uuid.UUID
	PaymentType   PaymentType
	PaymentMethod string
	PaidAmount    decimal.Decimal
	PaymentDate   *time.Time
	Note          string
}

func (in *PaymentInput) normalize() error {
	if in.PaymentType == "" {
		in.PaymentType = PaymentTypeRegular
	}
	in.PaymentMethod = strings.TrimSpace(in.PaymentMethod)

	verr := shared.NewValidationError()
	if in.PaidBy == uuid.Nil {
		verr.Add("salary_paid_by", "Paying user is required")
	}
	if !in.PaymentType.IsValid() {
		verr.Add("payment_type", "Payment type is not supported")
	}
	if len(in.PaymentMethod) > 50 {
		verr.Add("payment_method", "Payment method cannot exceed 50 characters")
	}
	if in.PaidAmount.LessThan(minPaidAmount) {
		verr.Add("paid_amount", "Paid amount must be at least 0.01")
	}
	shared.CheckMoneyScale(verr, "paid_amount", in.PaidAmount)
	return verr.OrNil()
}

// AddPayment records a payment against the salary
func (s *Salary) AddPayment(in PaymentInput) (*SalaryPayment, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	if err := salaryAllocator.Allocate(s, in.PaidAmount); err != nil {
		return nil, err
	}

	paidAt := today()
	if in.PaymentDate != nil {
		paidAt = *in.PaymentDate
	}
	return &SalaryPayment{
		BaseEntity:    shared.NewBaseEntity(),
		SalaryID:      s.ID,
		PaidBy:        in.PaidBy,
		PaymentType:   in.PaymentType,
		PaymentMethod: in.PaymentMethod,
		PaidAmount:    in.PaidAmount,
		PaymentDate:   paidAt,
		Note:          in.Note,
	}, nil
}

// RevisePayment changes an existing payment of this salary
func (s *Salary) RevisePayment(p *SalaryPayment, in PaymentInput) error {
	if p.SalaryID != s.ID {
		return shared.NewNotFoundError("Payment does not belong to this salary")
	}
	if err := in.normalize(); err != nil {
		return err
	}
	if err := salaryAllocator.Reallocate(s, p.PaidAmount, in.PaidAmount); err != nil {
		return err
	}

	p.PaidBy = in.PaidBy
	p.PaymentType = in.PaymentType
	p.PaymentMethod = in.PaymentMethod
	p.PaidAmount = in.PaidAmount
	p.Note = in.Note
	if in.PaymentDate != nil {
		p.PaymentDate = *in.PaymentDate
	}
	p.Touch()
	return nil
}

// RemovePayment drops a payment from the in-memory balance
func (s *Salary) RemovePayment(p *SalaryPayment) error {
	if p.SalaryID != s.ID {
		return shared.NewNotFoundError("Payment does not belong to this salary")
	}
	salaryAllocator.Release(s, p.PaidAmount)
	return nil
}

// LedgerID implements ledger.Document
func (s *Salary) LedgerID() uuid.UUID { return s.ID }

// LedgerTotal implements ledger.Document
func (s *Salary) LedgerTotal() decimal.Decimal { return s.TotalSalary }

// LedgerDue implements ledger.Document
func (s *Salary) LedgerDue() decimal.Decimal { return s.Balance() }

// LedgerStatus implements ledger.Document
func (s *Salary) LedgerStatus() ledger.Status { return s.Status() }

// SetLedgerDue implements ledger.Document. Only the in-memory paid total
// changes; nothing derived is persisted.
func (s *Salary) SetLedgerDue(due decimal.Decimal) {
	s.paidTotal = s.TotalSalary.Sub(due)
}

var _ ledger.Document = (*Salary)(nil)

// SalaryPayment is one payment made against a salary
type SalaryPayment struct {
	shared.BaseEntity
	SalaryID      uuid.UUID
	PaidBy        uuid.UUID
	PaymentType   PaymentType
	PaymentMethod string // free text
	PaidAmount    decimal.Decimal
	PaymentDate   time.Time
	Note          string
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
