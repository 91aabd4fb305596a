package payroll

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// CreateSalaryInput is the payload of a salary creation
type CreateSalaryInput struct {
	EmployeeID  uuid.UUID
	SalaryMonth string
	TotalSalary decimal.Decimal
	Note        string
}

// PaymentInput is the payload of a salary payment create or update
type PaymentInput struct {
	SalaryID      uuid.UUID
	PaidBy        uuid.UUID
	PaymentType   string
	PaymentMethod string
	PaidAmount    decimal.Decimal
	PaymentDate   *time.Time
	Note          string
}

// SalaryResponse represents a salary with its derived balance
type SalaryResponse struct {
	ID          uuid.UUID               `json:"id"`
	EmployeeID  uuid.UUID               `json:"employee_id"`
	SalaryMonth string                  `json:"salary_month"`
	TotalSalary decimal.Decimal         `json:"total_salary"`
	PaidAmount  decimal.Decimal         `json:"paid_amount"`
	Balance     decimal.Decimal         `json:"balance"`
	Status      string                  `json:"status"`
	Note        string                  `json:"note,omitempty"`
	Payments    []SalaryPaymentResponse `json:"payments,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// SalaryPaymentResponse represents a salary payment
type SalaryPaymentResponse struct {
	ID            uuid.UUID       `json:"id"`
	SalaryID      uuid.UUID       `json:"salary_id"`
	SalaryPaidBy  uuid.UUID       `json:"salary_paid_by"`
	PaymentType   string          `json:"payment_type"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PaymentDate   time.Time       `json:"payment_date"`
	Note          string          `json:"note,omitempty"`
	SalaryBalance decimal.Decimal `json:"salary_balance"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToSalaryResponse converts a domain Salary to its response
func ToSalaryResponse(s *payroll.Salary) SalaryResponse {
	return SalaryResponse{
		ID:          s.ID,
		EmployeeID:  s.EmployeeID,
		SalaryMonth: s.SalaryMonth,
		TotalSalary: s.TotalSalary,
		PaidAmount:  s.PaidTotal(),
		Balance:     s.Balance(),
		Status:      s.Status().String(),
		Note:        s.Note,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToSalaryPaymentResponse converts a domain SalaryPayment to its response.
// balance is the salary balance after the payment was applied.
func ToSalaryPaymentResponse(p *payroll.SalaryPayment, balance decimal.Decimal) SalaryPaymentResponse {
	return SalaryPaymentResponse{
		ID:            p.ID,
		SalaryID:      p.SalaryID,
		SalaryPaidBy:  p.PaidBy,
		PaymentType:   string(p.PaymentType),
		PaymentMethod: p.PaymentMethod,
		PaidAmount:    p.PaidAmount,
		PaymentDate:   p.PaymentDate,
		Note:          p.Note,
		SalaryBalance: balance,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// SalaryListFilter represents filter options for salary lists
type SalaryListFilter struct {
	EmployeeID  *uuid.UUID `form:"employee_id"`
	SalaryMonth string     `form:"salary_month"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string     `form:"order_by" binding:"omitempty,oneof=created_at salary_month total_salary"`
	OrderDir    string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
