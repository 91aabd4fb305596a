package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// SalaryModel is the persistence model for the Salary aggregate root.
// Balance and status are derived from the payments and have no columns.
type SalaryModel struct {
	AggregateModel
	EmployeeID  uuid.UUID       `gorm:"size:36;not null;uniqueIndex:idx_salary_employee_month,priority:1"`
	SalaryMonth string          `gorm:"size:7;not null;uniqueIndex:idx_salary_employee_month,priority:2"`
	TotalSalary decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Note        string          `gorm:"type:text"`

	Payments []SalaryPaymentModel `gorm:"foreignKey:SalaryID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (SalaryModel) TableName() string {
	return "salaries"
}

// ToDomain converts the persistence model to a domain Salary carrying paid.
func (m *SalaryModel) ToDomain(paid decimal.Decimal) *payroll.Salary {
	s := &payroll.Salary{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		EmployeeID:        m.EmployeeID,
		SalaryMonth:       m.SalaryMonth,
		TotalSalary:       m.TotalSalary,
		Note:              m.Note,
	}
	s.LoadPaidTotal(paid)
	return s
}

// SalaryModelFromDomain creates a new persistence model from a domain Salary.
func SalaryModelFromDomain(s *payroll.Salary) *SalaryModel {
	m := &SalaryModel{
		EmployeeID:  s.EmployeeID,
		SalaryMonth: s.SalaryMonth,
		TotalSalary: s.TotalSalary,
		Note:        s.Note,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}

// SalaryPaymentModel is the persistence model for a salary payment.
type SalaryPaymentModel struct {
	BaseModel
	SalaryID      uuid.UUID           `gorm:"size:36;not null;index"`
	PaidBy        uuid.UUID           `gorm:"size:36;not null"`
	PaymentType   payroll.PaymentType `gorm:"size:20;not null;default:regular"`
	PaymentMethod string              `gorm:"size:50"`
	PaidAmount    decimal.Decimal     `gorm:"type:decimal(18,2);not null"`
	PaymentDate   time.Time           `gorm:"not null"`
	Note          string              `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SalaryPaymentModel) TableName() string {
	return "salary_payments"
}

// ToDomain converts the persistence model to a domain SalaryPayment.
func (m *SalaryPaymentModel) ToDomain() *payroll.SalaryPayment {
	return &payroll.SalaryPayment{
		BaseEntity:    m.BaseModel.ToDomain(),
		SalaryID:      m.SalaryID,
		PaidBy:        m.PaidBy,
		PaymentType:   m.PaymentType,
		PaymentMethod: m.PaymentMethod,
		PaidAmount:    m.PaidAmount,
		PaymentDate:   m.PaymentDate,
		Note:          m.Note,
	}
}

// FromDomain populates the persistence model from a domain SalaryPayment.
func (m *SalaryPaymentModel) FromDomain(p *payroll.SalaryPayment) {
	m.FromDomainBaseEntity(p.BaseEntity)
	m.SalaryID = p.SalaryID
	m.PaidBy = p.PaidBy
	m.PaymentType = p.PaymentType
	m.PaymentMethod = p.PaymentMethod
	m.PaidAmount = p.PaidAmount
	m.PaymentDate = p.PaymentDate
	m.Note = p.Note
}

// SalaryPaymentModelFromDomain creates a new persistence model from a domain SalaryPayment.
func SalaryPaymentModelFromDomain(p *payroll.SalaryPayment) *SalaryPaymentModel {
	m := &SalaryPaymentModel{}
	m.FromDomain(p)
	return m
}
