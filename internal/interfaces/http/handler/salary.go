package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	payrollapp "github.com/pos/backend/internal/application/payroll"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SalaryService is the payroll use case surface the handler needs
type SalaryService interface {
	CreateSalary(ctx context.Context, in payrollapp.CreateSalaryInput) (*payrollapp.SalaryResponse, error)
	GetSalary(ctx context.Context, id uuid.UUID) (*payrollapp.SalaryResponse, error)
	ListSalaries(ctx context.Context, f payrollapp.SalaryListFilter) (*shared.Paginated[payrollapp.SalaryResponse], error)
	AddPayment(ctx context.Context, in payrollapp.PaymentInput) (*payrollapp.SalaryPaymentResponse, error)
	UpdatePayment(ctx context.Context, paymentID uuid.UUID, in payrollapp.PaymentInput) (*payrollapp.SalaryPaymentResponse, error)
	DeletePayment(ctx context.Context, paymentID uuid.UUID) error
}

// CreateSalaryRequest is the body of POST /salaries
type CreateSalaryRequest struct {
	EmployeeID  string          `json:"employee_id" binding:"required,uuid"`
	SalaryMonth string          `json:"salary_month" binding:"required,datetime=2006-01"`
	TotalSalary decimal.Decimal `json:"total_salary" binding:"gt=0"`
	Note        string          `json:"note" binding:"max=1000"`
}

// SalaryPaymentRequest is the body of the salary payment create and update routes.
// SalaryID is required on create; on update it may only repeat the current salary.
// SalaryPaidBy names the user who paid and defaults to the caller.
type SalaryPaymentRequest struct {
	SalaryID      string          `json:"salary_id" binding:"omitempty,uuid"`
	SalaryPaidBy  string          `json:"salary_paid_by" binding:"omitempty,uuid"`
	PaymentType   string          `json:"payment_type" binding:"omitempty,oneof=regular advance bonus overtime commission allowance adjustment"`
	PaymentMethod string          `json:"payment_method" binding:"max=50"`
	PaidAmount    decimal.Decimal `json:"paid_amount" binding:"gt=0"`
	PaymentDate   *time.Time      `json:"payment_date"`
	Note          string          `json:"note" binding:"max=1000"`
}

func (r SalaryPaymentRequest) toInput(actorID uuid.UUID) payrollapp.PaymentInput {
	in := payrollapp.PaymentInput{
		PaidBy:        actorID,
		PaymentType:   r.PaymentType,
		PaymentMethod: r.PaymentMethod,
		PaidAmount:    r.PaidAmount,
		PaymentDate:   r.PaymentDate,
		Note:          r.Note,
	}
	if id := optionalUUID(r.SalaryID); id != nil {
		in.SalaryID = *id
	}
	if id := optionalUUID(r.SalaryPaidBy); id != nil {
		in.PaidBy = *id
	}
	return in
}

// SalaryListQuery is the query string of GET /salaries
type SalaryListQuery struct {
	EmployeeID  string `form:"employee_id" binding:"omitempty,uuid"`
	SalaryMonth string `form:"salary_month" binding:"omitempty,datetime=2006-01"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by" binding:"omitempty,oneof=created_at salary_month total_salary"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SalaryHandler serves /salaries and /salary-payments
type SalaryHandler struct {
	BaseHandler
	service SalaryService
}

// NewSalaryHandler creates a new SalaryHandler
func NewSalaryHandler(service SalaryService) *SalaryHandler {
	return &SalaryHandler{service: service}
}

// Create records the salary owed to an employee for one month
// POST /salaries
func (h *SalaryHandler) Create(c *gin.Context) {
	var req CreateSalaryRequest
	if !h.BindJSON(c, &req) {
		return
	}
	salary, err := h.service.CreateSalary(c.Request.Context(), payrollapp.CreateSalaryInput{
		EmployeeID:  uuid.MustParse(req.EmployeeID),
		SalaryMonth: req.SalaryMonth,
		TotalSalary: req.TotalSalary,
		Note:        req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, salary)
}

// Get returns a salary with its payments and live balance
// GET /salaries/:id
func (h *SalaryHandler) Get(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	salary, err := h.service.GetSalary(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, salary)
}

// List returns a page of salaries
// GET /salaries
func (h *SalaryHandler) List(c *gin.Context) {
	var q SalaryListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.service.ListSalaries(c.Request.Context(), payrollapp.SalaryListFilter{
		EmployeeID:  optionalUUID(q.EmployeeID),
		SalaryMonth: q.SalaryMonth,
		Page:        q.Page,
		PageSize:    q.PageSize,
		OrderBy:     q.OrderBy,
		OrderDir:    q.OrderDir,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// AddPayment pays part of a salary; the acting user is recorded as payer
// POST /salary-payments
func (h *SalaryHandler) AddPayment(c *gin.Context) {
	actorID, ok := h.Actor(c)
	if !ok {
		return
	}
	var req SalaryPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	payment, err := h.service.AddPayment(c.Request.Context(), req.toInput(actorID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// UpdatePayment revises a salary payment
// PUT /salary-payments/:id
func (h *SalaryHandler) UpdatePayment(c *gin.Context) {
	actorID, ok := h.Actor(c)
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req SalaryPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	payment, err := h.service.UpdatePayment(c.Request.Context(), id, req.toInput(actorID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// DeletePayment removes a salary payment
// DELETE /salary-payments/:id
func (h *SalaryHandler) DeletePayment(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeletePayment(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
