package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	purchasingapp "github.com/pos/backend/internal/application/purchasing"
	"github.com/pos/backend/internal/domain/shared"
)

// SupplierBillService is the purchasing use case surface the handler needs
type SupplierBillService interface {
	CreateBill(ctx context.Context, in purchasingapp.CreateBillInput) (*purchasingapp.BillResponse, error)
	GetBill(ctx context.Context, id uuid.UUID) (*purchasingapp.BillResponse, error)
	ListBills(ctx context.Context, f purchasingapp.BillListFilter) (*shared.Paginated[purchasingapp.BillResponse], error)
	DeleteBill(ctx context.Context, id uuid.UUID) error
	ListPayments(ctx context.Context, billID uuid.UUID) ([]purchasingapp.PaymentResponse, error)
	AddPayment(ctx context.Context, actorID, billID uuid.UUID, in purchasingapp.PaymentInput) (*purchasingapp.PaymentResponse, error)
	UpdatePayment(ctx context.Context, actorID, billID, paymentID uuid.UUID, in purchasingapp.PaymentInput) (*purchasingapp.PaymentResponse, error)
	DeletePayment(ctx context.Context, billID, paymentID uuid.UUID) error
}

// SupplierBillHandler serves /supplier-bills and their payments
type SupplierBillHandler struct {
	BaseHandler
	service SupplierBillService
}

// NewSupplierBillHandler creates a new SupplierBillHandler
func NewSupplierBillHandler(service SupplierBillService) *SupplierBillHandler {
	return &SupplierBillHandler{service: service}
}

// Create records a supplier bill with its full amount due
// POST /supplier-bills
func (h *SupplierBillHandler) Create(c *gin.Context) {
	var req CreateSupplierBillRequest
	if !h.BindJSON(c, &req) {
		return
	}
	bill, err := h.service.CreateBill(c.Request.Context(), req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, bill)
}

// Get returns one bill
// GET /supplier-bills/:id
func (h *SupplierBillHandler) Get(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	bill, err := h.service.GetBill(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, bill)
}

// List returns a page of bills
// GET /supplier-bills
func (h *SupplierBillHandler) List(c *gin.Context) {
	var q SupplierBillListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.service.ListBills(c.Request.Context(), q.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}

// Delete removes a bill that has no payments
// DELETE /supplier-bills/:id
func (h *SupplierBillHandler) Delete(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteBill(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListPayments returns the payments of a bill, oldest first
// GET /supplier-bills/:id/payments
func (h *SupplierBillHandler) ListPayments(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	payments, err := h.service.ListPayments(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// AddPayment allocates a payment against the bill's due amount
// POST /supplier-bills/:id/payments
func (h *SupplierBillHandler) AddPayment(c *gin.Context) {
	actorID, ok := h.Actor(c)
	if !ok {
		return
	}
	billID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req SupplierPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	payment, err := h.service.AddPayment(c.Request.Context(), actorID, billID, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}

// UpdatePayment revises a payment; the bill's due amount moves by the difference
// PUT /supplier-bills/:id/payments/:paymentId
func (h *SupplierBillHandler) UpdatePayment(c *gin.Context) {
	actorID, ok := h.Actor(c)
	if !ok {
		return
	}
	billID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	paymentID, ok := h.PathUUID(c, "paymentId")
	if !ok {
		return
	}
	var req SupplierPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	payment, err := h.service.UpdatePayment(c.Request.Context(), actorID, billID, paymentID, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// DeletePayment removes a payment and restores its amount to the bill
// DELETE /supplier-bills/:id/payments/:paymentId
func (h *SupplierBillHandler) DeletePayment(c *gin.Context) {
	billID, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	paymentID, ok := h.PathUUID(c, "paymentId")
	if !ok {
		return
	}
	if err := h.service.DeletePayment(c.Request.Context(), billID, paymentID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
