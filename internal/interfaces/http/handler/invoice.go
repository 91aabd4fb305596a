package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	salesapp "github.com/pos/backend/internal/application/sales"
	"github.com/pos/backend/internal/domain/shared"
)

// InvoiceService is the sales use case surface the handler needs
type InvoiceService interface {
	Create(ctx context.Context, actorID uuid.UUID, in salesapp.CreateInvoiceInput) (*salesapp.InvoiceResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*salesapp.InvoiceResponse, error)
	List(ctx context.Context, f salesapp.InvoiceListFilter) (*shared.Paginated[salesapp.InvoiceResponse], error)
}

// InvoiceHandler serves /invoices
type InvoiceHandler struct {
	BaseHandler
	service InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(service InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// Create prices the basket, reserves its stock and records the tenders in
// one transaction.
// POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	actorID, ok := h.Actor(c)
	if !ok {
		return
	}
	var req CreateInvoiceRequest
	if !h.BindJSON(c, &req) {
		return
	}

	invoice, err := h.service.Create(c.Request.Context(), actorID, req.toInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, invoice)
}

// Get returns one invoice with its items and payments
// GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	invoice, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoice)
}

// List returns a page of invoices
// GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	var q InvoiceListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.service.List(c.Request.Context(), q.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, page)
}
