package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/pos/backend/internal/application/inventory"
	"github.com/shopspring/decimal"
)

// StockService is the inventory use case surface the handler needs
type StockService interface {
	CreateStock(ctx context.Context, in inventoryapp.CreateStockInput) (*inventoryapp.StockResponse, error)
	GetStock(ctx context.Context, id uuid.UUID) (*inventoryapp.StockResponse, error)
	ReceiveStock(ctx context.Context, id uuid.UUID, in inventoryapp.ReceiveStockInput) (*inventoryapp.StockResponse, error)
}

// CreateStockRequest is the body of POST /stocks
type CreateStockRequest struct {
	ProductID     string          `json:"product_id" binding:"required,uuid"`
	Barcode       string          `json:"barcode" binding:"required,max=64"`
	Qty           decimal.Decimal `json:"qty" binding:"gte=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price" binding:"gte=0"`
	SellingPrice  decimal.Decimal `json:"selling_price" binding:"gte=0"`
}

// ReceiveStockRequest is the body of POST /stocks/:id/receive
type ReceiveStockRequest struct {
	Qty decimal.Decimal `json:"qty" binding:"gt=0"`
}

// StockHandler serves /stocks
type StockHandler struct {
	BaseHandler
	service StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(service StockService) *StockHandler {
	return &StockHandler{service: service}
}

// Create registers a stock unit
// POST /stocks
func (h *StockHandler) Create(c *gin.Context) {
	var req CreateStockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	stock, err := h.service.CreateStock(c.Request.Context(), inventoryapp.CreateStockInput{
		ProductID:     uuid.MustParse(req.ProductID),
		Barcode:       req.Barcode,
		Qty:           req.Qty,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, stock)
}

// Get returns one stock unit
// GET /stocks/:id
func (h *StockHandler) Get(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	stock, err := h.service.GetStock(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// Receive books a goods receipt against a stock unit
// POST /stocks/:id/receive
func (h *StockHandler) Receive(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req ReceiveStockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	stock, err := h.service.ReceiveStock(c.Request.Context(), id, inventoryapp.ReceiveStockInput{Qty: req.Qty})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}
