package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	inventoryapp "github.com/pos/backend/internal/application/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStockService struct {
	mock.Mock
}

func (m *mockStockService) CreateStock(ctx context.Context, in inventoryapp.CreateStockInput) (*inventoryapp.StockResponse, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.StockResponse), args.Error(1)
}

func (m *mockStockService) GetStock(ctx context.Context, id uuid.UUID) (*inventoryapp.StockResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.StockResponse), args.Error(1)
}

func (m *mockStockService) ReceiveStock(ctx context.Context, id uuid.UUID, in inventoryapp.ReceiveStockInput) (*inventoryapp.StockResponse, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventoryapp.StockResponse), args.Error(1)
}

func stockRouter(svc StockService) *gin.Engine {
	h := NewStockHandler(svc)
	r := newTestRouter(uuid.New())
	r.POST("/stocks", h.Create)
	r.GET("/stocks/:id", h.Get)
	r.POST("/stocks/:id/receive", h.Receive)
	return r
}

func TestStockHandler(t *testing.T) {
	id, product := uuid.New(), uuid.New()

	t.Run("create", func(t *testing.T) {
		svc := new(mockStockService)
		svc.On("CreateStock", mock.Anything, mock.MatchedBy(func(in inventoryapp.CreateStockInput) bool {
			return in.ProductID == product && in.Barcode == "8901" && in.Qty.Equal(dec("12"))
		})).Return(&inventoryapp.StockResponse{ID: id, Qty: dec("12")}, nil)

		w := doJSON(t, stockRouter(svc), http.MethodPost, "/stocks", map[string]any{
			"product_id":     product.String(),
			"barcode":        "8901",
			"qty":            "12",
			"purchase_price": "1.50",
			"selling_price":  "2.00",
		})

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("duplicate barcode", func(t *testing.T) {
		svc := new(mockStockService)
		svc.On("CreateStock", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError(shared.CodeAlreadyExists, "Barcode already exists"))

		w := doJSON(t, stockRouter(svc), http.MethodPost, "/stocks", map[string]any{
			"product_id": product.String(),
			"barcode":    "8901",
		})

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("receive adds quantity", func(t *testing.T) {
		svc := new(mockStockService)
		svc.On("ReceiveStock", mock.Anything, id, mock.MatchedBy(func(in inventoryapp.ReceiveStockInput) bool {
			return in.Qty.Equal(dec("3"))
		})).
			Return(&inventoryapp.StockResponse{ID: id, Qty: dec("15")}, nil)

		w := doJSON(t, stockRouter(svc), http.MethodPost, "/stocks/"+id.String()+"/receive", map[string]any{"qty": "3"})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var got inventoryapp.StockResponse
		decodeData(t, w, &got)
		assert.True(t, got.Qty.Equal(dec("15")))
	})

	t.Run("receive requires a positive quantity", func(t *testing.T) {
		w := doJSON(t, stockRouter(new(mockStockService)), http.MethodPost, "/stocks/"+id.String()+"/receive", map[string]any{"qty": "0"})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("get unknown", func(t *testing.T) {
		svc := new(mockStockService)
		svc.On("GetStock", mock.Anything, id).Return(nil, shared.NewNotFoundError("Stock not found"))

		w := doJSON(t, stockRouter(svc), http.MethodGet, "/stocks/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
