package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	salesapp "github.com/pos/backend/internal/application/sales"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockInvoiceService struct {
	mock.Mock
}

func (m *mockInvoiceService) Create(ctx context.Context, actorID uuid.UUID, in salesapp.CreateInvoiceInput) (*salesapp.InvoiceResponse, error) {
	args := m.Called(ctx, actorID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.InvoiceResponse), args.Error(1)
}

func (m *mockInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*salesapp.InvoiceResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*salesapp.InvoiceResponse), args.Error(1)
}

func (m *mockInvoiceService) List(ctx context.Context, f salesapp.InvoiceListFilter) (*shared.Paginated[salesapp.InvoiceResponse], error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[salesapp.InvoiceResponse]), args.Error(1)
}

func invoiceRouter(svc InvoiceService, actor uuid.UUID) *gin.Engine {
	h := NewInvoiceHandler(svc)
	r := newTestRouter(actor)
	r.POST("/invoices", h.Create)
	r.GET("/invoices", h.List)
	r.GET("/invoices/:id", h.Get)
	return r
}

func validInvoiceBody(customerID, stockID uuid.UUID) map[string]any {
	return map[string]any{
		"customer_id":      customerID.String(),
		"invoice_discount": "5.00",
		"items": []map[string]any{
			{"stock_id": stockID.String(), "qty": 2, "unit_price": "10.00", "discount_rate": "0.10"},
		},
		"payments": []map[string]any{
			{"payment_method": "Cash", "total_given_amount": "20.00"},
		},
	}
}

func TestInvoiceHandler_Create(t *testing.T) {
	actor, customerID, stockID := uuid.New(), uuid.New(), uuid.New()

	t.Run("creates the invoice for the acting user", func(t *testing.T) {
		svc := new(mockInvoiceService)
		created := &salesapp.InvoiceResponse{
			ID:            uuid.New(),
			InvoiceNumber: "INV-20260101-0A1B2C3D",
			GrandTotal:    dec("13.00"),
			Status:        "paid",
		}
		svc.On("Create", mock.Anything, actor, mock.MatchedBy(func(in salesapp.CreateInvoiceInput) bool {
			return in.CustomerID == customerID &&
				in.InvoiceDiscount.Equal(dec("5")) &&
				len(in.Items) == 1 && in.Items[0].StockID == stockID && in.Items[0].Qty == 2 &&
				in.Items[0].DiscountRate != nil && in.Items[0].DiscountRate.Equal(dec("0.1")) &&
				len(in.Payments) == 1 && in.Payments[0].PaymentMethod == "Cash"
		})).Return(created, nil)

		w := doJSON(t, invoiceRouter(svc, actor), http.MethodPost, "/invoices", validInvoiceBody(customerID, stockID))

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var got salesapp.InvoiceResponse
		decodeData(t, w, &got)
		assert.Equal(t, created.InvoiceNumber, got.InvoiceNumber)
		assert.True(t, got.GrandTotal.Equal(dec("13.00")))
		svc.AssertExpectations(t)
	})

	t.Run("insufficient stock is 400 with the shortage", func(t *testing.T) {
		svc := new(mockInvoiceService)
		svc.On("Create", mock.Anything, actor, mock.Anything).Return(nil, &inventory.InsufficientStockError{
			StockID:   stockID,
			Available: dec("1"),
			Requested: dec("2"),
		})

		w := doJSON(t, invoiceRouter(svc, actor), http.MethodPost, "/invoices", validInvoiceBody(customerID, stockID))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decode(t, w)
		assert.Equal(t, dto.CodeInsufficientStock, env.Error.Code)
		assert.Contains(t, string(env.Error.Details), stockID.String())
		assert.NotEmpty(t, env.Error.RequestID)
	})

	t.Run("payment over the grand total is 422", func(t *testing.T) {
		svc := new(mockInvoiceService)
		svc.On("Create", mock.Anything, actor, mock.Anything).
			Return(nil, shared.NewDomainError(shared.CodeAllocationExceedsBalance, "Paid amount exceeds the invoice total"))

		w := doJSON(t, invoiceRouter(svc, actor), http.MethodPost, "/invoices", validInvoiceBody(customerID, stockID))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.CodeAllocationExceedsBalance, decode(t, w).Error.Code)
	})

	t.Run("an empty basket never reaches the service", func(t *testing.T) {
		svc := new(mockInvoiceService)
		body := validInvoiceBody(customerID, stockID)
		body["items"] = []map[string]any{}

		w := doJSON(t, invoiceRouter(svc, actor), http.MethodPost, "/invoices", body)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, string(decode(t, w).Error.Details), "items")
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("line validation reports the line", func(t *testing.T) {
		svc := new(mockInvoiceService)
		body := validInvoiceBody(customerID, stockID)
		body["items"] = []map[string]any{{"stock_id": "abc", "qty": -1, "unit_price": "1"}}

		w := doJSON(t, invoiceRouter(svc, actor), http.MethodPost, "/invoices", body)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		details := string(decode(t, w).Error.Details)
		assert.Contains(t, details, "items[0].stock_id")
		assert.Contains(t, details, "items[0].qty")
	})

	t.Run("anonymous request is 401", func(t *testing.T) {
		svc := new(mockInvoiceService)

		w := doJSON(t, invoiceRouter(svc, uuid.Nil), http.MethodPost, "/invoices", validInvoiceBody(customerID, stockID))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unexpected failure is 500 without internals", func(t *testing.T) {
		svc := new(mockInvoiceService)
		svc.On("Create", mock.Anything, actor, mock.Anything).Return(nil, assert.AnError)

		w := doJSON(t, invoiceRouter(svc, actor), http.MethodPost, "/invoices", validInvoiceBody(customerID, stockID))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), assert.AnError.Error())
	})
}

func TestInvoiceHandler_Get(t *testing.T) {
	id := uuid.New()

	t.Run("found", func(t *testing.T) {
		svc := new(mockInvoiceService)
		svc.On("GetByID", mock.Anything, id).Return(&salesapp.InvoiceResponse{ID: id, Status: "partial_paid"}, nil)

		w := doJSON(t, invoiceRouter(svc, uuid.New()), http.MethodGet, "/invoices/"+id.String(), nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got salesapp.InvoiceResponse
		decodeData(t, w, &got)
		assert.Equal(t, "partial_paid", got.Status)
	})

	t.Run("not found", func(t *testing.T) {
		svc := new(mockInvoiceService)
		svc.On("GetByID", mock.Anything, id).Return(nil, shared.NewNotFoundError("Invoice not found"))

		w := doJSON(t, invoiceRouter(svc, uuid.New()), http.MethodGet, "/invoices/"+id.String(), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.CodeNotFound, decode(t, w).Error.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		w := doJSON(t, invoiceRouter(new(mockInvoiceService), uuid.New()), http.MethodGet, "/invoices/42", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestInvoiceHandler_List(t *testing.T) {
	customerID := uuid.New()

	t.Run("passes the filter through", func(t *testing.T) {
		svc := new(mockInvoiceService)
		page := shared.NewPaginated([]salesapp.InvoiceResponse{{ID: uuid.New()}}, 21, 2, 10)
		svc.On("List", mock.Anything, mock.MatchedBy(func(f salesapp.InvoiceListFilter) bool {
			return f.CustomerID != nil && *f.CustomerID == customerID &&
				f.Status == "paid" && f.Page == 2 && f.PageSize == 10
		})).Return(&page, nil)

		w := doJSON(t, invoiceRouter(svc, uuid.New()), http.MethodGet,
			"/invoices?customer_id="+customerID.String()+"&status=paid&page=2&page_size=10", nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var got shared.Paginated[salesapp.InvoiceResponse]
		decodeData(t, w, &got)
		assert.Equal(t, int64(21), got.Total)
		assert.Equal(t, 3, got.TotalPages)
		svc.AssertExpectations(t)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		w := doJSON(t, invoiceRouter(new(mockInvoiceService), uuid.New()), http.MethodGet, "/invoices?status=void", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
