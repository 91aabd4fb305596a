package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/attachment"
	identityapp "github.com/pos/backend/internal/application/identity"
	inventoryapp "github.com/pos/backend/internal/application/inventory"
	payrollapp "github.com/pos/backend/internal/application/payroll"
	purchasingapp "github.com/pos/backend/internal/application/purchasing"
	salesapp "github.com/pos/backend/internal/application/sales"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/cache"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"github.com/pos/backend/internal/infrastructure/storage"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// flowEnv runs the full stack over a migrated SQLite file
type flowEnv struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
	jwt    *auth.JWTService
}

func newFlowEnv(t *testing.T) *flowEnv {
	t.Helper()
	middleware.SetupValidator()

	database, err := persistence.NewDatabase(config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DBName:       filepath.Join(t.TempDir(), "pos.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, persistence.AutoMigrate(database.DB))

	repos := persistence.NewRepositories(database.DB)
	scope := persistence.NewGormTransactionScope(database.DB)
	permissions := identityapp.NewPermissionService(repos, scope, cache.NewInMemoryPermissionCache(), nil)
	jwt := auth.NewJWTService(config.JWTConfig{Secret: "flow-test-secret-at-least-32-characters", Issuer: "pos-test"})

	engine, err := NewEngine(EngineConfig{ServiceName: "pos-test", HTTP: config.HTTPConfig{MaxBodySize: 1 << 20}})
	require.NoError(t, err)
	Mount(engine, Handlers{
		Health:       handler.NewHealthHandler(database, "test"),
		Invoice:      handler.NewInvoiceHandler(salesapp.NewInvoiceService(repos, scope, nil)),
		Stock:        handler.NewStockHandler(inventoryapp.NewStockService(repos, scope, nil)),
		SupplierBill: handler.NewSupplierBillHandler(purchasingapp.NewSupplierBillService(repos, scope, nil)),
		Salary:       handler.NewSalaryHandler(payrollapp.NewSalaryService(repos, scope, nil)),
		Permission:   handler.NewPermissionHandler(permissions),
		Upload:       handler.NewUploadHandler(attachment.NewService(storage.NewMemoryObjectStorage(), nil)),
	}, Security{Tokens: jwt, Permissions: permissions})

	return &flowEnv{t: t, db: database.DB, engine: engine, jwt: jwt}
}

func (e *flowEnv) seedUser(username string, slugs ...string) (uuid.UUID, string) {
	e.t.Helper()
	id := uuid.New()
	require.NoError(e.t, e.db.Create(&models.UserModel{BaseModel: models.BaseModel{ID: id}, Username: username}).Error)
	for _, slug := range slugs {
		require.NoError(e.t, e.db.Create(&models.UserPermissionModel{UserID: id, Slug: slug}).Error)
	}
	token, err := e.jwt.IssueAccessToken(id, username, time.Hour)
	require.NoError(e.t, err)
	return id, token
}

func (e *flowEnv) seedCustomer() uuid.UUID {
	e.t.Helper()
	id := uuid.New()
	require.NoError(e.t, e.db.Create(&models.CustomerModel{BaseModel: models.BaseModel{ID: id}, Name: "Walk-in"}).Error)
	return id
}

func (e *flowEnv) seedSupplier() uuid.UUID {
	e.t.Helper()
	id := uuid.New()
	require.NoError(e.t, e.db.Create(&models.SupplierModel{BaseModel: models.BaseModel{ID: id}, Name: "Acme Wholesale"}).Error)
	return id
}

// call sends body as JSON with token and decodes the envelope's data into out
func (e *flowEnv) call(token, method, path string, body, out any) (int, string) {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var env struct {
		Data  json.RawMessage `json:"data"`
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if w.Body.Len() > 0 {
		require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	if out != nil && env.Error == nil && len(env.Data) > 0 {
		require.NoError(e.t, json.Unmarshal(env.Data, out))
	}
	code := ""
	if env.Error != nil {
		code = env.Error.Code
	}
	return w.Code, code
}

func TestFlow_SaleReservesStockAndRejectsOversell(t *testing.T) {
	env := newFlowEnv(t)
	customer := env.seedCustomer()
	_, admin := env.seedUser("admin", identity.PermPermissionAssign)
	cashierID, cashier := env.seedUser("cashier")

	// The cashier can do nothing until the admin grants permissions.
	status, _ := env.call(cashier, http.MethodPost, "/api/v1/stocks", map[string]any{}, nil)
	require.Equal(t, http.StatusForbidden, status)

	status, _ = env.call(admin, http.MethodPut, "/api/v1/users/"+cashierID.String()+"/permissions", map[string]any{
		"permissions": []string{identity.PermStockCreate, identity.PermStockView, identity.PermInvoiceCreate, identity.PermInvoiceView},
	}, nil)
	require.Equal(t, http.StatusOK, status)

	var stock inventoryapp.StockResponse
	status, _ = env.call(cashier, http.MethodPost, "/api/v1/stocks", map[string]any{
		"product_id":     uuid.NewString(),
		"barcode":        "8901000001",
		"qty":            "5",
		"purchase_price": "6.00",
		"selling_price":  "10.00",
	}, &stock)
	require.Equal(t, http.StatusCreated, status)

	sale := func(qty int) map[string]any {
		return map[string]any{
			"customer_id": customer.String(),
			"items":       []map[string]any{{"stock_id": stock.ID.String(), "qty": qty, "unit_price": "10.00"}},
			"payments":    []map[string]any{{"payment_method": "Cash", "total_given_amount": "33.00"}},
		}
	}

	var invoice salesapp.InvoiceResponse
	status, _ = env.call(cashier, http.MethodPost, "/api/v1/invoices", sale(3), &invoice)
	require.Equal(t, http.StatusCreated, status)
	assert.True(t, invoice.GrandTotal.Equal(decimal.RequireFromString("33")), invoice.GrandTotal.String())
	assert.Equal(t, "paid", invoice.Status)
	assert.Equal(t, cashierID, invoice.CreatedBy)

	status, code := env.call(cashier, http.MethodPost, "/api/v1/invoices", sale(3), nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", code)

	var after inventoryapp.StockResponse
	status, _ = env.call(cashier, http.MethodGet, "/api/v1/stocks/"+stock.ID.String(), nil, &after)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, after.Qty.Equal(decimal.RequireFromString("2")), "qty = %s", after.Qty)

	var fetched salesapp.InvoiceResponse
	status, _ = env.call(cashier, http.MethodGet, "/api/v1/invoices/"+invoice.ID.String(), nil, &fetched)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, fetched.Items, 1)
	assert.Len(t, fetched.Payments, 1)
}

func TestFlow_SupplierBillSettlement(t *testing.T) {
	env := newFlowEnv(t)
	supplier := env.seedSupplier()
	_, clerk := env.seedUser("clerk",
		identity.PermSupplierBillCreate, identity.PermSupplierBillView, identity.PermSupplierBillDelete,
		identity.PermSupplierPaymentCreate, identity.PermSupplierPaymentUpdate, identity.PermSupplierPaymentDelete)

	var bill purchasingapp.BillResponse
	status, _ := env.call(clerk, http.MethodPost, "/api/v1/supplier-bills", map[string]any{
		"supplier_id": supplier.String(),
		"bill_number": "B-1",
		"total":       "100.00",
	}, &bill)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "pending", bill.Status)
	payments := "/api/v1/supplier-bills/" + bill.ID.String() + "/payments"

	var first purchasingapp.PaymentResponse
	status, _ = env.call(clerk, http.MethodPost, payments, map[string]any{"paid_amount": "60", "payment_method": "Cash"}, &first)
	require.Equal(t, http.StatusCreated, status)

	status, code := env.call(clerk, http.MethodPost, payments, map[string]any{"paid_amount": "50", "payment_method": "Cash"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "ALLOCATION_EXCEEDS_BALANCE", code)

	status, _ = env.call(clerk, http.MethodGet, "/api/v1/supplier-bills/"+bill.ID.String(), nil, &bill)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "partial", bill.Status)
	assert.True(t, bill.DueAmount.Equal(decimal.RequireFromString("40")), "due = %s", bill.DueAmount)

	status, _ = env.call(clerk, http.MethodPut, payments+"/"+first.ID.String(), map[string]any{"paid_amount": "100", "payment_method": "Bank Transfer"}, nil)
	require.Equal(t, http.StatusOK, status)
	env.call(clerk, http.MethodGet, "/api/v1/supplier-bills/"+bill.ID.String(), nil, &bill)
	assert.Equal(t, "paid", bill.Status)
	assert.True(t, bill.DueAmount.IsZero())

	status, _ = env.call(clerk, http.MethodDelete, "/api/v1/supplier-bills/"+bill.ID.String(), nil, nil)
	assert.Equal(t, http.StatusConflict, status, "bill with payments cannot be deleted")

	status, _ = env.call(clerk, http.MethodDelete, payments+"/"+first.ID.String(), nil, nil)
	require.Equal(t, http.StatusNoContent, status)
	env.call(clerk, http.MethodGet, "/api/v1/supplier-bills/"+bill.ID.String(), nil, &bill)
	assert.Equal(t, "pending", bill.Status)
	assert.True(t, bill.DueAmount.Equal(decimal.RequireFromString("100")))

	status, _ = env.call(clerk, http.MethodDelete, "/api/v1/supplier-bills/"+bill.ID.String(), nil, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestFlow_SalaryPayments(t *testing.T) {
	env := newFlowEnv(t)
	employee, _ := env.seedUser("employee")
	payerID, payer := env.seedUser("payer",
		identity.PermSalaryCreate, identity.PermSalaryView,
		identity.PermSalaryPaymentCreate, identity.PermSalaryPaymentDelete)

	var salary payrollapp.SalaryResponse
	status, _ := env.call(payer, http.MethodPost, "/api/v1/salaries", map[string]any{
		"employee_id":  employee.String(),
		"salary_month": "2026-03",
		"total_salary": "1000",
	}, &salary)
	require.Equal(t, http.StatusCreated, status)

	status, code := env.call(payer, http.MethodPost, "/api/v1/salaries", map[string]any{
		"employee_id":  employee.String(),
		"salary_month": "2026-03",
		"total_salary": "1000",
	}, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", code)

	var payment payrollapp.SalaryPaymentResponse
	status, _ = env.call(payer, http.MethodPost, "/api/v1/salary-payments", map[string]any{
		"salary_id":    salary.ID.String(),
		"payment_type": "advance",
		"paid_amount":  "400",
	}, &payment)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, payerID, payment.SalaryPaidBy)
	assert.True(t, payment.SalaryBalance.Equal(decimal.RequireFromString("600")), "balance = %s", payment.SalaryBalance)

	status, _ = env.call(payer, http.MethodGet, "/api/v1/salaries/"+salary.ID.String(), nil, &salary)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "partial", salary.Status)

	status, _ = env.call(payer, http.MethodDelete, "/api/v1/salary-payments/"+payment.ID.String(), nil, nil)
	require.Equal(t, http.StatusNoContent, status)
	env.call(payer, http.MethodGet, "/api/v1/salaries/"+salary.ID.String(), nil, &salary)
	assert.Equal(t, "pending", salary.Status)

	// Payments made by someone other than the caller name the payer explicitly.
	status, _ = env.call(payer, http.MethodPost, "/api/v1/salary-payments", map[string]any{
		"salary_id":      salary.ID.String(),
		"salary_paid_by": employee.String(),
		"paid_amount":    "1000",
	}, &payment)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, employee, payment.SalaryPaidBy)

	status, code = env.call(payer, http.MethodPost, "/api/v1/salary-payments", map[string]any{
		"salary_id":      salary.ID.String(),
		"salary_paid_by": uuid.NewString(),
		"paid_amount":    "10",
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "VALIDATION_ERROR", code)

	status, code = env.call(payer, http.MethodPost, "/api/v1/salary-payments", map[string]any{
		"salary_id":   salary.ID.String(),
		"paid_amount": "10.005",
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "VALIDATION_ERROR", code)
}
