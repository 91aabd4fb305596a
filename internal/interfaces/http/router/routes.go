package router

import (
	"github.com/gin-gonic/gin"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers served by the API
type Handlers struct {
	Health       *handler.HealthHandler
	Invoice      *handler.InvoiceHandler
	Stock        *handler.StockHandler
	SupplierBill *handler.SupplierBillHandler
	Salary       *handler.SalaryHandler
	Permission   *handler.PermissionHandler
	Upload       *handler.UploadHandler
}

// Security holds what the authenticated API group needs
type Security struct {
	Tokens      middleware.TokenValidator
	Permissions middleware.PermissionChecker
	Logger      *zap.Logger
}

// Mount serves /health on the engine and the resource routes under /api/v1.
// Every /api/v1 route requires a bearer token and the permission listed
// next to it.
func Mount(engine *gin.Engine, h Handlers, sec Security) *Router {
	engine.GET(HealthPath, h.Health.Check)

	perms := middleware.NewPermissions(sec.Permissions, sec.Logger)
	r := NewRouter(engine,
		WithAPIVersion("v1"),
		WithAPIMiddleware(middleware.JWTAuth(sec.Tokens, sec.Logger), middleware.SpanEnricher()),
	)
	r.Register(
		invoiceRoutes(h.Invoice, perms),
		stockRoutes(h.Stock, perms),
		supplierBillRoutes(h.SupplierBill, perms),
		salaryRoutes{h: h.Salary, perms: perms},
		userRoutes(h.Permission, perms),
		uploadRoutes(h.Upload, perms),
	)
	r.Setup()
	return r
}

func invoiceRoutes(h *handler.InvoiceHandler, perms *middleware.Permissions) *DomainGroup {
	return NewDomainGroup("invoices", "/invoices").
		POST("", perms.Require(identity.PermInvoiceCreate), h.Create).
		GET("", perms.Require(identity.PermInvoiceView), h.List).
		GET("/:id", perms.Require(identity.PermInvoiceView), h.Get)
}

func stockRoutes(h *handler.StockHandler, perms *middleware.Permissions) *DomainGroup {
	return NewDomainGroup("stocks", "/stocks").
		POST("", perms.Require(identity.PermStockCreate), h.Create).
		GET("/:id", perms.Require(identity.PermStockView), h.Get).
		POST("/:id/receive", perms.Require(identity.PermStockReceive), h.Receive)
}

func supplierBillRoutes(h *handler.SupplierBillHandler, perms *middleware.Permissions) *DomainGroup {
	bills := NewDomainGroup("supplier-bills", "/supplier-bills").
		POST("", perms.Require(identity.PermSupplierBillCreate), h.Create).
		GET("", perms.Require(identity.PermSupplierBillView), h.List).
		GET("/:id", perms.Require(identity.PermSupplierBillView), h.Get).
		DELETE("/:id", perms.Require(identity.PermSupplierBillDelete), h.Delete)

	bills.Group("supplier-payments", "/:id/payments").
		GET("", perms.Require(identity.PermSupplierBillView), h.ListPayments).
		POST("", perms.Require(identity.PermSupplierPaymentCreate), h.AddPayment).
		PUT("/:paymentId", perms.Require(identity.PermSupplierPaymentUpdate), h.UpdatePayment).
		DELETE("/:paymentId", perms.Require(identity.PermSupplierPaymentDelete), h.DeletePayment)
	return bills
}

// salaryRoutes covers both /salaries and /salary-payments
type salaryRoutes struct {
	h     *handler.SalaryHandler
	perms *middleware.Permissions
}

func (s salaryRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	NewDomainGroup("salaries", "/salaries").
		POST("", s.perms.Require(identity.PermSalaryCreate), s.h.Create).
		GET("", s.perms.Require(identity.PermSalaryView), s.h.List).
		GET("/:id", s.perms.Require(identity.PermSalaryView), s.h.Get).
		RegisterRoutes(rg)

	NewDomainGroup("salary-payments", "/salary-payments").
		POST("", s.perms.Require(identity.PermSalaryPaymentCreate), s.h.AddPayment).
		PUT("/:id", s.perms.Require(identity.PermSalaryPaymentUpdate), s.h.UpdatePayment).
		DELETE("/:id", s.perms.Require(identity.PermSalaryPaymentDelete), s.h.DeletePayment).
		RegisterRoutes(rg)
}

func userRoutes(h *handler.PermissionHandler, perms *middleware.Permissions) *DomainGroup {
	return NewDomainGroup("users", "/users").
		PUT("/:id/permissions", perms.Require(identity.PermPermissionAssign), h.Assign)
}

func uploadRoutes(h *handler.UploadHandler, perms *middleware.Permissions) *DomainGroup {
	return NewDomainGroup("uploads", "/uploads").
		POST("/payment-proofs", perms.Require(identity.PermPaymentProofUpload), h.UploadPaymentProof)
}
