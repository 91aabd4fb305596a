package transaction

import (
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/payroll"
	"github.com/pos/backend/internal/domain/purchasing"
	"github.com/pos/backend/internal/domain/sales"
)

// Repositories is a plain TransactionalRepositories backed by struct fields.
// Tests fill in the fields they need; unset ones return nil.
type Repositories struct {
	StockRepo           inventory.StockRepository
	InvoiceRepo         sales.InvoiceRepository
	CustomerDir         sales.CustomerDirectory
	SupplierBillRepo    purchasing.SupplierBillRepository
	SupplierPaymentRepo purchasing.SupplierPaymentRepository
	SupplierDir         purchasing.SupplierDirectory
	SalaryRepo          payroll.SalaryRepository
	SalaryPaymentRepo   payroll.SalaryPaymentRepository
	UserDir             identity.UserDirectory
	PermissionRepo      identity.PermissionRepository
}

// Stocks returns the stock repository
func (r *Repositories) Stocks() inventory.StockRepository { return r.StockRepo }

// Invoices returns the invoice repository
func (r *Repositories) Invoices() sales.InvoiceRepository { return r.InvoiceRepo }

// Customers returns the customer directory
func (r *Repositories) Customers() sales.CustomerDirectory { return r.CustomerDir }

// SupplierBills returns the supplier bill repository
func (r *Repositories) SupplierBills() purchasing.SupplierBillRepository { return r.SupplierBillRepo }

// SupplierPayments returns the supplier payment repository
func (r *Repositories) SupplierPayments() purchasing.SupplierPaymentRepository {
	return r.SupplierPaymentRepo
}

// Suppliers returns the supplier directory
func (r *Repositories) Suppliers() purchasing.SupplierDirectory { return r.SupplierDir }

// Salaries returns the salary repository
func (r *Repositories) Salaries() payroll.SalaryRepository { return r.SalaryRepo }

// SalaryPayments returns the salary payment repository
func (r *Repositories) SalaryPayments() payroll.SalaryPaymentRepository { return r.SalaryPaymentRepo }

// Users returns the user directory
func (r *Repositories) Users() identity.UserDirectory { return r.UserDir }

// Permissions returns the permission repository
func (r *Repositories) Permissions() identity.PermissionRepository { return r.PermissionRepo }

var _ TransactionalRepositories = (*Repositories)(nil)
