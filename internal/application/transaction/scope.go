// Package transaction defines the unit of work every multi-row write runs in.
package transaction

import (
	"context"

	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/payroll"
	"github.com/pos/backend/internal/domain/purchasing"
	"github.com/pos/backend/internal/domain/sales"
)

// TransactionScope runs a function inside one database transaction.
// If fn returns an error or panics, every write made through the repositories
// handed to it is rolled back; otherwise all of them are committed together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to every repository.
// Inside Execute all of them share the same underlying transaction, so row
// locks taken through one are visible to the others.
type TransactionalRepositories interface {
	Stocks() inventory.StockRepository
	Invoices() sales.InvoiceRepository
	Customers() sales.CustomerDirectory
	SupplierBills() purchasing.SupplierBillRepository
	SupplierPayments() purchasing.SupplierPaymentRepository
	Suppliers() purchasing.SupplierDirectory
	Salaries() payroll.SalaryRepository
	SalaryPayments() payroll.SalaryPaymentRepository
	Users() identity.UserDirectory
	Permissions() identity.PermissionRepository
}

// NoOpTransactionScope runs the function against the given repositories
// without a transaction. Only suitable for tests.
type NoOpTransactionScope struct {
	repos TransactionalRepositories
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(repos TransactionalRepositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
