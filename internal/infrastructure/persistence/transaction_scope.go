package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/pos/backend/internal/application/transaction"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/payroll"
	"github.com/pos/backend/internal/domain/purchasing"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/telemetry"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction. The transaction is rolled
// back when fn returns an error or panics; the panic is re-raised after the
// rollback.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos transaction.TransactionalRepositories) error) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "transaction", "execute")
	defer func() {
		var derr *shared.DomainError
		if err != nil && !errors.As(err, &derr) {
			telemetry.RecordError(span, err)
		}
		span.End()
	}()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
	if err != nil {
		var derr *shared.DomainError
		if errors.As(err, &derr) {
			return err
		}
		return fmt.Errorf("transaction: %w", err)
	}
	return nil
}

// gormRepositories hands out repositories bound to one *gorm.DB, which is
// either the pool or an open transaction.
type gormRepositories struct {
	db *gorm.DB
}

// NewRepositories returns repositories bound to db. Outside Execute they run
// against the connection pool without a transaction.
func NewRepositories(db *gorm.DB) transaction.TransactionalRepositories {
	return &gormRepositories{db: db}
}

func (r *gormRepositories) Stocks() inventory.StockRepository {
	return NewGormStockRepository(r.db)
}

func (r *gormRepositories) Invoices() sales.InvoiceRepository {
	return NewGormInvoiceRepository(r.db)
}

func (r *gormRepositories) Customers() sales.CustomerDirectory {
	return NewGormCustomerDirectory(r.db)
}

func (r *gormRepositories) SupplierBills() purchasing.SupplierBillRepository {
	return NewGormSupplierBillRepository(r.db)
}

func (r *gormRepositories) SupplierPayments() purchasing.SupplierPaymentRepository {
	return NewGormSupplierPaymentRepository(r.db)
}

func (r *gormRepositories) Suppliers() purchasing.SupplierDirectory {
	return NewGormSupplierDirectory(r.db)
}

func (r *gormRepositories) Salaries() payroll.SalaryRepository {
	return NewGormSalaryRepository(r.db)
}

func (r *gormRepositories) SalaryPayments() payroll.SalaryPaymentRepository {
	return NewGormSalaryPaymentRepository(r.db)
}

func (r *gormRepositories) Users() identity.UserDirectory {
	return NewGormUserDirectory(r.db)
}

func (r *gormRepositories) Permissions() identity.PermissionRepository {
	return NewGormPermissionRepository(r.db)
}

var (
	_ transaction.TransactionScope          = (*GormTransactionScope)(nil)
	_ transaction.TransactionalRepositories = (*gormRepositories)(nil)
)
