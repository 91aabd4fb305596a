package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockPostgres returns a GORM handle speaking the PostgreSQL dialect to sqlmock
func newMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestLockByIDs_IssuesOrderedSelectForUpdate(t *testing.T) {
	db, mock, mockDB := newMockPostgres(t)
	defer mockDB.Close()

	a, b := uuid.New(), uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "product_id", "barcode", "qty", "purchase_price", "selling_price", "version", "created_at", "updated_at"}).
		AddRow(a.String(), uuid.New().String(), "A", "3", "1.00", "2.00", 1, now, now).
		AddRow(b.String(), uuid.New().String(), "B", "1.5", "1.00", "2.00", 4, now, now)

	mock.ExpectQuery(`SELECT \* FROM "stocks" WHERE id IN \(\$1,\$2\) ORDER BY id ASC FOR UPDATE`).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(rows)

	locked, err := NewGormStockRepository(db).LockByIDs(context.Background(), []uuid.UUID{a, b})
	require.NoError(t, err)
	require.Len(t, locked, 2)
	assert.Equal(t, a, locked[0].ID)
	assert.True(t, locked[1].Qty.Equal(dec("1.5")))
	assert.Equal(t, 4, locked[1].Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSupplierBillFindByIDForUpdate_LocksTheRow(t *testing.T) {
	db, mock, mockDB := newMockPostgres(t)
	defer mockDB.Close()

	id := uuid.New()
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "supplier_id", "bill_number", "bill_date", "total", "due_amount", "status", "version", "created_at", "updated_at"}).
		AddRow(id.String(), uuid.New().String(), "B-1", now, "100.00", "40.00", "partial", 3, now, now)

	mock.ExpectQuery(`SELECT \* FROM "supplier_bills" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(rows)

	bill, err := NewGormSupplierBillRepository(db).FindByIDForUpdate(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, bill.DueAmount.Equal(dec("40.00")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSalaryFindByIDForUpdate_NotFound(t *testing.T) {
	db, mock, mockDB := newMockPostgres(t)
	defer mockDB.Close()

	mock.ExpectQuery(`SELECT \* FROM "salaries" WHERE id = \$1 .*FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewGormSalaryRepository(db).FindByIDForUpdate(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockUpdateQuantity_DatabaseErrorPassesThrough(t *testing.T) {
	db, mock, mockDB := newMockPostgres(t)
	defer mockDB.Close()

	mock.ExpectExec(`UPDATE "stocks" SET`).WillReturnError(assert.AnError)

	err := NewGormStockRepository(db).UpdateQuantity(context.Background(), uuid.New(), dec("1"), 2)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
