package persistence

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newSQLiteDB opens a migrated SQLite database in the test's temp dir
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := NewDatabase(config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DBName:       filepath.Join(t.TempDir(), "pos.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, AutoMigrate(database.DB))
	return database.DB
}

type seed struct {
	db *gorm.DB
	t  *testing.T
}

func seeder(t *testing.T, db *gorm.DB) seed {
	return seed{db: db, t: t}
}

func (s seed) customer() uuid.UUID {
	s.t.Helper()
	id := uuid.New()
	require.NoError(s.t, s.db.Create(&models.CustomerModel{BaseModel: models.BaseModel{ID: id}, Name: "Walk-in"}).Error)
	return id
}

func (s seed) supplier() uuid.UUID {
	s.t.Helper()
	id := uuid.New()
	require.NoError(s.t, s.db.Create(&models.SupplierModel{BaseModel: models.BaseModel{ID: id}, Name: "Acme Wholesale"}).Error)
	return id
}

func (s seed) user(username string) uuid.UUID {
	s.t.Helper()
	id := uuid.New()
	require.NoError(s.t, s.db.Create(&models.UserModel{BaseModel: models.BaseModel{ID: id}, Username: username}).Error)
	return id
}

func (s seed) stock(barcode, qty string) *inventory.Stock {
	s.t.Helper()
	stock, err := inventory.NewStock(uuid.New(), barcode, decimal.RequireFromString(qty),
		decimal.RequireFromString("6.00"), decimal.RequireFromString("10.00"))
	require.NoError(s.t, err)
	require.NoError(s.t, NewGormStockRepository(s.db).Save(s.t.Context(), stock))
	return stock
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
