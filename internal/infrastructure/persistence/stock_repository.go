package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockRepository implements StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

// FindByID finds a stock unit by its ID
func (r *GormStockRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Stock, error) {
	var model models.StockModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err, shared.NewNotFoundError(fmt.Sprintf("Stock %s not found", id)))
	}
	return model.ToDomain(), nil
}

// LockByIDs issues SELECT ... FOR UPDATE ordered by id so every caller
// acquires overlapping row locks in the same order.
// SQLite has no row locks; there the single connection serializes writers.
func (r *GormStockRepository) LockByIDs(ctx context.Context, ids []uuid.UUID) ([]inventory.Stock, error) {
	if len(ids) == 0 {
		return []inventory.Stock{}, nil
	}

	var rows []models.StockModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	stocks := make([]inventory.Stock, len(rows))
	for i := range rows {
		stocks[i] = *rows[i].ToDomain()
	}
	return stocks, nil
}

// Save creates or updates a stock unit
func (r *GormStockRepository) Save(ctx context.Context, stock *inventory.Stock) error {
	return translateError(r.db.WithContext(ctx).Save(models.StockModelFromDomain(stock)).Error, nil)
}

// UpdateQuantity writes a quantity computed under the row lock
func (r *GormStockRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, qty decimal.Decimal, version int) error {
	result := r.db.WithContext(ctx).Model(&models.StockModel{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"qty":        qty,
			"version":    version,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.NewNotFoundError(fmt.Sprintf("Stock %s not found", id))
	}
	return nil
}

// ExistsByBarcode checks if a barcode is already used
func (r *GormStockRepository) ExistsByBarcode(ctx context.Context, barcode string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StockModel{}).
		Where("barcode = ?", barcode).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ inventory.StockRepository = (*GormStockRepository)(nil)
