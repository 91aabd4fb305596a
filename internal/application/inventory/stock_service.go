// Package inventory implements the stock registration and goods receipt use cases.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/application/transaction"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StockService manages stock units outside of invoicing
type StockService struct {
	repos  transaction.TransactionalRepositories
	scope  transaction.TransactionScope
	engine *inventory.ReservationEngine
	logger *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	repos transaction.TransactionalRepositories,
	scope transaction.TransactionScope,
	logger *zap.Logger,
) *StockService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockService{
		repos:  repos,
		scope:  scope,
		engine: inventory.NewReservationEngine(),
		logger: logger,
	}
}

// CreateStock registers a new stock unit with its opening quantity
func (s *StockService) CreateStock(ctx context.Context, in CreateStockInput) (*StockResponse, error) {
	stock, err := inventory.NewStock(in.ProductID, in.Barcode, in.Qty, in.PurchasePrice, in.SellingPrice)
	if err != nil {
		return nil, err
	}

	exists, err := s.repos.Stocks().ExistsByBarcode(ctx, stock.Barcode)
	if err != nil {
		return nil, fmt.Errorf("check barcode: %w", err)
	}
	if exists {
		return nil, shared.NewConflictError(fmt.Sprintf("Barcode %s is already in use", stock.Barcode))
	}

	if err := s.repos.Stocks().Save(ctx, stock); err != nil {
		return nil, fmt.Errorf("save stock: %w", err)
	}

	s.logger.Info("stock created",
		zap.String("stock_id", stock.ID.String()),
		zap.String("barcode", stock.Barcode),
		zap.String("qty", stock.Qty.String()),
	)
	resp := ToStockResponse(stock)
	return &resp, nil
}

// GetStock retrieves a stock unit by ID
func (s *StockService) GetStock(ctx context.Context, id uuid.UUID) (*StockResponse, error) {
	stock, err := s.repos.Stocks().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToStockResponse(stock)
	return &resp, nil
}

// ReceiveStock adds received goods to a stock unit. The increment is taken
// under the same row lock invoices use, so it never loses a concurrent sale.
func (s *StockService) ReceiveStock(ctx context.Context, id uuid.UUID, in ReceiveStockInput) (*StockResponse, error) {
	if !in.Qty.IsPositive() {
		verr := shared.NewValidationError()
		verr.Add("qty", "Quantity must be greater than 0")
		return nil, verr
	}

	var received *inventory.Stock
	err := s.scope.Execute(ctx, func(repos transaction.TransactionalRepositories) error {
		stock, err := s.engine.Receive(ctx, repos.Stocks(), id, in.Qty)
		if err != nil {
			return err
		}
		received = stock
		return nil
	})
	if err != nil {
		var derr *shared.DomainError
		if errors.As(err, &derr) {
			return nil, err
		}
		s.logger.Error("stock receipt failed", zap.String("stock_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("receive stock: %w", err)
	}

	s.logger.Info("stock received",
		zap.String("stock_id", received.ID.String()),
		zap.String("received", in.Qty.String()),
		zap.String("qty", received.Qty.String()),
	)
	resp := ToStockResponse(received)
	return &resp, nil
}
