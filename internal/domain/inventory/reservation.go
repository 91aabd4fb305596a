package inventory

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InsufficientStockError reports the first line that could not be supplied
type InsufficientStockError struct {
	StockID   uuid.UUID
	Available decimal.Decimal
	Requested decimal.Decimal
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for stock %s: available %s, requested %s",
		e.StockID, e.Available.String(), e.Requested.String())
}

// Unwrap maps the error onto the INSUFFICIENT_STOCK domain error
func (e *InsufficientStockError) Unwrap() error {
	return shared.NewDomainError(shared.CodeInsufficientStock, e.Error())
}

// Request asks for Qty units of one stock row
type Request struct {
	StockID uuid.UUID
	Qty     decimal.Decimal
}

// ReservationEngine locks, validates and decrements stock rows for a sale.
// All calls must run inside the caller's transaction so a failure later in
// the same unit of work rolls the decrements back.
type ReservationEngine struct{}

// NewReservationEngine creates a ReservationEngine
func NewReservationEngine() *ReservationEngine {
	return &ReservationEngine{}
}

// Reserve locks every referenced stock row in ascending id order, checks all
// requests against the locked quantities and only then decrements them.
// Requests for the same stock are checked against their cumulative quantity.
// The first request that cannot be served determines the returned error and
// nothing is written in that case.
func (e *ReservationEngine) Reserve(ctx context.Context, repo StockRepository, reqs []Request) ([]Stock, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	for _, r := range reqs {
		if !r.Qty.IsPositive() {
			return nil, shared.NewDomainError(shared.CodeInvalidInput, "Requested quantity must be positive")
		}
	}

	ids := SortedStockIDs(reqs)
	locked, err := repo.LockByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lock stock rows: %w", err)
	}

	byID := make(map[uuid.UUID]*Stock, len(locked))
	for i := range locked {
		byID[locked[i].ID] = &locked[i]
	}

	demand := make(map[uuid.UUID]decimal.Decimal, len(ids))
	for _, r := range reqs {
		stock, ok := byID[r.StockID]
		if !ok {
			return nil, shared.NewNotFoundError(fmt.Sprintf("Stock %s not found", r.StockID))
		}
		total := demand[r.StockID].Add(r.Qty)
		if !stock.CanSupply(total) {
			return nil, &InsufficientStockError{StockID: r.StockID, Available: stock.Qty, Requested: total}
		}
		demand[r.StockID] = total
	}

	reserved := make([]Stock, 0, len(ids))
	for _, id := range ids {
		stock := byID[id]
		if err := stock.Decrease(demand[id]); err != nil {
			return nil, err
		}
		if err := repo.UpdateQuantity(ctx, stock.ID, stock.Qty, stock.Version); err != nil {
			return nil, fmt.Errorf("update stock %s: %w", stock.ID, err)
		}
		reserved = append(reserved, *stock)
	}
	return reserved, nil
}

// Receive adds received goods to a stock row under its row lock
func (e *ReservationEngine) Receive(ctx context.Context, repo StockRepository, stockID uuid.UUID, qty decimal.Decimal) (*Stock, error) {
	locked, err := repo.LockByIDs(ctx, []uuid.UUID{stockID})
	if err != nil {
		return nil, fmt.Errorf("lock stock row: %w", err)
	}
	if len(locked) == 0 {
		return nil, shared.NewNotFoundError(fmt.Sprintf("Stock %s not found", stockID))
	}
	stock := &locked[0]
	if err := stock.Increase(qty); err != nil {
		return nil, err
	}
	if err := repo.UpdateQuantity(ctx, stock.ID, stock.Qty, stock.Version); err != nil {
		return nil, fmt.Errorf("update stock %s: %w", stock.ID, err)
	}
	return stock, nil
}

// SortedStockIDs returns the distinct stock ids of reqs in ascending order,
// which is the order row locks must be acquired in.
func SortedStockIDs(reqs []Request) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(reqs))
	ids := make([]uuid.UUID, 0, len(reqs))
	for _, r := range reqs {
		if _, ok := seen[r.StockID]; ok {
			continue
		}
		seen[r.StockID] = struct{}{}
		ids = append(ids, r.StockID)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})
	return ids
}
