package inventory

import (
	"context"
	"time"

	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BalanceRepository provides access to warehouse balance rows.
type BalanceRepository interface {
	// Ensure creates the zero balance row for the pair if it does not
	// exist yet. Idempotent.
	Ensure(ctx context.Context, itemCode, warehouseCode string) error
	Get(ctx context.Context, itemCode, warehouseCode string) (*WarehouseBalance, error)
	// GetLocked reads the row under a row lock so the insufficient-stock
	// check and the decrement serialize across transactions.
	GetLocked(ctx context.Context, itemCode, warehouseCode string) (*WarehouseBalance, error)
	Save(ctx context.Context, b *WarehouseBalance) error
	ListByWarehouse(ctx context.Context, warehouseCode string, filter shared.Filter) ([]WarehouseBalance, error)
}

// LedgerRepository provides append-only access to the movement log.
type LedgerRepository interface {
	Append(ctx context.Context, e *LedgerEntry) error
	ListByTrans(ctx context.Context, transID uuid.UUID) ([]LedgerEntry, error)
	ListByItemWarehouse(ctx context.Context, itemCode, warehouseCode string, from, to time.Time, filter shared.Filter) ([]LedgerEntry, error)
	// SumForPair recomputes the balance from the log (in minus out).
	SumForPair(ctx context.Context, itemCode, warehouseCode string) (decimal.Decimal, error)
}
