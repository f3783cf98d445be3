package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/bakehouse/backend/internal/domain/inventory"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBalanceRepository implements inventory.BalanceRepository using GORM
type GormBalanceRepository struct {
	db *gorm.DB
}

// NewGormBalanceRepository creates a new GormBalanceRepository
func NewGormBalanceRepository(db *gorm.DB) *GormBalanceRepository {
	return &GormBalanceRepository{db: db}
}

// Ensure creates the zero balance row for the pair if it does not exist
// yet. ON CONFLICT DO NOTHING makes concurrent first movements safe.
func (r *GormBalanceRepository) Ensure(ctx context.Context, itemCode, warehouseCode string) error {
	b := inventory.NewWarehouseBalance(itemCode, warehouseCode)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "item_code"}, {Name: "warehouse_code"}},
			DoNothing: true,
		}).
		Create(b).Error
}

// Get reads the balance row for a pair
func (r *GormBalanceRepository) Get(ctx context.Context, itemCode, warehouseCode string) (*inventory.WarehouseBalance, error) {
	var b inventory.WarehouseBalance
	if err := r.db.WithContext(ctx).
		Where("item_code = ? AND warehouse_code = ?", itemCode, warehouseCode).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// GetLocked reads the balance row with FOR UPDATE. The row stays locked
// until the surrounding transaction ends, so the insufficient-stock
// check and the decrement cannot interleave with another posting.
func (r *GormBalanceRepository) GetLocked(ctx context.Context, itemCode, warehouseCode string) (*inventory.WarehouseBalance, error) {
	var b inventory.WarehouseBalance
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("item_code = ? AND warehouse_code = ?", itemCode, warehouseCode).
		First(&b).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Save persists a balance row
func (r *GormBalanceRepository) Save(ctx context.Context, b *inventory.WarehouseBalance) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// ListByWarehouse lists balance rows for a warehouse
func (r *GormBalanceRepository) ListByWarehouse(ctx context.Context, warehouseCode string, filter shared.Filter) ([]inventory.WarehouseBalance, error) {
	var list []inventory.WarehouseBalance
	query := r.db.WithContext(ctx).Model(&inventory.WarehouseBalance{}).
		Where("warehouse_code = ?", warehouseCode)
	if ic, ok := filter.Filters["item_code"]; ok {
		query = query.Where("item_code = ?", ic)
	}
	if nz, ok := filter.Filters["nonzero"]; ok && nz == true {
		query = query.Where("quantity <> 0")
	}
	query = applySort(query, filter, map[string]bool{
		"id": true, "created_at": true, "updated_at": true,
		"item_code": true, "quantity": true,
	}, "item_code")
	query = applyPagination(query, filter)
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// GormLedgerRepository implements inventory.LedgerRepository using GORM.
// The ledger is append-only; there is deliberately no update or delete.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Append inserts a ledger entry
func (r *GormLedgerRepository) Append(ctx context.Context, e *inventory.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// ListByTrans lists the entries of one document
func (r *GormLedgerRepository) ListByTrans(ctx context.Context, transID uuid.UUID) ([]inventory.LedgerEntry, error) {
	var list []inventory.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("trans_id = ?", transID).
		Order("created_at ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListByItemWarehouse lists movements of one pair inside a date range
func (r *GormLedgerRepository) ListByItemWarehouse(ctx context.Context, itemCode, warehouseCode string, from, to time.Time, filter shared.Filter) ([]inventory.LedgerEntry, error) {
	var list []inventory.LedgerEntry
	query := r.db.WithContext(ctx).Model(&inventory.LedgerEntry{}).
		Where("item_code = ? AND warehouse = ?", itemCode, warehouseCode)
	if !from.IsZero() {
		query = query.Where("trans_date >= ?", from)
	}
	if !to.IsZero() {
		query = query.Where("trans_date <= ?", to)
	}
	if oc, ok := filter.Filters["object_code"]; ok {
		query = query.Where("object_code = ?", oc)
	}
	query = applySort(query, filter, LedgerSortFields, "trans_date")
	query = applyPagination(query, filter)
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// SumForPair recomputes the balance of a pair from the log (in minus out)
func (r *GormLedgerRepository) SumForPair(ctx context.Context, itemCode, warehouseCode string) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&inventory.LedgerEntry{}).
		Select("COALESCE(SUM(in_qty - out_qty), 0) as total").
		Where("item_code = ? AND warehouse = ?", itemCode, warehouseCode).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// Ensure implementations satisfy the domain interfaces
var (
	_ inventory.BalanceRepository = (*GormBalanceRepository)(nil)
	_ inventory.LedgerRepository  = (*GormLedgerRepository)(nil)
)
