package inventory

import (
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// WarehouseBalance is the materialized running quantity for one
// (item, warehouse) pair. It is mutated only together with the ledger
// entry that justifies the change, inside the same transaction.
type WarehouseBalance struct {
	shared.BaseEntity
	ItemCode      string          `gorm:"size:32;not null;uniqueIndex:idx_balance_item_whse,priority:1" json:"item_code"`
	WarehouseCode string          `gorm:"size:16;not null;uniqueIndex:idx_balance_item_whse,priority:2" json:"warehouse_code"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"quantity"`
}

func (WarehouseBalance) TableName() string {
	return "warehouse_balances"
}

// NewWarehouseBalance creates a zero balance row for a pair.
func NewWarehouseBalance(itemCode, warehouseCode string) *WarehouseBalance {
	return &WarehouseBalance{
		BaseEntity:    shared.NewBaseEntity(),
		ItemCode:      itemCode,
		WarehouseCode: warehouseCode,
		Quantity:      decimal.Zero,
	}
}

// Apply adds a signed delta to the balance. A delta that would drive the
// balance negative is rejected with no change.
func (b *WarehouseBalance) Apply(delta decimal.Decimal) error {
	next := b.Quantity.Add(delta)
	if next.IsNegative() {
		return shared.ErrInsufficientStock
	}
	b.Quantity = next
	return nil
}

// CanDeduct reports whether qty can be taken without going negative.
func (b *WarehouseBalance) CanDeduct(qty decimal.Decimal) bool {
	return b.Quantity.GreaterThanOrEqual(qty)
}
