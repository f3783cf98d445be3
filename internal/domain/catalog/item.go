// Package catalog holds sellable item master data: items, units of
// measure and price lists.
package catalog

import (
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is a stock-keeping unit. Code is the business key referenced by
// document lines and ledger entries.
type Item struct {
	shared.BaseEntity
	Code   string `gorm:"size:32;not null;uniqueIndex" json:"code"`
	Name   string `gorm:"size:128;not null" json:"name"`
	UoM    string `gorm:"size:16;not null" json:"uom"`
	Active bool   `gorm:"not null;default:true" json:"active"`
}

func (Item) TableName() string {
	return "items"
}

// NewItem creates an active item.
func NewItem(code, name, uom string) (*Item, error) {
	if code == "" || name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item code and name are required")
	}
	if uom == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item unit of measure is required")
	}
	return &Item{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		UoM:        uom,
		Active:     true,
	}, nil
}

// UnitOfMeasure is the catalog of valid UoM codes.
type UnitOfMeasure struct {
	shared.BaseEntity
	Code string `gorm:"size:16;not null;uniqueIndex" json:"code"`
	Name string `gorm:"size:64;not null" json:"name"`
}

func (UnitOfMeasure) TableName() string {
	return "units_of_measure"
}

// PriceList groups per-item prices; each warehouse points at one.
type PriceList struct {
	shared.BaseEntity
	Name  string          `gorm:"size:64;not null;uniqueIndex" json:"name"`
	Items []PriceListItem `gorm:"foreignKey:PriceListID;references:ID" json:"items,omitempty"`
}

func (PriceList) TableName() string {
	return "price_lists"
}

// PriceListItem is one item's price within a price list.
type PriceListItem struct {
	shared.BaseEntity
	PriceListID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_pricelist_item,priority:1" json:"price_list_id"`
	ItemCode    string          `gorm:"size:32;not null;uniqueIndex:idx_pricelist_item,priority:2" json:"item_code"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"price"`
}

func (PriceListItem) TableName() string {
	return "price_list_items"
}
