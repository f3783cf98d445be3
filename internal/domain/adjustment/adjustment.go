// Package adjustment holds manual stock corrections posted outside the
// normal document flow, in both directions.
package adjustment

import (
	"github.com/bakehouse/backend/internal/domain/document"
	"github.com/bakehouse/backend/internal/domain/series"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction tells whether the adjustment adds or removes stock.
type Direction string

const (
	DirectionIn  Direction = "IN"
	DirectionOut Direction = "OUT"
)

// ObjectCode maps the direction to its numbering object type.
func (d Direction) ObjectCode() (series.ObjectCode, error) {
	switch d {
	case DirectionIn:
		return series.ObjectAdjustmentIn, nil
	case DirectionOut:
		return series.ObjectAdjustmentOut, nil
	}
	return "", shared.NewDomainError("INVALID_DIRECTION", "Adjustment direction must be IN or OUT")
}

// Adjustment corrects stock at one warehouse.
type Adjustment struct {
	document.Header
	WarehouseCode string           `gorm:"size:16;not null;index" json:"warehouse_code"`
	Direction     Direction        `gorm:"size:4;not null" json:"direction"`
	Reason        string           `gorm:"size:255" json:"reason"`
	Lines         []AdjustmentLine `gorm:"foreignKey:AdjustmentID;references:ID" json:"lines,omitempty"`
}

func (Adjustment) TableName() string {
	return "adjustments"
}

// AdjustmentLine is one corrected item quantity.
type AdjustmentLine struct {
	shared.BaseEntity
	AdjustmentID uuid.UUID           `gorm:"type:uuid;not null;index" json:"adjustment_id"`
	ItemCode     string              `gorm:"size:32;not null" json:"item_code"`
	Quantity     decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UoM          string              `gorm:"size:16;not null" json:"uom"`
	Status       document.LineStatus `gorm:"size:1;not null;default:'A'" json:"status"`
}

func (AdjustmentLine) TableName() string {
	return "adjustment_lines"
}

// NewAdjustmentLine validates and builds a line.
func NewAdjustmentLine(adjustmentID uuid.UUID, itemCode string, quantity decimal.Decimal, uom string) (*AdjustmentLine, error) {
	if itemCode == "" {
		return nil, shared.NewDomainError("INVALID_LINE", "Line item is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_LINE", "Line quantity must be positive")
	}
	return &AdjustmentLine{
		BaseEntity:   shared.NewBaseEntity(),
		AdjustmentID: adjustmentID,
		ItemCode:     itemCode,
		Quantity:     quantity,
		UoM:          uom,
		Status:       document.LineActive,
	}, nil
}
