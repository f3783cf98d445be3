// Package logistics holds the inter-warehouse stock documents: the
// transfer request posted at the source warehouse and the receiving
// posted at the destination.
package logistics

import (
	"github.com/bakehouse/backend/internal/domain/document"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transfer moves stock out of the source warehouse. The matching
// in-movement happens when the destination posts a Receiving against it.
type Transfer struct {
	document.Header
	FromWarehouse string         `gorm:"size:16;not null;index" json:"from_warehouse"`
	Lines         []TransferLine `gorm:"foreignKey:TransferID;references:ID" json:"lines,omitempty"`
}

func (Transfer) TableName() string {
	return "transfers"
}

// TransferLine is one item moving to one destination warehouse.
type TransferLine struct {
	shared.BaseEntity
	TransferID  uuid.UUID           `gorm:"type:uuid;not null;index" json:"transfer_id"`
	ItemCode    string              `gorm:"size:32;not null" json:"item_code"`
	Quantity    decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UoM         string              `gorm:"size:16;not null" json:"uom"`
	ToWarehouse string              `gorm:"size:16;not null" json:"to_warehouse"`
	Status      document.LineStatus `gorm:"size:1;not null;default:'A'" json:"status"`
}

func (TransferLine) TableName() string {
	return "transfer_lines"
}

// NewTransferLine validates and builds a line for the given transfer.
func NewTransferLine(transferID uuid.UUID, itemCode string, quantity decimal.Decimal, uom, toWarehouse string) (*TransferLine, error) {
	if itemCode == "" || toWarehouse == "" {
		return nil, shared.NewDomainError("INVALID_LINE", "Line item and destination warehouse are required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_LINE", "Line quantity must be positive")
	}
	return &TransferLine{
		BaseEntity:  shared.NewBaseEntity(),
		TransferID:  transferID,
		ItemCode:    itemCode,
		Quantity:    quantity,
		UoM:         uom,
		ToWarehouse: toWarehouse,
		Status:      document.LineActive,
	}, nil
}

// ReceivingSource tells where a receiving's quantities come from.
type ReceivingSource string

const (
	SourceManual      ReceivingSource = "MANUAL"
	SourceTransfer    ReceivingSource = "TRANSFER"
	SourceSapTransfer ReceivingSource = "SAP_IT"
	SourceSapPurchase ReceivingSource = "SAP_PO"
)

// IsValid reports whether the source is a known kind.
func (s ReceivingSource) IsValid() bool {
	switch s {
	case SourceManual, SourceTransfer, SourceSapTransfer, SourceSapPurchase:
		return true
	}
	return false
}

// Receiving posts stock into the receiving user's warehouse. SourceRef
// points at the transfer or SAP document the quantities came from.
type Receiving struct {
	document.Header
	WarehouseCode string          `gorm:"size:16;not null;index" json:"warehouse_code"`
	Source        ReceivingSource `gorm:"size:16;not null" json:"source"`
	SourceRef     string          `gorm:"size:64;index" json:"source_ref"`
	Lines         []ReceivingLine `gorm:"foreignKey:ReceivingID;references:ID" json:"lines,omitempty"`
}

func (Receiving) TableName() string {
	return "receivings"
}

// ReceivingLine is one item received from one source warehouse.
type ReceivingLine struct {
	shared.BaseEntity
	ReceivingID   uuid.UUID           `gorm:"type:uuid;not null;index" json:"receiving_id"`
	ItemCode      string              `gorm:"size:32;not null" json:"item_code"`
	Quantity      decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UoM           string              `gorm:"size:16;not null" json:"uom"`
	FromWarehouse string              `gorm:"size:16" json:"from_warehouse"`
	Status        document.LineStatus `gorm:"size:1;not null;default:'A'" json:"status"`
}

func (ReceivingLine) TableName() string {
	return "receiving_lines"
}

// NewReceivingLine validates and builds a line for the given receiving.
func NewReceivingLine(receivingID uuid.UUID, itemCode string, quantity decimal.Decimal, uom, fromWarehouse string) (*ReceivingLine, error) {
	if itemCode == "" {
		return nil, shared.NewDomainError("INVALID_LINE", "Line item is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_LINE", "Line quantity must be positive")
	}
	return &ReceivingLine{
		BaseEntity:    shared.NewBaseEntity(),
		ReceivingID:   receivingID,
		ItemCode:      itemCode,
		Quantity:      quantity,
		UoM:           uom,
		FromWarehouse: fromWarehouse,
		Status:        document.LineActive,
	}, nil
}
