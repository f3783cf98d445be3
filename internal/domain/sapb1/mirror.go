// Package sapb1 holds the read/write mirrors of SAP Business One
// inter-branch transfer (IT) and purchase order (PO) documents. Only
// actual-received quantities and the open/closed status are written
// back; everything else is treated as externally owned.
package sapb1

import (
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MirrorStatus is the open/closed state written back to the mirror.
type MirrorStatus string

const (
	MirrorOpen   MirrorStatus = "O"
	MirrorClosed MirrorStatus = "C"
)

// TransferHeader mirrors one SAP IT document headed to a warehouse.
type TransferHeader struct {
	shared.BaseEntity
	DocNum        string        `gorm:"size:32;not null;uniqueIndex" json:"doc_num"`
	FromWarehouse string        `gorm:"size:16;not null" json:"from_warehouse"`
	ToWarehouse   string        `gorm:"size:16;not null;index" json:"to_warehouse"`
	Status        MirrorStatus  `gorm:"size:1;not null;default:'O'" json:"status"`
	Rows          []TransferRow `gorm:"foreignKey:HeaderID;references:ID" json:"rows,omitempty"`
}

func (TransferHeader) TableName() string {
	return "sap_it_headers"
}

// TransferRow is one ordered item on a SAP IT document.
type TransferRow struct {
	shared.BaseEntity
	HeaderID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"header_id"`
	ItemCode       string          `gorm:"size:32;not null" json:"item_code"`
	UoM            string          `gorm:"size:16" json:"uom"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	ActualReceived decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"actual_received"`
}

func (TransferRow) TableName() string {
	return "sap_it_rows"
}

// PurchaseHeader mirrors one SAP PO document.
type PurchaseHeader struct {
	shared.BaseEntity
	DocNum      string        `gorm:"size:32;not null;uniqueIndex" json:"doc_num"`
	Vendor      string        `gorm:"size:64" json:"vendor"`
	ToWarehouse string        `gorm:"size:16;not null;index" json:"to_warehouse"`
	Status      MirrorStatus  `gorm:"size:1;not null;default:'O'" json:"status"`
	Rows        []PurchaseRow `gorm:"foreignKey:HeaderID;references:ID" json:"rows,omitempty"`
}

func (PurchaseHeader) TableName() string {
	return "sap_po_headers"
}

// PurchaseRow is one ordered item on a SAP PO document.
type PurchaseRow struct {
	shared.BaseEntity
	HeaderID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"header_id"`
	ItemCode       string          `gorm:"size:32;not null" json:"item_code"`
	UoM            string          `gorm:"size:16" json:"uom"`
	Quantity       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	ActualReceived decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"actual_received"`
}

func (PurchaseRow) TableName() string {
	return "sap_po_rows"
}

// Receive writes back an actual-received quantity on the row. Receiving
// past the ordered quantity is rejected.
func (r *TransferRow) Receive(qty decimal.Decimal) error {
	return receiveInto(&r.ActualReceived, r.Quantity, qty)
}

// Receive writes back an actual-received quantity on the row.
func (r *PurchaseRow) Receive(qty decimal.Decimal) error {
	return receiveInto(&r.ActualReceived, r.Quantity, qty)
}

func receiveInto(actual *decimal.Decimal, ordered, qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}
	next := actual.Add(qty)
	if next.GreaterThan(ordered) {
		return shared.NewDomainError("OVER_RECEIPT", "Received quantity exceeds the ordered quantity")
	}
	*actual = next
	return nil
}

// FullyReceived reports whether every row has been received in full.
func (h *TransferHeader) FullyReceived() bool {
	return allReceived(len(h.Rows), func(i int) (decimal.Decimal, decimal.Decimal) {
		return h.Rows[i].ActualReceived, h.Rows[i].Quantity
	})
}

// FullyReceived reports whether every row has been received in full.
func (h *PurchaseHeader) FullyReceived() bool {
	return allReceived(len(h.Rows), func(i int) (decimal.Decimal, decimal.Decimal) {
		return h.Rows[i].ActualReceived, h.Rows[i].Quantity
	})
}

func allReceived(n int, at func(int) (decimal.Decimal, decimal.Decimal)) bool {
	if n == 0 {
		return false
	}
	for i := 0; i < n; i++ {
		actual, ordered := at(i)
		if actual.LessThan(ordered) {
			return false
		}
	}
	return true
}
