// Package inventory holds the stock ledger: the append-only movement log
// and the per-(item, warehouse) balance it materializes. The log is the
// source of truth; the balance is recomputable from it at any time.
package inventory

import (
	"time"

	"github.com/bakehouse/backend/internal/domain/series"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntry is an immutable record of one stock movement. Corrections
// never edit an entry; a void posts a new entry with in/out and the
// warehouse roles swapped.
type LedgerEntry struct {
	shared.BaseEntity
	SeriesCode string            `gorm:"size:16;not null" json:"series_code"`
	TransID    uuid.UUID         `gorm:"type:uuid;not null;index:idx_ledger_trans" json:"trans_id"`
	TransNum   int               `gorm:"not null" json:"trans_num"`
	ObjectCode series.ObjectCode `gorm:"size:8;not null;index" json:"object_code"`
	ItemCode   string            `gorm:"size:32;not null;index:idx_ledger_item_whse,priority:1" json:"item_code"`
	InQty      decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"in_qty"`
	OutQty     decimal.Decimal   `gorm:"type:decimal(18,4);not null" json:"out_qty"`
	UoM        string            `gorm:"size:16" json:"uom"`
	Warehouse  string            `gorm:"size:16;not null;index:idx_ledger_item_whse,priority:2" json:"warehouse"`
	Warehouse2 string            `gorm:"size:16" json:"warehouse2"`
	TransDate  time.Time         `gorm:"not null;index" json:"trans_date"`
	Reference  string            `gorm:"size:64;not null" json:"reference"`
	Reference2 string            `gorm:"size:64" json:"reference2"`
	Remarks    string            `gorm:"size:255" json:"remarks"`
	CreatedBy  string            `gorm:"size:64" json:"created_by"`
}

func (LedgerEntry) TableName() string {
	return "inventory_ledger"
}

// NewLedgerEntry creates a movement for one document line. Exactly one of
// inQty/outQty must be positive; the other must be zero.
func NewLedgerEntry(
	seriesCode string,
	transID uuid.UUID,
	transNum int,
	objectCode series.ObjectCode,
	itemCode string,
	inQty, outQty decimal.Decimal,
	warehouse string,
	reference string,
) (*LedgerEntry, error) {
	if transID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TRANS_ID", "Ledger entry requires a document id")
	}
	if itemCode == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Ledger entry requires an item code")
	}
	if warehouse == "" {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Ledger entry requires a warehouse")
	}
	if inQty.IsNegative() || outQty.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantities cannot be negative")
	}
	if inQty.IsPositive() == outQty.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Exactly one of in/out quantity must be positive")
	}

	return &LedgerEntry{
		BaseEntity: shared.NewBaseEntity(),
		SeriesCode: seriesCode,
		TransID:    transID,
		TransNum:   transNum,
		ObjectCode: objectCode,
		ItemCode:   itemCode,
		InQty:      inQty,
		OutQty:     outQty,
		Warehouse:  warehouse,
		TransDate:  time.Now(),
		Reference:  reference,
	}, nil
}

// WithWarehouse2 sets the counterpart warehouse for two-party movements.
func (e *LedgerEntry) WithWarehouse2(warehouse string) *LedgerEntry {
	e.Warehouse2 = warehouse
	return e
}

// WithUoM sets the unit of measure.
func (e *LedgerEntry) WithUoM(uom string) *LedgerEntry {
	e.UoM = uom
	return e
}

// WithReference2 sets the secondary reference.
func (e *LedgerEntry) WithReference2(ref string) *LedgerEntry {
	e.Reference2 = ref
	return e
}

// WithRemarks sets free-text remarks.
func (e *LedgerEntry) WithRemarks(remarks string) *LedgerEntry {
	e.Remarks = remarks
	return e
}

// WithTransDate overrides the transaction date.
func (e *LedgerEntry) WithTransDate(date time.Time) *LedgerEntry {
	e.TransDate = date
	return e
}

// WithCreatedBy records the acting user.
func (e *LedgerEntry) WithCreatedBy(actor string) *LedgerEntry {
	e.CreatedBy = actor
	return e
}

// Delta is the signed quantity effect on (ItemCode, Warehouse).
func (e *LedgerEntry) Delta() decimal.Decimal {
	return e.InQty.Sub(e.OutQty)
}

// Reverse builds the compensating entry for a void: in and out
// quantities swap while Warehouse and Warehouse2 stay as posted, so
// Delta inverts against the same balance row. The original entry
// stays untouched.
func (e *LedgerEntry) Reverse(actor string) *LedgerEntry {
	rev := &LedgerEntry{
		BaseEntity: shared.NewBaseEntity(),
		SeriesCode: e.SeriesCode,
		TransID:    e.TransID,
		TransNum:   e.TransNum,
		ObjectCode: e.ObjectCode,
		ItemCode:   e.ItemCode,
		InQty:      e.OutQty,
		OutQty:     e.InQty,
		UoM:        e.UoM,
		Warehouse:  e.Warehouse,
		Warehouse2: e.Warehouse2,
		TransDate:  time.Now(),
		Reference:  e.Reference,
		Reference2: e.Reference2,
		Remarks:    "VOID " + e.Reference,
		CreatedBy:  actor,
	}
	return rev
}
