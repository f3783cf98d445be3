// Package branch holds location master data: branches and the
// warehouses belonging to them.
package branch

import (
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Branch is a physical store or plant grouping one or more warehouses.
type Branch struct {
	shared.BaseEntity
	Code   string `gorm:"size:16;not null;uniqueIndex" json:"code"`
	Name   string `gorm:"size:128;not null" json:"name"`
	Active bool   `gorm:"not null;default:true" json:"active"`
}

func (Branch) TableName() string {
	return "branches"
}

// Warehouse is a stock location. Cutoff blocks stock-mutating documents
// while a physical count is in progress.
type Warehouse struct {
	shared.BaseEntity
	Code        string     `gorm:"size:16;not null;uniqueIndex" json:"code"`
	Name        string     `gorm:"size:128;not null" json:"name"`
	BranchCode  string     `gorm:"size:16;not null;index" json:"branch_code"`
	PriceListID *uuid.UUID `gorm:"type:uuid" json:"price_list_id"`
	Cutoff      bool       `gorm:"not null;default:false" json:"cutoff"`
	Active      bool       `gorm:"not null;default:true" json:"active"`
}

func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates an active warehouse under a branch.
func NewWarehouse(code, name, branchCode string) (*Warehouse, error) {
	if code == "" || branchCode == "" {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse code and branch are required")
	}
	return &Warehouse{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		BranchCode: branchCode,
		Active:     true,
	}, nil
}

// SetCutoff toggles the count-in-progress flag.
func (w *Warehouse) SetCutoff(on bool) {
	w.Cutoff = on
}

// GuardMutable rejects stock mutations while the warehouse is cut off.
func (w *Warehouse) GuardMutable() error {
	if w.Cutoff {
		return shared.ErrCutoffActive
	}
	return nil
}
