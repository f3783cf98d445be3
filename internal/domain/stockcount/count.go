// Package stockcount holds the two-phase physical count and pull-out
// workflows: role-typed raw submissions first, then a manager
// confirmation that reconciles the book balance.
package stockcount

import (
	"github.com/bakehouse/backend/internal/domain/document"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role is who recorded a raw count.
type Role string

const (
	RoleSales   Role = "SALES"
	RoleAuditor Role = "AUDITOR"
	RoleManager Role = "MANAGER"
)

// IsValid reports whether the role is a known kind.
func (r Role) IsValid() bool {
	switch r {
	case RoleSales, RoleAuditor, RoleManager:
		return true
	}
	return false
}

// CountSheet collects the raw counts for one warehouse and date. Each
// role submits at most once; a manager confirmation freezes the sheet
// and posts the reconciling documents.
type CountSheet struct {
	document.Header
	WarehouseCode    string     `gorm:"size:16;not null;uniqueIndex:idx_count_whse_date,priority:1" json:"warehouse_code"`
	CountDate        string     `gorm:"size:10;not null;uniqueIndex:idx_count_whse_date,priority:2" json:"count_date"`
	SubmittedSales   bool       `gorm:"not null;default:false" json:"submitted_sales"`
	SubmittedAuditor bool       `gorm:"not null;default:false" json:"submitted_auditor"`
	SubmittedManager bool       `gorm:"not null;default:false" json:"submitted_manager"`
	Confirmed        bool       `gorm:"not null;default:false" json:"confirmed"`
	FinalRef         string     `gorm:"size:64" json:"final_ref"`
	Rows             []CountRow `gorm:"foreignKey:CountSheetID;references:ID" json:"rows,omitempty"`
}

func (CountSheet) TableName() string {
	return "count_sheets"
}

// CountRow carries the per-item raw counts and, after confirmation, the
// authoritative final count and variance against the book balance.
type CountRow struct {
	shared.BaseEntity
	CountSheetID uuid.UUID           `gorm:"type:uuid;not null;index" json:"count_sheet_id"`
	ItemCode     string              `gorm:"size:32;not null" json:"item_code"`
	UoM          string              `gorm:"size:16" json:"uom"`
	QtySales     decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"qty_sales"`
	QtyAuditor   decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"qty_auditor"`
	QtyManager   decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"qty_manager"`
	QtyFinal     decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0" json:"qty_final"`
	Variance     decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0" json:"variance"`
}

func (CountRow) TableName() string {
	return "count_rows"
}

// HasSubmission reports whether the role already submitted this sheet.
func (s *CountSheet) HasSubmission(role Role) bool {
	switch role {
	case RoleSales:
		return s.SubmittedSales
	case RoleAuditor:
		return s.SubmittedAuditor
	case RoleManager:
		return s.SubmittedManager
	}
	return false
}

// MarkSubmitted records a role submission. A second submission for the
// same role and date is rejected.
func (s *CountSheet) MarkSubmitted(role Role, actor string) error {
	if s.Confirmed {
		return shared.ErrInvalidState
	}
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown count role")
	}
	if s.HasSubmission(role) {
		return shared.ErrDuplicateSubmission
	}
	switch role {
	case RoleSales:
		s.SubmittedSales = true
	case RoleAuditor:
		s.SubmittedAuditor = true
	case RoleManager:
		s.SubmittedManager = true
	}
	s.Touch(actor)
	return nil
}

// SetCount records a role's raw count on the row.
func (r *CountRow) SetCount(role Role, qty decimal.Decimal) {
	v := decimal.NewNullDecimal(qty)
	switch role {
	case RoleSales:
		r.QtySales = v
	case RoleAuditor:
		r.QtyAuditor = v
	case RoleManager:
		r.QtyManager = v
	}
}

// FinalCount resolves the authoritative count: the manager's figure if
// present, else the auditor's, else the sales count, else zero.
func (r *CountRow) FinalCount() decimal.Decimal {
	switch {
	case r.QtyManager.Valid:
		return r.QtyManager.Decimal
	case r.QtyAuditor.Valid:
		return r.QtyAuditor.Decimal
	case r.QtySales.Valid:
		return r.QtySales.Decimal
	}
	return decimal.Zero
}

// Finalize freezes the row: the final count is fixed and the variance
// against the book balance (net of any pull-out quantity) is derived.
// Positive variance means the shelf holds more than the book.
func (r *CountRow) Finalize(bookBalance, pullOutQty decimal.Decimal) {
	r.QtyFinal = r.FinalCount()
	r.Variance = r.QtyFinal.Add(pullOutQty).Sub(bookBalance)
}

// Confirm freezes the sheet. At least one submission must exist.
func (s *CountSheet) Confirm(finalRef, actor string) error {
	if s.Confirmed {
		return shared.ErrInvalidState
	}
	if !s.SubmittedSales && !s.SubmittedAuditor && !s.SubmittedManager {
		return shared.NewDomainError("EMPTY_COUNT", "No submissions to confirm")
	}
	s.Confirmed = true
	s.FinalRef = finalRef
	if err := s.Close(actor); err != nil {
		return err
	}
	return nil
}
