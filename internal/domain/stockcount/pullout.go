package stockcount

import (
	"github.com/bakehouse/backend/internal/domain/document"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PullOutRequest collects role-typed pull-out quantities for one
// warehouse and date, mirroring the count sheet workflow. The stock
// movement only happens when the confirmed PullOut document posts.
type PullOutRequest struct {
	document.Header
	WarehouseCode    string          `gorm:"size:16;not null;uniqueIndex:idx_porq_whse_date,priority:1" json:"warehouse_code"`
	RequestDate      string          `gorm:"size:10;not null;uniqueIndex:idx_porq_whse_date,priority:2" json:"request_date"`
	SubmittedSales   bool            `gorm:"not null;default:false" json:"submitted_sales"`
	SubmittedAuditor bool            `gorm:"not null;default:false" json:"submitted_auditor"`
	SubmittedManager bool            `gorm:"not null;default:false" json:"submitted_manager"`
	Confirmed        bool            `gorm:"not null;default:false" json:"confirmed"`
	PullOutRef       string          `gorm:"size:64" json:"pullout_ref"`
	Rows             []PullOutReqRow `gorm:"foreignKey:RequestID;references:ID" json:"rows,omitempty"`
}

func (PullOutRequest) TableName() string {
	return "pullout_requests"
}

// PullOutReqRow carries per-item pull-out quantities by role.
type PullOutReqRow struct {
	shared.BaseEntity
	RequestID  uuid.UUID           `gorm:"type:uuid;not null;index" json:"request_id"`
	ItemCode   string              `gorm:"size:32;not null" json:"item_code"`
	UoM        string              `gorm:"size:16" json:"uom"`
	QtySales   decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"qty_sales"`
	QtyAuditor decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"qty_auditor"`
	QtyManager decimal.NullDecimal `gorm:"type:decimal(18,4)" json:"qty_manager"`
	QtyFinal   decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0" json:"qty_final"`
}

func (PullOutReqRow) TableName() string {
	return "pullout_request_rows"
}

// HasSubmission reports whether the role already submitted.
func (p *PullOutRequest) HasSubmission(role Role) bool {
	switch role {
	case RoleSales:
		return p.SubmittedSales
	case RoleAuditor:
		return p.SubmittedAuditor
	case RoleManager:
		return p.SubmittedManager
	}
	return false
}

// MarkSubmitted records a role submission, rejecting duplicates.
func (p *PullOutRequest) MarkSubmitted(role Role, actor string) error {
	if p.Confirmed {
		return shared.ErrInvalidState
	}
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown count role")
	}
	if p.HasSubmission(role) {
		return shared.ErrDuplicateSubmission
	}
	switch role {
	case RoleSales:
		p.SubmittedSales = true
	case RoleAuditor:
		p.SubmittedAuditor = true
	case RoleManager:
		p.SubmittedManager = true
	}
	p.Touch(actor)
	return nil
}

// SetQty records a role's quantity on the row.
func (r *PullOutReqRow) SetQty(role Role, qty decimal.Decimal) {
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

// FinalQty resolves the authoritative pull-out quantity with the same
// precedence as count rows.
func (r *PullOutReqRow) FinalQty() decimal.Decimal {
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

// ConfirmWith freezes the request and links the posted PullOut.
func (p *PullOutRequest) ConfirmWith(pullOutRef, actor string) error {
	if p.Confirmed {
		return shared.ErrInvalidState
	}
	p.Confirmed = true
	p.PullOutRef = pullOutRef
	return p.Close(actor)
}

// PullOut is the posted document that actually removes the stock.
type PullOut struct {
	document.Header
	WarehouseCode string        `gorm:"size:16;not null;index" json:"warehouse_code"`
	RequestRef    string        `gorm:"size:64;index" json:"request_ref"`
	Lines         []PullOutLine `gorm:"foreignKey:PullOutID;references:ID" json:"lines,omitempty"`
}

func (PullOut) TableName() string {
	return "pullouts"
}

// PullOutLine is one item quantity removed from the warehouse.
type PullOutLine struct {
	shared.BaseEntity
	PullOutID uuid.UUID           `gorm:"type:uuid;not null;index" json:"pullout_id"`
	ItemCode  string              `gorm:"size:32;not null" json:"item_code"`
	Quantity  decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UoM       string              `gorm:"size:16" json:"uom"`
	Status    document.LineStatus `gorm:"size:1;not null;default:'A'" json:"status"`
}

func (PullOutLine) TableName() string {
	return "pullout_lines"
}

// NewPullOutLine validates and builds a line.
func NewPullOutLine(pullOutID uuid.UUID, itemCode string, quantity decimal.Decimal, uom string) (*PullOutLine, error) {
	if itemCode == "" {
		return nil, shared.NewDomainError("INVALID_LINE", "Line item is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_LINE", "Line quantity must be positive")
	}
	return &PullOutLine{
		BaseEntity: shared.NewBaseEntity(),
		PullOutID:  pullOutID,
		ItemCode:   itemCode,
		Quantity:   quantity,
		UoM:        uom,
		Status:     document.LineActive,
	}, nil
}
