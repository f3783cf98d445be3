// Package identity holds users and their capability flags. Capability
// checks gate every document posting.
package identity

import (
	"github.com/bakehouse/backend/internal/domain/shared"
)

// Capability names carried in JWT claims and checked by middleware.
const (
	CapAdmin       = "admin"
	CapManager     = "manager"
	CapSales       = "sales"
	CapCashier     = "cashier"
	CapAuditor     = "auditor"
	CapTransfer    = "transfer"
	CapReceive     = "receive"
	CapVoid        = "void"
	CapDiscount    = "discount"
	CapAddSap      = "add_sap"
	CapOwnStock    = "own_stock"
	CapAllowEnding = "allow_ending"
	CapPullOut     = "pullout"
)

// User is an authenticated actor bound to one warehouse and branch.
type User struct {
	shared.BaseEntity
	Username      string `gorm:"size:64;not null;uniqueIndex" json:"username"`
	PasswordHash  string `gorm:"size:128;not null" json:"-"`
	Name          string `gorm:"size:128;not null" json:"name"`
	WarehouseCode string `gorm:"size:16;not null;index" json:"warehouse_code"`
	BranchCode    string `gorm:"size:16;not null" json:"branch_code"`

	IsAdmin     bool `gorm:"not null;default:false" json:"is_admin"`
	IsManager   bool `gorm:"not null;default:false" json:"is_manager"`
	IsSales     bool `gorm:"not null;default:false" json:"is_sales"`
	IsCashier   bool `gorm:"not null;default:false" json:"is_cashier"`
	IsAuditor   bool `gorm:"not null;default:false" json:"is_auditor"`
	CanTransfer bool `gorm:"not null;default:false" json:"can_transfer"`
	CanReceive  bool `gorm:"not null;default:false" json:"can_receive"`
	CanVoid     bool `gorm:"not null;default:false" json:"can_void"`
	CanDiscount bool `gorm:"not null;default:false" json:"can_discount"`
	CanAddSap   bool `gorm:"not null;default:false" json:"can_add_sap"`
	OwnStock    bool `gorm:"not null;default:false" json:"own_stock"`
	AllowEnding bool `gorm:"not null;default:false" json:"allow_ending"`
	AllowPull   bool `gorm:"not null;default:false" json:"allow_pullout"`
	Active      bool `gorm:"not null;default:true" json:"active"`
}

func (User) TableName() string {
	return "users"
}

// NewUser creates an active user. The password hash is assigned by the
// auth layer.
func NewUser(username, name, warehouseCode, branchCode string) (*User, error) {
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USER", "Username is required")
	}
	if warehouseCode == "" || branchCode == "" {
		return nil, shared.NewDomainError("INVALID_USER", "User warehouse and branch are required")
	}
	return &User{
		BaseEntity:    shared.NewBaseEntity(),
		Username:      username,
		Name:          name,
		WarehouseCode: warehouseCode,
		BranchCode:    branchCode,
		Active:        true,
	}, nil
}

// Capabilities returns the capability names granted to the user.
// Admins implicitly carry every capability.
func (u *User) Capabilities() []string {
	caps := make([]string, 0, 13)
	add := func(on bool, name string) {
		if on || u.IsAdmin {
			caps = append(caps, name)
		}
	}
	add(u.IsAdmin, CapAdmin)
	add(u.IsManager, CapManager)
	add(u.IsSales, CapSales)
	add(u.IsCashier, CapCashier)
	add(u.IsAuditor, CapAuditor)
	add(u.CanTransfer, CapTransfer)
	add(u.CanReceive, CapReceive)
	add(u.CanVoid, CapVoid)
	add(u.CanDiscount, CapDiscount)
	add(u.CanAddSap, CapAddSap)
	add(u.OwnStock, CapOwnStock)
	add(u.AllowEnding, CapAllowEnding)
	add(u.AllowPull, CapPullOut)
	return caps
}

// Has reports whether the user holds a capability. Admin passes all.
func (u *User) Has(capability string) bool {
	if u.IsAdmin {
		return true
	}
	for _, c := range u.Capabilities() {
		if c == capability {
			return true
		}
	}
	return false
}

// Actor is the authenticated identity resolved from a request token.
// Services consume this instead of the full user row.
type Actor struct {
	UserID        string
	Username      string
	WarehouseCode string
	BranchCode    string
	Capabilities  []string
}

// Can reports whether the actor holds a capability. Admin passes all.
func (a Actor) Can(capability string) bool {
	for _, c := range a.Capabilities {
		if c == CapAdmin || c == capability {
			return true
		}
	}
	return false
}

// LogName is the identifier log enrichment uses for the actor.
func (a Actor) LogName() string {
	return a.Username
}

// ActorFromUser builds the request-scoped actor view of a user.
func ActorFromUser(u *User) Actor {
	return Actor{
		UserID:        u.ID.String(),
		Username:      u.Username,
		WarehouseCode: u.WarehouseCode,
		BranchCode:    u.BranchCode,
		Capabilities:  u.Capabilities(),
	}
}
