// Package partner holds customer master data and the money sub-ledgers
// attached to it: the running customer balance and advance-payment
// instruments.
package partner

import (
	"strings"

	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ShortageNameMarker identifies the designated customer that absorbs
// negative count variances as a receivable sale.
const ShortageNameMarker = "Inv Short"

// Customer carries a running balance: posted sales increase it, posted
// payments decrease it, voids reverse it.
type Customer struct {
	shared.BaseEntity
	Code    string          `gorm:"size:32;not null;uniqueIndex" json:"code"`
	Name    string          `gorm:"size:128;not null" json:"name"`
	Address string          `gorm:"size:255" json:"address"`
	Balance decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"balance"`
	Active  bool            `gorm:"not null;default:true" json:"active"`
}

func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates an active customer with zero balance.
func NewCustomer(code, name string) (*Customer, error) {
	if code == "" || name == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer code and name are required")
	}
	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		Balance:    decimal.Zero,
		Active:     true,
	}, nil
}

// IsShortageAccount reports whether this customer is the inventory
// shortage account.
func (c *Customer) IsShortageAccount() bool {
	return strings.Contains(c.Name, ShortageNameMarker)
}

// AddCharge increases the balance by a posted sale's amount due.
func (c *Customer) AddCharge(amount decimal.Decimal) {
	c.Balance = c.Balance.Add(amount)
}

// ApplyPayment decreases the balance by a posted payment.
func (c *Customer) ApplyPayment(amount decimal.Decimal) {
	c.Balance = c.Balance.Sub(amount)
}

// InstrumentStatus is the lifecycle of an advance-payment instrument.
type InstrumentStatus string

const (
	InstrumentOpen   InstrumentStatus = "O"
	InstrumentClosed InstrumentStatus = "C"
)

// AdvancePayment is a prepaid instrument. Balance starts at the full
// amount, is only drawn down by applied payments, and is restored by
// voids of those payments.
type AdvancePayment struct {
	shared.AuditedEntity
	CustomerCode string           `gorm:"size:32;not null;index" json:"customer_code"`
	Reference    string           `gorm:"size:64;not null;uniqueIndex" json:"reference"`
	Amount       decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"amount"`
	Balance      decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"balance"`
	Status       InstrumentStatus `gorm:"size:1;not null;default:'O'" json:"status"`
}

func (AdvancePayment) TableName() string {
	return "advance_payments"
}

// NewAdvancePayment creates an open instrument with full balance.
func NewAdvancePayment(customerCode, reference string, amount decimal.Decimal, actor string) (*AdvancePayment, error) {
	if customerCode == "" || reference == "" {
		return nil, shared.NewDomainError("INVALID_ADVANCE", "Customer and reference are required")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_ADVANCE", "Advance amount must be positive")
	}
	return &AdvancePayment{
		AuditedEntity: shared.NewAuditedEntity(actor),
		CustomerCode:  customerCode,
		Reference:     reference,
		Amount:        amount,
		Balance:       amount,
		Status:        InstrumentOpen,
	}, nil
}

// Draw spends part of the instrument. Drawing the balance to zero
// closes it.
func (a *AdvancePayment) Draw(amount decimal.Decimal, actor string) error {
	if a.Status != InstrumentOpen {
		return shared.ErrInvalidState
	}
	if amount.GreaterThan(a.Balance) {
		return shared.ErrInsufficientBalance
	}
	a.Balance = a.Balance.Sub(amount)
	if a.Balance.IsZero() {
		a.Status = InstrumentClosed
	}
	a.Touch(actor)
	return nil
}

// Restore gives back a voided draw and reopens a closed instrument.
func (a *AdvancePayment) Restore(amount decimal.Decimal, actor string) error {
	next := a.Balance.Add(amount)
	if next.GreaterThan(a.Amount) {
		return shared.NewDomainError("INVALID_ADVANCE", "Restore would exceed the instrument amount")
	}
	a.Balance = next
	a.Status = InstrumentOpen
	a.Touch(actor)
	return nil
}
