package trade

import (
	"github.com/bakehouse/backend/internal/domain/document"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayType is the payment instrument kind.
type PayType string

const (
	PayCash    PayType = "CASH"
	PayCheck   PayType = "CHCK"
	PayAdvance PayType = "ADV"
)

// IsValid reports whether the pay type is a known kind.
func (p PayType) IsValid() bool {
	switch p {
	case PayCash, PayCheck, PayAdvance:
		return true
	}
	return false
}

// Payment applies money against one sales document. Each row is one
// tender, so a split payment carries several rows. ADV rows draw down
// an advance instrument instead of taking cash.
type Payment struct {
	document.Header
	SalesRef     string          `gorm:"size:64;not null;index" json:"sales_ref"`
	CustomerCode string          `gorm:"size:32;not null;index" json:"customer_code"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	Rows         []PaymentRow    `gorm:"foreignKey:PaymentID;references:ID" json:"rows,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

// PaymentRow is one tender. Cash plus an advance draw is the usual
// split pair.
type PaymentRow struct {
	shared.BaseEntity
	PaymentID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"payment_id"`
	PayType    PayType         `gorm:"size:8;not null" json:"pay_type"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"amount"`
	AdvanceRef string          `gorm:"size:64" json:"advance_ref"`
}

func (PaymentRow) TableName() string {
	return "payment_rows"
}

// NewPaymentRow validates one tender row.
func NewPaymentRow(paymentID uuid.UUID, payType PayType, amount decimal.Decimal, advanceRef string) (*PaymentRow, error) {
	if !payType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Unknown payment type")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment amount must be positive")
	}
	if payType == PayAdvance && advanceRef == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Advance payments require an advance reference")
	}
	return &PaymentRow{
		BaseEntity: shared.NewBaseEntity(),
		PaymentID:  paymentID,
		PayType:    payType,
		Amount:     amount,
		AdvanceRef: advanceRef,
	}, nil
}

// AddRow appends a validated tender row and keeps the header amount in
// step with the rows.
func (p *Payment) AddRow(payType PayType, amount decimal.Decimal, advanceRef string) error {
	row, err := NewPaymentRow(p.ID, payType, amount, advanceRef)
	if err != nil {
		return err
	}
	p.Rows = append(p.Rows, *row)
	p.Amount = p.Amount.Add(row.Amount)
	return nil
}

// Validate checks the payment before posting.
func (p *Payment) Validate() error {
	if p.SalesRef == "" || p.CustomerCode == "" {
		return shared.NewDomainError("INVALID_PAYMENT", "Payment requires a sales reference and customer")
	}
	if len(p.Rows) == 0 {
		return shared.NewDomainError("INVALID_PAYMENT", "Payment requires at least one tender row")
	}
	total := decimal.Zero
	for i := range p.Rows {
		total = total.Add(p.Rows[i].Amount)
	}
	if p.Amount.LessThanOrEqual(decimal.Zero) || !total.Equal(p.Amount) {
		return shared.NewDomainError("INVALID_PAYMENT", "Payment amount must equal the sum of its rows")
	}
	return nil
}
