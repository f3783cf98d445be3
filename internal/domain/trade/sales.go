// Package trade holds the money-side documents: sales and the payments
// applied against them.
package trade

import (
	"github.com/bakehouse/backend/internal/domain/document"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Sales is a point-of-sale invoice. Posting it moves stock out of the
// warehouse and charges the customer's running balance with AmountDue.
type Sales struct {
	document.Header
	WarehouseCode string          `gorm:"size:16;not null;index" json:"warehouse_code"`
	CustomerCode  string          `gorm:"size:32;not null;index" json:"customer_code"`
	Gross         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"gross"`
	DiscPrcnt     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"disc_prcnt"`
	DiscAmount    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"disc_amount"`
	DeliveryFee   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"delivery_fee"`
	GCAmount      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"gc_amount"`
	DocTotal      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"doctotal"`
	AmountDue     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"amount_due"`
	AppliedAmt    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"applied_amt"`
	Tendered      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"tendered"`
	Change        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"change"`
	Lines         []SalesLine     `gorm:"foreignKey:SalesID;references:ID" json:"lines,omitempty"`
}

func (Sales) TableName() string {
	return "sales"
}

// SalesLine is one sold item. A free line carries a zero price
// regardless of the list price.
type SalesLine struct {
	shared.BaseEntity
	SalesID    uuid.UUID           `gorm:"type:uuid;not null;index" json:"sales_id"`
	ItemCode   string              `gorm:"size:32;not null" json:"item_code"`
	Quantity   decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UoM        string              `gorm:"size:16;not null" json:"uom"`
	UnitPrice  decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0" json:"unit_price"`
	IsFree     bool                `gorm:"not null;default:false" json:"is_free"`
	DiscAmount decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0" json:"disc_amount"`
	LineTotal  decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0" json:"line_total"`
	Status     document.LineStatus `gorm:"size:1;not null;default:'A'" json:"status"`
}

func (SalesLine) TableName() string {
	return "sales_lines"
}

// NewSalesLine validates, prices and totals one line.
func NewSalesLine(salesID uuid.UUID, itemCode string, quantity decimal.Decimal, uom string, unitPrice decimal.Decimal, isFree bool, discAmount decimal.Decimal) (*SalesLine, error) {
	if itemCode == "" {
		return nil, shared.NewDomainError("INVALID_LINE", "Line item is required")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_LINE", "Line quantity must be positive")
	}
	if discAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_LINE", "Line discount cannot be negative")
	}
	price := unitPrice
	if isFree {
		price = decimal.Zero
	}
	gross := price.Mul(quantity)
	if discAmount.GreaterThan(gross) {
		return nil, shared.NewDomainError("INVALID_LINE", "Line discount exceeds line gross")
	}
	return &SalesLine{
		BaseEntity: shared.NewBaseEntity(),
		SalesID:    salesID,
		ItemCode:   itemCode,
		Quantity:   quantity,
		UoM:        uom,
		UnitPrice:  price,
		IsFree:     isFree,
		DiscAmount: discAmount,
		LineTotal:  gross.Sub(discAmount),
		Status:     document.LineActive,
	}, nil
}

// ComputeTotals derives the header money fields from the lines and the
// header-level discount, fee and gift certificate amount.
func (s *Sales) ComputeTotals() error {
	if s.DiscPrcnt.IsNegative() || s.DiscPrcnt.GreaterThan(oneHundred) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
	}
	if s.DeliveryFee.IsNegative() || s.GCAmount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Delivery fee and gift certificate amount cannot be negative")
	}

	gross := decimal.Zero
	for _, line := range s.Lines {
		gross = gross.Add(line.LineTotal)
	}
	s.Gross = gross
	s.DiscAmount = gross.Mul(s.DiscPrcnt).Div(oneHundred)
	s.DocTotal = s.DeliveryFee.Add(gross).Sub(s.DiscAmount).Sub(s.GCAmount)
	if s.DocTotal.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Document total cannot be negative")
	}
	s.AmountDue = s.DocTotal
	return nil
}

// SetTender records cash tendered and computes change. Tendering less
// than the document total leaves the difference as amount due.
func (s *Sales) SetTender(tendered decimal.Decimal) error {
	if tendered.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Tendered amount cannot be negative")
	}
	s.Tendered = tendered
	if tendered.GreaterThan(s.DocTotal) {
		s.Change = tendered.Sub(s.DocTotal)
	} else {
		s.Change = decimal.Zero
	}
	return nil
}

// ApplyPayment reduces the amount due by a posted payment. Paying the
// document down to zero closes it.
func (s *Sales) ApplyPayment(amount decimal.Decimal, actor string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if s.Status == document.StatusCanceled {
		return shared.ErrInvalidState
	}
	if amount.GreaterThan(s.AmountDue) {
		return shared.ErrOverpayment
	}
	s.AmountDue = s.AmountDue.Sub(amount)
	s.AppliedAmt = s.AppliedAmt.Add(amount)
	if s.AmountDue.IsZero() && s.Status == document.StatusOpen {
		if err := s.Close(actor); err != nil {
			return err
		}
	}
	s.Touch(actor)
	return nil
}

// RevertPayment undoes a voided payment's effect on the document and
// reopens it if it had been closed by that payment.
func (s *Sales) RevertPayment(amount decimal.Decimal, actor string) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(s.AppliedAmt) {
		return shared.NewDomainError("INVALID_AMOUNT", "Revert exceeds the applied amount")
	}
	s.AmountDue = s.AmountDue.Add(amount)
	s.AppliedAmt = s.AppliedAmt.Sub(amount)
	if s.Status == document.StatusClosed {
		s.Status = document.StatusOpen
	}
	s.Touch(actor)
	return nil
}
