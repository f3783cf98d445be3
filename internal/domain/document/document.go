// Package document holds the pieces every stock or money document shares:
// the one-way status machine and the numbered header embedded by each
// document family.
package document

import (
	"time"

	"github.com/bakehouse/backend/internal/domain/shared"
)

// Status is the lifecycle state of a document header.
type Status string

const (
	StatusOpen     Status = "O"
	StatusClosed   Status = "C"
	StatusCanceled Status = "N"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s Status) IsTerminal() bool {
	return s == StatusCanceled
}

// LineStatus is the state of a single document line.
type LineStatus string

const (
	LineActive   LineStatus = "A"
	LineCanceled LineStatus = "N"
)

// Header carries the numbering and lifecycle fields shared by all
// document families. The reference string is assigned at allocation
// time and never changes afterwards.
type Header struct {
	shared.AuditedEntity
	SeriesCode string    `gorm:"size:16;not null;index" json:"series_code"`
	DocNum     int       `gorm:"not null" json:"doc_num"`
	Reference  string    `gorm:"size:64;not null;uniqueIndex" json:"reference"`
	Status     Status    `gorm:"size:1;not null;default:'O'" json:"status"`
	TransDate  time.Time `gorm:"not null;index" json:"trans_date"`
	Remarks    string    `gorm:"size:255" json:"remarks"`
	SapNumber  string    `gorm:"size:32" json:"sap_number"`
}

// NewHeader builds an open header from an allocation result.
func NewHeader(seriesCode string, docNum int, reference string, transDate time.Time, actor string) Header {
	return Header{
		AuditedEntity: shared.NewAuditedEntity(actor),
		SeriesCode:    seriesCode,
		DocNum:        docNum,
		Reference:     reference,
		Status:        StatusOpen,
		TransDate:     transDate,
	}
}

// Close marks the document as completed. Only open documents close.
func (h *Header) Close(actor string) error {
	if h.Status != StatusOpen {
		return shared.ErrInvalidState
	}
	h.Status = StatusClosed
	h.Touch(actor)
	return nil
}

// Cancel marks the document as voided. Canceled is terminal; callers
// that allow Closed -> Canceled pass allowClosed.
func (h *Header) Cancel(actor string, allowClosed bool) error {
	switch h.Status {
	case StatusCanceled:
		return shared.ErrAlreadyCanceled
	case StatusClosed:
		if !allowClosed {
			return shared.ErrInvalidState
		}
	}
	h.Status = StatusCanceled
	h.Touch(actor)
	return nil
}

// IsOpen reports whether the document still accepts mutations.
func (h *Header) IsOpen() bool {
	return h.Status == StatusOpen
}
