// Package series implements per-warehouse document numbering. One Series
// row exists per (warehouse, object type) pair and is the only source of
// transaction numbers for that pair.
package series

import (
	"fmt"

	"github.com/bakehouse/backend/internal/domain/shared"
)

// ObjectCode identifies a document family for numbering and reporting.
type ObjectCode string

const (
	ObjectItemRequest    ObjectCode = "REQT"
	ObjectReceiving      ObjectCode = "RCVE"
	ObjectSales          ObjectCode = "SLES"
	ObjectPayment        ObjectCode = "PMNT"
	ObjectAdjustmentIn   ObjectCode = "ADJI"
	ObjectAdjustmentOut  ObjectCode = "ADJO"
	ObjectPullOut        ObjectCode = "POUT"
	ObjectPullOutRequest ObjectCode = "PORQ"
	ObjectCount          ObjectCode = "ICNT"
	ObjectFinalCount     ObjectCode = "FNLC"
)

// ObjectType is the catalog row describing a document family.
type ObjectType struct {
	shared.BaseEntity
	Code ObjectCode `gorm:"size:8;not null;uniqueIndex" json:"code"`
	Name string     `gorm:"size:64;not null" json:"name"`
}

func (ObjectType) TableName() string {
	return "object_types"
}

// Series is a numbering range for one (warehouse, object type) pair.
// NextNum only ever moves forward, and only inside the transaction that
// posts the document consuming the number.
type Series struct {
	shared.BaseEntity
	Code          string     `gorm:"size:16;not null;uniqueIndex:idx_series_whse_obj,priority:1" json:"code"`
	Name          string     `gorm:"size:64;not null" json:"name"`
	WarehouseCode string     `gorm:"size:16;not null;uniqueIndex:idx_series_whse_obj,priority:2" json:"warehouse_code"`
	ObjectCode    ObjectCode `gorm:"size:8;not null;uniqueIndex:idx_series_whse_obj,priority:3" json:"object_code"`
	StartNum      int        `gorm:"not null" json:"start_num"`
	NextNum       int        `gorm:"not null" json:"next_num"`
	EndNum        int        `gorm:"not null" json:"end_num"`
}

func (Series) TableName() string {
	return "series"
}

// NewSeries creates a numbering range. NextNum starts at StartNum.
func NewSeries(code, name, warehouseCode string, objectCode ObjectCode, startNum, endNum int) (*Series, error) {
	if code == "" || warehouseCode == "" || objectCode == "" {
		return nil, shared.NewDomainError("INVALID_SERIES", "Series code, warehouse and object type are required")
	}
	if startNum < 0 || endNum < startNum {
		return nil, shared.NewDomainError("INVALID_SERIES_RANGE", "Series range must satisfy start <= end")
	}
	return &Series{
		BaseEntity:    shared.NewBaseEntity(),
		Code:          code,
		Name:          name,
		WarehouseCode: warehouseCode,
		ObjectCode:    objectCode,
		StartNum:      startNum,
		NextNum:       startNum,
		EndNum:        endNum,
	}, nil
}

// Allocation is the result of consuming one number from a series.
type Allocation struct {
	SeriesCode string
	Number     int
	Reference  string
}

// Allocate consumes the next number. The returned number is the
// pre-increment NextNum; the increment must be persisted in the same
// transaction as the document it numbers.
func (s *Series) Allocate() (Allocation, error) {
	if s.NextNum+1 > s.EndNum {
		return Allocation{}, shared.ErrSeriesExhausted
	}
	alloc := Allocation{
		SeriesCode: s.Code,
		Number:     s.NextNum,
		Reference:  fmt.Sprintf("%s-%s-%d", s.Code, s.ObjectCode, s.NextNum),
	}
	s.NextNum++
	return alloc, nil
}

// Remaining returns how many numbers are still available.
func (s *Series) Remaining() int {
	if s.NextNum+1 > s.EndNum {
		return 0
	}
	return s.EndNum - s.NextNum
}
