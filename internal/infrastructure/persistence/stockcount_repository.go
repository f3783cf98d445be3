package persistence

import (
	"context"
	"errors"

	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/bakehouse/backend/internal/domain/stockcount"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCountSheetRepository implements stockcount.CountSheetRepository using GORM
type GormCountSheetRepository struct {
	db *gorm.DB
}

// NewGormCountSheetRepository creates a new GormCountSheetRepository
func NewGormCountSheetRepository(db *gorm.DB) *GormCountSheetRepository {
	return &GormCountSheetRepository{db: db}
}

// FindByID finds a count sheet with its rows
func (r *GormCountSheetRepository) FindByID(ctx context.Context, id uuid.UUID) (*stockcount.CountSheet, error) {
	var s stockcount.CountSheet
	if err := r.db.WithContext(ctx).
		Preload("Rows").
		First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByWarehouseDate finds the unique sheet for a warehouse and count date
func (r *GormCountSheetRepository) FindByWarehouseDate(ctx context.Context, warehouseCode, countDate string) (*stockcount.CountSheet, error) {
	var s stockcount.CountSheet
	if err := r.db.WithContext(ctx).
		Preload("Rows").
		Where("warehouse_code = ? AND count_date = ?", warehouseCode, countDate).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAll lists count sheets
func (r *GormCountSheetRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stockcount.CountSheet, error) {
	var list []stockcount.CountSheet
	query := r.db.WithContext(ctx).Model(&stockcount.CountSheet{})
	if wc, ok := filter.Filters["warehouse_code"]; ok {
		query = query.Where("warehouse_code = ?", wc)
	}
	if confirmed, ok := filter.Filters["confirmed"]; ok {
		query = query.Where("confirmed = ?", confirmed)
	}
	query = applySort(query, filter, map[string]bool{
		"id": true, "created_at": true, "updated_at": true,
		"count_date": true, "warehouse_code": true,
	}, "count_date")
	query = applyPagination(query, filter)
	if err := query.Preload("Rows").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save persists a count sheet and its rows
func (r *GormCountSheetRepository) Save(ctx context.Context, s *stockcount.CountSheet) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(s).Error; err != nil {
		return err
	}
	for i := range s.Rows {
		s.Rows[i].CountSheetID = s.ID
		if err := r.db.WithContext(ctx).Save(&s.Rows[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// GormPullOutRequestRepository implements stockcount.PullOutRequestRepository using GORM
type GormPullOutRequestRepository struct {
	db *gorm.DB
}

// NewGormPullOutRequestRepository creates a new GormPullOutRequestRepository
func NewGormPullOutRequestRepository(db *gorm.DB) *GormPullOutRequestRepository {
	return &GormPullOutRequestRepository{db: db}
}

// FindByID finds a pull-out request with its rows
func (r *GormPullOutRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*stockcount.PullOutRequest, error) {
	var p stockcount.PullOutRequest
	if err := r.db.WithContext(ctx).
		Preload("Rows").
		First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByWarehouseDate finds the unique request for a warehouse and date
func (r *GormPullOutRequestRepository) FindByWarehouseDate(ctx context.Context, warehouseCode, requestDate string) (*stockcount.PullOutRequest, error) {
	var p stockcount.PullOutRequest
	if err := r.db.WithContext(ctx).
		Preload("Rows").
		Where("warehouse_code = ? AND request_date = ?", warehouseCode, requestDate).
		First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAll lists pull-out requests
func (r *GormPullOutRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stockcount.PullOutRequest, error) {
	var list []stockcount.PullOutRequest
	query := r.db.WithContext(ctx).Model(&stockcount.PullOutRequest{})
	if wc, ok := filter.Filters["warehouse_code"]; ok {
		query = query.Where("warehouse_code = ?", wc)
	}
	query = applySort(query, filter, map[string]bool{
		"id": true, "created_at": true, "updated_at": true,
		"request_date": true, "warehouse_code": true,
	}, "request_date")
	query = applyPagination(query, filter)
	if err := query.Preload("Rows").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save persists a pull-out request and its rows
func (r *GormPullOutRequestRepository) Save(ctx context.Context, p *stockcount.PullOutRequest) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error; err != nil {
		return err
	}
	for i := range p.Rows {
		p.Rows[i].RequestID = p.ID
		if err := r.db.WithContext(ctx).Save(&p.Rows[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// GormPullOutRepository implements stockcount.PullOutRepository using GORM
type GormPullOutRepository struct {
	db *gorm.DB
}

// NewGormPullOutRepository creates a new GormPullOutRepository
func NewGormPullOutRepository(db *gorm.DB) *GormPullOutRepository {
	return &GormPullOutRepository{db: db}
}

// FindByID finds a posted pull-out with its lines
func (r *GormPullOutRepository) FindByID(ctx context.Context, id uuid.UUID) (*stockcount.PullOut, error) {
	var p stockcount.PullOut
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindByReference finds a posted pull-out by its document reference
func (r *GormPullOutRepository) FindByReference(ctx context.Context, reference string) (*stockcount.PullOut, error) {
	var p stockcount.PullOut
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&p, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAll lists posted pull-outs
func (r *GormPullOutRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stockcount.PullOut, error) {
	var list []stockcount.PullOut
	query := applyDocumentFilters(r.db.WithContext(ctx).Model(&stockcount.PullOut{}), filter)
	if wc, ok := filter.Filters["warehouse_code"]; ok {
		query = query.Where("warehouse_code = ?", wc)
	}
	query = applySort(query, filter, DocumentSortFields, "trans_date")
	query = applyPagination(query, filter)
	if err := query.Preload("Lines").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save persists a posted pull-out and its lines
func (r *GormPullOutRepository) Save(ctx context.Context, p *stockcount.PullOut) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error; err != nil {
		return err
	}
	for i := range p.Lines {
		p.Lines[i].PullOutID = p.ID
		if err := r.db.WithContext(ctx).Save(&p.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Ensure implementations satisfy the domain interfaces
var (
	_ stockcount.CountSheetRepository     = (*GormCountSheetRepository)(nil)
	_ stockcount.PullOutRequestRepository = (*GormPullOutRequestRepository)(nil)
	_ stockcount.PullOutRepository        = (*GormPullOutRepository)(nil)
)
