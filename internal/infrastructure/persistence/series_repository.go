package persistence

import (
	"context"
	"errors"

	"github.com/bakehouse/backend/internal/domain/series"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSeriesRepository implements series.Repository using GORM
type GormSeriesRepository struct {
	db *gorm.DB
}

// NewGormSeriesRepository creates a new GormSeriesRepository
func NewGormSeriesRepository(db *gorm.DB) *GormSeriesRepository {
	return &GormSeriesRepository{db: db}
}

// FindByID finds a series by its ID
func (r *GormSeriesRepository) FindByID(ctx context.Context, id uuid.UUID) (*series.Series, error) {
	var s series.Series
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAll lists series
func (r *GormSeriesRepository) FindAll(ctx context.Context, filter shared.Filter) ([]series.Series, error) {
	var list []series.Series
	query := r.db.WithContext(ctx).Model(&series.Series{})
	if wc, ok := filter.Filters["warehouse_code"]; ok {
		query = query.Where("warehouse_code = ?", wc)
	}
	if oc, ok := filter.Filters["object_code"]; ok {
		query = query.Where("object_code = ?", oc)
	}
	query = applySort(query, filter, MasterdataSortFields, "code")
	query = applyPagination(query, filter)
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// FindForWarehouse finds the unique series for a (warehouse, object type) pair
func (r *GormSeriesRepository) FindForWarehouse(ctx context.Context, warehouseCode string, objectCode series.ObjectCode) (*series.Series, error) {
	var s series.Series
	if err := r.db.WithContext(ctx).
		Where("warehouse_code = ? AND object_code = ?", warehouseCode, objectCode).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindForWarehouseLocked reads the series row with FOR UPDATE so that
// concurrent postings against the same pair serialize on the row and
// each consumes a distinct number.
func (r *GormSeriesRepository) FindForWarehouseLocked(ctx context.Context, warehouseCode string, objectCode series.ObjectCode) (*series.Series, error) {
	var s series.Series
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("warehouse_code = ? AND object_code = ?", warehouseCode, objectCode).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Save creates or updates a series
func (r *GormSeriesRepository) Save(ctx context.Context, s *series.Series) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Delete removes a series
func (r *GormSeriesRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&series.Series{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormObjectTypeRepository implements series.ObjectTypeRepository using GORM
type GormObjectTypeRepository struct {
	db *gorm.DB
}

// NewGormObjectTypeRepository creates a new GormObjectTypeRepository
func NewGormObjectTypeRepository(db *gorm.DB) *GormObjectTypeRepository {
	return &GormObjectTypeRepository{db: db}
}

// FindByCode finds an object type by its code
func (r *GormObjectTypeRepository) FindByCode(ctx context.Context, code series.ObjectCode) (*series.ObjectType, error) {
	var o series.ObjectType
	if err := r.db.WithContext(ctx).First(&o, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAll lists all object types
func (r *GormObjectTypeRepository) FindAll(ctx context.Context) ([]series.ObjectType, error) {
	var list []series.ObjectType
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save creates or updates an object type
func (r *GormObjectTypeRepository) Save(ctx context.Context, o *series.ObjectType) error {
	return r.db.WithContext(ctx).Save(o).Error
}

// Ensure implementations satisfy the domain interfaces
var (
	_ series.Repository           = (*GormSeriesRepository)(nil)
	_ series.ObjectTypeRepository = (*GormObjectTypeRepository)(nil)
)
