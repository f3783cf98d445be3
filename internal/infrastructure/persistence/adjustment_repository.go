package persistence

import (
	"context"
	"errors"

	"github.com/bakehouse/backend/internal/domain/adjustment"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAdjustmentRepository implements adjustment.Repository using GORM
type GormAdjustmentRepository struct {
	db *gorm.DB
}

// NewGormAdjustmentRepository creates a new GormAdjustmentRepository
func NewGormAdjustmentRepository(db *gorm.DB) *GormAdjustmentRepository {
	return &GormAdjustmentRepository{db: db}
}

// FindByID finds an adjustment with its lines
func (r *GormAdjustmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*adjustment.Adjustment, error) {
	var a adjustment.Adjustment
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByReference finds an adjustment by its document reference
func (r *GormAdjustmentRepository) FindByReference(ctx context.Context, reference string) (*adjustment.Adjustment, error) {
	var a adjustment.Adjustment
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&a, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindAll lists adjustments
func (r *GormAdjustmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]adjustment.Adjustment, error) {
	var list []adjustment.Adjustment
	query := applyDocumentFilters(r.db.WithContext(ctx).Model(&adjustment.Adjustment{}), filter)
	if wc, ok := filter.Filters["warehouse_code"]; ok {
		query = query.Where("warehouse_code = ?", wc)
	}
	if dir, ok := filter.Filters["direction"]; ok {
		query = query.Where("direction = ?", dir)
	}
	query = applySort(query, filter, DocumentSortFields, "trans_date")
	query = applyPagination(query, filter)
	if err := query.Preload("Lines").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save persists an adjustment and its lines
func (r *GormAdjustmentRepository) Save(ctx context.Context, a *adjustment.Adjustment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error; err != nil {
		return err
	}
	for i := range a.Lines {
		a.Lines[i].AdjustmentID = a.ID
		if err := r.db.WithContext(ctx).Save(&a.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Ensure GormAdjustmentRepository implements Repository
var _ adjustment.Repository = (*GormAdjustmentRepository)(nil)
