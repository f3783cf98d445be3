package persistence

import (
	"context"
	"errors"

	"github.com/bakehouse/backend/internal/domain/document"
	"github.com/bakehouse/backend/internal/domain/logistics"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTransferRepository implements logistics.TransferRepository using GORM
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GormTransferRepository
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// FindByID finds a transfer with its lines
func (r *GormTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*logistics.Transfer, error) {
	var t logistics.Transfer
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindByReference finds a transfer by its document reference
func (r *GormTransferRepository) FindByReference(ctx context.Context, reference string) (*logistics.Transfer, error) {
	var t logistics.Transfer
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&t, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindAll lists transfers
func (r *GormTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]logistics.Transfer, error) {
	var list []logistics.Transfer
	query := applyDocumentFilters(r.db.WithContext(ctx).Model(&logistics.Transfer{}), filter)
	if fw, ok := filter.Filters["from_warehouse"]; ok {
		query = query.Where("from_warehouse = ?", fw)
	}
	query = applySort(query, filter, DocumentSortFields, "trans_date")
	query = applyPagination(query, filter)
	if err := query.Preload("Lines").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save persists a transfer and its lines
func (r *GormTransferRepository) Save(ctx context.Context, t *logistics.Transfer) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(t).Error; err != nil {
		return err
	}
	for i := range t.Lines {
		t.Lines[i].TransferID = t.ID
		if err := r.db.WithContext(ctx).Save(&t.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// GormReceivingRepository implements logistics.ReceivingRepository using GORM
type GormReceivingRepository struct {
	db *gorm.DB
}

// NewGormReceivingRepository creates a new GormReceivingRepository
func NewGormReceivingRepository(db *gorm.DB) *GormReceivingRepository {
	return &GormReceivingRepository{db: db}
}

// FindByID finds a receiving with its lines
func (r *GormReceivingRepository) FindByID(ctx context.Context, id uuid.UUID) (*logistics.Receiving, error) {
	var rc logistics.Receiving
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&rc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rc, nil
}

// FindByReference finds a receiving by its document reference
func (r *GormReceivingRepository) FindByReference(ctx context.Context, reference string) (*logistics.Receiving, error) {
	var rc logistics.Receiving
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&rc, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rc, nil
}

// FindAll lists receivings
func (r *GormReceivingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]logistics.Receiving, error) {
	var list []logistics.Receiving
	query := applyDocumentFilters(r.db.WithContext(ctx).Model(&logistics.Receiving{}), filter)
	if wc, ok := filter.Filters["warehouse_code"]; ok {
		query = query.Where("warehouse_code = ?", wc)
	}
	if src, ok := filter.Filters["source"]; ok {
		query = query.Where("source = ?", src)
	}
	query = applySort(query, filter, DocumentSortFields, "trans_date")
	query = applyPagination(query, filter)
	if err := query.Preload("Lines").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save persists a receiving and its lines
func (r *GormReceivingRepository) Save(ctx context.Context, rc *logistics.Receiving) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(rc).Error; err != nil {
		return err
	}
	for i := range rc.Lines {
		rc.Lines[i].ReceivingID = rc.ID
		if err := r.db.WithContext(ctx).Save(&rc.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// HasActiveForSource reports whether a non-canceled receiving already
// consumed the given source document.
func (r *GormReceivingRepository) HasActiveForSource(ctx context.Context, sourceRef string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&logistics.Receiving{}).
		Where("source_ref = ? AND status <> ?", sourceRef, document.StatusCanceled).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyDocumentFilters narrows a document query by the common header columns.
func applyDocumentFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if from, ok := filter.Filters["date_from"]; ok {
		query = query.Where("trans_date >= ?", from)
	}
	if to, ok := filter.Filters["date_to"]; ok {
		query = query.Where("trans_date <= ?", to)
	}
	if filter.Search != "" {
		query = query.Where("reference ILIKE ?", "%"+filter.Search+"%")
	}
	return query
}

// Ensure implementations satisfy the domain interfaces
var (
	_ logistics.TransferRepository  = (*GormTransferRepository)(nil)
	_ logistics.ReceivingRepository = (*GormReceivingRepository)(nil)
)
