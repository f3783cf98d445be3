package persistence

import (
	"context"
	"errors"

	"github.com/bakehouse/backend/internal/domain/sapb1"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSapTransferRepository implements sapb1.TransferMirrorRepository using GORM
type GormSapTransferRepository struct {
	db *gorm.DB
}

// NewGormSapTransferRepository creates a new GormSapTransferRepository
func NewGormSapTransferRepository(db *gorm.DB) *GormSapTransferRepository {
	return &GormSapTransferRepository{db: db}
}

// FindByID finds a transfer mirror with its rows
func (r *GormSapTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*sapb1.TransferHeader, error) {
	var h sapb1.TransferHeader
	if err := r.db.WithContext(ctx).
		Preload("Rows").
		First(&h, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

// FindByDocNum finds a transfer mirror by its SAP document number
func (r *GormSapTransferRepository) FindByDocNum(ctx context.Context, docNum string) (*sapb1.TransferHeader, error) {
	var h sapb1.TransferHeader
	if err := r.db.WithContext(ctx).
		Preload("Rows").
		First(&h, "doc_num = ?", docNum).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

// FindAll lists transfer mirrors
func (r *GormSapTransferRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sapb1.TransferHeader, error) {
	var list []sapb1.TransferHeader
	query := r.db.WithContext(ctx).Model(&sapb1.TransferHeader{})
	if tw, ok := filter.Filters["to_warehouse"]; ok {
		query = query.Where("to_warehouse = ?", tw)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if filter.Search != "" {
		query = query.Where("doc_num ILIKE ?", "%"+filter.Search+"%")
	}
	query = applySort(query, filter, map[string]bool{
		"id": true, "created_at": true, "updated_at": true, "doc_num": true,
	}, "created_at")
	query = applyPagination(query, filter)
	if err := query.Preload("Rows").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save persists a transfer mirror and its rows
func (r *GormSapTransferRepository) Save(ctx context.Context, h *sapb1.TransferHeader) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(h).Error; err != nil {
		return err
	}
	for i := range h.Rows {
		h.Rows[i].HeaderID = h.ID
		if err := r.db.WithContext(ctx).Save(&h.Rows[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// GormSapPurchaseRepository implements sapb1.PurchaseMirrorRepository using GORM
type GormSapPurchaseRepository struct {
	db *gorm.DB
}

// NewGormSapPurchaseRepository creates a new GormSapPurchaseRepository
func NewGormSapPurchaseRepository(db *gorm.DB) *GormSapPurchaseRepository {
	return &GormSapPurchaseRepository{db: db}
}

// FindByID finds a purchase mirror with its rows
func (r *GormSapPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*sapb1.PurchaseHeader, error) {
	var h sapb1.PurchaseHeader
	if err := r.db.WithContext(ctx).
		Preload("Rows").
		First(&h, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

// FindByDocNum finds a purchase mirror by its SAP document number
func (r *GormSapPurchaseRepository) FindByDocNum(ctx context.Context, docNum string) (*sapb1.PurchaseHeader, error) {
	var h sapb1.PurchaseHeader
	if err := r.db.WithContext(ctx).
		Preload("Rows").
		First(&h, "doc_num = ?", docNum).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &h, nil
}

// FindAll lists purchase mirrors
func (r *GormSapPurchaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sapb1.PurchaseHeader, error) {
	var list []sapb1.PurchaseHeader
	query := r.db.WithContext(ctx).Model(&sapb1.PurchaseHeader{})
	if tw, ok := filter.Filters["to_warehouse"]; ok {
		query = query.Where("to_warehouse = ?", tw)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if filter.Search != "" {
		query = query.Where("doc_num ILIKE ?", "%"+filter.Search+"%")
	}
	query = applySort(query, filter, map[string]bool{
		"id": true, "created_at": true, "updated_at": true, "doc_num": true,
	}, "created_at")
	query = applyPagination(query, filter)
	if err := query.Preload("Rows").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save persists a purchase mirror and its rows
func (r *GormSapPurchaseRepository) Save(ctx context.Context, h *sapb1.PurchaseHeader) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(h).Error; err != nil {
		return err
	}
	for i := range h.Rows {
		h.Rows[i].HeaderID = h.ID
		if err := r.db.WithContext(ctx).Save(&h.Rows[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Ensure implementations satisfy the domain interfaces
var (
	_ sapb1.TransferMirrorRepository = (*GormSapTransferRepository)(nil)
	_ sapb1.PurchaseMirrorRepository = (*GormSapPurchaseRepository)(nil)
)
