package persistence

import (
	"context"
	"errors"

	"github.com/bakehouse/backend/internal/domain/catalog"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormItemRepository implements catalog.ItemRepository using GORM
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GormItemRepository
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// FindByID finds an item by its ID
func (r *GormItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	var i catalog.Item
	if err := r.db.WithContext(ctx).First(&i, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &i, nil
}

// FindByCode finds an item by its code
func (r *GormItemRepository) FindByCode(ctx context.Context, code string) (*catalog.Item, error) {
	var i catalog.Item
	if err := r.db.WithContext(ctx).First(&i, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &i, nil
}

// ExistsByCode checks if an item code exists
func (r *GormItemRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Item{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll lists items
func (r *GormItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Item, error) {
	var list []catalog.Item
	query := r.db.WithContext(ctx).Model(&catalog.Item{})
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}
	if uom, ok := filter.Filters["uom"]; ok {
		query = query.Where("uom = ?", uom)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	query = applySort(query, filter, MasterdataSortFields, "code")
	query = applyPagination(query, filter)
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save creates or updates an item
func (r *GormItemRepository) Save(ctx context.Context, i *catalog.Item) error {
	return r.db.WithContext(ctx).Save(i).Error
}

// GormUoMRepository implements catalog.UoMRepository using GORM
type GormUoMRepository struct {
	db *gorm.DB
}

// NewGormUoMRepository creates a new GormUoMRepository
func NewGormUoMRepository(db *gorm.DB) *GormUoMRepository {
	return &GormUoMRepository{db: db}
}

// ExistsByCode checks if a UoM code exists
func (r *GormUoMRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.UnitOfMeasure{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll lists all units of measure
func (r *GormUoMRepository) FindAll(ctx context.Context) ([]catalog.UnitOfMeasure, error) {
	var list []catalog.UnitOfMeasure
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save creates or updates a unit of measure
func (r *GormUoMRepository) Save(ctx context.Context, u *catalog.UnitOfMeasure) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// GormPriceListRepository implements catalog.PriceListRepository using GORM
type GormPriceListRepository struct {
	db *gorm.DB
}

// NewGormPriceListRepository creates a new GormPriceListRepository
func NewGormPriceListRepository(db *gorm.DB) *GormPriceListRepository {
	return &GormPriceListRepository{db: db}
}

// FindByID finds a price list with its item prices
func (r *GormPriceListRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.PriceList, error) {
	var p catalog.PriceList
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// FindAll lists price lists without their item prices
func (r *GormPriceListRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.PriceList, error) {
	var list []catalog.PriceList
	query := r.db.WithContext(ctx).Model(&catalog.PriceList{})
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	query = applySort(query, filter, map[string]bool{
		"id": true, "created_at": true, "updated_at": true, "name": true,
	}, "name")
	query = applyPagination(query, filter)
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// PriceFor returns the list price of an item
func (r *GormPriceListRepository) PriceFor(ctx context.Context, priceListID uuid.UUID, itemCode string) (decimal.Decimal, error) {
	var entry catalog.PriceListItem
	if err := r.db.WithContext(ctx).
		Where("price_list_id = ? AND item_code = ?", priceListID, itemCode).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, shared.ErrNotFound
		}
		return decimal.Zero, err
	}
	return entry.Price, nil
}

// Save creates or updates a price list
func (r *GormPriceListRepository) Save(ctx context.Context, p *catalog.PriceList) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// SaveItem upserts one item's price within a list
func (r *GormPriceListRepository) SaveItem(ctx context.Context, item *catalog.PriceListItem) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "price_list_id"}, {Name: "item_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
		}).
		Create(item).Error
}

// Ensure implementations satisfy the domain interfaces
var (
	_ catalog.ItemRepository      = (*GormItemRepository)(nil)
	_ catalog.UoMRepository       = (*GormUoMRepository)(nil)
	_ catalog.PriceListRepository = (*GormPriceListRepository)(nil)
)
