package persistence

import (
	"context"
	"errors"

	"github.com/bakehouse/backend/internal/domain/partner"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Customer, error) {
	var c partner.Customer
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByCode finds a customer by its code
func (r *GormCustomerRepository) FindByCode(ctx context.Context, code string) (*partner.Customer, error) {
	var c partner.Customer
	if err := r.db.WithContext(ctx).First(&c, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByCodeLocked reads the customer with FOR UPDATE so running-balance
// updates from concurrent postings serialize on the row.
func (r *GormCustomerRepository) FindByCodeLocked(ctx context.Context, code string) (*partner.Customer, error) {
	var c partner.Customer
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindShortageAccount finds the designated inventory shortage customer
func (r *GormCustomerRepository) FindShortageAccount(ctx context.Context) (*partner.Customer, error) {
	var c partner.Customer
	if err := r.db.WithContext(ctx).
		Where("name LIKE ?", "%"+partner.ShortageNameMarker+"%").
		Where("active = ?", true).
		Order("code ASC").
		First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindAll lists customers
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	var list []partner.Customer
	query := r.db.WithContext(ctx).Model(&partner.Customer{})
	if active, ok := filter.Filters["active"]; ok {
		query = query.Where("active = ?", active)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", pattern, pattern)
	}
	query = applySort(query, filter, map[string]bool{
		"id": true, "created_at": true, "updated_at": true,
		"code": true, "name": true, "balance": true,
	}, "code")
	query = applyPagination(query, filter)
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, c *partner.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// GormAdvancePaymentRepository implements partner.AdvancePaymentRepository using GORM
type GormAdvancePaymentRepository struct {
	db *gorm.DB
}

// NewGormAdvancePaymentRepository creates a new GormAdvancePaymentRepository
func NewGormAdvancePaymentRepository(db *gorm.DB) *GormAdvancePaymentRepository {
	return &GormAdvancePaymentRepository{db: db}
}

// FindByID finds an advance instrument by its ID
func (r *GormAdvancePaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.AdvancePayment, error) {
	var a partner.AdvancePayment
	if err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByReference finds an advance instrument by its reference
func (r *GormAdvancePaymentRepository) FindByReference(ctx context.Context, reference string) (*partner.AdvancePayment, error) {
	var a partner.AdvancePayment
	if err := r.db.WithContext(ctx).First(&a, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByReferenceLocked reads the instrument with FOR UPDATE so draws
// from concurrent payments serialize on the row.
func (r *GormAdvancePaymentRepository) FindByReferenceLocked(ctx context.Context, reference string) (*partner.AdvancePayment, error) {
	var a partner.AdvancePayment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&a, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindAll lists advance instruments
func (r *GormAdvancePaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.AdvancePayment, error) {
	var list []partner.AdvancePayment
	query := r.db.WithContext(ctx).Model(&partner.AdvancePayment{})
	if cc, ok := filter.Filters["customer_code"]; ok {
		query = query.Where("customer_code = ?", cc)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	query = applySort(query, filter, map[string]bool{
		"id": true, "created_at": true, "updated_at": true,
		"reference": true, "customer_code": true, "balance": true,
	}, "created_at")
	query = applyPagination(query, filter)
	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListByCustomer lists a customer's advance instruments
func (r *GormAdvancePaymentRepository) ListByCustomer(ctx context.Context, customerCode string) ([]partner.AdvancePayment, error) {
	var list []partner.AdvancePayment
	if err := r.db.WithContext(ctx).
		Where("customer_code = ?", customerCode).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save creates or updates an advance instrument
func (r *GormAdvancePaymentRepository) Save(ctx context.Context, a *partner.AdvancePayment) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// Ensure implementations satisfy the domain interfaces
var (
	_ partner.CustomerRepository       = (*GormCustomerRepository)(nil)
	_ partner.AdvancePaymentRepository = (*GormAdvancePaymentRepository)(nil)
)
