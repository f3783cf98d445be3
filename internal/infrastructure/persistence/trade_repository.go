package persistence

import (
	"context"
	"errors"

	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/bakehouse/backend/internal/domain/trade"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSalesRepository implements trade.SalesRepository using GORM
type GormSalesRepository struct {
	db *gorm.DB
}

// NewGormSalesRepository creates a new GormSalesRepository
func NewGormSalesRepository(db *gorm.DB) *GormSalesRepository {
	return &GormSalesRepository{db: db}
}

// FindByID finds a sales document with its lines
func (r *GormSalesRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sales, error) {
	var s trade.Sales
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByReference finds a sales document by its reference
func (r *GormSalesRepository) FindByReference(ctx context.Context, reference string) (*trade.Sales, error) {
	var s trade.Sales
	if err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&s, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByReferenceLocked finds a sales document by reference with a row
// lock, so concurrent payments against the same sale serialize
func (r *GormSalesRepository) FindByReferenceLocked(ctx context.Context, reference string) (*trade.Sales, error) {
	var s trade.Sales
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Lines").
		First(&s, "reference = ?", reference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAll lists sales documents
func (r *GormSalesRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Sales, error) {
	var list []trade.Sales
	query := applyDocumentFilters(r.db.WithContext(ctx).Model(&trade.Sales{}), filter)
	if wc, ok := filter.Filters["warehouse_code"]; ok {
		query = query.Where("warehouse_code = ?", wc)
	}
	if cc, ok := filter.Filters["customer_code"]; ok {
		query = query.Where("customer_code = ?", cc)
	}
	query = applySort(query, filter, DocumentSortFields, "trans_date")
	query = applyPagination(query, filter)
	if err := query.Preload("Lines").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListByCustomer lists a customer's sales documents
func (r *GormSalesRepository) ListByCustomer(ctx context.Context, customerCode string, filter shared.Filter) ([]trade.Sales, error) {
	var list []trade.Sales
	query := applyDocumentFilters(
		r.db.WithContext(ctx).Model(&trade.Sales{}).Where("customer_code = ?", customerCode),
		filter,
	)
	query = applySort(query, filter, DocumentSortFields, "trans_date")
	query = applyPagination(query, filter)
	if err := query.Preload("Lines").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save persists a sales document and its lines
func (r *GormSalesRepository) Save(ctx context.Context, s *trade.Sales) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(s).Error; err != nil {
		return err
	}
	for i := range s.Lines {
		s.Lines[i].SalesID = s.ID
		if err := r.db.WithContext(ctx).Save(&s.Lines[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// GormPaymentRepository implements trade.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment with its tender rows
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Payment, error) {
	var p trade.Payment
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

// FindAll lists payments
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Payment, error) {
	var list []trade.Payment
	query := applyDocumentFilters(r.db.WithContext(ctx).Model(&trade.Payment{}), filter)
	if cc, ok := filter.Filters["customer_code"]; ok {
		query = query.Where("customer_code = ?", cc)
	}
	if pt, ok := filter.Filters["pay_type"]; ok {
		query = query.Where(
			"EXISTS (SELECT 1 FROM payment_rows pr WHERE pr.payment_id = payments.id AND pr.pay_type = ?)", pt)
	}
	query = applySort(query, filter, DocumentSortFields, "trans_date")
	query = applyPagination(query, filter)
	if err := query.Preload("Rows").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListBySales lists the payments applied to one sales document
func (r *GormPaymentRepository) ListBySales(ctx context.Context, salesRef string) ([]trade.Payment, error) {
	var list []trade.Payment
	if err := r.db.WithContext(ctx).
		Where("sales_ref = ?", salesRef).
		Order("created_at ASC").
		Preload("Rows").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// ListByCustomer lists a customer's payments
func (r *GormPaymentRepository) ListByCustomer(ctx context.Context, customerCode string, filter shared.Filter) ([]trade.Payment, error) {
	var list []trade.Payment
	query := applyDocumentFilters(
		r.db.WithContext(ctx).Model(&trade.Payment{}).Where("customer_code = ?", customerCode),
		filter,
	)
	query = applySort(query, filter, DocumentSortFields, "trans_date")
	query = applyPagination(query, filter)
	if err := query.Preload("Rows").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save persists a payment and its tender rows
func (r *GormPaymentRepository) Save(ctx context.Context, p *trade.Payment) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error; err != nil {
		return err
	}
	for i := range p.Rows {
		p.Rows[i].PaymentID = p.ID
		if err := r.db.WithContext(ctx).Save(&p.Rows[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// Ensure implementations satisfy the domain interfaces
var (
	_ trade.SalesRepository   = (*GormSalesRepository)(nil)
	_ trade.PaymentRepository = (*GormPaymentRepository)(nil)
)
