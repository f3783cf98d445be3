package trade

import (
	"context"

	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SalesRepository provides access to sales documents and lines.
type SalesRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sales, error)
	FindByReference(ctx context.Context, reference string) (*Sales, error)
	// FindByReferenceLocked reads the sale under a row lock so that
	// concurrent payments against it serialize.
	FindByReferenceLocked(ctx context.Context, reference string) (*Sales, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Sales, error)
	ListByCustomer(ctx context.Context, customerCode string, filter shared.Filter) ([]Sales, error)
	Save(ctx context.Context, s *Sales) error
}

// PaymentRepository provides access to payment documents.
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Payment, error)
	ListBySales(ctx context.Context, salesRef string) ([]Payment, error)
	ListByCustomer(ctx context.Context, customerCode string, filter shared.Filter) ([]Payment, error)
	Save(ctx context.Context, p *Payment) error
}
