package stockcount

import (
	"context"

	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CountSheetRepository provides access to count sheets and rows.
type CountSheetRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CountSheet, error)
	FindByWarehouseDate(ctx context.Context, warehouseCode, countDate string) (*CountSheet, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]CountSheet, error)
	Save(ctx context.Context, s *CountSheet) error
}

// PullOutRequestRepository provides access to pull-out requests.
type PullOutRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PullOutRequest, error)
	FindByWarehouseDate(ctx context.Context, warehouseCode, requestDate string) (*PullOutRequest, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PullOutRequest, error)
	Save(ctx context.Context, p *PullOutRequest) error
}

// PullOutRepository provides access to posted pull-out documents.
type PullOutRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PullOut, error)
	FindByReference(ctx context.Context, reference string) (*PullOut, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PullOut, error)
	Save(ctx context.Context, p *PullOut) error
}
