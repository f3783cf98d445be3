package series

import (
	"context"

	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository provides access to numbering series and object types.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Series, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Series, error)
	// FindForWarehouse returns the unique series for the pair.
	FindForWarehouse(ctx context.Context, warehouseCode string, objectCode ObjectCode) (*Series, error)
	// FindForWarehouseLocked does the same under a row lock, for use
	// inside a posting transaction.
	FindForWarehouseLocked(ctx context.Context, warehouseCode string, objectCode ObjectCode) (*Series, error)
	Save(ctx context.Context, s *Series) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ObjectTypeRepository provides access to the document family catalog.
type ObjectTypeRepository interface {
	FindByCode(ctx context.Context, code ObjectCode) (*ObjectType, error)
	FindAll(ctx context.Context) ([]ObjectType, error)
	Save(ctx context.Context, o *ObjectType) error
}
