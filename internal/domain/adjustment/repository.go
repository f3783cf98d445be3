package adjustment

import (
	"context"

	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository provides access to adjustment documents and lines.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Adjustment, error)
	FindByReference(ctx context.Context, reference string) (*Adjustment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Adjustment, error)
	Save(ctx context.Context, a *Adjustment) error
}
