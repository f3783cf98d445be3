package logistics

import (
	"context"

	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TransferRepository provides access to transfer documents and lines.
type TransferRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transfer, error)
	FindByReference(ctx context.Context, reference string) (*Transfer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Transfer, error)
	Save(ctx context.Context, t *Transfer) error
}

// ReceivingRepository provides access to receiving documents and lines.
type ReceivingRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Receiving, error)
	FindByReference(ctx context.Context, reference string) (*Receiving, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Receiving, error)
	Save(ctx context.Context, r *Receiving) error
	// HasActiveForSource reports whether a non-canceled receiving
	// already consumed the given source document.
	HasActiveForSource(ctx context.Context, sourceRef string) (bool, error)
}
