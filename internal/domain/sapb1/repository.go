package sapb1

import (
	"context"

	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TransferMirrorRepository provides access to SAP IT mirrors.
type TransferMirrorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TransferHeader, error)
	FindByDocNum(ctx context.Context, docNum string) (*TransferHeader, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]TransferHeader, error)
	Save(ctx context.Context, h *TransferHeader) error
}

// PurchaseMirrorRepository provides access to SAP PO mirrors.
type PurchaseMirrorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PurchaseHeader, error)
	FindByDocNum(ctx context.Context, docNum string) (*PurchaseHeader, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PurchaseHeader, error)
	Save(ctx context.Context, h *PurchaseHeader) error
}
