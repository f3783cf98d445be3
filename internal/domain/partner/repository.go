package partner

import (
	"context"

	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerRepository provides access to customers.
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByCode(ctx context.Context, code string) (*Customer, error)
	// FindByCodeLocked reads the customer under a row lock so balance
	// updates serialize with concurrent postings.
	FindByCodeLocked(ctx context.Context, code string) (*Customer, error)
	// FindShortageAccount returns the designated inventory shortage
	// customer.
	FindShortageAccount(ctx context.Context) (*Customer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)
	Save(ctx context.Context, c *Customer) error
}

// AdvancePaymentRepository provides access to advance instruments.
type AdvancePaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AdvancePayment, error)
	FindByReference(ctx context.Context, reference string) (*AdvancePayment, error)
	// FindByReferenceLocked reads the instrument under a row lock.
	FindByReferenceLocked(ctx context.Context, reference string) (*AdvancePayment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]AdvancePayment, error)
	ListByCustomer(ctx context.Context, customerCode string) ([]AdvancePayment, error)
	Save(ctx context.Context, a *AdvancePayment) error
}
