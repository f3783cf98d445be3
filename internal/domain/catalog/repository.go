package catalog

import (
	"context"

	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemRepository provides access to items.
type ItemRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	FindByCode(ctx context.Context, code string) (*Item, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Item, error)
	Save(ctx context.Context, i *Item) error
}

// UoMRepository provides access to units of measure.
type UoMRepository interface {
	ExistsByCode(ctx context.Context, code string) (bool, error)
	FindAll(ctx context.Context) ([]UnitOfMeasure, error)
	Save(ctx context.Context, u *UnitOfMeasure) error
}

// PriceListRepository provides access to price lists and prices.
type PriceListRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*PriceList, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]PriceList, error)
	// PriceFor returns the list price of an item, shared.ErrNotFound if
	// the list carries no entry for it.
	PriceFor(ctx context.Context, priceListID uuid.UUID, itemCode string) (decimal.Decimal, error)
	Save(ctx context.Context, p *PriceList) error
	SaveItem(ctx context.Context, item *PriceListItem) error
}
