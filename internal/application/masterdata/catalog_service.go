package masterdata

import (
	"context"

	"github.com/bakehouse/backend/internal/application/posting"
	"github.com/bakehouse/backend/internal/domain/catalog"
	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateItemRequest carries a new stock item.
type CreateItemRequest struct {
	Code string `json:"code" binding:"required,max=32"`
	Name string `json:"name" binding:"required,max=128"`
	UoM  string `json:"uom" binding:"required,max=16"`
}

// UpdateItemRequest carries mutable item fields.
type UpdateItemRequest struct {
	Name   *string `json:"name"`
	UoM    *string `json:"uom"`
	Active *bool   `json:"active"`
}

// CreateUoMRequest carries a new unit of measure.
type CreateUoMRequest struct {
	Code string `json:"code" binding:"required,max=16"`
	Name string `json:"name" binding:"required,max=64"`
}

// CreatePriceListRequest carries a new price list.
type CreatePriceListRequest struct {
	Name string `json:"name" binding:"required,max=64"`
}

// SetPriceRequest assigns one item's price within a list.
type SetPriceRequest struct {
	ItemCode string          `json:"item_code" binding:"required"`
	Price    decimal.Decimal `json:"price" binding:"required"`
}

// CatalogService administers items, units of measure and price lists.
type CatalogService struct {
	scope  posting.TransactionScope
	logger *zap.Logger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(scope posting.TransactionScope, logger *zap.Logger) *CatalogService {
	return &CatalogService{scope: scope, logger: logger}
}

// CreateItem registers a stock item. Its default UoM must exist.
func (s *CatalogService) CreateItem(ctx context.Context, actor identity.Actor, req CreateItemRequest) (*catalog.Item, error) {
	if !actor.Can(identity.CapAdmin) {
		return nil, shared.ErrUnauthorized
	}

	var result *catalog.Item
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		if exists, err := r.Items().ExistsByCode(ctx, req.Code); err != nil {
			return err
		} else if exists {
			return shared.ErrAlreadyExists
		}
		if exists, err := r.UoMs().ExistsByCode(ctx, req.UoM); err != nil {
			return err
		} else if !exists {
			return shared.NewDomainError("INVALID_UOM", "Unknown unit of measure: "+req.UoM)
		}
		item, err := catalog.NewItem(req.Code, req.Name, req.UoM)
		if err != nil {
			return err
		}
		if err := r.Items().Save(ctx, item); err != nil {
			return err
		}
		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("item created", zap.String("code", result.Code), zap.String("actor", actor.Username))
	return result, nil
}

// UpdateItem changes the mutable fields of an item.
func (s *CatalogService) UpdateItem(ctx context.Context, actor identity.Actor, code string, req UpdateItemRequest) (*catalog.Item, error) {
	if !actor.Can(identity.CapAdmin) {
		return nil, shared.ErrUnauthorized
	}

	var result *catalog.Item
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		item, err := r.Items().FindByCode(ctx, code)
		if err != nil {
			return err
		}
		if req.Name != nil {
			item.Name = *req.Name
		}
		if req.UoM != nil {
			if exists, err := r.UoMs().ExistsByCode(ctx, *req.UoM); err != nil {
				return err
			} else if !exists {
				return shared.NewDomainError("INVALID_UOM", "Unknown unit of measure: "+*req.UoM)
			}
			item.UoM = *req.UoM
		}
		if req.Active != nil {
			item.Active = *req.Active
		}
		if err := r.Items().Save(ctx, item); err != nil {
			return err
		}
		result = item
		return nil
	})
	return result, err
}

// GetItem returns one item by code.
func (s *CatalogService) GetItem(ctx context.Context, code string) (*catalog.Item, error) {
	var result *catalog.Item
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		item, err := r.Items().FindByCode(ctx, code)
		if err != nil {
			return err
		}
		result = item
		return nil
	})
	return result, err
}

// ListItems returns items matching the filter.
func (s *CatalogService) ListItems(ctx context.Context, filter shared.Filter) ([]catalog.Item, error) {
	var result []catalog.Item
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		list, err := r.Items().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}

// CreateUoM registers a unit of measure.
func (s *CatalogService) CreateUoM(ctx context.Context, actor identity.Actor, req CreateUoMRequest) (*catalog.UnitOfMeasure, error) {
	if !actor.Can(identity.CapAdmin) {
		return nil, shared.ErrUnauthorized
	}

	var result *catalog.UnitOfMeasure
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		if exists, err := r.UoMs().ExistsByCode(ctx, req.Code); err != nil {
			return err
		} else if exists {
			return shared.ErrAlreadyExists
		}
		u := &catalog.UnitOfMeasure{
			BaseEntity: shared.NewBaseEntity(),
			Code:       req.Code,
			Name:       req.Name,
		}
		if err := r.UoMs().Save(ctx, u); err != nil {
			return err
		}
		result = u
		return nil
	})
	return result, err
}

// ListUoMs returns all units of measure.
func (s *CatalogService) ListUoMs(ctx context.Context) ([]catalog.UnitOfMeasure, error) {
	var result []catalog.UnitOfMeasure
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		list, err := r.UoMs().FindAll(ctx)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}

// CreatePriceList registers an empty price list.
func (s *CatalogService) CreatePriceList(ctx context.Context, actor identity.Actor, req CreatePriceListRequest) (*catalog.PriceList, error) {
	if !actor.Can(identity.CapAdmin) {
		return nil, shared.ErrUnauthorized
	}

	var result *catalog.PriceList
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		pl := &catalog.PriceList{
			BaseEntity: shared.NewBaseEntity(),
			Name:       req.Name,
		}
		if err := r.PriceLists().Save(ctx, pl); err != nil {
			return err
		}
		result = pl
		return nil
	})
	return result, err
}

// SetPrice assigns or overwrites one item's price within a list.
func (s *CatalogService) SetPrice(ctx context.Context, actor identity.Actor, priceListID uuid.UUID, req SetPriceRequest) error {
	if !actor.Can(identity.CapAdmin) {
		return shared.ErrUnauthorized
	}
	if req.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	return s.scope.Execute(ctx, func(r posting.Repos) error {
		if _, err := r.PriceLists().FindByID(ctx, priceListID); err != nil {
			return err
		}
		if exists, err := r.Items().ExistsByCode(ctx, req.ItemCode); err != nil {
			return err
		} else if !exists {
			return shared.ErrNotFound
		}
		entry := &catalog.PriceListItem{
			BaseEntity:  shared.NewBaseEntity(),
			PriceListID: priceListID,
			ItemCode:    req.ItemCode,
			Price:       req.Price,
		}
		return r.PriceLists().SaveItem(ctx, entry)
	})
}

// PriceFor returns one item's price from a list.
func (s *CatalogService) PriceFor(ctx context.Context, priceListID uuid.UUID, itemCode string) (decimal.Decimal, error) {
	var result decimal.Decimal
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		price, err := r.PriceLists().PriceFor(ctx, priceListID, itemCode)
		if err != nil {
			return err
		}
		result = price
		return nil
	})
	return result, err
}

// ListPriceLists returns price lists matching the filter.
func (s *CatalogService) ListPriceLists(ctx context.Context, filter shared.Filter) ([]catalog.PriceList, error) {
	var result []catalog.PriceList
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		list, err := r.PriceLists().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}
