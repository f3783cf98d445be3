// Package masterdata implements administration of reference data:
// branches, warehouses, numbering series, the item catalog, customers
// and users. Mutations are admin-gated; reads are open to any
// authenticated actor.
package masterdata

import (
	"context"

	"github.com/bakehouse/backend/internal/application/posting"
	"github.com/bakehouse/backend/internal/domain/branch"
	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBranchRequest carries a new branch.
type CreateBranchRequest struct {
	Code string `json:"code" binding:"required,max=16"`
	Name string `json:"name" binding:"required,max=128"`
}

// CreateWarehouseRequest carries a new warehouse.
type CreateWarehouseRequest struct {
	Code        string `json:"code" binding:"required,max=16"`
	Name        string `json:"name" binding:"required,max=128"`
	BranchCode  string `json:"branch_code" binding:"required,max=16"`
	PriceListID string `json:"price_list_id"`
}

// UpdateWarehouseRequest carries mutable warehouse fields.
type UpdateWarehouseRequest struct {
	Name        *string `json:"name"`
	PriceListID *string `json:"price_list_id"`
	Active      *bool   `json:"active"`
}

// BranchService administers branches and warehouses.
type BranchService struct {
	scope  posting.TransactionScope
	logger *zap.Logger
}

// NewBranchService creates a BranchService.
func NewBranchService(scope posting.TransactionScope, logger *zap.Logger) *BranchService {
	return &BranchService{scope: scope, logger: logger}
}

// CreateBranch registers a branch.
func (s *BranchService) CreateBranch(ctx context.Context, actor identity.Actor, req CreateBranchRequest) (*branch.Branch, error) {
	if !actor.Can(identity.CapAdmin) {
		return nil, shared.ErrUnauthorized
	}

	var result *branch.Branch
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		if _, err := r.Branches().FindByCode(ctx, req.Code); err == nil {
			return shared.ErrAlreadyExists
		}
		b := &branch.Branch{
			BaseEntity: shared.NewBaseEntity(),
			Code:       req.Code,
			Name:       req.Name,
			Active:     true,
		}
		if err := r.Branches().Save(ctx, b); err != nil {
			return err
		}
		result = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("branch created", zap.String("code", result.Code), zap.String("actor", actor.Username))
	return result, nil
}

// ListBranches returns branches matching the filter.
func (s *BranchService) ListBranches(ctx context.Context, filter shared.Filter) ([]branch.Branch, error) {
	var result []branch.Branch
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		list, err := r.Branches().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}

// CreateWarehouse registers a warehouse under an existing branch.
func (s *BranchService) CreateWarehouse(ctx context.Context, actor identity.Actor, req CreateWarehouseRequest) (*branch.Warehouse, error) {
	if !actor.Can(identity.CapAdmin) {
		return nil, shared.ErrUnauthorized
	}

	var result *branch.Warehouse
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		if _, err := r.Branches().FindByCode(ctx, req.BranchCode); err != nil {
			return err
		}
		if exists, err := r.Warehouses().ExistsByCode(ctx, req.Code); err != nil {
			return err
		} else if exists {
			return shared.ErrAlreadyExists
		}
		wh, err := branch.NewWarehouse(req.Code, req.Name, req.BranchCode)
		if err != nil {
			return err
		}
		if req.PriceListID != "" {
			id, err := uuid.Parse(req.PriceListID)
			if err != nil {
				return shared.NewDomainError("INVALID_INPUT", "Invalid price list id")
			}
			if _, err := r.PriceLists().FindByID(ctx, id); err != nil {
				return err
			}
			wh.PriceListID = &id
		}
		if err := r.Warehouses().Save(ctx, wh); err != nil {
			return err
		}
		result = wh
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("warehouse created", zap.String("code", result.Code), zap.String("actor", actor.Username))
	return result, nil
}

// UpdateWarehouse changes the mutable fields of a warehouse.
func (s *BranchService) UpdateWarehouse(ctx context.Context, actor identity.Actor, code string, req UpdateWarehouseRequest) (*branch.Warehouse, error) {
	if !actor.Can(identity.CapAdmin) {
		return nil, shared.ErrUnauthorized
	}

	var result *branch.Warehouse
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		wh, err := r.Warehouses().FindByCode(ctx, code)
		if err != nil {
			return err
		}
		if req.Name != nil {
			wh.Name = *req.Name
		}
		if req.PriceListID != nil {
			if *req.PriceListID == "" {
				wh.PriceListID = nil
			} else {
				id, err := uuid.Parse(*req.PriceListID)
				if err != nil {
					return shared.NewDomainError("INVALID_INPUT", "Invalid price list id")
				}
				if _, err := r.PriceLists().FindByID(ctx, id); err != nil {
					return err
				}
				wh.PriceListID = &id
			}
		}
		if req.Active != nil {
			wh.Active = *req.Active
		}
		if err := r.Warehouses().Save(ctx, wh); err != nil {
			return err
		}
		result = wh
		return nil
	})
	return result, err
}

// SetCutoff toggles the posting cutoff on a warehouse by hand. Count
// confirmation clears it automatically; this is the manual override for
// an abandoned count.
func (s *BranchService) SetCutoff(ctx context.Context, actor identity.Actor, code string, on bool) (*branch.Warehouse, error) {
	if !actor.Can(identity.CapManager) {
		return nil, shared.ErrUnauthorized
	}

	var result *branch.Warehouse
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		wh, err := r.Warehouses().FindByCode(ctx, code)
		if err != nil {
			return err
		}
		wh.SetCutoff(on)
		if err := r.Warehouses().Save(ctx, wh); err != nil {
			return err
		}
		result = wh
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("warehouse cutoff set",
		zap.String("code", code), zap.Bool("cutoff", on), zap.String("actor", actor.Username))
	return result, nil
}

// GetWarehouse returns one warehouse by code.
func (s *BranchService) GetWarehouse(ctx context.Context, code string) (*branch.Warehouse, error) {
	var result *branch.Warehouse
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		wh, err := r.Warehouses().FindByCode(ctx, code)
		if err != nil {
			return err
		}
		result = wh
		return nil
	})
	return result, err
}

// ListWarehouses returns warehouses matching the filter.
func (s *BranchService) ListWarehouses(ctx context.Context, filter shared.Filter) ([]branch.Warehouse, error) {
	var result []branch.Warehouse
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		list, err := r.Warehouses().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}
