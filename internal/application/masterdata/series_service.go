package masterdata

import (
	"context"
	"errors"

	"github.com/bakehouse/backend/internal/application/posting"
	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/domain/series"
	"github.com/bakehouse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CreateSeriesRequest carries a new numbering range.
type CreateSeriesRequest struct {
	Code          string `json:"code" binding:"required,max=16"`
	Name          string `json:"name" binding:"max=64"`
	WarehouseCode string `json:"warehouse_code" binding:"required,max=16"`
	ObjectCode    string `json:"object_code" binding:"required,max=8"`
	StartNum      int    `json:"start_num" binding:"min=0"`
	EndNum        int    `json:"end_num" binding:"required,min=1"`
}

// ExtendSeriesRequest raises the upper bound of a range.
type ExtendSeriesRequest struct {
	EndNum int `json:"end_num" binding:"required,min=1"`
}

// SeriesService administers object types and numbering series.
type SeriesService struct {
	scope  posting.TransactionScope
	logger *zap.Logger
}

// NewSeriesService creates a SeriesService.
func NewSeriesService(scope posting.TransactionScope, logger *zap.Logger) *SeriesService {
	return &SeriesService{scope: scope, logger: logger}
}

// ListObjectTypes returns the document family catalog.
func (s *SeriesService) ListObjectTypes(ctx context.Context) ([]series.ObjectType, error) {
	var result []series.ObjectType
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		list, err := r.ObjectTypes().FindAll(ctx)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}

// Create registers a numbering range for a (warehouse, object type)
// pair. Each pair holds at most one series.
func (s *SeriesService) Create(ctx context.Context, actor identity.Actor, req CreateSeriesRequest) (*series.Series, error) {
	if !actor.Can(identity.CapAdmin) {
		return nil, shared.ErrUnauthorized
	}

	var result *series.Series
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		objCode := series.ObjectCode(req.ObjectCode)
		if _, err := r.ObjectTypes().FindByCode(ctx, objCode); err != nil {
			return err
		}
		if exists, err := r.Warehouses().ExistsByCode(ctx, req.WarehouseCode); err != nil {
			return err
		} else if !exists {
			return shared.ErrNotFound
		}
		if _, err := r.Series().FindForWarehouse(ctx, req.WarehouseCode, objCode); err == nil {
			return shared.ErrAlreadyExists
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		sr, err := series.NewSeries(req.Code, req.Name, req.WarehouseCode, objCode, req.StartNum, req.EndNum)
		if err != nil {
			return err
		}
		if err := r.Series().Save(ctx, sr); err != nil {
			return err
		}
		result = sr
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("series created",
		zap.String("code", result.Code),
		zap.String("warehouse", result.WarehouseCode),
		zap.String("object", string(result.ObjectCode)),
		zap.String("actor", actor.Username))
	return result, nil
}

// Extend raises the upper bound of an exhausted or near-exhausted
// range. The bound only ever moves up; consumed numbers stay consumed.
func (s *SeriesService) Extend(ctx context.Context, actor identity.Actor, warehouseCode, objectCode string, req ExtendSeriesRequest) (*series.Series, error) {
	if !actor.Can(identity.CapAdmin) {
		return nil, shared.ErrUnauthorized
	}

	var result *series.Series
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		sr, err := r.Series().FindForWarehouseLocked(ctx, warehouseCode, series.ObjectCode(objectCode))
		if err != nil {
			return err
		}
		if req.EndNum <= sr.EndNum {
			return shared.NewDomainError("INVALID_SERIES_RANGE", "New end must exceed the current end")
		}
		sr.EndNum = req.EndNum
		if err := r.Series().Save(ctx, sr); err != nil {
			return err
		}
		result = sr
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("series extended",
		zap.String("code", result.Code), zap.Int("end_num", result.EndNum), zap.String("actor", actor.Username))
	return result, nil
}

// List returns series matching the filter.
func (s *SeriesService) List(ctx context.Context, filter shared.Filter) ([]series.Series, error) {
	var result []series.Series
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		list, err := r.Series().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}
