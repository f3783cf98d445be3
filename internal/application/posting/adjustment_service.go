package posting

import (
	"context"

	"github.com/bakehouse/backend/internal/domain/adjustment"
	"github.com/bakehouse/backend/internal/domain/document"
	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AdjustmentLineInput is one corrected item quantity.
type AdjustmentLineInput struct {
	ItemCode string          `json:"item_code" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	UoM      string          `json:"uom" binding:"required"`
}

// CreateAdjustmentRequest corrects stock at the actor's warehouse.
type CreateAdjustmentRequest struct {
	Direction adjustment.Direction  `json:"direction" binding:"required"`
	Reason    string                `json:"reason"`
	TransDate string                `json:"trans_date"`
	Remarks   string                `json:"remarks"`
	Lines     []AdjustmentLineInput `json:"lines" binding:"required,min=1,dive"`
}

// AdjustmentService posts and voids stock adjustments.
type AdjustmentService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewAdjustmentService creates an AdjustmentService.
func NewAdjustmentService(scope TransactionScope, logger *zap.Logger) *AdjustmentService {
	return &AdjustmentService{scope: scope, logger: logger}
}

// Create posts an adjustment in the requested direction. Manager or
// admin only.
func (s *AdjustmentService) Create(ctx context.Context, actor identity.Actor, req CreateAdjustmentRequest) (*adjustment.Adjustment, error) {
	if !actor.Can(identity.CapManager) {
		return nil, shared.ErrUnauthorized
	}
	objectCode, err := req.Direction.ObjectCode()
	if err != nil {
		return nil, err
	}
	if len(req.Lines) == 0 {
		return nil, shared.ErrInvalidInput
	}

	var result *adjustment.Adjustment
	err = s.scope.Execute(ctx, func(r Repos) error {
		if _, err := mutableWarehouse(ctx, r, actor.WarehouseCode); err != nil {
			return err
		}

		alloc, err := allocate(ctx, r, actor.WarehouseCode, objectCode)
		if err != nil {
			return err
		}

		transDate, err := parseTransDate(req.TransDate)
		if err != nil {
			return err
		}
		adj := &adjustment.Adjustment{
			Header:        document.NewHeader(alloc.SeriesCode, alloc.Number, alloc.Reference, transDate, actor.Username),
			WarehouseCode: actor.WarehouseCode,
			Direction:     req.Direction,
			Reason:        req.Reason,
		}
		adj.Remarks = req.Remarks

		for _, in := range req.Lines {
			if err := validateLineRefs(ctx, r, in.ItemCode, in.UoM); err != nil {
				return err
			}
			line, err := adjustment.NewAdjustmentLine(adj.ID, in.ItemCode, in.Quantity, in.UoM)
			if err != nil {
				return err
			}
			adj.Lines = append(adj.Lines, *line)

			m := movement{
				Alloc:      alloc,
				TransID:    adj.ID,
				ObjectCode: objectCode,
				ItemCode:   in.ItemCode,
				UoM:        in.UoM,
				Warehouse:  actor.WarehouseCode,
				Quantity:   in.Quantity,
				Remarks:    req.Reason,
				Actor:      actor.Username,
			}
			if req.Direction == adjustment.DirectionIn {
				_, err = postIn(ctx, r, m)
			} else {
				_, err = postOut(ctx, r, m)
			}
			if err != nil {
				return err
			}
		}

		if err := r.Adjustments().Save(ctx, adj); err != nil {
			return err
		}
		result = adj
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("adjustment posted",
		zap.String("reference", result.Reference),
		zap.String("direction", string(result.Direction)),
		zap.String("actor", actor.Username))
	return result, nil
}

// Cancel voids an adjustment via compensating movements.
func (s *AdjustmentService) Cancel(ctx context.Context, actor identity.Actor, id uuid.UUID) (*adjustment.Adjustment, error) {
	if !actor.Can(identity.CapVoid) {
		return nil, shared.ErrUnauthorized
	}

	var result *adjustment.Adjustment
	err := s.scope.Execute(ctx, func(r Repos) error {
		adj, err := r.Adjustments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := adj.Cancel(actor.Username, false); err != nil {
			return err
		}
		for i := range adj.Lines {
			adj.Lines[i].Status = document.LineCanceled
		}
		if err := reverseMovements(ctx, r, adj.ID, actor.Username); err != nil {
			return err
		}
		if err := r.Adjustments().Save(ctx, adj); err != nil {
			return err
		}
		result = adj
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("adjustment voided",
		zap.String("reference", result.Reference),
		zap.String("actor", actor.Username))
	return result, nil
}

// Get returns one adjustment with its lines.
func (s *AdjustmentService) Get(ctx context.Context, id uuid.UUID) (*adjustment.Adjustment, error) {
	var result *adjustment.Adjustment
	err := s.scope.Execute(ctx, func(r Repos) error {
		adj, err := r.Adjustments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		result = adj
		return nil
	})
	return result, err
}

// List returns adjustments matching the filter.
func (s *AdjustmentService) List(ctx context.Context, filter shared.Filter) ([]adjustment.Adjustment, error) {
	var result []adjustment.Adjustment
	err := s.scope.Execute(ctx, func(r Repos) error {
		list, err := r.Adjustments().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}
