package posting

import (
	"context"

	"github.com/bakehouse/backend/internal/domain/document"
	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/domain/logistics"
	"github.com/bakehouse/backend/internal/domain/series"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// TransferLineInput is one requested transfer line.
type TransferLineInput struct {
	ItemCode    string          `json:"item_code" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UoM         string          `json:"uom" binding:"required"`
	ToWarehouse string          `json:"to_warehouse" binding:"required"`
}

// CreateTransferRequest creates a transfer out of the actor's warehouse.
type CreateTransferRequest struct {
	TransDate string              `json:"trans_date"`
	Remarks   string              `json:"remarks"`
	Lines     []TransferLineInput `json:"lines" binding:"required,min=1,dive"`
}

// TransferService posts and voids transfer documents.
type TransferService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewTransferService creates a TransferService.
func NewTransferService(scope TransactionScope, logger *zap.Logger) *TransferService {
	return &TransferService{scope: scope, logger: logger}
}

// Create posts a transfer: one out-movement at the source warehouse per
// line. The matching in-movement is posted by the receiving side.
func (s *TransferService) Create(ctx context.Context, actor identity.Actor, req CreateTransferRequest) (*logistics.Transfer, error) {
	if !actor.Can(identity.CapTransfer) {
		return nil, shared.ErrUnauthorized
	}
	if len(req.Lines) == 0 {
		return nil, shared.ErrInvalidInput
	}

	var result *logistics.Transfer
	err := s.scope.Execute(ctx, func(r Repos) error {
		if _, err := mutableWarehouse(ctx, r, actor.WarehouseCode); err != nil {
			return err
		}

		alloc, err := allocate(ctx, r, actor.WarehouseCode, series.ObjectItemRequest)
		if err != nil {
			return err
		}

		transDate, err := parseTransDate(req.TransDate)
		if err != nil {
			return err
		}
		transfer := &logistics.Transfer{
			Header:        document.NewHeader(alloc.SeriesCode, alloc.Number, alloc.Reference, transDate, actor.Username),
			FromWarehouse: actor.WarehouseCode,
		}
		transfer.Remarks = req.Remarks

		for _, in := range req.Lines {
			if err := validateLineRefs(ctx, r, in.ItemCode, in.UoM); err != nil {
				return err
			}
			if ok, err := r.Warehouses().ExistsByCode(ctx, in.ToWarehouse); err != nil {
				return err
			} else if !ok {
				return shared.NewDomainError("INVALID_REFERENCE", "Unknown warehouse "+in.ToWarehouse)
			}
			line, err := logistics.NewTransferLine(transfer.ID, in.ItemCode, in.Quantity, in.UoM, in.ToWarehouse)
			if err != nil {
				return err
			}
			transfer.Lines = append(transfer.Lines, *line)

			if _, err := postOut(ctx, r, movement{
				Alloc:      alloc,
				TransID:    transfer.ID,
				ObjectCode: series.ObjectItemRequest,
				ItemCode:   in.ItemCode,
				UoM:        in.UoM,
				Warehouse:  actor.WarehouseCode,
				Warehouse2: in.ToWarehouse,
				Quantity:   in.Quantity,
				Actor:      actor.Username,
			}); err != nil {
				return err
			}
		}

		if err := r.Transfers().Save(ctx, transfer); err != nil {
			return err
		}
		result = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transfer posted",
		zap.String("reference", result.Reference),
		zap.String("warehouse", result.FromWarehouse),
		zap.String("actor", actor.Username))
	return result, nil
}

// Cancel voids a transfer. A transfer already consumed by a
// non-canceled receiving cannot be canceled.
func (s *TransferService) Cancel(ctx context.Context, actor identity.Actor, id uuid.UUID) (*logistics.Transfer, error) {
	if !actor.Can(identity.CapVoid) {
		return nil, shared.ErrUnauthorized
	}

	var result *logistics.Transfer
	err := s.scope.Execute(ctx, func(r Repos) error {
		transfer, err := r.Transfers().FindByID(ctx, id)
		if err != nil {
			return err
		}
		consumed, err := r.Receivings().HasActiveForSource(ctx, transfer.Reference)
		if err != nil {
			return err
		}
		if consumed {
			return shared.ErrDependentDocument
		}
		if err := transfer.Cancel(actor.Username, true); err != nil {
			return err
		}
		for i := range transfer.Lines {
			transfer.Lines[i].Status = document.LineCanceled
		}
		if err := reverseMovements(ctx, r, transfer.ID, actor.Username); err != nil {
			return err
		}
		if err := r.Transfers().Save(ctx, transfer); err != nil {
			return err
		}
		result = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transfer voided",
		zap.String("reference", result.Reference),
		zap.String("actor", actor.Username))
	return result, nil
}

// StampSapNumber records the SAP document number on a posted transfer.
func (s *TransferService) StampSapNumber(ctx context.Context, actor identity.Actor, id uuid.UUID, sapNumber string) (*logistics.Transfer, error) {
	if !actor.Can(identity.CapAddSap) {
		return nil, shared.ErrUnauthorized
	}

	var result *logistics.Transfer
	err := s.scope.Execute(ctx, func(r Repos) error {
		transfer, err := r.Transfers().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if transfer.Status == document.StatusCanceled {
			return shared.ErrAlreadyCanceled
		}
		transfer.SapNumber = sapNumber
		if err := r.Transfers().Save(ctx, transfer); err != nil {
			return err
		}
		result = transfer
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sap number stamped",
		zap.String("reference", result.Reference),
		zap.String("sap_number", sapNumber),
		zap.String("actor", actor.Username))
	return result, nil
}

// Get returns one transfer with its lines.
func (s *TransferService) Get(ctx context.Context, id uuid.UUID) (*logistics.Transfer, error) {
	var result *logistics.Transfer
	err := s.scope.Execute(ctx, func(r Repos) error {
		t, err := r.Transfers().FindByID(ctx, id)
		if err != nil {
			return err
		}
		result = t
		return nil
	})
	return result, err
}

// List returns transfers matching the filter.
func (s *TransferService) List(ctx context.Context, filter shared.Filter) ([]logistics.Transfer, error) {
	var result []logistics.Transfer
	err := s.scope.Execute(ctx, func(r Repos) error {
		list, err := r.Transfers().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}
