package posting

import (
	"context"

	"github.com/bakehouse/backend/internal/domain/document"
	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/domain/logistics"
	"github.com/bakehouse/backend/internal/domain/sapb1"
	"github.com/bakehouse/backend/internal/domain/series"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ReceivingLineInput is one received line for manual and SAP-sourced
// receivings. For transfer-sourced receivings the lines are copied from
// the source document instead.
type ReceivingLineInput struct {
	ItemCode      string          `json:"item_code" binding:"required"`
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	UoM           string          `json:"uom"`
	FromWarehouse string          `json:"from_warehouse"`
}

// CreateReceivingRequest posts stock into the actor's warehouse.
type CreateReceivingRequest struct {
	Source    logistics.ReceivingSource `json:"source" binding:"required"`
	SourceRef string                    `json:"source_ref"`
	TransDate string                    `json:"trans_date"`
	Remarks   string                    `json:"remarks"`
	Lines     []ReceivingLineInput      `json:"lines"`
}

// ReceivingService posts and voids receiving documents.
type ReceivingService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewReceivingService creates a ReceivingService.
func NewReceivingService(scope TransactionScope, logger *zap.Logger) *ReceivingService {
	return &ReceivingService{scope: scope, logger: logger}
}

// Create posts a receiving. Transfer-sourced receivings copy the source
// lines and close the transfer; SAP-sourced receivings write the actual
// received quantity back to the mirror and close it when fully
// received.
func (s *ReceivingService) Create(ctx context.Context, actor identity.Actor, req CreateReceivingRequest) (*logistics.Receiving, error) {
	if !actor.Can(identity.CapReceive) {
		return nil, shared.ErrUnauthorized
	}
	if !req.Source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Unknown receiving source")
	}
	if req.Source != logistics.SourceManual && req.SourceRef == "" {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Source reference is required")
	}
	if req.Source == logistics.SourceManual && len(req.Lines) == 0 {
		return nil, shared.ErrInvalidInput
	}

	var result *logistics.Receiving
	err := s.scope.Execute(ctx, func(r Repos) error {
		if _, err := mutableWarehouse(ctx, r, actor.WarehouseCode); err != nil {
			return err
		}

		alloc, err := allocate(ctx, r, actor.WarehouseCode, series.ObjectReceiving)
		if err != nil {
			return err
		}

		transDate, err := parseTransDate(req.TransDate)
		if err != nil {
			return err
		}
		rcv := &logistics.Receiving{
			Header:        document.NewHeader(alloc.SeriesCode, alloc.Number, alloc.Reference, transDate, actor.Username),
			WarehouseCode: actor.WarehouseCode,
			Source:        req.Source,
			SourceRef:     req.SourceRef,
		}
		rcv.Remarks = req.Remarks

		switch req.Source {
		case logistics.SourceManual:
			if err := s.receiveManual(ctx, r, rcv, alloc, actor, req.Lines); err != nil {
				return err
			}
		case logistics.SourceTransfer:
			if err := s.receiveFromTransfer(ctx, r, rcv, alloc, actor); err != nil {
				return err
			}
		case logistics.SourceSapTransfer, logistics.SourceSapPurchase:
			if err := s.receiveFromSap(ctx, r, rcv, alloc, actor, req); err != nil {
				return err
			}
		}

		if len(rcv.Lines) == 0 {
			return shared.NewDomainError("EMPTY_DOCUMENT", "Receiving has no lines for this warehouse")
		}
		if err := r.Receivings().Save(ctx, rcv); err != nil {
			return err
		}
		result = rcv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("receiving posted",
		zap.String("reference", result.Reference),
		zap.String("source", string(result.Source)),
		zap.String("warehouse", result.WarehouseCode),
		zap.String("actor", actor.Username))
	return result, nil
}

func (s *ReceivingService) receiveManual(ctx context.Context, r Repos, rcv *logistics.Receiving, alloc series.Allocation, actor identity.Actor, lines []ReceivingLineInput) error {
	for _, in := range lines {
		if err := validateLineRefs(ctx, r, in.ItemCode, in.UoM); err != nil {
			return err
		}
		line, err := logistics.NewReceivingLine(rcv.ID, in.ItemCode, in.Quantity, in.UoM, in.FromWarehouse)
		if err != nil {
			return err
		}
		rcv.Lines = append(rcv.Lines, *line)

		if _, err := postIn(ctx, r, movement{
			Alloc:      alloc,
			TransID:    rcv.ID,
			ObjectCode: series.ObjectReceiving,
			ItemCode:   in.ItemCode,
			UoM:        in.UoM,
			Warehouse:  rcv.WarehouseCode,
			Warehouse2: in.FromWarehouse,
			Quantity:   in.Quantity,
			Actor:      actor.Username,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *ReceivingService) receiveFromTransfer(ctx context.Context, r Repos, rcv *logistics.Receiving, alloc series.Allocation, actor identity.Actor) error {
	transfer, err := r.Transfers().FindByReference(ctx, rcv.SourceRef)
	if err != nil {
		return err
	}
	if !transfer.IsOpen() {
		return shared.ErrInvalidState
	}
	consumed, err := r.Receivings().HasActiveForSource(ctx, transfer.Reference)
	if err != nil {
		return err
	}
	if consumed {
		return shared.ErrDependentDocument
	}

	for _, src := range transfer.Lines {
		if src.Status != document.LineActive || src.ToWarehouse != rcv.WarehouseCode {
			continue
		}
		line, err := logistics.NewReceivingLine(rcv.ID, src.ItemCode, src.Quantity, src.UoM, transfer.FromWarehouse)
		if err != nil {
			return err
		}
		rcv.Lines = append(rcv.Lines, *line)

		if _, err := postIn(ctx, r, movement{
			Alloc:      alloc,
			TransID:    rcv.ID,
			ObjectCode: series.ObjectReceiving,
			ItemCode:   src.ItemCode,
			UoM:        src.UoM,
			Warehouse:  rcv.WarehouseCode,
			Warehouse2: transfer.FromWarehouse,
			Quantity:   src.Quantity,
			Actor:      actor.Username,
		}); err != nil {
			return err
		}
	}
	if len(rcv.Lines) == 0 {
		return nil
	}

	if err := transfer.Close(actor.Username); err != nil {
		return err
	}
	return r.Transfers().Save(ctx, transfer)
}

func (s *ReceivingService) receiveFromSap(ctx context.Context, r Repos, rcv *logistics.Receiving, alloc series.Allocation, actor identity.Actor, req CreateReceivingRequest) error {
	if len(req.Lines) == 0 {
		return shared.ErrInvalidInput
	}

	switch req.Source {
	case logistics.SourceSapTransfer:
		mirror, err := r.SapTransfers().FindByDocNum(ctx, req.SourceRef)
		if err != nil {
			return err
		}
		if mirror.Status != sapb1.MirrorOpen {
			return shared.ErrInvalidState
		}
		if mirror.ToWarehouse != rcv.WarehouseCode {
			return shared.NewDomainError("INVALID_REFERENCE", "SAP document is not addressed to this warehouse")
		}
		for _, in := range req.Lines {
			row := findTransferRow(mirror, in.ItemCode)
			if row == nil {
				return shared.NewDomainError("INVALID_REFERENCE", "Item "+in.ItemCode+" is not on the SAP document")
			}
			if err := row.Receive(in.Quantity); err != nil {
				return err
			}
			if err := s.postSapLine(ctx, r, rcv, alloc, actor, in, mirror.FromWarehouse, row.UoM); err != nil {
				return err
			}
		}
		if mirror.FullyReceived() {
			mirror.Status = sapb1.MirrorClosed
		}
		return r.SapTransfers().Save(ctx, mirror)

	default: // logistics.SourceSapPurchase
		mirror, err := r.SapPurchases().FindByDocNum(ctx, req.SourceRef)
		if err != nil {
			return err
		}
		if mirror.Status != sapb1.MirrorOpen {
			return shared.ErrInvalidState
		}
		if mirror.ToWarehouse != rcv.WarehouseCode {
			return shared.NewDomainError("INVALID_REFERENCE", "SAP document is not addressed to this warehouse")
		}
		for _, in := range req.Lines {
			row := findPurchaseRow(mirror, in.ItemCode)
			if row == nil {
				return shared.NewDomainError("INVALID_REFERENCE", "Item "+in.ItemCode+" is not on the SAP document")
			}
			if err := row.Receive(in.Quantity); err != nil {
				return err
			}
			if err := s.postSapLine(ctx, r, rcv, alloc, actor, in, "", row.UoM); err != nil {
				return err
			}
		}
		if mirror.FullyReceived() {
			mirror.Status = sapb1.MirrorClosed
		}
		return r.SapPurchases().Save(ctx, mirror)
	}
}

func (s *ReceivingService) postSapLine(ctx context.Context, r Repos, rcv *logistics.Receiving, alloc series.Allocation, actor identity.Actor, in ReceivingLineInput, fromWarehouse, uom string) error {
	line, err := logistics.NewReceivingLine(rcv.ID, in.ItemCode, in.Quantity, uom, fromWarehouse)
	if err != nil {
		return err
	}
	rcv.Lines = append(rcv.Lines, *line)

	_, err = postIn(ctx, r, movement{
		Alloc:      alloc,
		TransID:    rcv.ID,
		ObjectCode: series.ObjectReceiving,
		ItemCode:   in.ItemCode,
		UoM:        uom,
		Warehouse:  rcv.WarehouseCode,
		Warehouse2: fromWarehouse,
		Quantity:   in.Quantity,
		Actor:      actor.Username,
	})
	return err
}

func findTransferRow(h *sapb1.TransferHeader, itemCode string) *sapb1.TransferRow {
	for i := range h.Rows {
		if h.Rows[i].ItemCode == itemCode {
			return &h.Rows[i]
		}
	}
	return nil
}

func findPurchaseRow(h *sapb1.PurchaseHeader, itemCode string) *sapb1.PurchaseRow {
	for i := range h.Rows {
		if h.Rows[i].ItemCode == itemCode {
			return &h.Rows[i]
		}
	}
	return nil
}

// Cancel voids a receiving, reversing its in-movements. A receiving
// sourced from a transfer reopens the transfer so it can be received
// again.
func (s *ReceivingService) Cancel(ctx context.Context, actor identity.Actor, id uuid.UUID) (*logistics.Receiving, error) {
	if !actor.Can(identity.CapVoid) {
		return nil, shared.ErrUnauthorized
	}

	var result *logistics.Receiving
	err := s.scope.Execute(ctx, func(r Repos) error {
		rcv, err := r.Receivings().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := rcv.Cancel(actor.Username, true); err != nil {
			return err
		}
		for i := range rcv.Lines {
			rcv.Lines[i].Status = document.LineCanceled
		}
		if err := reverseMovements(ctx, r, rcv.ID, actor.Username); err != nil {
			return err
		}
		if rcv.Source == logistics.SourceTransfer {
			transfer, err := r.Transfers().FindByReference(ctx, rcv.SourceRef)
			if err != nil {
				return err
			}
			if transfer.Status == document.StatusClosed {
				transfer.Status = document.StatusOpen
				transfer.Touch(actor.Username)
				if err := r.Transfers().Save(ctx, transfer); err != nil {
					return err
				}
			}
		}
		if err := r.Receivings().Save(ctx, rcv); err != nil {
			return err
		}
		result = rcv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("receiving voided",
		zap.String("reference", result.Reference),
		zap.String("actor", actor.Username))
	return result, nil
}

// StampSapNumber records the SAP document number on a posted receiving.
func (s *ReceivingService) StampSapNumber(ctx context.Context, actor identity.Actor, id uuid.UUID, sapNumber string) (*logistics.Receiving, error) {
	if !actor.Can(identity.CapAddSap) {
		return nil, shared.ErrUnauthorized
	}

	var result *logistics.Receiving
	err := s.scope.Execute(ctx, func(r Repos) error {
		rcv, err := r.Receivings().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if rcv.Status == document.StatusCanceled {
			return shared.ErrAlreadyCanceled
		}
		rcv.SapNumber = sapNumber
		if err := r.Receivings().Save(ctx, rcv); err != nil {
			return err
		}
		result = rcv
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

// Get returns one receiving with its lines.
func (s *ReceivingService) Get(ctx context.Context, id uuid.UUID) (*logistics.Receiving, error) {
	var result *logistics.Receiving
	err := s.scope.Execute(ctx, func(r Repos) error {
		rcv, err := r.Receivings().FindByID(ctx, id)
		if err != nil {
			return err
		}
		result = rcv
		return nil
	})
	return result, err
}

// List returns receivings matching the filter.
func (s *ReceivingService) List(ctx context.Context, filter shared.Filter) ([]logistics.Receiving, error) {
	var result []logistics.Receiving
	err := s.scope.Execute(ctx, func(r Repos) error {
		list, err := r.Receivings().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}
