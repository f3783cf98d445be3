package masterdata

import (
	"context"
	"errors"

	"github.com/bakehouse/backend/internal/application/posting"
	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/domain/sapb1"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SapRowInput is one ordered line on a mirrored document.
type SapRowInput struct {
	ItemCode string          `json:"item_code" binding:"required"`
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
	UoM      string          `json:"uom"`
}

// RegisterSapTransferRequest mirrors one SAP inventory transfer.
type RegisterSapTransferRequest struct {
	DocNum        string        `json:"doc_num" binding:"required,max=32"`
	FromWarehouse string        `json:"from_warehouse" binding:"required,max=16"`
	ToWarehouse   string        `json:"to_warehouse" binding:"required,max=16"`
	Rows          []SapRowInput `json:"rows" binding:"required,min=1,dive"`
}

// RegisterSapPurchaseRequest mirrors one SAP purchase order.
type RegisterSapPurchaseRequest struct {
	DocNum      string        `json:"doc_num" binding:"required,max=32"`
	Vendor      string        `json:"vendor" binding:"max=64"`
	ToWarehouse string        `json:"to_warehouse" binding:"required,max=16"`
	Rows        []SapRowInput `json:"rows" binding:"required,min=1,dive"`
}

// SapMirrorService registers local mirrors of upstream SAP documents
// so receivings can draw against them. Mirrors never move stock by
// themselves.
type SapMirrorService struct {
	scope  posting.TransactionScope
	logger *zap.Logger
}

// NewSapMirrorService creates a SapMirrorService.
func NewSapMirrorService(scope posting.TransactionScope, logger *zap.Logger) *SapMirrorService {
	return &SapMirrorService{scope: scope, logger: logger}
}

// RegisterTransfer mirrors a SAP IT document. DocNum is the upstream
// key; re-registering it is rejected.
func (s *SapMirrorService) RegisterTransfer(ctx context.Context, actor identity.Actor, req RegisterSapTransferRequest) (*sapb1.TransferHeader, error) {
	if !actor.Can(identity.CapAddSap) {
		return nil, shared.ErrUnauthorized
	}

	var result *sapb1.TransferHeader
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		if _, err := r.SapTransfers().FindByDocNum(ctx, req.DocNum); err == nil {
			return shared.ErrAlreadyExists
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		h := &sapb1.TransferHeader{
			BaseEntity:    shared.NewBaseEntity(),
			DocNum:        req.DocNum,
			FromWarehouse: req.FromWarehouse,
			ToWarehouse:   req.ToWarehouse,
			Status:        sapb1.MirrorOpen,
		}
		for _, in := range req.Rows {
			if in.Quantity.LessThanOrEqual(decimal.Zero) {
				return shared.NewDomainError("INVALID_QUANTITY", "Row quantity must be positive")
			}
			h.Rows = append(h.Rows, sapb1.TransferRow{
				BaseEntity: shared.NewBaseEntity(),
				HeaderID:   h.ID,
				ItemCode:   in.ItemCode,
				UoM:        in.UoM,
				Quantity:   in.Quantity,
			})
		}
		if err := r.SapTransfers().Save(ctx, h); err != nil {
			return err
		}
		result = h
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sap transfer mirrored",
		zap.String("doc_num", result.DocNum),
		zap.String("to_warehouse", result.ToWarehouse),
		zap.String("actor", actor.Username))
	return result, nil
}

// RegisterPurchase mirrors a SAP PO document.
func (s *SapMirrorService) RegisterPurchase(ctx context.Context, actor identity.Actor, req RegisterSapPurchaseRequest) (*sapb1.PurchaseHeader, error) {
	if !actor.Can(identity.CapAddSap) {
		return nil, shared.ErrUnauthorized
	}

	var result *sapb1.PurchaseHeader
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		if _, err := r.SapPurchases().FindByDocNum(ctx, req.DocNum); err == nil {
			return shared.ErrAlreadyExists
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}

		h := &sapb1.PurchaseHeader{
			BaseEntity:  shared.NewBaseEntity(),
			DocNum:      req.DocNum,
			Vendor:      req.Vendor,
			ToWarehouse: req.ToWarehouse,
			Status:      sapb1.MirrorOpen,
		}
		for _, in := range req.Rows {
			if in.Quantity.LessThanOrEqual(decimal.Zero) {
				return shared.NewDomainError("INVALID_QUANTITY", "Row quantity must be positive")
			}
			h.Rows = append(h.Rows, sapb1.PurchaseRow{
				BaseEntity: shared.NewBaseEntity(),
				HeaderID:   h.ID,
				ItemCode:   in.ItemCode,
				UoM:        in.UoM,
				Quantity:   in.Quantity,
			})
		}
		if err := r.SapPurchases().Save(ctx, h); err != nil {
			return err
		}
		result = h
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sap purchase mirrored",
		zap.String("doc_num", result.DocNum),
		zap.String("to_warehouse", result.ToWarehouse),
		zap.String("actor", actor.Username))
	return result, nil
}

// ListTransfers returns mirrored SAP IT documents.
func (s *SapMirrorService) ListTransfers(ctx context.Context, filter shared.Filter) ([]sapb1.TransferHeader, error) {
	var result []sapb1.TransferHeader
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		list, err := r.SapTransfers().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}

// ListPurchases returns mirrored SAP PO documents.
func (s *SapMirrorService) ListPurchases(ctx context.Context, filter shared.Filter) ([]sapb1.PurchaseHeader, error) {
	var result []sapb1.PurchaseHeader
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		list, err := r.SapPurchases().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}
