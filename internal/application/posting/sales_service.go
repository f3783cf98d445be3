package posting

import (
	"context"

	"github.com/bakehouse/backend/internal/domain/document"
	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/domain/series"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/bakehouse/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SalesLineInput is one sold line. UnitPrice is optional; when absent
// the warehouse price list supplies it.
type SalesLineInput struct {
	ItemCode   string           `json:"item_code" binding:"required"`
	Quantity   decimal.Decimal  `json:"quantity" binding:"required"`
	UoM        string           `json:"uom"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
	IsFree     bool             `json:"is_free"`
	DiscAmount decimal.Decimal  `json:"disc_amount"`
}

// CreateSalesRequest posts a sale out of the actor's warehouse.
type CreateSalesRequest struct {
	CustomerCode string           `json:"customer_code" binding:"required"`
	TransDate    string           `json:"trans_date"`
	DiscPrcnt    decimal.Decimal  `json:"disc_prcnt"`
	DeliveryFee  decimal.Decimal  `json:"delivery_fee"`
	GCAmount     decimal.Decimal  `json:"gc_amount"`
	Tendered     *decimal.Decimal `json:"tendered"`
	Remarks      string           `json:"remarks"`
	Lines        []SalesLineInput `json:"lines" binding:"required,min=1,dive"`
}

// SalesService posts and voids sales documents.
type SalesService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewSalesService creates a SalesService.
func NewSalesService(scope TransactionScope, logger *zap.Logger) *SalesService {
	return &SalesService{scope: scope, logger: logger}
}

// Create posts a sale: prices the lines, computes the totals, posts one
// out-movement per line and charges the customer balance with the
// amount due, all in one transaction.
func (s *SalesService) Create(ctx context.Context, actor identity.Actor, req CreateSalesRequest) (*trade.Sales, error) {
	if !actor.Can(identity.CapSales) && !actor.Can(identity.CapCashier) {
		return nil, shared.ErrUnauthorized
	}
	if req.DiscPrcnt.IsPositive() && !actor.Can(identity.CapDiscount) {
		return nil, shared.ErrUnauthorized
	}
	if len(req.Lines) == 0 {
		return nil, shared.ErrInvalidInput
	}

	var result *trade.Sales
	err := s.scope.Execute(ctx, func(r Repos) error {
		wh, err := mutableWarehouse(ctx, r, actor.WarehouseCode)
		if err != nil {
			return err
		}

		customer, err := r.Customers().FindByCodeLocked(ctx, req.CustomerCode)
		if err != nil {
			return err
		}

		alloc, err := allocate(ctx, r, actor.WarehouseCode, series.ObjectSales)
		if err != nil {
			return err
		}

		transDate, err := parseTransDate(req.TransDate)
		if err != nil {
			return err
		}
		sale := &trade.Sales{
			Header:        document.NewHeader(alloc.SeriesCode, alloc.Number, alloc.Reference, transDate, actor.Username),
			WarehouseCode: actor.WarehouseCode,
			CustomerCode:  customer.Code,
			DiscPrcnt:     req.DiscPrcnt,
			DeliveryFee:   req.DeliveryFee,
			GCAmount:      req.GCAmount,
		}
		sale.Remarks = req.Remarks

		for _, in := range req.Lines {
			if err := validateLineRefs(ctx, r, in.ItemCode, in.UoM); err != nil {
				return err
			}
			price, err := s.resolvePrice(ctx, r, wh.PriceListID, in)
			if err != nil {
				return err
			}
			line, err := trade.NewSalesLine(sale.ID, in.ItemCode, in.Quantity, in.UoM, price, in.IsFree, in.DiscAmount)
			if err != nil {
				return err
			}
			sale.Lines = append(sale.Lines, *line)

			if _, err := postOut(ctx, r, movement{
				Alloc:      alloc,
				TransID:    sale.ID,
				ObjectCode: series.ObjectSales,
				ItemCode:   in.ItemCode,
				UoM:        in.UoM,
				Warehouse:  actor.WarehouseCode,
				Quantity:   in.Quantity,
				Actor:      actor.Username,
			}); err != nil {
				return err
			}
		}

		if err := sale.ComputeTotals(); err != nil {
			return err
		}
		if req.Tendered != nil {
			if err := sale.SetTender(*req.Tendered); err != nil {
				return err
			}
		}

		customer.AddCharge(sale.AmountDue)
		if err := r.Customers().Save(ctx, customer); err != nil {
			return err
		}
		if err := r.Sales().Save(ctx, sale); err != nil {
			return err
		}
		result = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale posted",
		zap.String("reference", result.Reference),
		zap.String("customer", result.CustomerCode),
		zap.String("doctotal", result.DocTotal.String()),
		zap.String("actor", actor.Username))
	return result, nil
}

func (s *SalesService) resolvePrice(ctx context.Context, r Repos, priceListID *uuid.UUID, in SalesLineInput) (decimal.Decimal, error) {
	if in.IsFree {
		return decimal.Zero, nil
	}
	if in.UnitPrice != nil {
		return *in.UnitPrice, nil
	}
	if priceListID == nil {
		return decimal.Zero, shared.NewDomainError("NO_PRICE", "No price given and the warehouse has no price list")
	}
	return r.PriceLists().PriceFor(ctx, *priceListID, in.ItemCode)
}

// Cancel voids a sale: every line's quantity returns to the warehouse
// through compensating ledger entries and the customer balance drops by
// the amount due.
func (s *SalesService) Cancel(ctx context.Context, actor identity.Actor, id uuid.UUID) (*trade.Sales, error) {
	if !actor.Can(identity.CapVoid) {
		return nil, shared.ErrUnauthorized
	}

	var result *trade.Sales
	err := s.scope.Execute(ctx, func(r Repos) error {
		sale, err := r.Sales().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if sale.AppliedAmt.IsPositive() {
			return shared.ErrDependentDocument
		}
		if err := sale.Cancel(actor.Username, false); err != nil {
			return err
		}
		for i := range sale.Lines {
			sale.Lines[i].Status = document.LineCanceled
		}
		if err := reverseMovements(ctx, r, sale.ID, actor.Username); err != nil {
			return err
		}

		customer, err := r.Customers().FindByCodeLocked(ctx, sale.CustomerCode)
		if err != nil {
			return err
		}
		customer.ApplyPayment(sale.AmountDue)
		if err := r.Customers().Save(ctx, customer); err != nil {
			return err
		}

		sale.AmountDue = decimal.Zero
		if err := r.Sales().Save(ctx, sale); err != nil {
			return err
		}
		result = sale
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("sale voided",
		zap.String("reference", result.Reference),
		zap.String("actor", actor.Username))
	return result, nil
}

// StampSapNumber records the SAP document number on a posted sale.
func (s *SalesService) StampSapNumber(ctx context.Context, actor identity.Actor, id uuid.UUID, sapNumber string) (*trade.Sales, error) {
	if !actor.Can(identity.CapAddSap) {
		return nil, shared.ErrUnauthorized
	}

	var result *trade.Sales
	err := s.scope.Execute(ctx, func(r Repos) error {
		sale, err := r.Sales().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if sale.Status == document.StatusCanceled {
			return shared.ErrAlreadyCanceled
		}
		sale.SapNumber = sapNumber
		if err := r.Sales().Save(ctx, sale); err != nil {
			return err
		}
		result = sale
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

// Get returns one sale with its lines.
func (s *SalesService) Get(ctx context.Context, id uuid.UUID) (*trade.Sales, error) {
	var result *trade.Sales
	err := s.scope.Execute(ctx, func(r Repos) error {
		sale, err := r.Sales().FindByID(ctx, id)
		if err != nil {
			return err
		}
		result = sale
		return nil
	})
	return result, err
}

// List returns sales matching the filter.
func (s *SalesService) List(ctx context.Context, filter shared.Filter) ([]trade.Sales, error) {
	var result []trade.Sales
	err := s.scope.Execute(ctx, func(r Repos) error {
		list, err := r.Sales().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}
