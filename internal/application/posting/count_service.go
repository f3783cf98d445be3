package posting

import (
	"context"
	"errors"

	"github.com/bakehouse/backend/internal/domain/adjustment"
	"github.com/bakehouse/backend/internal/domain/document"
	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/domain/series"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/bakehouse/backend/internal/domain/stockcount"
	"github.com/bakehouse/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SubmitCountRequest records one role's raw counts for a date.
type SubmitCountRequest struct {
	CountDate string           `json:"count_date" binding:"required"`
	Lines     []CountLineInput `json:"lines" binding:"required,min=1,dive"`
}

// CountService runs the two-phase physical count: role-typed raw
// submissions first, then a manager confirmation that reconciles the
// book balance in one transaction.
type CountService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewCountService creates a CountService.
func NewCountService(scope TransactionScope, logger *zap.Logger) *CountService {
	return &CountService{scope: scope, logger: logger}
}

// Submit records one role's counts. The first submission for a
// (warehouse, date) creates the sheet, allocates its number and raises
// the warehouse cutoff so stock documents stop posting until the count
// confirms.
func (s *CountService) Submit(ctx context.Context, actor identity.Actor, req SubmitCountRequest) (*stockcount.CountSheet, error) {
	role, err := roleOf(actor)
	if err != nil {
		return nil, err
	}
	if !actor.Can(identity.CapAllowEnding) {
		return nil, shared.ErrUnauthorized
	}

	var result *stockcount.CountSheet
	err = s.scope.Execute(ctx, func(r Repos) error {
		sheet, err := r.CountSheets().FindByWarehouseDate(ctx, actor.WarehouseCode, req.CountDate)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			alloc, aerr := allocate(ctx, r, actor.WarehouseCode, series.ObjectCount)
			if aerr != nil {
				return aerr
			}
			transDate, derr := parseTransDate(req.CountDate)
			if derr != nil {
				return derr
			}
			sheet = &stockcount.CountSheet{
				Header:        document.NewHeader(alloc.SeriesCode, alloc.Number, alloc.Reference, transDate, actor.Username),
				WarehouseCode: actor.WarehouseCode,
				CountDate:     req.CountDate,
			}

			wh, werr := r.Warehouses().FindByCode(ctx, actor.WarehouseCode)
			if werr != nil {
				return werr
			}
			wh.SetCutoff(true)
			if werr := r.Warehouses().Save(ctx, wh); werr != nil {
				return werr
			}
		}

		if err := sheet.MarkSubmitted(role, actor.Username); err != nil {
			return err
		}
		for _, in := range req.Lines {
			if err := validateLineRefs(ctx, r, in.ItemCode, in.UoM); err != nil {
				return err
			}
			row := findCountRow(sheet, in.ItemCode)
			if row == nil {
				sheet.Rows = append(sheet.Rows, stockcount.CountRow{
					BaseEntity:   shared.NewBaseEntity(),
					CountSheetID: sheet.ID,
					ItemCode:     in.ItemCode,
					UoM:          in.UoM,
				})
				row = &sheet.Rows[len(sheet.Rows)-1]
			}
			row.SetCount(role, in.Quantity)
		}

		if err := r.CountSheets().Save(ctx, sheet); err != nil {
			return err
		}
		result = sheet
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("count submission recorded",
		zap.String("reference", result.Reference),
		zap.String("role", string(role)),
		zap.String("actor", actor.Username))
	return result, nil
}

func findCountRow(sheet *stockcount.CountSheet, itemCode string) *stockcount.CountRow {
	for i := range sheet.Rows {
		if sheet.Rows[i].ItemCode == itemCode {
			return &sheet.Rows[i]
		}
	}
	return nil
}

// Confirm reconciles the sheet: it resolves the authoritative count per
// row, posts the pull-out for the same date if one is pending, posts an
// adjustment-in for positive variance and a shortage sale for negative
// variance, clears the warehouse cutoff and freezes the sheet. All of
// it commits or rolls back together.
func (s *CountService) Confirm(ctx context.Context, actor identity.Actor, id uuid.UUID) (*stockcount.CountSheet, error) {
	if !actor.Can(identity.CapManager) {
		return nil, shared.ErrUnauthorized
	}

	var result *stockcount.CountSheet
	err := s.scope.Execute(ctx, func(r Repos) error {
		sheet, err := r.CountSheets().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if sheet.Confirmed {
			return shared.ErrInvalidState
		}

		// A pending pull-out for the same date counts as physically
		// present stock that is about to leave. A confirmed one has
		// already been deducted from the book balance, so it must not
		// enter the variance again.
		poFinals := map[string]decimal.Decimal{}
		poReq, err := r.PullOutRequests().FindByWarehouseDate(ctx, sheet.WarehouseCode, sheet.CountDate)
		switch {
		case err == nil:
			if poReq.Confirmed {
				poReq = nil
			} else {
				for i := range poReq.Rows {
					poFinals[poReq.Rows[i].ItemCode] = poReq.Rows[i].FinalQty()
				}
			}
		case errors.Is(err, shared.ErrNotFound):
			poReq = nil
		default:
			return err
		}

		// Resolve finals and variances against the book balance before
		// any reconciling posting moves it.
		for i := range sheet.Rows {
			row := &sheet.Rows[i]
			if err := r.Balances().Ensure(ctx, row.ItemCode, sheet.WarehouseCode); err != nil {
				return err
			}
			bal, err := r.Balances().GetLocked(ctx, row.ItemCode, sheet.WarehouseCode)
			if err != nil {
				return err
			}
			row.Finalize(bal.Quantity, poFinals[row.ItemCode])
		}

		if poReq != nil {
			if _, err := postPullOut(ctx, r, poReq, actor); err != nil {
				return err
			}
			if err := r.PullOutRequests().Save(ctx, poReq); err != nil {
				return err
			}
		}

		alloc, err := allocate(ctx, r, sheet.WarehouseCode, series.ObjectFinalCount)
		if err != nil {
			return err
		}

		var overs, shorts []stockcount.CountRow
		for i := range sheet.Rows {
			switch {
			case sheet.Rows[i].Variance.IsPositive():
				overs = append(overs, sheet.Rows[i])
			case sheet.Rows[i].Variance.IsNegative():
				shorts = append(shorts, sheet.Rows[i])
			}
		}

		if len(overs) > 0 {
			if err := s.postVarianceAdjustment(ctx, r, sheet, overs, actor); err != nil {
				return err
			}
		}
		if len(shorts) > 0 {
			if err := s.postShortageSale(ctx, r, sheet, shorts, actor); err != nil {
				return err
			}
		}

		if err := sheet.Confirm(alloc.Reference, actor.Username); err != nil {
			return err
		}

		wh, err := r.Warehouses().FindByCode(ctx, sheet.WarehouseCode)
		if err != nil {
			return err
		}
		wh.SetCutoff(false)
		if err := r.Warehouses().Save(ctx, wh); err != nil {
			return err
		}

		if err := r.CountSheets().Save(ctx, sheet); err != nil {
			return err
		}
		result = sheet
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("count confirmed",
		zap.String("reference", result.Reference),
		zap.String("final_ref", result.FinalRef),
		zap.String("actor", actor.Username))
	return result, nil
}

// postVarianceAdjustment posts an adjustment-in for rows whose shelf
// count exceeds the book balance.
func (s *CountService) postVarianceAdjustment(ctx context.Context, r Repos, sheet *stockcount.CountSheet, rows []stockcount.CountRow, actor identity.Actor) error {
	alloc, err := allocate(ctx, r, sheet.WarehouseCode, series.ObjectAdjustmentIn)
	if err != nil {
		return err
	}
	adj := &adjustment.Adjustment{
		Header:        document.NewHeader(alloc.SeriesCode, alloc.Number, alloc.Reference, sheet.TransDate, actor.Username),
		WarehouseCode: sheet.WarehouseCode,
		Direction:     adjustment.DirectionIn,
		Reason:        "Count variance " + sheet.Reference,
	}
	for _, row := range rows {
		line, err := adjustment.NewAdjustmentLine(adj.ID, row.ItemCode, row.Variance, row.UoM)
		if err != nil {
			return err
		}
		adj.Lines = append(adj.Lines, *line)

		if _, err := postIn(ctx, r, movement{
			Alloc:      alloc,
			TransID:    adj.ID,
			ObjectCode: series.ObjectAdjustmentIn,
			ItemCode:   row.ItemCode,
			UoM:        row.UoM,
			Warehouse:  sheet.WarehouseCode,
			Quantity:   row.Variance,
			Remarks:    adj.Reason,
			Actor:      actor.Username,
		}); err != nil {
			return err
		}
	}
	return r.Adjustments().Save(ctx, adj)
}

// postShortageSale charges missing stock to the designated shortage
// customer at the warehouse's list price.
func (s *CountService) postShortageSale(ctx context.Context, r Repos, sheet *stockcount.CountSheet, rows []stockcount.CountRow, actor identity.Actor) error {
	customer, err := r.Customers().FindShortageAccount(ctx)
	if err != nil {
		return err
	}
	wh, err := r.Warehouses().FindByCode(ctx, sheet.WarehouseCode)
	if err != nil {
		return err
	}
	if wh.PriceListID == nil {
		return shared.NewDomainError("NO_PRICE", "Warehouse has no price list for shortage billing")
	}

	alloc, err := allocate(ctx, r, sheet.WarehouseCode, series.ObjectSales)
	if err != nil {
		return err
	}
	sale := &trade.Sales{
		Header:        document.NewHeader(alloc.SeriesCode, alloc.Number, alloc.Reference, sheet.TransDate, actor.Username),
		WarehouseCode: sheet.WarehouseCode,
		CustomerCode:  customer.Code,
	}
	sale.Remarks = "Count shortage " + sheet.Reference

	for _, row := range rows {
		qty := row.Variance.Neg()
		price, err := r.PriceLists().PriceFor(ctx, *wh.PriceListID, row.ItemCode)
		if err != nil {
			return err
		}
		line, err := trade.NewSalesLine(sale.ID, row.ItemCode, qty, row.UoM, price, false, decimal.Zero)
		if err != nil {
			return err
		}
		sale.Lines = append(sale.Lines, *line)

		if _, err := postOut(ctx, r, movement{
			Alloc:      alloc,
			TransID:    sale.ID,
			ObjectCode: series.ObjectSales,
			ItemCode:   row.ItemCode,
			UoM:        row.UoM,
			Warehouse:  sheet.WarehouseCode,
			Quantity:   qty,
			Remarks:    sale.Remarks,
			Actor:      actor.Username,
		}); err != nil {
			return err
		}
	}

	if err := sale.ComputeTotals(); err != nil {
		return err
	}
	customer.AddCharge(sale.AmountDue)
	if err := r.Customers().Save(ctx, customer); err != nil {
		return err
	}
	return r.Sales().Save(ctx, sale)
}

// Get returns one count sheet with its rows.
func (s *CountService) Get(ctx context.Context, id uuid.UUID) (*stockcount.CountSheet, error) {
	var result *stockcount.CountSheet
	err := s.scope.Execute(ctx, func(r Repos) error {
		sheet, err := r.CountSheets().FindByID(ctx, id)
		if err != nil {
			return err
		}
		result = sheet
		return nil
	})
	return result, err
}

// List returns count sheets matching the filter.
func (s *CountService) List(ctx context.Context, filter shared.Filter) ([]stockcount.CountSheet, error) {
	var result []stockcount.CountSheet
	err := s.scope.Execute(ctx, func(r Repos) error {
		list, err := r.CountSheets().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}
