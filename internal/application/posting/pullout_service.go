package posting

import (
	"context"
	"errors"

	"github.com/bakehouse/backend/internal/domain/document"
	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/domain/series"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/bakehouse/backend/internal/domain/stockcount"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CountLineInput is one raw counted quantity, shared by the count and
// pull-out submission requests.
type CountLineInput struct {
	ItemCode string          `json:"item_code" binding:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	UoM      string          `json:"uom"`
}

// SubmitPullOutRequest records one role's pull-out quantities for a
// date.
type SubmitPullOutRequest struct {
	RequestDate string           `json:"request_date" binding:"required"`
	Lines       []CountLineInput `json:"lines" binding:"required,min=1,dive"`
}

// PullOutService runs the two-phase pull-out workflow: role-typed
// submissions, then a manager confirmation that posts the stock-moving
// PullOut document.
type PullOutService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewPullOutService creates a PullOutService.
func NewPullOutService(scope TransactionScope, logger *zap.Logger) *PullOutService {
	return &PullOutService{scope: scope, logger: logger}
}

// roleOf maps the actor's capabilities to a count role, manager first.
func roleOf(actor identity.Actor) (stockcount.Role, error) {
	switch {
	case actor.Can(identity.CapManager):
		return stockcount.RoleManager, nil
	case actor.Can(identity.CapAuditor):
		return stockcount.RoleAuditor, nil
	case actor.Can(identity.CapSales):
		return stockcount.RoleSales, nil
	}
	return "", shared.ErrUnauthorized
}

// Submit records one role's quantities. The first submission for a
// (warehouse, date) creates the request and allocates its number; a
// second submission by the same role is rejected.
func (s *PullOutService) Submit(ctx context.Context, actor identity.Actor, req SubmitPullOutRequest) (*stockcount.PullOutRequest, error) {
	role, err := roleOf(actor)
	if err != nil {
		return nil, err
	}
	if !actor.Can(identity.CapPullOut) {
		return nil, shared.ErrUnauthorized
	}

	var result *stockcount.PullOutRequest
	err = s.scope.Execute(ctx, func(r Repos) error {
		po, err := r.PullOutRequests().FindByWarehouseDate(ctx, actor.WarehouseCode, req.RequestDate)
		if err != nil {
			if !errors.Is(err, shared.ErrNotFound) {
				return err
			}
			alloc, aerr := allocate(ctx, r, actor.WarehouseCode, series.ObjectPullOutRequest)
			if aerr != nil {
				return aerr
			}
			transDate, derr := parseTransDate(req.RequestDate)
			if derr != nil {
				return derr
			}
			po = &stockcount.PullOutRequest{
				Header:        document.NewHeader(alloc.SeriesCode, alloc.Number, alloc.Reference, transDate, actor.Username),
				WarehouseCode: actor.WarehouseCode,
				RequestDate:   req.RequestDate,
			}
		}

		if err := po.MarkSubmitted(role, actor.Username); err != nil {
			return err
		}
		for _, in := range req.Lines {
			if err := validateLineRefs(ctx, r, in.ItemCode, in.UoM); err != nil {
				return err
			}
			row := findPullOutRow(po, in.ItemCode)
			if row == nil {
				po.Rows = append(po.Rows, stockcount.PullOutReqRow{
					BaseEntity: shared.NewBaseEntity(),
					RequestID:  po.ID,
					ItemCode:   in.ItemCode,
					UoM:        in.UoM,
				})
				row = &po.Rows[len(po.Rows)-1]
			}
			row.SetQty(role, in.Quantity)
		}

		if err := r.PullOutRequests().Save(ctx, po); err != nil {
			return err
		}
		result = po
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("pull-out submission recorded",
		zap.String("reference", result.Reference),
		zap.String("role", string(role)),
		zap.String("actor", actor.Username))
	return result, nil
}

func findPullOutRow(po *stockcount.PullOutRequest, itemCode string) *stockcount.PullOutReqRow {
	for i := range po.Rows {
		if po.Rows[i].ItemCode == itemCode {
			return &po.Rows[i]
		}
	}
	return nil
}

// Confirm posts the PullOut document with the authoritative quantities
// and freezes the request. Manager only.
func (s *PullOutService) Confirm(ctx context.Context, actor identity.Actor, id uuid.UUID) (*stockcount.PullOut, error) {
	if !actor.Can(identity.CapManager) {
		return nil, shared.ErrUnauthorized
	}

	var result *stockcount.PullOut
	err := s.scope.Execute(ctx, func(r Repos) error {
		po, err := r.PullOutRequests().FindByID(ctx, id)
		if err != nil {
			return err
		}
		pullOut, err := postPullOut(ctx, r, po, actor)
		if err != nil {
			return err
		}
		if err := r.PullOutRequests().Save(ctx, po); err != nil {
			return err
		}
		result = pullOut
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("pull-out posted",
		zap.String("reference", result.Reference),
		zap.String("actor", actor.Username))
	return result, nil
}

// postPullOut posts the stock-moving PullOut for a request's final
// quantities inside the current transaction and marks the request
// confirmed. Rows with a zero final quantity are skipped.
func postPullOut(ctx context.Context, r Repos, po *stockcount.PullOutRequest, actor identity.Actor) (*stockcount.PullOut, error) {
	if po.Confirmed {
		return nil, shared.ErrInvalidState
	}

	alloc, err := allocate(ctx, r, po.WarehouseCode, series.ObjectPullOut)
	if err != nil {
		return nil, err
	}
	transDate, err := parseTransDate(po.RequestDate)
	if err != nil {
		return nil, err
	}
	doc := &stockcount.PullOut{
		Header:        document.NewHeader(alloc.SeriesCode, alloc.Number, alloc.Reference, transDate, actor.Username),
		WarehouseCode: po.WarehouseCode,
		RequestRef:    po.Reference,
	}

	for i := range po.Rows {
		final := po.Rows[i].FinalQty()
		po.Rows[i].QtyFinal = final
		if !final.IsPositive() {
			continue
		}
		line, err := stockcount.NewPullOutLine(doc.ID, po.Rows[i].ItemCode, final, po.Rows[i].UoM)
		if err != nil {
			return nil, err
		}
		doc.Lines = append(doc.Lines, *line)

		if _, err := postOut(ctx, r, movement{
			Alloc:      alloc,
			TransID:    doc.ID,
			ObjectCode: series.ObjectPullOut,
			ItemCode:   po.Rows[i].ItemCode,
			UoM:        po.Rows[i].UoM,
			Warehouse:  po.WarehouseCode,
			Quantity:   final,
			Actor:      actor.Username,
		}); err != nil {
			return nil, err
		}
	}

	if err := doc.Close(actor.Username); err != nil {
		return nil, err
	}
	if err := r.PullOuts().Save(ctx, doc); err != nil {
		return nil, err
	}
	if err := po.ConfirmWith(doc.Reference, actor.Username); err != nil {
		return nil, err
	}
	return doc, nil
}

// Get returns one pull-out request with its rows.
func (s *PullOutService) Get(ctx context.Context, id uuid.UUID) (*stockcount.PullOutRequest, error) {
	var result *stockcount.PullOutRequest
	err := s.scope.Execute(ctx, func(r Repos) error {
		po, err := r.PullOutRequests().FindByID(ctx, id)
		if err != nil {
			return err
		}
		result = po
		return nil
	})
	return result, err
}

// List returns pull-out requests matching the filter.
func (s *PullOutService) List(ctx context.Context, filter shared.Filter) ([]stockcount.PullOutRequest, error) {
	var result []stockcount.PullOutRequest
	err := s.scope.Execute(ctx, func(r Repos) error {
		list, err := r.PullOutRequests().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}
