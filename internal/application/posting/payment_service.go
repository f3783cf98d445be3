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

// PaymentLineInput is one tender of a payment. Split payments send
// several lines, e.g. cash plus an advance draw.
type PaymentLineInput struct {
	PayType    trade.PayType   `json:"pay_type" binding:"required"`
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	AdvanceRef string          `json:"advance_ref"`
}

// CreatePaymentRequest applies money against one sales document.
type CreatePaymentRequest struct {
	SalesRef  string             `json:"sales_ref" binding:"required"`
	Lines     []PaymentLineInput `json:"lines" binding:"required,min=1,dive"`
	TransDate string             `json:"trans_date"`
	Remarks   string             `json:"remarks"`
}

// PaymentService posts and voids payments.
type PaymentService struct {
	scope  TransactionScope
	logger *zap.Logger
}

// NewPaymentService creates a PaymentService.
func NewPaymentService(scope TransactionScope, logger *zap.Logger) *PaymentService {
	return &PaymentService{scope: scope, logger: logger}
}

// Create posts a payment: the sale's amount due drops, the customer
// balance drops, and each ADV tender draws down its advance
// instrument, all in one transaction. Overpayment fails the whole
// posting.
func (s *PaymentService) Create(ctx context.Context, actor identity.Actor, req CreatePaymentRequest) (*trade.Payment, error) {
	if !actor.Can(identity.CapCashier) {
		return nil, shared.ErrUnauthorized
	}

	var result *trade.Payment
	err := s.scope.Execute(ctx, func(r Repos) error {
		sale, err := r.Sales().FindByReferenceLocked(ctx, req.SalesRef)
		if err != nil {
			return err
		}

		alloc, err := allocate(ctx, r, actor.WarehouseCode, series.ObjectPayment)
		if err != nil {
			return err
		}

		transDate, err := parseTransDate(req.TransDate)
		if err != nil {
			return err
		}
		payment := &trade.Payment{
			Header:       document.NewHeader(alloc.SeriesCode, alloc.Number, alloc.Reference, transDate, actor.Username),
			SalesRef:     sale.Reference,
			CustomerCode: sale.CustomerCode,
		}
		payment.Remarks = req.Remarks
		for _, in := range req.Lines {
			if err := payment.AddRow(in.PayType, in.Amount, in.AdvanceRef); err != nil {
				return err
			}
		}
		if err := payment.Validate(); err != nil {
			return err
		}

		if err := sale.ApplyPayment(payment.Amount, actor.Username); err != nil {
			return err
		}
		if err := r.Sales().Save(ctx, sale); err != nil {
			return err
		}

		customer, err := r.Customers().FindByCodeLocked(ctx, sale.CustomerCode)
		if err != nil {
			return err
		}
		customer.ApplyPayment(payment.Amount)
		if err := r.Customers().Save(ctx, customer); err != nil {
			return err
		}

		for i := range payment.Rows {
			row := &payment.Rows[i]
			if row.PayType != trade.PayAdvance {
				continue
			}
			adv, err := r.Advances().FindByReferenceLocked(ctx, row.AdvanceRef)
			if err != nil {
				return err
			}
			if adv.CustomerCode != sale.CustomerCode {
				return shared.NewDomainError("INVALID_REFERENCE", "Advance belongs to a different customer")
			}
			if err := adv.Draw(row.Amount, actor.Username); err != nil {
				return err
			}
			if err := r.Advances().Save(ctx, adv); err != nil {
				return err
			}
		}

		if err := payment.Close(actor.Username); err != nil {
			return err
		}
		if err := r.Payments().Save(ctx, payment); err != nil {
			return err
		}
		result = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment posted",
		zap.String("reference", result.Reference),
		zap.String("sales_ref", result.SalesRef),
		zap.String("amount", result.Amount.String()),
		zap.String("actor", actor.Username))
	return result, nil
}

// Cancel voids a payment: the sale's amount due comes back, it reopens
// if the payment had closed it, the customer balance rises, and each
// ADV tender restores its instrument.
func (s *PaymentService) Cancel(ctx context.Context, actor identity.Actor, id uuid.UUID) (*trade.Payment, error) {
	if !actor.Can(identity.CapVoid) {
		return nil, shared.ErrUnauthorized
	}

	var result *trade.Payment
	err := s.scope.Execute(ctx, func(r Repos) error {
		payment, err := r.Payments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := payment.Cancel(actor.Username, true); err != nil {
			return err
		}

		sale, err := r.Sales().FindByReferenceLocked(ctx, payment.SalesRef)
		if err != nil {
			return err
		}
		if err := sale.RevertPayment(payment.Amount, actor.Username); err != nil {
			return err
		}
		if err := r.Sales().Save(ctx, sale); err != nil {
			return err
		}

		customer, err := r.Customers().FindByCodeLocked(ctx, payment.CustomerCode)
		if err != nil {
			return err
		}
		customer.AddCharge(payment.Amount)
		if err := r.Customers().Save(ctx, customer); err != nil {
			return err
		}

		for i := range payment.Rows {
			row := &payment.Rows[i]
			if row.PayType != trade.PayAdvance {
				continue
			}
			adv, err := r.Advances().FindByReferenceLocked(ctx, row.AdvanceRef)
			if err != nil {
				return err
			}
			if err := adv.Restore(row.Amount, actor.Username); err != nil {
				return err
			}
			if err := r.Advances().Save(ctx, adv); err != nil {
				return err
			}
		}

		if err := r.Payments().Save(ctx, payment); err != nil {
			return err
		}
		result = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment voided",
		zap.String("reference", result.Reference),
		zap.String("actor", actor.Username))
	return result, nil
}

// Get returns one payment.
func (s *PaymentService) Get(ctx context.Context, id uuid.UUID) (*trade.Payment, error) {
	var result *trade.Payment
	err := s.scope.Execute(ctx, func(r Repos) error {
		p, err := r.Payments().FindByID(ctx, id)
		if err != nil {
			return err
		}
		result = p
		return nil
	})
	return result, err
}

// List returns payments matching the filter.
func (s *PaymentService) List(ctx context.Context, filter shared.Filter) ([]trade.Payment, error) {
	var result []trade.Payment
	err := s.scope.Execute(ctx, func(r Repos) error {
		list, err := r.Payments().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}
