package masterdata

import (
	"context"
	"errors"

	"github.com/bakehouse/backend/internal/application/posting"
	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/domain/partner"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateCustomerRequest carries a new customer.
type CreateCustomerRequest struct {
	Code    string `json:"code" binding:"required,max=32"`
	Name    string `json:"name" binding:"required,max=128"`
	Address string `json:"address" binding:"max=255"`
}

// UpdateCustomerRequest carries mutable customer fields. Balance is
// never edited directly; only postings move it.
type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Active  *bool   `json:"active"`
}

// CreateAdvanceRequest registers a prepaid instrument for a customer.
type CreateAdvanceRequest struct {
	CustomerCode string          `json:"customer_code" binding:"required"`
	Reference    string          `json:"reference" binding:"required,max=64"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
}

// CustomerService administers customers and advance-payment
// instruments.
type CustomerService struct {
	scope  posting.TransactionScope
	logger *zap.Logger
}

// NewCustomerService creates a CustomerService.
func NewCustomerService(scope posting.TransactionScope, logger *zap.Logger) *CustomerService {
	return &CustomerService{scope: scope, logger: logger}
}

// Create registers a customer.
func (s *CustomerService) Create(ctx context.Context, actor identity.Actor, req CreateCustomerRequest) (*partner.Customer, error) {
	if !actor.Can(identity.CapAdmin) {
		return nil, shared.ErrUnauthorized
	}

	var result *partner.Customer
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		if _, err := r.Customers().FindByCode(ctx, req.Code); err == nil {
			return shared.ErrAlreadyExists
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		c, err := partner.NewCustomer(req.Code, req.Name)
		if err != nil {
			return err
		}
		c.Address = req.Address
		if err := r.Customers().Save(ctx, c); err != nil {
			return err
		}
		result = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer created", zap.String("code", result.Code), zap.String("actor", actor.Username))
	return result, nil
}

// Update changes the mutable fields of a customer.
func (s *CustomerService) Update(ctx context.Context, actor identity.Actor, code string, req UpdateCustomerRequest) (*partner.Customer, error) {
	if !actor.Can(identity.CapAdmin) {
		return nil, shared.ErrUnauthorized
	}

	var result *partner.Customer
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		c, err := r.Customers().FindByCode(ctx, code)
		if err != nil {
			return err
		}
		if req.Name != nil {
			c.Name = *req.Name
		}
		if req.Address != nil {
			c.Address = *req.Address
		}
		if req.Active != nil {
			c.Active = *req.Active
		}
		if err := r.Customers().Save(ctx, c); err != nil {
			return err
		}
		result = c
		return nil
	})
	return result, err
}

// Get returns one customer by code.
func (s *CustomerService) Get(ctx context.Context, code string) (*partner.Customer, error) {
	var result *partner.Customer
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		c, err := r.Customers().FindByCode(ctx, code)
		if err != nil {
			return err
		}
		result = c
		return nil
	})
	return result, err
}

// List returns customers matching the filter.
func (s *CustomerService) List(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	var result []partner.Customer
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		list, err := r.Customers().FindAll(ctx, filter)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}

// CreateAdvance registers a prepaid instrument. The reference is the
// business key payments draw against, so duplicates are rejected.
func (s *CustomerService) CreateAdvance(ctx context.Context, actor identity.Actor, req CreateAdvanceRequest) (*partner.AdvancePayment, error) {
	if !actor.Can(identity.CapCashier) && !actor.Can(identity.CapManager) {
		return nil, shared.ErrUnauthorized
	}

	var result *partner.AdvancePayment
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		if _, err := r.Customers().FindByCode(ctx, req.CustomerCode); err != nil {
			return err
		}
		if _, err := r.Advances().FindByReference(ctx, req.Reference); err == nil {
			return shared.ErrAlreadyExists
		} else if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		adv, err := partner.NewAdvancePayment(req.CustomerCode, req.Reference, req.Amount, actor.Username)
		if err != nil {
			return err
		}
		if err := r.Advances().Save(ctx, adv); err != nil {
			return err
		}
		result = adv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("advance payment registered",
		zap.String("reference", result.Reference),
		zap.String("customer", result.CustomerCode),
		zap.String("actor", actor.Username))
	return result, nil
}

// ListAdvances returns a customer's advance instruments.
func (s *CustomerService) ListAdvances(ctx context.Context, customerCode string) ([]partner.AdvancePayment, error) {
	var result []partner.AdvancePayment
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		list, err := r.Advances().ListByCustomer(ctx, customerCode)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}
