// Package report implements read-only views over the ledger, the
// balance table and the customer sub-ledger, plus the log-vs-balance
// consistency check.
package report

import (
	"context"
	"time"

	"github.com/bakehouse/backend/internal/application/posting"
	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/domain/inventory"
	"github.com/bakehouse/backend/internal/domain/partner"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/bakehouse/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LedgerQuery selects ledger entries for one item in one warehouse.
type LedgerQuery struct {
	ItemCode      string `form:"item_code" binding:"required"`
	WarehouseCode string `form:"warehouse_code" binding:"required"`
	From          string `form:"from"`
	To            string `form:"to"`
}

// CustomerStatement is the money view of one customer: the running
// balance plus the sales and payments behind it.
type CustomerStatement struct {
	Customer *partner.Customer        `json:"customer"`
	Sales    []trade.Sales            `json:"sales"`
	Payments []trade.Payment          `json:"payments"`
	Advances []partner.AdvancePayment `json:"advances"`
}

// BalanceMismatch is one pair whose materialized balance disagrees
// with the ledger sum.
type BalanceMismatch struct {
	ItemCode      string          `json:"item_code"`
	WarehouseCode string          `json:"warehouse_code"`
	Balance       decimal.Decimal `json:"balance"`
	LedgerSum     decimal.Decimal `json:"ledger_sum"`
}

// Service serves read models. Writes never happen here.
type Service struct {
	scope  posting.TransactionScope
	logger *zap.Logger
}

// NewService creates a report Service.
func NewService(scope posting.TransactionScope, logger *zap.Logger) *Service {
	return &Service{scope: scope, logger: logger}
}

// Balances returns the materialized stock balances of a warehouse.
func (s *Service) Balances(ctx context.Context, warehouseCode string, filter shared.Filter) ([]inventory.WarehouseBalance, error) {
	var result []inventory.WarehouseBalance
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		list, err := r.Balances().ListByWarehouse(ctx, warehouseCode, filter)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}

// Ledger returns the movement log for one item in one warehouse,
// optionally bounded by dates.
func (s *Service) Ledger(ctx context.Context, q LedgerQuery, filter shared.Filter) ([]inventory.LedgerEntry, error) {
	from, to, err := parseRange(q.From, q.To)
	if err != nil {
		return nil, err
	}

	var result []inventory.LedgerEntry
	err = s.scope.Execute(ctx, func(r posting.Repos) error {
		list, err := r.Ledger().ListByItemWarehouse(ctx, q.ItemCode, q.WarehouseCode, from, to, filter)
		if err != nil {
			return err
		}
		result = list
		return nil
	})
	return result, err
}

// Statement returns a customer's balance with the documents behind it.
func (s *Service) Statement(ctx context.Context, customerCode string, filter shared.Filter) (*CustomerStatement, error) {
	var result *CustomerStatement
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		customer, err := r.Customers().FindByCode(ctx, customerCode)
		if err != nil {
			return err
		}
		sales, err := r.Sales().ListByCustomer(ctx, customerCode, filter)
		if err != nil {
			return err
		}
		payments, err := r.Payments().ListByCustomer(ctx, customerCode, filter)
		if err != nil {
			return err
		}
		advances, err := r.Advances().ListByCustomer(ctx, customerCode)
		if err != nil {
			return err
		}
		result = &CustomerStatement{
			Customer: customer,
			Sales:    sales,
			Payments: payments,
			Advances: advances,
		}
		return nil
	})
	return result, err
}

// ConsistencyCheck recomputes each balance of a warehouse from the
// ledger and reports every pair that disagrees. Manager only; it scans
// the full log for the warehouse.
func (s *Service) ConsistencyCheck(ctx context.Context, actor identity.Actor, warehouseCode string) ([]BalanceMismatch, error) {
	if !actor.Can(identity.CapManager) {
		return nil, shared.ErrUnauthorized
	}

	var mismatches []BalanceMismatch
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		balances, err := r.Balances().ListByWarehouse(ctx, warehouseCode, shared.Filter{})
		if err != nil {
			return err
		}
		for _, b := range balances {
			sum, err := r.Ledger().SumForPair(ctx, b.ItemCode, b.WarehouseCode)
			if err != nil {
				return err
			}
			if !sum.Equal(b.Quantity) {
				mismatches = append(mismatches, BalanceMismatch{
					ItemCode:      b.ItemCode,
					WarehouseCode: b.WarehouseCode,
					Balance:       b.Quantity,
					LedgerSum:     sum,
				})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(mismatches) > 0 {
		s.logger.Warn("balance consistency check failed",
			zap.String("warehouse", warehouseCode),
			zap.Int("mismatches", len(mismatches)))
	}
	return mismatches, nil
}

const rangeLayout = "2006-01-02"

func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	var from, to time.Time
	if fromStr != "" {
		t, err := time.Parse(rangeLayout, fromStr)
		if err != nil {
			return from, to, shared.NewDomainError("INVALID_DATE", "Invalid from date: "+fromStr)
		}
		from = t
	}
	if toStr != "" {
		t, err := time.Parse(rangeLayout, toStr)
		if err != nil {
			return from, to, shared.NewDomainError("INVALID_DATE", "Invalid to date: "+toStr)
		}
		// Inclusive upper bound.
		to = t.Add(24*time.Hour - time.Nanosecond)
	}
	return from, to, nil
}
