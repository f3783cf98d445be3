package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bakehouse/backend/internal/application/posting"
	"github.com/bakehouse/backend/internal/domain/document"
	"github.com/bakehouse/backend/internal/domain/inventory"
	"github.com/bakehouse/backend/internal/domain/series"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/bakehouse/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSeriesAllocation_Concurrent verifies that concurrent transactions
// allocating from the same series each get a distinct, gapless number.
func TestSeriesAllocation_Concurrent(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := newTestDB(t)
	ctx := context.Background()
	scope := NewGormTransactionScope(testDB.DB)

	seed, err := series.NewSeries("WH01", "Requests WH01", "WH01", series.ObjectItemRequest, 1, 1000)
	require.NoError(t, err)
	require.NoError(t, NewGormSeriesRepository(testDB.DB).Save(ctx, seed))

	const workers = 20
	numbers := make(chan int, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := scope.Execute(ctx, func(r posting.Repos) error {
				s, err := r.Series().FindForWarehouseLocked(ctx, "WH01", series.ObjectItemRequest)
				if err != nil {
					return err
				}
				alloc, err := s.Allocate()
				if err != nil {
					return err
				}
				if err := r.Series().Save(ctx, s); err != nil {
					return err
				}
				numbers <- alloc.Number
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	close(numbers)

	seen := map[int]bool{}
	for n := range numbers {
		assert.False(t, seen[n], "number %d allocated twice", n)
		seen[n] = true
	}
	require.Len(t, seen, workers)
	for n := 1; n <= workers; n++ {
		assert.True(t, seen[n], "number %d missing from sequence", n)
	}

	after, err := NewGormSeriesRepository(testDB.DB).FindForWarehouse(ctx, "WH01", series.ObjectItemRequest)
	require.NoError(t, err)
	assert.Equal(t, 1+workers, after.NextNum)
}

// TestBalance_ConcurrentDeductions verifies that the row lock on
// warehouse_balances prevents overselling: with 10 on hand and 20
// concurrent single-unit deductions, exactly 10 succeed.
func TestBalance_ConcurrentDeductions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := newTestDB(t)
	ctx := context.Background()
	scope := NewGormTransactionScope(testDB.DB)

	balances := NewGormBalanceRepository(testDB.DB)
	require.NoError(t, balances.Ensure(ctx, "BUN01", "WH01"))

	seed, err := balances.GetLocked(ctx, "BUN01", "WH01")
	require.NoError(t, err)
	require.NoError(t, seed.Apply(decimal.NewFromInt(10)))
	require.NoError(t, balances.Save(ctx, seed))

	const attempts = 20
	one := decimal.NewFromInt(1)
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- scope.Execute(ctx, func(r posting.Repos) error {
				b, err := r.Balances().GetLocked(ctx, "BUN01", "WH01")
				if err != nil {
					return err
				}
				if err := b.Apply(one.Neg()); err != nil {
					return err
				}
				return r.Balances().Save(ctx, b)
			})
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 10, succeeded)

	final, err := balances.Get(ctx, "BUN01", "WH01")
	require.NoError(t, err)
	assert.True(t, final.Quantity.IsZero(), "expected zero balance, got %s", final.Quantity)
}

// TestSales_ConcurrentPayments verifies that the row lock on the sale
// serializes concurrent payments: with 100 due and 20 concurrent
// full payments, exactly one succeeds and the rest overpay.
func TestSales_ConcurrentPayments(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := newTestDB(t)
	ctx := context.Background()
	scope := NewGormTransactionScope(testDB.DB)
	sales := NewGormSalesRepository(testDB.DB)

	sale := &trade.Sales{
		Header:        document.NewHeader("WH01", 1, "WH01-SLES-1", time.Now(), "tester"),
		WarehouseCode: "WH01",
		CustomerCode:  "C0001",
	}
	line, err := trade.NewSalesLine(sale.ID, "BUN01", decimal.NewFromInt(10), "PC",
		decimal.NewFromInt(10), false, decimal.Zero)
	require.NoError(t, err)
	sale.Lines = append(sale.Lines, *line)
	require.NoError(t, sale.ComputeTotals())
	require.NoError(t, sales.Save(ctx, sale))

	const attempts = 20
	full := decimal.NewFromInt(100)
	results := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- scope.Execute(ctx, func(r posting.Repos) error {
				s, err := r.Sales().FindByReferenceLocked(ctx, "WH01-SLES-1")
				if err != nil {
					return err
				}
				if err := s.ApplyPayment(full, "tester"); err != nil {
					return err
				}
				return r.Sales().Save(ctx, s)
			})
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, shared.ErrOverpayment)
		}
	}
	assert.Equal(t, 1, succeeded)

	final, err := sales.FindByReference(ctx, "WH01-SLES-1")
	require.NoError(t, err)
	assert.True(t, final.AmountDue.IsZero())
	assert.True(t, final.AppliedAmt.Equal(full))
}

// TestLedgerSum_MatchesBalance verifies the consistency invariant the
// reconciliation report relies on: the signed sum of ledger entries for
// an item and warehouse equals the materialized balance.
func TestLedgerSum_MatchesBalance(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := newTestDB(t)
	ctx := context.Background()

	ledger := NewGormLedgerRepository(testDB.DB)
	balances := NewGormBalanceRepository(testDB.DB)
	require.NoError(t, balances.Ensure(ctx, "LOAF01", "WH02"))

	transID := uuid.New()
	in, err := inventory.NewLedgerEntry("WH02", transID, 1, series.ObjectReceiving,
		"LOAF01", decimal.NewFromInt(30), decimal.Zero, "WH02", "WH02-RCVE-1")
	require.NoError(t, err)
	require.NoError(t, ledger.Append(ctx, in))

	out, err := inventory.NewLedgerEntry("WH02", uuid.New(), 2, series.ObjectSales,
		"LOAF01", decimal.Zero, decimal.NewFromInt(12), "WH02", "WH02-SLES-2")
	require.NoError(t, err)
	require.NoError(t, ledger.Append(ctx, out))

	b, err := balances.GetLocked(ctx, "LOAF01", "WH02")
	require.NoError(t, err)
	require.NoError(t, b.Apply(decimal.NewFromInt(18)))
	require.NoError(t, balances.Save(ctx, b))

	sum, err := ledger.SumForPair(ctx, "LOAF01", "WH02")
	require.NoError(t, err)
	assert.True(t, sum.Equal(decimal.NewFromInt(18)))

	final, err := balances.Get(ctx, "LOAF01", "WH02")
	require.NoError(t, err)
	assert.True(t, sum.Equal(final.Quantity))

	entries, err := ledger.ListByTrans(ctx, transID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "WH02-RCVE-1", entries[0].Reference)
}
