package posting

import (
	"context"
	"testing"

	"github.com/bakehouse/backend/internal/domain/series"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func countFixture(t *testing.T) (*memStore, *CountService) {
	t.Helper()
	store := newMemStore()
	pl := store.seedPriceList("Retail")
	store.seedWarehouse("WH01", "BR01", &pl.ID)
	store.seedSeries("WH01", series.ObjectCount, 1, 1000)
	store.seedSeries("WH01", series.ObjectFinalCount, 1, 1000)
	store.seedSeries("WH01", series.ObjectAdjustmentIn, 1, 1000)
	store.seedSeries("WH01", series.ObjectSales, 1, 1000)
	store.seedSeries("WH01", series.ObjectPullOutRequest, 1, 1000)
	store.seedSeries("WH01", series.ObjectPullOut, 1, 1000)
	store.seedItem("BUN01", "PC")
	store.seedItem("CAKE01", "PC")
	store.seedBalance("BUN01", "WH01", qty(50))
	store.seedBalance("CAKE01", "WH01", qty(10))
	store.seedPrice(pl.ID, "BUN01", money("10"))
	store.seedPrice(pl.ID, "CAKE01", money("50"))
	store.seedCustomer("C0099", "BR01 Inv Short")
	return store, NewCountService(store, zap.NewNop())
}

func TestCountSubmit_FirstSubmissionRaisesCutoff(t *testing.T) {
	store, svc := countFixture(t)

	sheet, err := svc.Submit(context.Background(), salesActor("WH01"), SubmitCountRequest{
		CountDate: "2025-06-10",
		Lines: []CountLineInput{
			{ItemCode: "BUN01", Quantity: qty(48), UoM: "PC"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "WH01-ICNT-1", sheet.Reference)
	assert.True(t, sheet.SubmittedSales)
	assert.True(t, store.warehouses["WH01"].Cutoff)
}

func TestCountSubmit_SecondRoleSharesSheet(t *testing.T) {
	_, svc := countFixture(t)

	first, err := svc.Submit(context.Background(), salesActor("WH01"), SubmitCountRequest{
		CountDate: "2025-06-10",
		Lines: []CountLineInput{
			{ItemCode: "BUN01", Quantity: qty(48), UoM: "PC"},
		},
	})
	require.NoError(t, err)

	second, err := svc.Submit(context.Background(), auditorActor("WH01"), SubmitCountRequest{
		CountDate: "2025-06-10",
		Lines: []CountLineInput{
			{ItemCode: "BUN01", Quantity: qty(49), UoM: "PC"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.Len(t, second.Rows, 1)
	assert.True(t, second.Rows[0].QtySales.Decimal.Equal(qty(48)))
	assert.True(t, second.Rows[0].QtyAuditor.Decimal.Equal(qty(49)))
}

func TestCountSubmit_DuplicateRoleRejected(t *testing.T) {
	_, svc := countFixture(t)
	req := SubmitCountRequest{
		CountDate: "2025-06-10",
		Lines: []CountLineInput{
			{ItemCode: "BUN01", Quantity: qty(48), UoM: "PC"},
		},
	}

	_, err := svc.Submit(context.Background(), salesActor("WH01"), req)
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), salesActor("WH01"), req)
	assert.ErrorIs(t, err, shared.ErrDuplicateSubmission)
}

func TestCountConfirm_OverageAndShortage(t *testing.T) {
	store, svc := countFixture(t)

	// BUN01 shelf 55 vs book 50: five over. CAKE01 shelf 7 vs book 10:
	// three short.
	sheet, err := svc.Submit(context.Background(), salesActor("WH01"), SubmitCountRequest{
		CountDate: "2025-06-10",
		Lines: []CountLineInput{
			{ItemCode: "BUN01", Quantity: qty(55), UoM: "PC"},
			{ItemCode: "CAKE01", Quantity: qty(7), UoM: "PC"},
		},
	})
	require.NoError(t, err)

	confirmed, err := svc.Confirm(context.Background(), managerActor("WH01"), sheet.ID)
	require.NoError(t, err)

	assert.True(t, confirmed.Confirmed)
	assert.Equal(t, "WH01-FNLC-1", confirmed.FinalRef)
	assert.False(t, store.warehouses["WH01"].Cutoff)

	require.Len(t, confirmed.Rows, 2)
	assert.True(t, confirmed.Rows[0].Variance.Equal(qty(5)))
	assert.True(t, confirmed.Rows[1].Variance.Equal(qty(-3)))

	// Book now matches the shelf.
	assert.True(t, store.balanceOf("BUN01", "WH01").Equal(qty(55)))
	assert.True(t, store.balanceOf("CAKE01", "WH01").Equal(qty(7)))

	// One adjustment-in for the overage.
	require.Len(t, store.adjustments, 1)
	for _, adj := range store.adjustments {
		assert.Equal(t, "WH01-ADJI-1", adj.Reference)
		require.Len(t, adj.Lines, 1)
		assert.True(t, adj.Lines[0].Quantity.Equal(qty(5)))
	}

	// One shortage sale charged to the shortage account: 3 x 50.
	require.Len(t, store.sales, 1)
	for _, sale := range store.sales {
		assert.Equal(t, "C0099", sale.CustomerCode)
		assert.True(t, sale.DocTotal.Equal(money("150")))
	}
	assert.True(t, store.customers["C0099"].Balance.Equal(money("150")))
}

func TestCountConfirm_ManagerCountWins(t *testing.T) {
	store, svc := countFixture(t)

	sheet, err := svc.Submit(context.Background(), salesActor("WH01"), SubmitCountRequest{
		CountDate: "2025-06-10",
		Lines: []CountLineInput{
			{ItemCode: "BUN01", Quantity: qty(40), UoM: "PC"},
		},
	})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), managerActor("WH01"), SubmitCountRequest{
		CountDate: "2025-06-10",
		Lines: []CountLineInput{
			{ItemCode: "BUN01", Quantity: qty(50), UoM: "PC"},
		},
	})
	require.NoError(t, err)

	confirmed, err := svc.Confirm(context.Background(), managerActor("WH01"), sheet.ID)
	require.NoError(t, err)

	// Manager matched the book, so nothing posts.
	assert.True(t, confirmed.Rows[0].Variance.IsZero())
	assert.Empty(t, store.adjustments)
	assert.Empty(t, store.sales)
	assert.True(t, store.balanceOf("BUN01", "WH01").Equal(qty(50)))
}

func TestCountConfirm_PostsPendingPullOut(t *testing.T) {
	store, svc := countFixture(t)

	_, err := NewPullOutService(store, zap.NewNop()).Submit(context.Background(), salesActor("WH01"), SubmitPullOutRequest{
		RequestDate: "2025-06-10",
		Lines: []CountLineInput{
			{ItemCode: "BUN01", Quantity: qty(5), UoM: "PC"},
		},
	})
	require.NoError(t, err)

	// Shelf 42 plus the 5 leaving as pull-out against book 50: three
	// short.
	sheet, err := svc.Submit(context.Background(), salesActor("WH01"), SubmitCountRequest{
		CountDate: "2025-06-10",
		Lines: []CountLineInput{
			{ItemCode: "BUN01", Quantity: qty(42), UoM: "PC"},
		},
	})
	require.NoError(t, err)

	confirmed, err := svc.Confirm(context.Background(), managerActor("WH01"), sheet.ID)
	require.NoError(t, err)

	assert.True(t, confirmed.Rows[0].Variance.Equal(qty(-3)))
	require.Len(t, store.pullOuts, 1)
	for _, po := range store.poRequests {
		assert.True(t, po.Confirmed)
	}
	assert.True(t, store.balanceOf("BUN01", "WH01").Equal(qty(42)))
}

func TestCountConfirm_IgnoresConfirmedPullOut(t *testing.T) {
	store, svc := countFixture(t)
	poSvc := NewPullOutService(store, zap.NewNop())

	poReq, err := poSvc.Submit(context.Background(), salesActor("WH01"), SubmitPullOutRequest{
		RequestDate: "2025-06-10",
		Lines: []CountLineInput{
			{ItemCode: "BUN01", Quantity: qty(5), UoM: "PC"},
		},
	})
	require.NoError(t, err)
	_, err = poSvc.Confirm(context.Background(), managerActor("WH01"), poReq.ID)
	require.NoError(t, err)
	require.True(t, store.balanceOf("BUN01", "WH01").Equal(qty(45)))

	// The pull-out already left the book. A shelf count of 45 matches
	// the book exactly, so nothing reconciles.
	sheet, err := svc.Submit(context.Background(), salesActor("WH01"), SubmitCountRequest{
		CountDate: "2025-06-10",
		Lines: []CountLineInput{
			{ItemCode: "BUN01", Quantity: qty(45), UoM: "PC"},
		},
	})
	require.NoError(t, err)

	confirmed, err := svc.Confirm(context.Background(), managerActor("WH01"), sheet.ID)
	require.NoError(t, err)

	assert.True(t, confirmed.Rows[0].Variance.IsZero())
	assert.Empty(t, store.adjustments)
	assert.Empty(t, store.sales)
	require.Len(t, store.pullOuts, 1)
	assert.True(t, store.balanceOf("BUN01", "WH01").Equal(qty(45)))
}

func TestCountConfirm_Twice(t *testing.T) {
	_, svc := countFixture(t)

	sheet, err := svc.Submit(context.Background(), salesActor("WH01"), SubmitCountRequest{
		CountDate: "2025-06-10",
		Lines: []CountLineInput{
			{ItemCode: "BUN01", Quantity: qty(50), UoM: "PC"},
		},
	})
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), managerActor("WH01"), sheet.ID)
	require.NoError(t, err)
	_, err = svc.Confirm(context.Background(), managerActor("WH01"), sheet.ID)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestCountConfirm_ShortageNeedsPriceList(t *testing.T) {
	store, svc := countFixture(t)
	store.warehouses["WH01"].PriceListID = nil

	sheet, err := svc.Submit(context.Background(), salesActor("WH01"), SubmitCountRequest{
		CountDate: "2025-06-10",
		Lines: []CountLineInput{
			{ItemCode: "CAKE01", Quantity: qty(7), UoM: "PC"},
		},
	})
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), managerActor("WH01"), sheet.ID)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "NO_PRICE", derr.Code)
}

func TestCountConfirm_ManagerOnly(t *testing.T) {
	_, svc := countFixture(t)

	sheet, err := svc.Submit(context.Background(), salesActor("WH01"), SubmitCountRequest{
		CountDate: "2025-06-10",
		Lines: []CountLineInput{
			{ItemCode: "BUN01", Quantity: qty(50), UoM: "PC"},
		},
	})
	require.NoError(t, err)

	_, err = svc.Confirm(context.Background(), salesActor("WH01"), sheet.ID)
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}
