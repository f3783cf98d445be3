package posting

import (
	"context"
	"testing"

	"github.com/bakehouse/backend/internal/domain/adjustment"
	"github.com/bakehouse/backend/internal/domain/document"
	"github.com/bakehouse/backend/internal/domain/series"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func adjustmentFixture(t *testing.T) (*memStore, *AdjustmentService) {
	t.Helper()
	store := newMemStore()
	store.seedWarehouse("WH01", "BR01", nil)
	store.seedSeries("WH01", series.ObjectAdjustmentIn, 1, 1000)
	store.seedSeries("WH01", series.ObjectAdjustmentOut, 1, 1000)
	store.seedItem("BUN01", "PC")
	store.seedBalance("BUN01", "WH01", qty(40))
	return store, NewAdjustmentService(store, zap.NewNop())
}

func TestAdjustmentCreate_In(t *testing.T) {
	store, svc := adjustmentFixture(t)

	adj, err := svc.Create(context.Background(), managerActor("WH01"), CreateAdjustmentRequest{
		Direction: adjustment.DirectionIn,
		Reason:    "recount",
		Lines: []AdjustmentLineInput{
			{ItemCode: "BUN01", Quantity: qty(5), UoM: "PC"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "WH01-ADJI-1", adj.Reference)
	assert.True(t, store.balanceOf("BUN01", "WH01").Equal(qty(45)))

	entries := store.ledgerFor(adj.ID)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].InQty.Equal(qty(5)))
	assert.Equal(t, "recount", entries[0].Remarks)
}

func TestAdjustmentCreate_Out(t *testing.T) {
	store, svc := adjustmentFixture(t)

	adj, err := svc.Create(context.Background(), managerActor("WH01"), CreateAdjustmentRequest{
		Direction: adjustment.DirectionOut,
		Reason:    "spoilage",
		Lines: []AdjustmentLineInput{
			{ItemCode: "BUN01", Quantity: qty(8), UoM: "PC"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "WH01-ADJO-1", adj.Reference)
	assert.True(t, store.balanceOf("BUN01", "WH01").Equal(qty(32)))
}

func TestAdjustmentCreate_OutBeyondStock(t *testing.T) {
	_, svc := adjustmentFixture(t)

	_, err := svc.Create(context.Background(), managerActor("WH01"), CreateAdjustmentRequest{
		Direction: adjustment.DirectionOut,
		Lines: []AdjustmentLineInput{
			{ItemCode: "BUN01", Quantity: qty(41), UoM: "PC"},
		},
	})
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
}

func TestAdjustmentCreate_ManagerOnly(t *testing.T) {
	_, svc := adjustmentFixture(t)

	_, err := svc.Create(context.Background(), salesActor("WH01"), CreateAdjustmentRequest{
		Direction: adjustment.DirectionIn,
		Lines: []AdjustmentLineInput{
			{ItemCode: "BUN01", Quantity: qty(1), UoM: "PC"},
		},
	})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestAdjustmentCreate_UnknownDirection(t *testing.T) {
	_, svc := adjustmentFixture(t)

	_, err := svc.Create(context.Background(), managerActor("WH01"), CreateAdjustmentRequest{
		Direction: adjustment.Direction("SIDEWAYS"),
		Lines: []AdjustmentLineInput{
			{ItemCode: "BUN01", Quantity: qty(1), UoM: "PC"},
		},
	})
	assert.Error(t, err)
}

func TestAdjustmentCancel_Reverses(t *testing.T) {
	store, svc := adjustmentFixture(t)
	actor := managerActor("WH01")

	adj, err := svc.Create(context.Background(), actor, CreateAdjustmentRequest{
		Direction: adjustment.DirectionIn,
		Lines: []AdjustmentLineInput{
			{ItemCode: "BUN01", Quantity: qty(5), UoM: "PC"},
		},
	})
	require.NoError(t, err)

	canceled, err := svc.Cancel(context.Background(), actor, adj.ID)
	require.NoError(t, err)

	assert.Equal(t, document.StatusCanceled, canceled.Status)
	assert.True(t, store.balanceOf("BUN01", "WH01").Equal(qty(40)))
	assert.Len(t, store.ledgerFor(adj.ID), 2)
}
