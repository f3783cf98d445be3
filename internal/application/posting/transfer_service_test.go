package posting

import (
	"context"
	"testing"

	"github.com/bakehouse/backend/internal/domain/document"
	"github.com/bakehouse/backend/internal/domain/logistics"
	"github.com/bakehouse/backend/internal/domain/series"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func qty(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func transferFixture(t *testing.T) (*memStore, *TransferService) {
	t.Helper()
	store := newMemStore()
	store.seedWarehouse("WH01", "BR01", nil)
	store.seedWarehouse("WH02", "BR01", nil)
	store.seedSeries("WH01", series.ObjectItemRequest, 1, 1000)
	store.seedItem("BUN01", "PC")
	store.seedBalance("BUN01", "WH01", qty(50))
	return store, NewTransferService(store, zap.NewNop())
}

func TestTransferCreate_PostsOutMovements(t *testing.T) {
	store, svc := transferFixture(t)
	actor := salesActor("WH01")

	transfer, err := svc.Create(context.Background(), actor, CreateTransferRequest{
		TransDate: "2025-06-10",
		Lines: []TransferLineInput{
			{ItemCode: "BUN01", Quantity: qty(20), UoM: "PC", ToWarehouse: "WH02"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "WH01-REQT-1", transfer.Reference)
	assert.Equal(t, document.StatusOpen, transfer.Status)
	assert.Equal(t, "WH01", transfer.FromWarehouse)
	require.Len(t, transfer.Lines, 1)
	assert.Equal(t, "WH02", transfer.Lines[0].ToWarehouse)

	assert.True(t, store.balanceOf("BUN01", "WH01").Equal(qty(30)))

	entries := store.ledgerFor(transfer.ID)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].OutQty.Equal(qty(20)))
	assert.True(t, entries[0].InQty.IsZero())
	assert.Equal(t, "WH01", entries[0].Warehouse)
	assert.Equal(t, "WH02", entries[0].Warehouse2)
}

func TestTransferCreate_RequiresCapability(t *testing.T) {
	_, svc := transferFixture(t)

	_, err := svc.Create(context.Background(), bareActor("WH01"), CreateTransferRequest{
		Lines: []TransferLineInput{
			{ItemCode: "BUN01", Quantity: qty(1), UoM: "PC", ToWarehouse: "WH02"},
		},
	})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}

func TestTransferCreate_InsufficientStock(t *testing.T) {
	_, svc := transferFixture(t)

	_, err := svc.Create(context.Background(), salesActor("WH01"), CreateTransferRequest{
		Lines: []TransferLineInput{
			{ItemCode: "BUN01", Quantity: qty(51), UoM: "PC", ToWarehouse: "WH02"},
		},
	})
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
}

func TestTransferCreate_UnknownDestinationWarehouse(t *testing.T) {
	_, svc := transferFixture(t)

	_, err := svc.Create(context.Background(), salesActor("WH01"), CreateTransferRequest{
		Lines: []TransferLineInput{
			{ItemCode: "BUN01", Quantity: qty(1), UoM: "PC", ToWarehouse: "WH99"},
		},
	})
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_REFERENCE", derr.Code)
}

func TestTransferCreate_UnknownItem(t *testing.T) {
	_, svc := transferFixture(t)

	_, err := svc.Create(context.Background(), salesActor("WH01"), CreateTransferRequest{
		Lines: []TransferLineInput{
			{ItemCode: "NOPE", Quantity: qty(1), UoM: "PC", ToWarehouse: "WH02"},
		},
	})
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "INVALID_REFERENCE", derr.Code)
}

func TestTransferCreate_CutoffBlocksPosting(t *testing.T) {
	store, svc := transferFixture(t)
	store.warehouses["WH01"].Cutoff = true

	_, err := svc.Create(context.Background(), salesActor("WH01"), CreateTransferRequest{
		Lines: []TransferLineInput{
			{ItemCode: "BUN01", Quantity: qty(1), UoM: "PC", ToWarehouse: "WH02"},
		},
	})
	assert.ErrorIs(t, err, shared.ErrCutoffActive)
}

func TestTransferCreate_SeriesNumbersAdvance(t *testing.T) {
	_, svc := transferFixture(t)
	actor := salesActor("WH01")
	req := CreateTransferRequest{
		Lines: []TransferLineInput{
			{ItemCode: "BUN01", Quantity: qty(5), UoM: "PC", ToWarehouse: "WH02"},
		},
	}

	first, err := svc.Create(context.Background(), actor, req)
	require.NoError(t, err)
	second, err := svc.Create(context.Background(), actor, req)
	require.NoError(t, err)

	assert.Equal(t, 1, first.DocNum)
	assert.Equal(t, 2, second.DocNum)
	assert.Equal(t, "WH01-REQT-2", second.Reference)
}

func TestTransferCancel_ReversesMovements(t *testing.T) {
	store, svc := transferFixture(t)
	actor := salesActor("WH01")

	transfer, err := svc.Create(context.Background(), actor, CreateTransferRequest{
		Lines: []TransferLineInput{
			{ItemCode: "BUN01", Quantity: qty(20), UoM: "PC", ToWarehouse: "WH02"},
		},
	})
	require.NoError(t, err)

	canceled, err := svc.Cancel(context.Background(), actor, transfer.ID)
	require.NoError(t, err)

	assert.Equal(t, document.StatusCanceled, canceled.Status)
	assert.Equal(t, document.LineCanceled, canceled.Lines[0].Status)
	assert.True(t, store.balanceOf("BUN01", "WH01").Equal(qty(50)))

	entries := store.ledgerFor(transfer.ID)
	require.Len(t, entries, 2)
	assert.True(t, entries[1].InQty.Equal(qty(20)))
}

func TestTransferCancel_BlockedByActiveReceiving(t *testing.T) {
	store, svc := transferFixture(t)
	actor := salesActor("WH01")

	transfer, err := svc.Create(context.Background(), actor, CreateTransferRequest{
		Lines: []TransferLineInput{
			{ItemCode: "BUN01", Quantity: qty(20), UoM: "PC", ToWarehouse: "WH02"},
		},
	})
	require.NoError(t, err)

	rcv := &logistics.Receiving{
		Header:        document.NewHeader("WH02", 1, "WH02-RCVE-1", transfer.TransDate, actor.Username),
		WarehouseCode: "WH02",
		Source:        logistics.SourceTransfer,
		SourceRef:     transfer.Reference,
	}
	store.receivings[rcv.ID] = rcv

	_, err = svc.Cancel(context.Background(), actor, transfer.ID)
	assert.ErrorIs(t, err, shared.ErrDependentDocument)
}

func TestTransferCancel_AlreadyCanceled(t *testing.T) {
	_, svc := transferFixture(t)
	actor := salesActor("WH01")

	transfer, err := svc.Create(context.Background(), actor, CreateTransferRequest{
		Lines: []TransferLineInput{
			{ItemCode: "BUN01", Quantity: qty(5), UoM: "PC", ToWarehouse: "WH02"},
		},
	})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), actor, transfer.ID)
	require.NoError(t, err)
	_, err = svc.Cancel(context.Background(), actor, transfer.ID)
	assert.ErrorIs(t, err, shared.ErrAlreadyCanceled)
}

func TestTransferStampSapNumber(t *testing.T) {
	_, svc := transferFixture(t)
	actor := salesActor("WH01")

	transfer, err := svc.Create(context.Background(), actor, CreateTransferRequest{
		Lines: []TransferLineInput{
			{ItemCode: "BUN01", Quantity: qty(5), UoM: "PC", ToWarehouse: "WH02"},
		},
	})
	require.NoError(t, err)

	stamped, err := svc.StampSapNumber(context.Background(), actor, transfer.ID, "SAP-4471")
	require.NoError(t, err)
	assert.Equal(t, "SAP-4471", stamped.SapNumber)

	_, err = svc.StampSapNumber(context.Background(), bareActor("WH01"), transfer.ID, "SAP-4472")
	assert.ErrorIs(t, err, shared.ErrUnauthorized)
}
