package posting

import (
	"context"
	"time"

	"github.com/bakehouse/backend/internal/domain/branch"
	"github.com/bakehouse/backend/internal/domain/inventory"
	"github.com/bakehouse/backend/internal/domain/series"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// allocate reserves the next number for (warehouse, objectCode) under a
// row lock and persists the increment inside the current transaction.
func allocate(ctx context.Context, r Repos, warehouseCode string, objectCode series.ObjectCode) (series.Allocation, error) {
	s, err := r.Series().FindForWarehouseLocked(ctx, warehouseCode, objectCode)
	if err != nil {
		return series.Allocation{}, err
	}
	alloc, err := s.Allocate()
	if err != nil {
		return series.Allocation{}, err
	}
	if err := r.Series().Save(ctx, s); err != nil {
		return series.Allocation{}, err
	}
	return alloc, nil
}

// movement describes one ledger posting to apply.
type movement struct {
	Alloc      series.Allocation
	TransID    uuid.UUID
	ObjectCode series.ObjectCode
	ItemCode   string
	UoM        string
	Warehouse  string
	Warehouse2 string
	Quantity   decimal.Decimal
	Remarks    string
	Actor      string
}

// postOut records an out-movement: the balance row is locked, the
// insufficient-stock check and the decrement happen atomically, and the
// ledger entry is appended in the same transaction.
func postOut(ctx context.Context, r Repos, m movement) (*inventory.LedgerEntry, error) {
	if err := r.Balances().Ensure(ctx, m.ItemCode, m.Warehouse); err != nil {
		return nil, err
	}
	bal, err := r.Balances().GetLocked(ctx, m.ItemCode, m.Warehouse)
	if err != nil {
		return nil, err
	}
	if !bal.CanDeduct(m.Quantity) {
		return nil, shared.ErrInsufficientStock
	}
	if err := bal.Apply(m.Quantity.Neg()); err != nil {
		return nil, err
	}
	if err := r.Balances().Save(ctx, bal); err != nil {
		return nil, err
	}
	entry, err := inventory.NewLedgerEntry(m.Alloc.SeriesCode, m.TransID, m.Alloc.Number,
		m.ObjectCode, m.ItemCode, decimal.Zero, m.Quantity, m.Warehouse, m.Alloc.Reference)
	if err != nil {
		return nil, err
	}
	entry.WithWarehouse2(m.Warehouse2).WithUoM(m.UoM).WithRemarks(m.Remarks).WithCreatedBy(m.Actor)
	if err := r.Ledger().Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// postIn records an in-movement; the balance row is locked for symmetry
// with postOut so pair updates serialize the same way.
func postIn(ctx context.Context, r Repos, m movement) (*inventory.LedgerEntry, error) {
	if err := r.Balances().Ensure(ctx, m.ItemCode, m.Warehouse); err != nil {
		return nil, err
	}
	bal, err := r.Balances().GetLocked(ctx, m.ItemCode, m.Warehouse)
	if err != nil {
		return nil, err
	}
	if err := bal.Apply(m.Quantity); err != nil {
		return nil, err
	}
	if err := r.Balances().Save(ctx, bal); err != nil {
		return nil, err
	}
	entry, err := inventory.NewLedgerEntry(m.Alloc.SeriesCode, m.TransID, m.Alloc.Number,
		m.ObjectCode, m.ItemCode, m.Quantity, decimal.Zero, m.Warehouse, m.Alloc.Reference)
	if err != nil {
		return nil, err
	}
	entry.WithWarehouse2(m.Warehouse2).WithUoM(m.UoM).WithRemarks(m.Remarks).WithCreatedBy(m.Actor)
	if err := r.Ledger().Append(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// reverseMovements posts the compensating entry for every ledger entry
// of the document and reverts the balances. Prior entries stay as they
// are.
func reverseMovements(ctx context.Context, r Repos, transID uuid.UUID, actor string) error {
	entries, err := r.Ledger().ListByTrans(ctx, transID)
	if err != nil {
		return err
	}
	for i := range entries {
		rev := entries[i].Reverse(actor)
		if err := r.Balances().Ensure(ctx, rev.ItemCode, rev.Warehouse); err != nil {
			return err
		}
		bal, err := r.Balances().GetLocked(ctx, rev.ItemCode, rev.Warehouse)
		if err != nil {
			return err
		}
		if err := bal.Apply(rev.Delta()); err != nil {
			return err
		}
		if err := r.Balances().Save(ctx, bal); err != nil {
			return err
		}
		if err := r.Ledger().Append(ctx, rev); err != nil {
			return err
		}
	}
	return nil
}

// mutableWarehouse loads a warehouse and rejects the posting while the
// warehouse is cut off for a physical count.
func mutableWarehouse(ctx context.Context, r Repos, code string) (*branch.Warehouse, error) {
	wh, err := r.Warehouses().FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if err := wh.GuardMutable(); err != nil {
		return nil, err
	}
	return wh, nil
}

// transDateLayout is the wire format for document dates.
const transDateLayout = "2006-01-02"

// parseTransDate parses a document date, defaulting to now when empty.
func parseTransDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(transDateLayout, s)
	if err != nil {
		return time.Time{}, shared.NewDomainError("INVALID_DATE", "Transaction date must be YYYY-MM-DD")
	}
	return t, nil
}

// validateLineRefs checks the referential integrity of one line.
func validateLineRefs(ctx context.Context, r Repos, itemCode, uom string) error {
	if itemCode == "" {
		return shared.ErrInvalidInput
	}
	ok, err := r.Items().ExistsByCode(ctx, itemCode)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NewDomainError("INVALID_REFERENCE", "Unknown item "+itemCode)
	}
	if uom != "" {
		ok, err = r.UoMs().ExistsByCode(ctx, uom)
		if err != nil {
			return err
		}
		if !ok {
			return shared.NewDomainError("INVALID_REFERENCE", "Unknown unit of measure "+uom)
		}
	}
	return nil
}
