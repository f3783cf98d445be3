// Package posting implements the document posting engine: one
// transaction script per document family, each running inside a single
// database transaction that covers validation, series allocation,
// header/line inserts and ledger/balance updates.
package posting

import (
	"context"

	"github.com/bakehouse/backend/internal/domain/adjustment"
	"github.com/bakehouse/backend/internal/domain/branch"
	"github.com/bakehouse/backend/internal/domain/catalog"
	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/domain/inventory"
	"github.com/bakehouse/backend/internal/domain/logistics"
	"github.com/bakehouse/backend/internal/domain/partner"
	"github.com/bakehouse/backend/internal/domain/sapb1"
	"github.com/bakehouse/backend/internal/domain/series"
	"github.com/bakehouse/backend/internal/domain/stockcount"
	"github.com/bakehouse/backend/internal/domain/trade"
)

// TransactionScope runs a function inside one database transaction.
// If the function returns an error the whole transaction rolls back,
// including any series increment made inside it.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(r Repos) error) error
}

// Repos bundles every repository participating in a posting
// transaction. All repositories returned by one Repos share the same
// underlying transaction.
type Repos interface {
	Series() series.Repository
	ObjectTypes() series.ObjectTypeRepository
	Balances() inventory.BalanceRepository
	Ledger() inventory.LedgerRepository
	Transfers() logistics.TransferRepository
	Receivings() logistics.ReceivingRepository
	Sales() trade.SalesRepository
	Payments() trade.PaymentRepository
	Adjustments() adjustment.Repository
	CountSheets() stockcount.CountSheetRepository
	PullOutRequests() stockcount.PullOutRequestRepository
	PullOuts() stockcount.PullOutRepository
	Customers() partner.CustomerRepository
	Advances() partner.AdvancePaymentRepository
	Items() catalog.ItemRepository
	UoMs() catalog.UoMRepository
	PriceLists() catalog.PriceListRepository
	Warehouses() branch.WarehouseRepository
	Branches() branch.BranchRepository
	Users() identity.UserRepository
	SapTransfers() sapb1.TransferMirrorRepository
	SapPurchases() sapb1.PurchaseMirrorRepository
}
