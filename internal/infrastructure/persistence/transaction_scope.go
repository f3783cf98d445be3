package persistence

import (
	"context"

	"github.com/bakehouse/backend/internal/application/posting"
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
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every repository handed to the callback shares one transaction, so a
// posting either lands completely or not at all.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(r posting.Repos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepos{tx: tx})
	})
}

// gormRepos provides access to all repositories within a transaction.
type gormRepos struct {
	tx *gorm.DB
}

func (r *gormRepos) Series() series.Repository {
	return NewGormSeriesRepository(r.tx)
}

func (r *gormRepos) ObjectTypes() series.ObjectTypeRepository {
	return NewGormObjectTypeRepository(r.tx)
}

func (r *gormRepos) Balances() inventory.BalanceRepository {
	return NewGormBalanceRepository(r.tx)
}

func (r *gormRepos) Ledger() inventory.LedgerRepository {
	return NewGormLedgerRepository(r.tx)
}

func (r *gormRepos) Transfers() logistics.TransferRepository {
	return NewGormTransferRepository(r.tx)
}

func (r *gormRepos) Receivings() logistics.ReceivingRepository {
	return NewGormReceivingRepository(r.tx)
}

func (r *gormRepos) Sales() trade.SalesRepository {
	return NewGormSalesRepository(r.tx)
}

func (r *gormRepos) Payments() trade.PaymentRepository {
	return NewGormPaymentRepository(r.tx)
}

func (r *gormRepos) Adjustments() adjustment.Repository {
	return NewGormAdjustmentRepository(r.tx)
}

func (r *gormRepos) CountSheets() stockcount.CountSheetRepository {
	return NewGormCountSheetRepository(r.tx)
}

func (r *gormRepos) PullOutRequests() stockcount.PullOutRequestRepository {
	return NewGormPullOutRequestRepository(r.tx)
}

func (r *gormRepos) PullOuts() stockcount.PullOutRepository {
	return NewGormPullOutRepository(r.tx)
}

func (r *gormRepos) Customers() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r *gormRepos) Advances() partner.AdvancePaymentRepository {
	return NewGormAdvancePaymentRepository(r.tx)
}

func (r *gormRepos) Items() catalog.ItemRepository {
	return NewGormItemRepository(r.tx)
}

func (r *gormRepos) UoMs() catalog.UoMRepository {
	return NewGormUoMRepository(r.tx)
}

func (r *gormRepos) PriceLists() catalog.PriceListRepository {
	return NewGormPriceListRepository(r.tx)
}

func (r *gormRepos) Warehouses() branch.WarehouseRepository {
	return NewGormWarehouseRepository(r.tx)
}

func (r *gormRepos) Branches() branch.BranchRepository {
	return NewGormBranchRepository(r.tx)
}

func (r *gormRepos) Users() identity.UserRepository {
	return NewGormUserRepository(r.tx)
}

func (r *gormRepos) SapTransfers() sapb1.TransferMirrorRepository {
	return NewGormSapTransferRepository(r.tx)
}

func (r *gormRepos) SapPurchases() sapb1.PurchaseMirrorRepository {
	return NewGormSapPurchaseRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ posting.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormRepos implements Repos
var _ posting.Repos = (*gormRepos)(nil)
