package posting

import (
	"context"
	"strings"
	"time"

	"github.com/bakehouse/backend/internal/domain/adjustment"
	"github.com/bakehouse/backend/internal/domain/branch"
	"github.com/bakehouse/backend/internal/domain/catalog"
	"github.com/bakehouse/backend/internal/domain/document"
	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/domain/inventory"
	"github.com/bakehouse/backend/internal/domain/logistics"
	"github.com/bakehouse/backend/internal/domain/partner"
	"github.com/bakehouse/backend/internal/domain/sapb1"
	"github.com/bakehouse/backend/internal/domain/series"
	"github.com/bakehouse/backend/internal/domain/shared"
	"github.com/bakehouse/backend/internal/domain/stockcount"
	"github.com/bakehouse/backend/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory stand-in for the persistence layer. It backs
// every repository with maps so service tests run without a database.
// Execute runs the callback directly; tests that provoke a mid-script
// failure must not assert on store state afterwards.
type memStore struct {
	series       map[string]*series.Series
	objectTypes  map[series.ObjectCode]*series.ObjectType
	balances     map[string]*inventory.WarehouseBalance
	ledger       []*inventory.LedgerEntry
	transfers    map[uuid.UUID]*logistics.Transfer
	receivings   map[uuid.UUID]*logistics.Receiving
	sales        map[uuid.UUID]*trade.Sales
	payments     map[uuid.UUID]*trade.Payment
	adjustments  map[uuid.UUID]*adjustment.Adjustment
	countSheets  map[uuid.UUID]*stockcount.CountSheet
	poRequests   map[uuid.UUID]*stockcount.PullOutRequest
	pullOuts     map[uuid.UUID]*stockcount.PullOut
	customers    map[string]*partner.Customer
	advances     map[string]*partner.AdvancePayment
	items        map[string]*catalog.Item
	uoms         map[string]*catalog.UnitOfMeasure
	priceLists   map[uuid.UUID]*catalog.PriceList
	prices       map[string]decimal.Decimal
	warehouses   map[string]*branch.Warehouse
	branches     map[string]*branch.Branch
	users        map[uuid.UUID]*identity.User
	sapTransfers map[string]*sapb1.TransferHeader
	sapPurchases map[string]*sapb1.PurchaseHeader
}

func newMemStore() *memStore {
	return &memStore{
		series:       map[string]*series.Series{},
		objectTypes:  map[series.ObjectCode]*series.ObjectType{},
		balances:     map[string]*inventory.WarehouseBalance{},
		transfers:    map[uuid.UUID]*logistics.Transfer{},
		receivings:   map[uuid.UUID]*logistics.Receiving{},
		sales:        map[uuid.UUID]*trade.Sales{},
		payments:     map[uuid.UUID]*trade.Payment{},
		adjustments:  map[uuid.UUID]*adjustment.Adjustment{},
		countSheets:  map[uuid.UUID]*stockcount.CountSheet{},
		poRequests:   map[uuid.UUID]*stockcount.PullOutRequest{},
		pullOuts:     map[uuid.UUID]*stockcount.PullOut{},
		customers:    map[string]*partner.Customer{},
		advances:     map[string]*partner.AdvancePayment{},
		items:        map[string]*catalog.Item{},
		uoms:         map[string]*catalog.UnitOfMeasure{},
		priceLists:   map[uuid.UUID]*catalog.PriceList{},
		prices:       map[string]decimal.Decimal{},
		warehouses:   map[string]*branch.Warehouse{},
		branches:     map[string]*branch.Branch{},
		users:        map[uuid.UUID]*identity.User{},
		sapTransfers: map[string]*sapb1.TransferHeader{},
		sapPurchases: map[string]*sapb1.PurchaseHeader{},
	}
}

func (m *memStore) Execute(ctx context.Context, fn func(r Repos) error) error {
	return fn(m)
}

var _ TransactionScope = (*memStore)(nil)
var _ Repos = (*memStore)(nil)

func pairKey(a, b string) string { return a + "|" + b }

// Seed helpers.

func (m *memStore) seedWarehouse(code, branchCode string, priceListID *uuid.UUID) *branch.Warehouse {
	wh, _ := branch.NewWarehouse(code, code, branchCode)
	wh.PriceListID = priceListID
	m.warehouses[code] = wh
	return wh
}

func (m *memStore) seedSeries(warehouseCode string, objectCode series.ObjectCode, start, end int) *series.Series {
	s, _ := series.NewSeries(warehouseCode, warehouseCode, warehouseCode, objectCode, start, end)
	m.series[pairKey(warehouseCode, string(objectCode))] = s
	return s
}

func (m *memStore) seedItem(code, uom string) {
	item, _ := catalog.NewItem(code, code, uom)
	m.items[code] = item
	if uom != "" {
		m.uoms[uom] = &catalog.UnitOfMeasure{BaseEntity: shared.NewBaseEntity(), Code: uom, Name: uom}
	}
}

func (m *memStore) seedBalance(itemCode, warehouseCode string, qty decimal.Decimal) {
	b := inventory.NewWarehouseBalance(itemCode, warehouseCode)
	b.Quantity = qty
	m.balances[pairKey(itemCode, warehouseCode)] = b
}

func (m *memStore) seedCustomer(code, name string) *partner.Customer {
	c, _ := partner.NewCustomer(code, name)
	m.customers[code] = c
	return c
}

func (m *memStore) seedPriceList(name string) *catalog.PriceList {
	pl := &catalog.PriceList{BaseEntity: shared.NewBaseEntity(), Name: name}
	m.priceLists[pl.ID] = pl
	return pl
}

func (m *memStore) seedPrice(priceListID uuid.UUID, itemCode string, price decimal.Decimal) {
	m.prices[pairKey(priceListID.String(), itemCode)] = price
}

func (m *memStore) balanceOf(itemCode, warehouseCode string) decimal.Decimal {
	if b, ok := m.balances[pairKey(itemCode, warehouseCode)]; ok {
		return b.Quantity
	}
	return decimal.Zero
}

func (m *memStore) ledgerFor(transID uuid.UUID) []*inventory.LedgerEntry {
	var out []*inventory.LedgerEntry
	for _, e := range m.ledger {
		if e.TransID == transID {
			out = append(out, e)
		}
	}
	return out
}

// Repos accessors.

func (m *memStore) Series() series.Repository                        { return &memSeries{m} }
func (m *memStore) ObjectTypes() series.ObjectTypeRepository         { return &memObjectTypes{m} }
func (m *memStore) Balances() inventory.BalanceRepository            { return &memBalances{m} }
func (m *memStore) Ledger() inventory.LedgerRepository               { return &memLedger{m} }
func (m *memStore) Transfers() logistics.TransferRepository          { return &memTransfers{m} }
func (m *memStore) Receivings() logistics.ReceivingRepository        { return &memReceivings{m} }
func (m *memStore) Sales() trade.SalesRepository                     { return &memSales{m} }
func (m *memStore) Payments() trade.PaymentRepository                { return &memPayments{m} }
func (m *memStore) Adjustments() adjustment.Repository               { return &memAdjustments{m} }
func (m *memStore) CountSheets() stockcount.CountSheetRepository     { return &memCountSheets{m} }
func (m *memStore) PullOutRequests() stockcount.PullOutRequestRepository {
	return &memPullOutRequests{m}
}
func (m *memStore) PullOuts() stockcount.PullOutRepository         { return &memPullOuts{m} }
func (m *memStore) Customers() partner.CustomerRepository          { return &memCustomers{m} }
func (m *memStore) Advances() partner.AdvancePaymentRepository     { return &memAdvances{m} }
func (m *memStore) Items() catalog.ItemRepository                  { return &memItems{m} }
func (m *memStore) UoMs() catalog.UoMRepository                    { return &memUoMs{m} }
func (m *memStore) PriceLists() catalog.PriceListRepository        { return &memPriceLists{m} }
func (m *memStore) Warehouses() branch.WarehouseRepository         { return &memWarehouses{m} }
func (m *memStore) Branches() branch.BranchRepository              { return &memBranches{m} }
func (m *memStore) Users() identity.UserRepository                 { return &memUsers{m} }
func (m *memStore) SapTransfers() sapb1.TransferMirrorRepository   { return &memSapTransfers{m} }
func (m *memStore) SapPurchases() sapb1.PurchaseMirrorRepository   { return &memSapPurchases{m} }

type memSeries struct{ s *memStore }

func (r *memSeries) FindByID(_ context.Context, id uuid.UUID) (*series.Series, error) {
	for _, s := range r.s.series {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSeries) FindAll(_ context.Context, _ shared.Filter) ([]series.Series, error) {
	var out []series.Series
	for _, s := range r.s.series {
		out = append(out, *s)
	}
	return out, nil
}

func (r *memSeries) FindForWarehouse(_ context.Context, warehouseCode string, objectCode series.ObjectCode) (*series.Series, error) {
	if s, ok := r.s.series[pairKey(warehouseCode, string(objectCode))]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memSeries) FindForWarehouseLocked(ctx context.Context, warehouseCode string, objectCode series.ObjectCode) (*series.Series, error) {
	return r.FindForWarehouse(ctx, warehouseCode, objectCode)
}

func (r *memSeries) Save(_ context.Context, s *series.Series) error {
	r.s.series[pairKey(s.WarehouseCode, string(s.ObjectCode))] = s
	return nil
}

func (r *memSeries) Delete(_ context.Context, id uuid.UUID) error {
	for k, s := range r.s.series {
		if s.ID == id {
			delete(r.s.series, k)
			return nil
		}
	}
	return shared.ErrNotFound
}

type memObjectTypes struct{ s *memStore }

func (r *memObjectTypes) FindByCode(_ context.Context, code series.ObjectCode) (*series.ObjectType, error) {
	if o, ok := r.s.objectTypes[code]; ok {
		return o, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memObjectTypes) FindAll(_ context.Context) ([]series.ObjectType, error) {
	var out []series.ObjectType
	for _, o := range r.s.objectTypes {
		out = append(out, *o)
	}
	return out, nil
}

func (r *memObjectTypes) Save(_ context.Context, o *series.ObjectType) error {
	r.s.objectTypes[o.Code] = o
	return nil
}

type memBalances struct{ s *memStore }

func (r *memBalances) Ensure(_ context.Context, itemCode, warehouseCode string) error {
	key := pairKey(itemCode, warehouseCode)
	if _, ok := r.s.balances[key]; !ok {
		r.s.balances[key] = inventory.NewWarehouseBalance(itemCode, warehouseCode)
	}
	return nil
}

func (r *memBalances) Get(_ context.Context, itemCode, warehouseCode string) (*inventory.WarehouseBalance, error) {
	if b, ok := r.s.balances[pairKey(itemCode, warehouseCode)]; ok {
		return b, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memBalances) GetLocked(ctx context.Context, itemCode, warehouseCode string) (*inventory.WarehouseBalance, error) {
	return r.Get(ctx, itemCode, warehouseCode)
}

func (r *memBalances) Save(_ context.Context, b *inventory.WarehouseBalance) error {
	r.s.balances[pairKey(b.ItemCode, b.WarehouseCode)] = b
	return nil
}

func (r *memBalances) ListByWarehouse(_ context.Context, warehouseCode string, _ shared.Filter) ([]inventory.WarehouseBalance, error) {
	var out []inventory.WarehouseBalance
	for _, b := range r.s.balances {
		if b.WarehouseCode == warehouseCode {
			out = append(out, *b)
		}
	}
	return out, nil
}

type memLedger struct{ s *memStore }

func (r *memLedger) Append(_ context.Context, e *inventory.LedgerEntry) error {
	r.s.ledger = append(r.s.ledger, e)
	return nil
}

func (r *memLedger) ListByTrans(_ context.Context, transID uuid.UUID) ([]inventory.LedgerEntry, error) {
	var out []inventory.LedgerEntry
	for _, e := range r.s.ledger {
		if e.TransID == transID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *memLedger) ListByItemWarehouse(_ context.Context, itemCode, warehouseCode string, _, _ time.Time, _ shared.Filter) ([]inventory.LedgerEntry, error) {
	var out []inventory.LedgerEntry
	for _, e := range r.s.ledger {
		if e.ItemCode == itemCode && e.Warehouse == warehouseCode {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (r *memLedger) SumForPair(_ context.Context, itemCode, warehouseCode string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.s.ledger {
		if e.ItemCode == itemCode && e.Warehouse == warehouseCode {
			sum = sum.Add(e.Delta())
		}
	}
	return sum, nil
}

type memTransfers struct{ s *memStore }

func (r *memTransfers) FindByID(_ context.Context, id uuid.UUID) (*logistics.Transfer, error) {
	if t, ok := r.s.transfers[id]; ok {
		return t, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memTransfers) FindByReference(_ context.Context, reference string) (*logistics.Transfer, error) {
	for _, t := range r.s.transfers {
		if t.Reference == reference {
			return t, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memTransfers) FindAll(_ context.Context, _ shared.Filter) ([]logistics.Transfer, error) {
	var out []logistics.Transfer
	for _, t := range r.s.transfers {
		out = append(out, *t)
	}
	return out, nil
}

func (r *memTransfers) Save(_ context.Context, t *logistics.Transfer) error {
	r.s.transfers[t.ID] = t
	return nil
}

type memReceivings struct{ s *memStore }

func (r *memReceivings) FindByID(_ context.Context, id uuid.UUID) (*logistics.Receiving, error) {
	if rc, ok := r.s.receivings[id]; ok {
		return rc, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memReceivings) FindByReference(_ context.Context, reference string) (*logistics.Receiving, error) {
	for _, rc := range r.s.receivings {
		if rc.Reference == reference {
			return rc, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memReceivings) FindAll(_ context.Context, _ shared.Filter) ([]logistics.Receiving, error) {
	var out []logistics.Receiving
	for _, rc := range r.s.receivings {
		out = append(out, *rc)
	}
	return out, nil
}

func (r *memReceivings) Save(_ context.Context, rc *logistics.Receiving) error {
	r.s.receivings[rc.ID] = rc
	return nil
}

func (r *memReceivings) HasActiveForSource(_ context.Context, sourceRef string) (bool, error) {
	for _, rc := range r.s.receivings {
		if rc.SourceRef == sourceRef && rc.Status != document.StatusCanceled {
			return true, nil
		}
	}
	return false, nil
}

type memSales struct{ s *memStore }

func (r *memSales) FindByID(_ context.Context, id uuid.UUID) (*trade.Sales, error) {
	if s, ok := r.s.sales[id]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memSales) FindByReference(_ context.Context, reference string) (*trade.Sales, error) {
	for _, s := range r.s.sales {
		if s.Reference == reference {
			return s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSales) FindByReferenceLocked(ctx context.Context, reference string) (*trade.Sales, error) {
	return r.FindByReference(ctx, reference)
}

func (r *memSales) FindAll(_ context.Context, _ shared.Filter) ([]trade.Sales, error) {
	var out []trade.Sales
	for _, s := range r.s.sales {
		out = append(out, *s)
	}
	return out, nil
}

func (r *memSales) ListByCustomer(_ context.Context, customerCode string, _ shared.Filter) ([]trade.Sales, error) {
	var out []trade.Sales
	for _, s := range r.s.sales {
		if s.CustomerCode == customerCode {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *memSales) Save(_ context.Context, s *trade.Sales) error {
	r.s.sales[s.ID] = s
	return nil
}

type memPayments struct{ s *memStore }

func (r *memPayments) FindByID(_ context.Context, id uuid.UUID) (*trade.Payment, error) {
	if p, ok := r.s.payments[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memPayments) FindAll(_ context.Context, _ shared.Filter) ([]trade.Payment, error) {
	var out []trade.Payment
	for _, p := range r.s.payments {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memPayments) ListBySales(_ context.Context, salesRef string) ([]trade.Payment, error) {
	var out []trade.Payment
	for _, p := range r.s.payments {
		if p.SalesRef == salesRef {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPayments) ListByCustomer(_ context.Context, customerCode string, _ shared.Filter) ([]trade.Payment, error) {
	var out []trade.Payment
	for _, p := range r.s.payments {
		if p.CustomerCode == customerCode {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPayments) Save(_ context.Context, p *trade.Payment) error {
	r.s.payments[p.ID] = p
	return nil
}

type memAdjustments struct{ s *memStore }

func (r *memAdjustments) FindByID(_ context.Context, id uuid.UUID) (*adjustment.Adjustment, error) {
	if a, ok := r.s.adjustments[id]; ok {
		return a, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memAdjustments) FindByReference(_ context.Context, reference string) (*adjustment.Adjustment, error) {
	for _, a := range r.s.adjustments {
		if a.Reference == reference {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memAdjustments) FindAll(_ context.Context, _ shared.Filter) ([]adjustment.Adjustment, error) {
	var out []adjustment.Adjustment
	for _, a := range r.s.adjustments {
		out = append(out, *a)
	}
	return out, nil
}

func (r *memAdjustments) Save(_ context.Context, a *adjustment.Adjustment) error {
	r.s.adjustments[a.ID] = a
	return nil
}

type memCountSheets struct{ s *memStore }

func (r *memCountSheets) FindByID(_ context.Context, id uuid.UUID) (*stockcount.CountSheet, error) {
	if c, ok := r.s.countSheets[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memCountSheets) FindByWarehouseDate(_ context.Context, warehouseCode, countDate string) (*stockcount.CountSheet, error) {
	for _, c := range r.s.countSheets {
		if c.WarehouseCode == warehouseCode && c.CountDate == countDate {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCountSheets) FindAll(_ context.Context, _ shared.Filter) ([]stockcount.CountSheet, error) {
	var out []stockcount.CountSheet
	for _, c := range r.s.countSheets {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memCountSheets) Save(_ context.Context, c *stockcount.CountSheet) error {
	r.s.countSheets[c.ID] = c
	return nil
}

type memPullOutRequests struct{ s *memStore }

func (r *memPullOutRequests) FindByID(_ context.Context, id uuid.UUID) (*stockcount.PullOutRequest, error) {
	if p, ok := r.s.poRequests[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memPullOutRequests) FindByWarehouseDate(_ context.Context, warehouseCode, requestDate string) (*stockcount.PullOutRequest, error) {
	for _, p := range r.s.poRequests {
		if p.WarehouseCode == warehouseCode && p.RequestDate == requestDate {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memPullOutRequests) FindAll(_ context.Context, _ shared.Filter) ([]stockcount.PullOutRequest, error) {
	var out []stockcount.PullOutRequest
	for _, p := range r.s.poRequests {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memPullOutRequests) Save(_ context.Context, p *stockcount.PullOutRequest) error {
	r.s.poRequests[p.ID] = p
	return nil
}

type memPullOuts struct{ s *memStore }

func (r *memPullOuts) FindByID(_ context.Context, id uuid.UUID) (*stockcount.PullOut, error) {
	if p, ok := r.s.pullOuts[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memPullOuts) FindByReference(_ context.Context, reference string) (*stockcount.PullOut, error) {
	for _, p := range r.s.pullOuts {
		if p.Reference == reference {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memPullOuts) FindAll(_ context.Context, _ shared.Filter) ([]stockcount.PullOut, error) {
	var out []stockcount.PullOut
	for _, p := range r.s.pullOuts {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memPullOuts) Save(_ context.Context, p *stockcount.PullOut) error {
	r.s.pullOuts[p.ID] = p
	return nil
}

type memCustomers struct{ s *memStore }

func (r *memCustomers) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	for _, c := range r.s.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomers) FindByCode(_ context.Context, code string) (*partner.Customer, error) {
	if c, ok := r.s.customers[code]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomers) FindByCodeLocked(ctx context.Context, code string) (*partner.Customer, error) {
	return r.FindByCode(ctx, code)
}

func (r *memCustomers) FindShortageAccount(_ context.Context) (*partner.Customer, error) {
	for _, c := range r.s.customers {
		if strings.Contains(c.Name, partner.ShortageNameMarker) && c.Active {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomers) FindAll(_ context.Context, _ shared.Filter) ([]partner.Customer, error) {
	var out []partner.Customer
	for _, c := range r.s.customers {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memCustomers) Save(_ context.Context, c *partner.Customer) error {
	r.s.customers[c.Code] = c
	return nil
}

type memAdvances struct{ s *memStore }

func (r *memAdvances) FindByID(_ context.Context, id uuid.UUID) (*partner.AdvancePayment, error) {
	for _, a := range r.s.advances {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memAdvances) FindByReference(_ context.Context, reference string) (*partner.AdvancePayment, error) {
	if a, ok := r.s.advances[reference]; ok {
		return a, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memAdvances) FindByReferenceLocked(ctx context.Context, reference string) (*partner.AdvancePayment, error) {
	return r.FindByReference(ctx, reference)
}

func (r *memAdvances) FindAll(_ context.Context, _ shared.Filter) ([]partner.AdvancePayment, error) {
	var out []partner.AdvancePayment
	for _, a := range r.s.advances {
		out = append(out, *a)
	}
	return out, nil
}

func (r *memAdvances) ListByCustomer(_ context.Context, customerCode string) ([]partner.AdvancePayment, error) {
	var out []partner.AdvancePayment
	for _, a := range r.s.advances {
		if a.CustomerCode == customerCode {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memAdvances) Save(_ context.Context, a *partner.AdvancePayment) error {
	r.s.advances[a.Reference] = a
	return nil
}

type memItems struct{ s *memStore }

func (r *memItems) FindByID(_ context.Context, id uuid.UUID) (*catalog.Item, error) {
	for _, i := range r.s.items {
		if i.ID == id {
			return i, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memItems) FindByCode(_ context.Context, code string) (*catalog.Item, error) {
	if i, ok := r.s.items[code]; ok {
		return i, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memItems) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, ok := r.s.items[code]
	return ok, nil
}

func (r *memItems) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Item, error) {
	var out []catalog.Item
	for _, i := range r.s.items {
		out = append(out, *i)
	}
	return out, nil
}

func (r *memItems) Save(_ context.Context, i *catalog.Item) error {
	r.s.items[i.Code] = i
	return nil
}

type memUoMs struct{ s *memStore }

func (r *memUoMs) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, ok := r.s.uoms[code]
	return ok, nil
}

func (r *memUoMs) FindAll(_ context.Context) ([]catalog.UnitOfMeasure, error) {
	var out []catalog.UnitOfMeasure
	for _, u := range r.s.uoms {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUoMs) Save(_ context.Context, u *catalog.UnitOfMeasure) error {
	r.s.uoms[u.Code] = u
	return nil
}

type memPriceLists struct{ s *memStore }

func (r *memPriceLists) FindByID(_ context.Context, id uuid.UUID) (*catalog.PriceList, error) {
	if p, ok := r.s.priceLists[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memPriceLists) FindAll(_ context.Context, _ shared.Filter) ([]catalog.PriceList, error) {
	var out []catalog.PriceList
	for _, p := range r.s.priceLists {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memPriceLists) PriceFor(_ context.Context, priceListID uuid.UUID, itemCode string) (decimal.Decimal, error) {
	if p, ok := r.s.prices[pairKey(priceListID.String(), itemCode)]; ok {
		return p, nil
	}
	return decimal.Zero, shared.ErrNotFound
}

func (r *memPriceLists) Save(_ context.Context, p *catalog.PriceList) error {
	r.s.priceLists[p.ID] = p
	return nil
}

func (r *memPriceLists) SaveItem(_ context.Context, item *catalog.PriceListItem) error {
	r.s.prices[pairKey(item.PriceListID.String(), item.ItemCode)] = item.Price
	return nil
}

type memWarehouses struct{ s *memStore }

func (r *memWarehouses) FindByID(_ context.Context, id uuid.UUID) (*branch.Warehouse, error) {
	for _, w := range r.s.warehouses {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memWarehouses) FindByCode(_ context.Context, code string) (*branch.Warehouse, error) {
	if w, ok := r.s.warehouses[code]; ok {
		return w, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memWarehouses) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, ok := r.s.warehouses[code]
	return ok, nil
}

func (r *memWarehouses) FindAll(_ context.Context, _ shared.Filter) ([]branch.Warehouse, error) {
	var out []branch.Warehouse
	for _, w := range r.s.warehouses {
		out = append(out, *w)
	}
	return out, nil
}

func (r *memWarehouses) Save(_ context.Context, w *branch.Warehouse) error {
	r.s.warehouses[w.Code] = w
	return nil
}

type memBranches struct{ s *memStore }

func (r *memBranches) FindByID(_ context.Context, id uuid.UUID) (*branch.Branch, error) {
	for _, b := range r.s.branches {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memBranches) FindByCode(_ context.Context, code string) (*branch.Branch, error) {
	if b, ok := r.s.branches[code]; ok {
		return b, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memBranches) FindAll(_ context.Context, _ shared.Filter) ([]branch.Branch, error) {
	var out []branch.Branch
	for _, b := range r.s.branches {
		out = append(out, *b)
	}
	return out, nil
}

func (r *memBranches) Save(_ context.Context, b *branch.Branch) error {
	r.s.branches[b.Code] = b
	return nil
}

type memUsers struct{ s *memStore }

func (r *memUsers) FindByID(_ context.Context, id uuid.UUID) (*identity.User, error) {
	if u, ok := r.s.users[id]; ok {
		return u, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memUsers) FindByUsername(_ context.Context, username string) (*identity.User, error) {
	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memUsers) FindAll(_ context.Context, _ shared.Filter) ([]identity.User, error) {
	var out []identity.User
	for _, u := range r.s.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUsers) Save(_ context.Context, u *identity.User) error {
	r.s.users[u.ID] = u
	return nil
}

type memSapTransfers struct{ s *memStore }

func (r *memSapTransfers) FindByID(_ context.Context, id uuid.UUID) (*sapb1.TransferHeader, error) {
	for _, h := range r.s.sapTransfers {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSapTransfers) FindByDocNum(_ context.Context, docNum string) (*sapb1.TransferHeader, error) {
	if h, ok := r.s.sapTransfers[docNum]; ok {
		return h, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memSapTransfers) FindAll(_ context.Context, _ shared.Filter) ([]sapb1.TransferHeader, error) {
	var out []sapb1.TransferHeader
	for _, h := range r.s.sapTransfers {
		out = append(out, *h)
	}
	return out, nil
}

func (r *memSapTransfers) Save(_ context.Context, h *sapb1.TransferHeader) error {
	r.s.sapTransfers[h.DocNum] = h
	return nil
}

type memSapPurchases struct{ s *memStore }

func (r *memSapPurchases) FindByID(_ context.Context, id uuid.UUID) (*sapb1.PurchaseHeader, error) {
	for _, h := range r.s.sapPurchases {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSapPurchases) FindByDocNum(_ context.Context, docNum string) (*sapb1.PurchaseHeader, error) {
	if h, ok := r.s.sapPurchases[docNum]; ok {
		return h, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memSapPurchases) FindAll(_ context.Context, _ shared.Filter) ([]sapb1.PurchaseHeader, error) {
	var out []sapb1.PurchaseHeader
	for _, h := range r.s.sapPurchases {
		out = append(out, *h)
	}
	return out, nil
}

func (r *memSapPurchases) Save(_ context.Context, h *sapb1.PurchaseHeader) error {
	r.s.sapPurchases[h.DocNum] = h
	return nil
}

// Common test fixtures.

func salesActor(warehouse string) identity.Actor {
	return identity.Actor{
		UserID:        uuid.NewString(),
		Username:      "cashier1",
		WarehouseCode: warehouse,
		BranchCode:    "BR01",
		Capabilities:  []string{identity.CapSales, identity.CapCashier, identity.CapTransfer, identity.CapReceive, identity.CapVoid, identity.CapDiscount, identity.CapAddSap, identity.CapAllowEnding, identity.CapPullOut},
	}
}

func managerActor(warehouse string) identity.Actor {
	return identity.Actor{
		UserID:        uuid.NewString(),
		Username:      "manager1",
		WarehouseCode: warehouse,
		BranchCode:    "BR01",
		Capabilities:  []string{identity.CapManager, identity.CapVoid, identity.CapAllowEnding, identity.CapPullOut},
	}
}

func bareActor(warehouse string) identity.Actor {
	return identity.Actor{
		UserID:        uuid.NewString(),
		Username:      "viewer1",
		WarehouseCode: warehouse,
		BranchCode:    "BR01",
		Capabilities:  []string{identity.CapAuditor},
	}
}
