package services

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"
	"time"

	"tap2serve_backend/internal/models"
	"tap2serve_backend/internal/repositories"

	"github.com/stretchr/testify/require"
)

// Services use *sql.DB only to demarcate transactions; every read and write
// goes through the repository fakes below. The stub driver accepts
// Begin/Commit/Rollback and rejects actual statements. Optional hooks let a
// test observe transaction outcomes (see the stock fake's journal).

type txHooks struct {
	onCommit   func()
	onRollback func()
}

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConnector struct {
	hooks *txHooks
}

func (c *stubConnector) Connect(context.Context) (driver.Conn, error) {
	return stubConn{hooks: c.hooks}, nil
}

func (c *stubConnector) Driver() driver.Driver { return stubDriver{} }

type stubConn struct {
	hooks *txHooks
}

func (stubConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("statements are not supported by the transaction stub")
}
func (stubConn) Close() error { return nil }
func (c stubConn) Begin() (driver.Tx, error) {
	return stubTx{hooks: c.hooks}, nil
}

type stubTx struct {
	hooks *txHooks
}

func (tx stubTx) Commit() error {
	if tx.hooks != nil && tx.hooks.onCommit != nil {
		tx.hooks.onCommit()
	}
	return nil
}

func (tx stubTx) Rollback() error {
	if tx.hooks != nil && tx.hooks.onRollback != nil {
		tx.hooks.onRollback()
	}
	return nil
}

func newStubDB(t *testing.T) *sql.DB {
	t.Helper()
	db := sql.OpenDB(&stubConnector{})
	t.Cleanup(func() { db.Close() })
	return db
}

// newHookedStubDB wires transaction outcomes to callbacks. Only safe for
// sequential tests: the hooks cannot tell concurrent transactions apart.
func newHookedStubDB(t *testing.T, hooks *txHooks) *sql.DB {
	t.Helper()
	db := sql.OpenDB(&stubConnector{hooks: hooks})
	t.Cleanup(func() { db.Close() })
	return db
}

// ---- stock fake ----

type stockKey struct {
	restaurantID int64
	menuItemID   int64
}

type fakeStockRepo struct {
	mu      sync.Mutex
	records map[stockKey]*models.StockRecord

	// journal collects undo steps for mutations made since the last commit
	// or rollback. Paired with newHookedStubDB in sequential tests to mirror
	// the database's transactional rollback.
	journal []func()
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{records: make(map[stockKey]*models.StockRecord)}
}

func (f *fakeStockRepo) seed(restaurantID, menuItemID int64, qty int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[stockKey{restaurantID, menuItemID}] = &models.StockRecord{
		RestaurantID: restaurantID,
		MenuItemID:   menuItemID,
		Quantity:     qty,
		UpdatedAt:    time.Now(),
	}
}

func (f *fakeStockRepo) quantity(t *testing.T, restaurantID, menuItemID int64) int {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[stockKey{restaurantID, menuItemID}]
	require.True(t, ok, "no stock record for item %d", menuItemID)
	return rec.Quantity
}

func (f *fakeStockRepo) Reserve(_ repositories.SQLExecutor, restaurantID, menuItemID int64, qty int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[stockKey{restaurantID, menuItemID}]
	if !ok {
		return 0, repositories.ErrNoStockRecord
	}
	if rec.Quantity < qty {
		return rec.Quantity, repositories.ErrInsufficientStock
	}
	rec.Quantity -= qty
	f.journal = append(f.journal, func() { rec.Quantity += qty })
	return rec.Quantity, nil
}

func (f *fakeStockRepo) Release(_ repositories.SQLExecutor, restaurantID, menuItemID int64, qty int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.records[stockKey{restaurantID, menuItemID}]; ok {
		rec.Quantity += qty
		f.journal = append(f.journal, func() { rec.Quantity -= qty })
	}
	return nil
}

// commitTx discards pending undo steps; rollbackTx applies them in reverse.
func (f *fakeStockRepo) commitTx() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.journal = nil
}

func (f *fakeStockRepo) rollbackTx() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.journal) - 1; i >= 0; i-- {
		f.journal[i]()
	}
	f.journal = nil
}

func (f *fakeStockRepo) UpsertStock(_ repositories.SQLExecutor, record *models.StockRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *record
	f.records[stockKey{record.RestaurantID, record.MenuItemID}] = &stored
	return nil
}

func (f *fakeStockRepo) GetStock(restaurantID int64, _ *int64) ([]models.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	records := []models.StockRecord{}
	for key, rec := range f.records {
		if key.restaurantID == restaurantID {
			records = append(records, *rec)
		}
	}
	return records, nil
}

func (f *fakeStockRepo) GetRecord(restaurantID, menuItemID int64) (*models.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[stockKey{restaurantID, menuItemID}]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *rec
	return &out, nil
}

// ---- menu fake ----

type fakeMenuRepo struct {
	mu    sync.Mutex
	items map[stockKey]*models.MenuItem
}

func newFakeMenuRepo() *fakeMenuRepo {
	return &fakeMenuRepo{items: make(map[stockKey]*models.MenuItem)}
}

func (f *fakeMenuRepo) seed(item models.MenuItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := item
	f.items[stockKey{item.RestaurantID, item.ID}] = &stored
}

func (f *fakeMenuRepo) CreateItem(_ repositories.SQLExecutor, item *models.MenuItem) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ID = int64(len(f.items) + 1)
	stored := *item
	f.items[stockKey{item.RestaurantID, item.ID}] = &stored
	return item.ID, nil
}

func (f *fakeMenuRepo) GetItemByID(restaurantID, id int64) (*models.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[stockKey{restaurantID, id}]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	out := *item
	return &out, nil
}

func (f *fakeMenuRepo) GetItems(restaurantID int64, _ *string, _, _ int) ([]models.MenuItem, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := []models.MenuItem{}
	for key, item := range f.items {
		if key.restaurantID == restaurantID {
			items = append(items, *item)
		}
	}
	return items, len(items), nil
}

func (f *fakeMenuRepo) GetPublicItems(restaurantID int64) ([]models.MenuItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := []models.MenuItem{}
	for key, item := range f.items {
		if key.restaurantID == restaurantID && item.Available && item.Status == models.MenuStatusApproved {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (f *fakeMenuRepo) UpdateItem(_ repositories.SQLExecutor, item *models.MenuItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := stockKey{item.RestaurantID, item.ID}
	if _, ok := f.items[key]; !ok {
		return repositories.ErrNotFound
	}
	stored := *item
	f.items[key] = &stored
	return nil
}

func (f *fakeMenuRepo) DeleteItem(_ repositories.SQLExecutor, restaurantID, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := stockKey{restaurantID, id}
	if _, ok := f.items[key]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.items, key)
	return nil
}

func (f *fakeMenuRepo) ApproveItem(_ repositories.SQLExecutor, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.ID == id {
			item.Status = models.MenuStatusApproved
			return nil
		}
	}
	return repositories.ErrNotFound
}

// ---- order fake ----

type fakeOrderRepo struct {
	mu     sync.Mutex
	nextID int64
	orders map[int64]*models.Order
	items  map[int64][]models.OrderItem

	// tokenLookupMisses makes GetOrderByIdempotencyKey report ErrNotFound
	// for that many calls, simulating the window where a concurrent
	// creation has not committed yet.
	tokenLookupMisses int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[int64]*models.Order),
		items:  make(map[int64][]models.OrderItem),
	}
}

func (f *fakeOrderRepo) seed(order models.Order, items []models.OrderItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if order.ID == 0 {
		f.nextID++
		order.ID = f.nextID
	} else if order.ID > f.nextID {
		f.nextID = order.ID
	}
	stored := order
	f.orders[order.ID] = &stored
	for i := range items {
		items[i].OrderID = order.ID
	}
	f.items[order.ID] = append([]models.OrderItem(nil), items...)
}

func (f *fakeOrderRepo) orderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func (f *fakeOrderRepo) CreateOrder(_ repositories.SQLExecutor, order *models.Order) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if order.IdempotencyKey != nil {
		for _, existing := range f.orders {
			if existing.RestaurantID == order.RestaurantID &&
				existing.IdempotencyKey != nil &&
				*existing.IdempotencyKey == *order.IdempotencyKey {
				return 0, repositories.ErrDuplicateKey
			}
		}
	}
	f.nextID++
	order.ID = f.nextID
	stored := *order
	f.orders[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeOrderRepo) CreateOrderItem(_ repositories.SQLExecutor, item *models.OrderItem) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item.ID = int64(len(f.items[item.OrderID]) + 1)
	f.items[item.OrderID] = append(f.items[item.OrderID], *item)
	return item.ID, nil
}

func (f *fakeOrderRepo) GetOrderByID(restaurantID, orderID int64) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok || order.RestaurantID != restaurantID {
		return nil, repositories.ErrNotFound
	}
	out := *order
	return &out, nil
}

func (f *fakeOrderRepo) GetOrders(restaurantID int64, filters models.OrderFilters) ([]models.Order, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	orders := []models.Order{}
	for _, order := range f.orders {
		if order.RestaurantID != restaurantID {
			continue
		}
		if filters.Status != nil && order.Status != *filters.Status {
			continue
		}
		if filters.TableNo != nil && order.TableNo != *filters.TableNo {
			continue
		}
		orders = append(orders, *order)
	}
	return orders, len(orders), nil
}

func (f *fakeOrderRepo) GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.OrderItem(nil), f.items[orderID]...), nil
}

func (f *fakeOrderRepo) UpdateOrderStatus(_ repositories.SQLExecutor, restaurantID, orderID int64, newStatus string, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok || order.RestaurantID != restaurantID {
		return repositories.ErrNotFound
	}
	order.Status = newStatus
	order.UpdatedAt = updatedAt
	return nil
}

func (f *fakeOrderRepo) CancelOrder(_ repositories.SQLExecutor, restaurantID, orderID int64, updatedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok || order.RestaurantID != restaurantID {
		return false, repositories.ErrNotFound
	}
	if order.Status == models.OrderStatusCancelled {
		return false, nil
	}
	order.Status = models.OrderStatusCancelled
	order.UpdatedAt = updatedAt
	return true, nil
}

func (f *fakeOrderRepo) GetOrderByIdempotencyKey(restaurantID int64, key string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tokenLookupMisses > 0 {
		f.tokenLookupMisses--
		return nil, repositories.ErrNotFound
	}
	for _, order := range f.orders {
		if order.RestaurantID == restaurantID && order.IdempotencyKey != nil && *order.IdempotencyKey == key {
			out := *order
			return &out, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeOrderRepo) SetInvoiceID(_ repositories.SQLExecutor, restaurantID, orderID int64, invoiceID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok || order.RestaurantID != restaurantID || order.InvoiceID != nil {
		return repositories.ErrNotFound
	}
	order.InvoiceID = &invoiceID
	return nil
}

// ---- audit fake ----

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []models.AuditLog
	events  map[string]bool
}

func newFakeAuditRepo() *fakeAuditRepo {
	return &fakeAuditRepo{events: make(map[string]bool)}
}

func (f *fakeAuditRepo) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	actions := make([]string, 0, len(f.entries))
	for _, entry := range f.entries {
		actions = append(actions, entry.Action)
	}
	return actions
}

func (f *fakeAuditRepo) CreateEntry(_ repositories.SQLExecutor, entry *models.AuditLog) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *entry)
	return entry.ID, nil
}

func (f *fakeAuditRepo) GetEntries(restaurantID *int64, _, _ int) ([]models.AuditLog, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entries := []models.AuditLog{}
	for _, entry := range f.entries {
		if restaurantID != nil && (entry.RestaurantID == nil || *entry.RestaurantID != *restaurantID) {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, len(entries), nil
}

func (f *fakeAuditRepo) RecordWebhookEvent(_ repositories.SQLExecutor, event *models.WebhookEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.events[event.EventID] {
		return repositories.ErrDuplicateKey
	}
	f.events[event.EventID] = true
	return nil
}
