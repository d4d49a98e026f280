package services

import (
	"strings"
	"sync"
	"testing"

	"tap2serve_backend/internal/models"
	"tap2serve_backend/internal/notifier"

	"github.com/stretchr/testify/require"
)

type orderServiceFixture struct {
	orders  *fakeOrderRepo
	menu    *fakeMenuRepo
	stock   *fakeStockRepo
	audit   *fakeAuditRepo
	service OrderService
}

func newOrderServiceFixture(t *testing.T, stockPolicy string) *orderServiceFixture {
	t.Helper()
	hub := notifier.NewHub()
	t.Cleanup(hub.Close)

	f := &orderServiceFixture{
		orders: newFakeOrderRepo(),
		menu:   newFakeMenuRepo(),
		stock:  newFakeStockRepo(),
		audit:  newFakeAuditRepo(),
	}
	f.service = NewOrderService(f.orders, f.menu, f.stock, f.audit, hub, newStubDB(t), stockPolicy)
	return f
}

func (f *orderServiceFixture) seedApprovedItem(restaurantID, itemID int64, name string, price float64) {
	f.menu.seed(models.MenuItem{
		ID:           itemID,
		RestaurantID: restaurantID,
		Name:         name,
		Category:     "mains",
		Price:        price,
		Available:    true,
		Status:       models.MenuStatusApproved,
	})
}

func strPtr(s string) *string { return &s }

// menuLine builds a request line referencing a menu item.
func menuLine(menuItemID int64, qty int) CreateOrderItemRequest {
	return CreateOrderItemRequest{MenuItemID: &menuItemID, Quantity: qty}
}

func TestCreateOrder_ReservesStockAndSnapshotsPrices(t *testing.T) {
	f := newOrderServiceFixture(t, StockPolicyUnlimited)
	f.seedApprovedItem(1, 10, "Plov", 12.50)
	f.seedApprovedItem(1, 11, "Lagman", 9.00)
	f.stock.seed(1, 10, 5)
	f.stock.seed(1, 11, 2)

	userID := int64(7)
	result, err := f.service.CreateOrder(1, &userID, CreateOrderRequest{
		TableNo: "T4",
		Items: []CreateOrderItemRequest{
			menuLine(10, 2),
			menuLine(11, 1),
		},
	})
	require.NoError(t, err)
	require.False(t, result.Duplicate)

	order := result.Order
	require.NotZero(t, order.ID)
	require.Equal(t, models.OrderStatusNew, order.Status)
	require.Equal(t, "T4", order.TableNo)
	require.InDelta(t, 2*12.50+9.00, order.Total, 0.001)
	require.Len(t, order.Items, 2)
	require.Equal(t, "Plov", order.Items[0].Name)
	require.InDelta(t, 12.50, order.Items[0].Price, 0.001)

	require.Equal(t, 3, f.stock.quantity(t, 1, 10))
	require.Equal(t, 1, f.stock.quantity(t, 1, 11))
	require.Contains(t, f.audit.actions(), "order_created")
}

func TestCreateOrder_RejectsInsufficientStock(t *testing.T) {
	f := newOrderServiceFixture(t, StockPolicyUnlimited)
	f.seedApprovedItem(1, 10, "Plov", 12.50)
	f.stock.seed(1, 10, 1)

	_, err := f.service.CreateOrder(1, nil, CreateOrderRequest{
		TableNo: "T1",
		Items:   []CreateOrderItemRequest{menuLine(10, 2)},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.Contains(t, err.Error(), "Available: 1")
	require.Zero(t, f.orders.orderCount())
}

func TestCreateOrder_FailedLineRestoresEarlierReservations(t *testing.T) {
	hub := notifier.NewHub()
	t.Cleanup(hub.Close)

	orders := newFakeOrderRepo()
	menu := newFakeMenuRepo()
	stock := newFakeStockRepo()
	audit := newFakeAuditRepo()
	db := newHookedStubDB(t, &txHooks{
		onCommit:   stock.commitTx,
		onRollback: stock.rollbackTx,
	})
	svc := NewOrderService(orders, menu, stock, audit, hub, db, StockPolicyUnlimited)

	menu.seed(models.MenuItem{
		ID: 10, RestaurantID: 1, Name: "Plov", Price: 12.50,
		Available: true, Status: models.MenuStatusApproved,
	})
	menu.seed(models.MenuItem{
		ID: 11, RestaurantID: 1, Name: "Lagman", Price: 9.00,
		Available: true, Status: models.MenuStatusApproved,
	})
	stock.seed(1, 10, 5)
	stock.seed(1, 11, 1)

	_, err := svc.CreateOrder(1, nil, CreateOrderRequest{
		TableNo: "T1",
		Items: []CreateOrderItemRequest{
			menuLine(10, 2),
			menuLine(11, 3),
		},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	// The first line's reservation rolls back with the transaction; nothing
	// about the failed order survives.
	require.Equal(t, 5, stock.quantity(t, 1, 10))
	require.Equal(t, 1, stock.quantity(t, 1, 11))
	require.Zero(t, orders.orderCount())
}

func TestCreateOrder_UntrackedItemFollowsStockPolicy(t *testing.T) {
	t.Run("unlimited", func(t *testing.T) {
		f := newOrderServiceFixture(t, StockPolicyUnlimited)
		f.seedApprovedItem(1, 10, "Tea", 2.00)

		result, err := f.service.CreateOrder(1, nil, CreateOrderRequest{
			TableNo: "T1",
			Items:   []CreateOrderItemRequest{menuLine(10, 99)},
		})
		require.NoError(t, err)
		require.False(t, result.Duplicate)
	})

	t.Run("zero", func(t *testing.T) {
		f := newOrderServiceFixture(t, StockPolicyZero)
		f.seedApprovedItem(1, 10, "Tea", 2.00)

		_, err := f.service.CreateOrder(1, nil, CreateOrderRequest{
			TableNo: "T1",
			Items:   []CreateOrderItemRequest{menuLine(10, 1)},
		})
		require.ErrorIs(t, err, ErrInsufficientStock)
		require.Contains(t, err.Error(), "Available: 0")
	})
}

func TestCreateOrder_AcceptsOffMenuLines(t *testing.T) {
	f := newOrderServiceFixture(t, StockPolicyZero)
	f.seedApprovedItem(1, 10, "Plov", 12.50)
	f.stock.seed(1, 10, 5)

	result, err := f.service.CreateOrder(1, nil, CreateOrderRequest{
		TableNo: "T4",
		Items: []CreateOrderItemRequest{
			menuLine(10, 2),
			{Name: "Birthday cake", Price: 30.00, Quantity: 1},
		},
	})
	require.NoError(t, err)

	order := result.Order
	require.InDelta(t, 2*12.50+30.00, order.Total, 0.001)
	require.Len(t, order.Items, 2)
	require.Nil(t, order.Items[1].MenuItemID)
	require.Equal(t, "Birthday cake", order.Items[1].Name)
	require.InDelta(t, 30.00, order.Items[1].Price, 0.001)

	// Only the menu-backed line is reserved; the off-menu line bypasses the
	// ledger even under the strict stock policy.
	require.Equal(t, 3, f.stock.quantity(t, 1, 10))
}

func TestCreateOrder_OffMenuLineNeedsAName(t *testing.T) {
	f := newOrderServiceFixture(t, StockPolicyUnlimited)

	_, err := f.service.CreateOrder(1, nil, CreateOrderRequest{
		TableNo: "T1",
		Items:   []CreateOrderItemRequest{{Price: 5.00, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.service.CreateOrder(1, nil, CreateOrderRequest{
		TableNo: "T1",
		Items:   []CreateOrderItemRequest{{Name: "Corkage", Price: -1, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrder_RejectsHiddenOrUnapprovedItems(t *testing.T) {
	f := newOrderServiceFixture(t, StockPolicyUnlimited)
	f.menu.seed(models.MenuItem{
		ID: 10, RestaurantID: 1, Name: "Draft dish", Price: 5,
		Available: true, Status: models.MenuStatusPending,
	})
	f.menu.seed(models.MenuItem{
		ID: 11, RestaurantID: 1, Name: "Sold out", Price: 5,
		Available: false, Status: models.MenuStatusApproved,
	})

	for _, itemID := range []int64{10, 11, 999} {
		_, err := f.service.CreateOrder(1, nil, CreateOrderRequest{
			TableNo: "T1",
			Items:   []CreateOrderItemRequest{menuLine(itemID, 1)},
		})
		require.ErrorIs(t, err, ErrMenuItemNotFound, "item %d", itemID)
	}
}

func TestCreateOrder_ValidatesPayload(t *testing.T) {
	f := newOrderServiceFixture(t, StockPolicyUnlimited)

	_, err := f.service.CreateOrder(1, nil, CreateOrderRequest{TableNo: "T1"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.service.CreateOrder(1, nil, CreateOrderRequest{
		TableNo: "   ",
		Items:   []CreateOrderItemRequest{menuLine(10, 1)},
	})
	require.ErrorIs(t, err, ErrValidation)

	_, err = f.service.CreateOrder(1, nil, CreateOrderRequest{
		TableNo: "T1",
		Items:   []CreateOrderItemRequest{menuLine(10, 0)},
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrder_ReplaysByIdempotencyToken(t *testing.T) {
	f := newOrderServiceFixture(t, StockPolicyUnlimited)
	f.seedApprovedItem(1, 10, "Plov", 12.50)
	f.stock.seed(1, 10, 5)

	req := CreateOrderRequest{
		TableNo:        "T2",
		IdempotencyKey: strPtr("token-abc"),
		Items:          []CreateOrderItemRequest{menuLine(10, 2)},
	}

	first, err := f.service.CreateOrder(1, nil, req)
	require.NoError(t, err)
	require.False(t, first.Duplicate)
	require.Equal(t, 3, f.stock.quantity(t, 1, 10))

	second, err := f.service.CreateOrder(1, nil, req)
	require.NoError(t, err)
	require.True(t, second.Duplicate)
	require.Equal(t, first.Order.ID, second.Order.ID)
	require.Len(t, second.Order.Items, 1)

	// The replay must not touch stock or create anything.
	require.Equal(t, 3, f.stock.quantity(t, 1, 10))
	require.Equal(t, 1, f.orders.orderCount())
}

func TestCreateOrder_TokensAreScopedPerRestaurant(t *testing.T) {
	f := newOrderServiceFixture(t, StockPolicyUnlimited)
	f.seedApprovedItem(1, 10, "Plov", 12.50)
	f.seedApprovedItem(2, 20, "Shashlik", 8.00)

	first, err := f.service.CreateOrder(1, nil, CreateOrderRequest{
		TableNo:        "T1",
		IdempotencyKey: strPtr("shared-token"),
		Items:          []CreateOrderItemRequest{menuLine(10, 1)},
	})
	require.NoError(t, err)

	second, err := f.service.CreateOrder(2, nil, CreateOrderRequest{
		TableNo:        "T1",
		IdempotencyKey: strPtr("shared-token"),
		Items:          []CreateOrderItemRequest{menuLine(20, 1)},
	})
	require.NoError(t, err)
	require.False(t, second.Duplicate)
	require.NotEqual(t, first.Order.ID, second.Order.ID)
}

func TestCreateOrder_TokenRaceReturnsCommittedWinner(t *testing.T) {
	f := newOrderServiceFixture(t, StockPolicyUnlimited)
	f.seedApprovedItem(1, 10, "Plov", 12.50)
	f.stock.seed(1, 10, 5)

	winner := models.Order{
		ID:             41,
		RestaurantID:   1,
		TableNo:        "T9",
		Status:         models.OrderStatusNew,
		Total:          12.50,
		IdempotencyKey: strPtr("raced-token"),
	}
	f.orders.seed(winner, []models.OrderItem{{Name: "Plov", Price: 12.50, Quantity: 1}})

	// The pre-check misses once, so the insert itself hits the unique
	// constraint and the recovery path re-reads the winner.
	f.orders.tokenLookupMisses = 1

	result, err := f.service.CreateOrder(1, nil, CreateOrderRequest{
		TableNo:        "T9",
		IdempotencyKey: strPtr("raced-token"),
		Items:          []CreateOrderItemRequest{menuLine(10, 1)},
	})
	require.NoError(t, err)
	require.True(t, result.Duplicate)
	require.Equal(t, winner.ID, result.Order.ID)
	require.Equal(t, 1, f.orders.orderCount())
}

func TestCreateOrder_ConcurrentOrdersNeverOversell(t *testing.T) {
	f := newOrderServiceFixture(t, StockPolicyUnlimited)
	f.seedApprovedItem(1, 10, "Plov", 12.50)
	f.stock.seed(1, 10, 3)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.service.CreateOrder(1, nil, CreateOrderRequest{
				TableNo: "T1",
				Items:   []CreateOrderItemRequest{menuLine(10, 2)},
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrInsufficientStock)
		}
	}
	require.Equal(t, 1, succeeded)
	require.Equal(t, 1, f.stock.quantity(t, 1, 10))
	require.Equal(t, 1, f.orders.orderCount())
}

func TestUpdateOrderStatus_CancelReturnsStockExactlyOnce(t *testing.T) {
	f := newOrderServiceFixture(t, StockPolicyUnlimited)
	f.seedApprovedItem(1, 10, "Plov", 12.50)
	f.stock.seed(1, 10, 5)

	created, err := f.service.CreateOrder(1, nil, CreateOrderRequest{
		TableNo: "T5",
		Items:   []CreateOrderItemRequest{menuLine(10, 2)},
	})
	require.NoError(t, err)
	require.Equal(t, 3, f.stock.quantity(t, 1, 10))

	cancelled, err := f.service.UpdateOrderStatus(1, nil, created.Order.ID, UpdateOrderStatusRequest{Status: models.OrderStatusCancelled})
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	require.Equal(t, 5, f.stock.quantity(t, 1, 10))

	// A repeated cancellation must not release again.
	_, err = f.service.UpdateOrderStatus(1, nil, created.Order.ID, UpdateOrderStatusRequest{Status: models.OrderStatusCancelled})
	require.NoError(t, err)
	require.Equal(t, 5, f.stock.quantity(t, 1, 10))
}

func TestUpdateOrderStatus_ConcurrentCancelsReleaseOnce(t *testing.T) {
	for i := 0; i < 50; i++ {
		f := newOrderServiceFixture(t, StockPolicyUnlimited)
		f.seedApprovedItem(1, 10, "Plov", 12.50)
		f.stock.seed(1, 10, 5)

		created, err := f.service.CreateOrder(1, nil, CreateOrderRequest{
			TableNo: "T5",
			Items:   []CreateOrderItemRequest{menuLine(10, 2)},
		})
		require.NoError(t, err)
		require.Equal(t, 3, f.stock.quantity(t, 1, 10))

		start := make(chan struct{})
		var wg sync.WaitGroup
		errs := make([]error, 2)
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func(j int) {
				defer wg.Done()
				<-start
				_, errs[j] = f.service.UpdateOrderStatus(1, nil, created.Order.ID, UpdateOrderStatusRequest{Status: models.OrderStatusCancelled})
			}(j)
		}
		close(start)
		wg.Wait()

		for _, err := range errs {
			require.NoError(t, err)
		}
		// Both callers succeed, but the 2 reserved units come back once.
		require.Equal(t, 5, f.stock.quantity(t, 1, 10))
	}
}

func TestUpdateOrderStatus_AllowsAnyTransition(t *testing.T) {
	f := newOrderServiceFixture(t, StockPolicyUnlimited)
	f.seedApprovedItem(1, 10, "Plov", 12.50)

	created, err := f.service.CreateOrder(1, nil, CreateOrderRequest{
		TableNo: "T5",
		Items:   []CreateOrderItemRequest{menuLine(10, 1)},
	})
	require.NoError(t, err)

	for _, status := range []string{
		models.OrderStatusPaid,
		models.OrderStatusCooking,
		models.OrderStatusServed,
	} {
		updated, err := f.service.UpdateOrderStatus(1, nil, created.Order.ID, UpdateOrderStatusRequest{Status: status})
		require.NoError(t, err)
		require.Equal(t, status, updated.Status)
	}
}

func TestUpdateOrderStatus_UnknownOrder(t *testing.T) {
	f := newOrderServiceFixture(t, StockPolicyUnlimited)

	_, err := f.service.UpdateOrderStatus(1, nil, 404, UpdateOrderStatusRequest{Status: models.OrderStatusReady})
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestGetOrders_RejectsMalformedDateFilters(t *testing.T) {
	f := newOrderServiceFixture(t, StockPolicyUnlimited)

	_, _, err := f.service.GetOrders(1, models.OrderFilters{DateFrom: strPtr("01-09-2026")})
	require.ErrorIs(t, err, ErrValidation)

	_, _, err = f.service.GetOrders(1, models.OrderFilters{DateTo: strPtr("not-a-date")})
	require.ErrorIs(t, err, ErrValidation)

	_, _, err = f.service.GetOrders(1, models.OrderFilters{DateFrom: strPtr("2026-09-01")})
	require.NoError(t, err)
}

func TestGetOrderByID_ScopedToTenant(t *testing.T) {
	f := newOrderServiceFixture(t, StockPolicyUnlimited)
	f.seedApprovedItem(1, 10, "Plov", 12.50)

	created, err := f.service.CreateOrder(1, nil, CreateOrderRequest{
		TableNo: "T3",
		Items:   []CreateOrderItemRequest{menuLine(10, 1)},
	})
	require.NoError(t, err)

	_, err = f.service.GetOrderByID(2, created.Order.ID)
	require.ErrorIs(t, err, ErrOrderNotFound)

	order, err := f.service.GetOrderByID(1, created.Order.ID)
	require.NoError(t, err)
	require.Equal(t, created.Order.ID, order.ID)
	require.Len(t, order.Items, 1)
}

func TestGenerateInvoice_AssignsAtMostOnce(t *testing.T) {
	f := newOrderServiceFixture(t, StockPolicyUnlimited)
	f.seedApprovedItem(1, 10, "Plov", 12.50)

	created, err := f.service.CreateOrder(1, nil, CreateOrderRequest{
		TableNo: "T7",
		Items:   []CreateOrderItemRequest{menuLine(10, 1)},
	})
	require.NoError(t, err)

	first, err := f.service.GenerateInvoice(1, created.Order.ID)
	require.NoError(t, err)
	require.NotNil(t, first.InvoiceID)
	require.True(t, strings.HasPrefix(*first.InvoiceID, "INV-"))

	second, err := f.service.GenerateInvoice(1, created.Order.ID)
	require.NoError(t, err)
	require.Equal(t, *first.InvoiceID, *second.InvoiceID)
}

func TestGenerateInvoice_KeepsConcurrentlyAssignedID(t *testing.T) {
	f := newOrderServiceFixture(t, StockPolicyUnlimited)

	existing := "INV-20260901-deadbeef"
	f.orders.seed(models.Order{
		ID:           5,
		RestaurantID: 1,
		TableNo:      "T1",
		Status:       models.OrderStatusServed,
		InvoiceID:    &existing,
	}, nil)

	order, err := f.service.GenerateInvoice(1, 5)
	require.NoError(t, err)
	require.Equal(t, existing, *order.InvoiceID)
}

func TestGenerateInvoice_UnknownOrder(t *testing.T) {
	f := newOrderServiceFixture(t, StockPolicyUnlimited)

	_, err := f.service.GenerateInvoice(1, 404)
	require.ErrorIs(t, err, ErrOrderNotFound)
}
