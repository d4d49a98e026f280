package services

import (
	"testing"

	"tap2serve_backend/internal/models"

	"github.com/stretchr/testify/require"
)

func TestSetStock_OverwritesQuantity(t *testing.T) {
	stock := newFakeStockRepo()
	menu := newFakeMenuRepo()
	audit := newFakeAuditRepo()
	svc := NewInventoryService(stock, menu, audit, newStubDB(t))

	menu.seed(models.MenuItem{
		ID: 10, RestaurantID: 1, Name: "Plov", Price: 12.50,
		Available: true, Status: models.MenuStatusApproved,
	})

	record, err := svc.SetStock(1, 10, nil, SetStockRequest{Quantity: 40, LowStockThreshold: 5})
	require.NoError(t, err)
	require.Equal(t, 40, record.Quantity)
	require.Equal(t, "Plov", record.MenuItemName)

	// Absolute replacement, not an increment.
	record, err = svc.SetStock(1, 10, nil, SetStockRequest{Quantity: 7})
	require.NoError(t, err)
	require.Equal(t, 7, record.Quantity)
	require.Equal(t, 7, stock.quantity(t, 1, 10))
	require.Contains(t, audit.actions(), "stock_updated")
}

func TestSetStock_DefaultsLowStockThreshold(t *testing.T) {
	stock := newFakeStockRepo()
	menu := newFakeMenuRepo()
	svc := NewInventoryService(stock, menu, newFakeAuditRepo(), newStubDB(t))

	menu.seed(models.MenuItem{
		ID: 10, RestaurantID: 1, Name: "Plov", Price: 12.50,
		Available: true, Status: models.MenuStatusApproved,
	})

	// Omitted threshold falls back to the default.
	record, err := svc.SetStock(1, 10, nil, SetStockRequest{Quantity: 20})
	require.NoError(t, err)
	require.Equal(t, 5, record.LowStockThreshold)

	stored, err := stock.GetRecord(1, 10)
	require.NoError(t, err)
	require.Equal(t, 5, stored.LowStockThreshold)

	// An explicit threshold is kept as submitted.
	record, err = svc.SetStock(1, 10, nil, SetStockRequest{Quantity: 20, LowStockThreshold: 2})
	require.NoError(t, err)
	require.Equal(t, 2, record.LowStockThreshold)
}

func TestSetStock_UnknownItem(t *testing.T) {
	svc := NewInventoryService(newFakeStockRepo(), newFakeMenuRepo(), newFakeAuditRepo(), newStubDB(t))

	_, err := svc.SetStock(1, 404, nil, SetStockRequest{Quantity: 5})
	require.ErrorIs(t, err, ErrMenuItemNotFound)
}

func TestSetStock_RestockUnblocksOrdering(t *testing.T) {
	f := newOrderServiceFixture(t, StockPolicyZero)
	f.seedApprovedItem(1, 10, "Plov", 12.50)

	inventory := NewInventoryService(f.stock, f.menu, f.audit, newStubDB(t))

	order := CreateOrderRequest{
		TableNo: "T1",
		Items:   []CreateOrderItemRequest{menuLine(10, 1)},
	}

	_, err := f.service.CreateOrder(1, nil, order)
	require.ErrorIs(t, err, ErrInsufficientStock)

	_, err = inventory.SetStock(1, 10, nil, SetStockRequest{Quantity: 3})
	require.NoError(t, err)

	result, err := f.service.CreateOrder(1, nil, order)
	require.NoError(t, err)
	require.False(t, result.Duplicate)
	require.Equal(t, 2, f.stock.quantity(t, 1, 10))
}
