package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tap2serve_backend/internal/models"
	"tap2serve_backend/internal/notifier"
	"tap2serve_backend/internal/repositories"
	"tap2serve_backend/pkg/utils"

	"github.com/google/uuid"
)

// Custom Errors
var (
	ErrValidation        = errors.New("validation failed")
	ErrOrderNotFound     = errors.New("order not found")
	ErrMenuItemNotFound  = errors.New("menu item not found or not available")
	ErrInsufficientStock = errors.New("insufficient stock for item")
)

// Stock fallback policies for items that have no stock record. The default
// treats untracked items as infinitely available; "zero" rejects them.
const (
	StockPolicyUnlimited = "unlimited"
	StockPolicyZero      = "zero"
)

// Realtime event types published to the tenant's room.
const (
	EventNewOrder           = "new_order"
	EventOrderStatusUpdated = "order_status_updated"
	EventWaiterCall         = "waiter_call"
)

// --- Data Transfer Objects (DTOs) ---

// CreateOrderItemRequest is one line of a new order. A line either references
// a menu item, or carries its own name and price for off-menu requests; only
// lines with a menu item id touch the stock ledger.
type CreateOrderItemRequest struct {
	MenuItemID *int64  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest is used for creating a new order.
type CreateOrderRequest struct {
	TableNo        string                   `json:"table_no" binding:"required"`
	BranchID       *int64                   `json:"branch_id"`
	IdempotencyKey *string                  `json:"idempotency_key"`
	Items          []CreateOrderItemRequest `json:"items" binding:"required,dive"`
}

// CreateOrderResult carries the created (or replayed) order. Duplicate is true
// when the idempotency token matched a prior order and no new side effects
// happened.
type CreateOrderResult struct {
	Order     *models.Order `json:"order"`
	Duplicate bool          `json:"duplicate"`
}

// UpdateOrderStatusRequest is used for updating the status of an order.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- OrderService Interface ---

type OrderService interface {
	CreateOrder(restaurantID int64, userID *int64, req CreateOrderRequest) (*CreateOrderResult, error)
	GetOrders(restaurantID int64, filters models.OrderFilters) ([]models.Order, int, error)
	GetOrderByID(restaurantID, orderID int64) (*models.Order, error)
	UpdateOrderStatus(restaurantID int64, userID *int64, orderID int64, req UpdateOrderStatusRequest) (*models.Order, error)
	GenerateInvoice(restaurantID, orderID int64) (*models.Order, error)
}

// --- orderService Implementation ---

type orderService struct {
	orderRepo   repositories.OrderRepository
	menuRepo    repositories.MenuRepository
	stockRepo   repositories.StockRepository
	auditRepo   repositories.AuditRepository
	guard       idempotencyGuard
	hub         *notifier.Hub
	db          *sql.DB // For managing transactions
	stockPolicy string
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	or repositories.OrderRepository,
	mr repositories.MenuRepository,
	sr repositories.StockRepository,
	ar repositories.AuditRepository,
	hub *notifier.Hub,
	db *sql.DB,
	stockPolicy string,
) OrderService {
	if stockPolicy != StockPolicyZero {
		stockPolicy = StockPolicyUnlimited
	}
	return &orderService{
		orderRepo:   or,
		menuRepo:    mr,
		stockRepo:   sr,
		auditRepo:   ar,
		guard:       idempotencyGuard{orderRepo: or},
		hub:         hub,
		db:          db,
		stockPolicy: stockPolicy,
	}
}

// CreateOrder runs the full placement pipeline: deduplicate by client token,
// atomically reserve stock for every line, persist the order with priced item
// snapshots, and announce it to the tenant's realtime room. All database
// effects share one transaction, so a failure at any line leaves no trace.
func (s *orderService) CreateOrder(restaurantID int64, userID *int64, req CreateOrderRequest) (*CreateOrderResult, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}
	if strings.TrimSpace(req.TableNo) == "" {
		return nil, fmt.Errorf("%w: table number is required", ErrValidation)
	}
	for i, itemReq := range req.Items {
		if itemReq.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for line %d must be positive", ErrValidation, i+1)
		}
		if itemReq.MenuItemID == nil {
			if strings.TrimSpace(itemReq.Name) == "" {
				return nil, fmt.Errorf("%w: line %d needs a menu item or a name", ErrValidation, i+1)
			}
			if itemReq.Price < 0 {
				return nil, fmt.Errorf("%w: price for '%s' cannot be negative", ErrValidation, itemReq.Name)
			}
		}
	}

	prior, err := s.guard.Claim(restaurantID, req.IdempotencyKey)
	if err != nil {
		return nil, err
	}
	if prior != nil {
		return s.replay(prior)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	var totalAmount float64
	orderItemsToCreate := make([]models.OrderItem, 0, len(req.Items))

	for _, itemReq := range req.Items {
		if itemReq.MenuItemID == nil {
			// Off-menu line: priced by the caller, never touches the ledger.
			totalAmount += itemReq.Price * float64(itemReq.Quantity)
			orderItemsToCreate = append(orderItemsToCreate, models.OrderItem{
				Name:     itemReq.Name,
				Price:    itemReq.Price,
				Quantity: itemReq.Quantity,
			})
			continue
		}

		menuItem, repoErr := s.menuRepo.GetItemByID(restaurantID, *itemReq.MenuItemID)
		if repoErr != nil {
			if errors.Is(repoErr, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: item ID %d", ErrMenuItemNotFound, *itemReq.MenuItemID)
			}
			return nil, fmt.Errorf("failed to fetch menu item %d: %w", *itemReq.MenuItemID, repoErr)
		}
		if !menuItem.Available || menuItem.Status != models.MenuStatusApproved {
			return nil, fmt.Errorf("%w: item '%s' (ID: %d)", ErrMenuItemNotFound, menuItem.Name, menuItem.ID)
		}

		remaining, reserveErr := s.stockRepo.Reserve(tx, restaurantID, *itemReq.MenuItemID, itemReq.Quantity)
		if reserveErr != nil {
			if errors.Is(reserveErr, repositories.ErrNoStockRecord) {
				if s.stockPolicy == StockPolicyZero {
					return nil, fmt.Errorf("%w '%s' (ID: %d). Requested: %d, Available: 0",
						ErrInsufficientStock, menuItem.Name, menuItem.ID, itemReq.Quantity)
				}
				// Untracked item: treated as always in stock.
			} else if errors.Is(reserveErr, repositories.ErrInsufficientStock) {
				return nil, fmt.Errorf("%w '%s' (ID: %d). Requested: %d, Available: %d",
					ErrInsufficientStock, menuItem.Name, menuItem.ID, itemReq.Quantity, remaining)
			} else {
				return nil, fmt.Errorf("failed to reserve stock for item %s (ID: %d): %w", menuItem.Name, menuItem.ID, reserveErr)
			}
		}

		totalAmount += menuItem.Price * float64(itemReq.Quantity)
		orderItemsToCreate = append(orderItemsToCreate, models.OrderItem{
			MenuItemID: itemReq.MenuItemID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   itemReq.Quantity,
		})
	}

	order := models.Order{
		RestaurantID:   restaurantID,
		BranchID:       req.BranchID,
		UserID:         userID,
		TableNo:        req.TableNo,
		Status:         models.OrderStatusNew,
		Total:          totalAmount,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	createdOrderID, repoErr := s.orderRepo.CreateOrder(tx, &order)
	if repoErr != nil {
		if errors.Is(repoErr, repositories.ErrDuplicateKey) && req.IdempotencyKey != nil {
			// Lost the token race: a concurrent request with the same token
			// committed first. The deferred rollback undoes our reservation;
			// return the winner's order.
			return s.recoverFromTokenRace(tx, restaurantID, *req.IdempotencyKey)
		}
		return nil, fmt.Errorf("failed to create order record: %w", repoErr)
	}
	order.ID = createdOrderID

	for i := range orderItemsToCreate {
		orderItemsToCreate[i].OrderID = createdOrderID
		if _, repoErr = s.orderRepo.CreateOrderItem(tx, &orderItemsToCreate[i]); repoErr != nil {
			return nil, fmt.Errorf("failed to create order item '%s': %w", orderItemsToCreate[i].Name, repoErr)
		}
	}
	order.Items = orderItemsToCreate

	details := fmt.Sprintf("order #%d, table %s, total %.2f", order.ID, order.TableNo, order.Total)
	if _, repoErr = s.auditRepo.CreateEntry(tx, &models.AuditLog{
		UserID:       userID,
		RestaurantID: &restaurantID,
		Action:       "order_created",
		Details:      &details,
		Severity:     models.AuditInfo,
	}); repoErr != nil {
		return nil, fmt.Errorf("failed to record order audit entry: %w", repoErr)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}

	// Notification is best-effort and happens only after commit: subscribers
	// must never observe an order the database does not have.
	go s.hub.Publish(tenantRoom(restaurantID), EventNewOrder, &order)

	return &CreateOrderResult{Order: &order, Duplicate: false}, nil
}

// recoverFromTokenRace handles the window between the idempotency pre-check
// and the insert. The unique index on (restaurant_id, idempotency_key) caught
// a concurrent creation; the committed winner is returned as a duplicate.
func (s *orderService) recoverFromTokenRace(tx *sql.Tx, restaurantID int64, key string) (*CreateOrderResult, error) {
	// Release our aborted transaction first so the read below sees the
	// winner's committed row.
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		utils.LogError(err, "rollback after idempotency token race")
	}
	prior, err := s.orderRepo.GetOrderByIdempotencyKey(restaurantID, key)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order after idempotency conflict: %w", err)
	}
	return s.replay(prior)
}

func (s *orderService) replay(order *models.Order) (*CreateOrderResult, error) {
	items, err := s.orderRepo.GetOrderItemsByOrderID(order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load items for replayed order %d: %w", order.ID, err)
	}
	order.Items = items
	return &CreateOrderResult{Order: order, Duplicate: true}, nil
}

func (s *orderService) GetOrders(restaurantID int64, filters models.OrderFilters) ([]models.Order, int, error) {
	if filters.DateFrom != nil && *filters.DateFrom != "" {
		if _, err := time.Parse("2006-01-02", *filters.DateFrom); err != nil {
			return nil, 0, fmt.Errorf("%w: date_from must be YYYY-MM-DD", ErrValidation)
		}
	}
	if filters.DateTo != nil && *filters.DateTo != "" {
		if _, err := time.Parse("2006-01-02", *filters.DateTo); err != nil {
			return nil, 0, fmt.Errorf("%w: date_to must be YYYY-MM-DD", ErrValidation)
		}
	}
	if filters.Page <= 0 {
		filters.Page = 1
	}
	if filters.PageSize <= 0 {
		filters.PageSize = 20
	}
	orders, totalCount, err := s.orderRepo.GetOrders(restaurantID, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, totalCount, nil
}

func (s *orderService) GetOrderByID(restaurantID, orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(restaurantID, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID: %w", err)
	}
	items, err := s.orderRepo.GetOrderItemsByOrderID(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order items for order ID %d: %w", orderID, err)
	}
	order.Items = items
	return order, nil
}

// UpdateOrderStatus overwrites the order's status. Any status may follow any
// other. Moving into Cancelled returns the reserved stock of every tracked
// line exactly once.
func (s *orderService) UpdateOrderStatus(restaurantID int64, userID *int64, orderID int64, req UpdateOrderStatusRequest) (*models.Order, error) {
	if strings.TrimSpace(req.Status) == "" {
		return nil, fmt.Errorf("%w: status is required", ErrValidation)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	currentOrder, err := s.orderRepo.GetOrderByID(restaurantID, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to fetch order for status update: %w", err)
	}

	if req.Status == models.OrderStatusCancelled {
		// The conditional update takes the row lock inside the transaction;
		// of two concurrent cancellations only one observes an affected row,
		// so the stock of each line is returned exactly once.
		cancelled, repoErr := s.orderRepo.CancelOrder(tx, restaurantID, orderID, time.Now())
		if repoErr != nil {
			if errors.Is(repoErr, repositories.ErrNotFound) {
				return nil, ErrOrderNotFound
			}
			return nil, fmt.Errorf("failed to cancel order: %w", repoErr)
		}
		if cancelled {
			items, repoErr := s.orderRepo.GetOrderItemsByOrderID(orderID)
			if repoErr != nil {
				return nil, fmt.Errorf("failed to fetch order items for stock return: %w", repoErr)
			}
			for _, item := range items {
				if item.MenuItemID == nil {
					continue
				}
				if repoErr = s.stockRepo.Release(tx, restaurantID, *item.MenuItemID, item.Quantity); repoErr != nil {
					return nil, fmt.Errorf("failed to return stock for item %s: %w", item.Name, repoErr)
				}
			}
		}
	} else if err = s.orderRepo.UpdateOrderStatus(tx, restaurantID, orderID, req.Status, time.Now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	details := fmt.Sprintf("order #%d: %s -> %s", orderID, currentOrder.Status, req.Status)
	if _, err = s.auditRepo.CreateEntry(tx, &models.AuditLog{
		UserID:       userID,
		RestaurantID: &restaurantID,
		Action:       "order_status_updated",
		Details:      &details,
		Severity:     models.AuditInfo,
	}); err != nil {
		return nil, fmt.Errorf("failed to record status audit entry: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit status update: %w", err)
	}

	go s.hub.Publish(tenantRoom(restaurantID), EventOrderStatusUpdated, map[string]interface{}{
		"order_id": orderID,
		"status":   req.Status,
		"table_no": currentOrder.TableNo,
	})

	return s.GetOrderByID(restaurantID, orderID)
}

// GenerateInvoice assigns the order its permanent invoice identifier. The
// identifier is written at most once; concurrent callers all receive the same
// value.
func (s *orderService) GenerateInvoice(restaurantID, orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(restaurantID, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to fetch order for invoicing: %w", err)
	}
	if order.InvoiceID != nil {
		return s.GetOrderByID(restaurantID, orderID)
	}

	invoiceID := newInvoiceID(time.Now())
	err = s.orderRepo.SetInvoiceID(s.db, restaurantID, orderID, invoiceID)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("failed to assign invoice: %w", err)
		}
		// Either the order vanished or another caller assigned the invoice
		// first; the re-read below distinguishes the two.
	}

	order, err = s.GetOrderByID(restaurantID, orderID)
	if err != nil {
		return nil, err
	}
	if order.InvoiceID == nil {
		return nil, fmt.Errorf("failed to assign invoice to order %d", orderID)
	}
	return order, nil
}

// newInvoiceID builds identifiers like INV-20260901-3fa85f64.
func newInvoiceID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("INV-%s-%s", now.Format("20060102"), suffix)
}

// tenantRoom is the notification room key for one restaurant.
func tenantRoom(restaurantID int64) string {
	return utils.Int64ToStr(restaurantID)
}
