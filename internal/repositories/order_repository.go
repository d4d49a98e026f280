package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tap2serve_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// OrderRepository defines the interface for order-related database operations.
// Every method that reads or writes orders takes the owning restaurant id and
// applies it in SQL; identifiers from another tenant behave as if they do not
// exist.
type OrderRepository interface {
	CreateOrder(executor SQLExecutor, order *models.Order) (int64, error)
	CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error)
	GetOrderByID(restaurantID, orderID int64) (*models.Order, error)
	GetOrders(restaurantID int64, filters models.OrderFilters) ([]models.Order, int, error)
	GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error)
	UpdateOrderStatus(executor SQLExecutor, restaurantID, orderID int64, newStatus string, updatedAt time.Time) error

	// CancelOrder moves the order to Cancelled with a status-conditional
	// update and reports whether this call performed the transition. False
	// with a nil error means the order was already cancelled; ErrNotFound
	// means no such order exists for this tenant.
	CancelOrder(executor SQLExecutor, restaurantID, orderID int64, updatedAt time.Time) (bool, error)

	// GetOrderByIdempotencyKey looks up a prior order carrying the given
	// client token. The token is scoped per restaurant.
	GetOrderByIdempotencyKey(restaurantID int64, key string) (*models.Order, error)

	// SetInvoiceID assigns the invoice identifier only if none is set yet.
	// It returns ErrNotFound when the conditional write matched no row, in
	// which case either the order does not exist for this tenant or another
	// caller already assigned an identifier.
	SetInvoiceID(executor SQLExecutor, restaurantID, orderID int64, invoiceID string) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders
	            (restaurant_id, branch_id, user_id, table_no, status, total,
	             idempotency_key, payment_ref, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		order.RestaurantID, order.BranchID, order.UserID, order.TableNo, order.Status, order.Total,
		order.IdempotencyKey, order.PaymentRef, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: creating order (constraint: %s)", ErrDuplicateKey, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	return order.ID, nil
}

func (r *orderRepository) CreateOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error) {
	query := `INSERT INTO order_items (order_id, menu_item_id, name, price, quantity)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`

	err := executor.QueryRow(query,
		item.OrderID, item.MenuItemID, item.Name, item.Price, item.Quantity,
	).Scan(&item.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: creating order item (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: creating order item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *orderRepository) GetOrderByID(restaurantID, orderID int64) (*models.Order, error) {
	order := &models.Order{}
	query := `SELECT id, restaurant_id, branch_id, user_id, table_no, status, total,
	                 idempotency_key, invoice_id, payment_ref, created_at, updated_at
	          FROM orders
	          WHERE id = $1 AND restaurant_id = $2`
	err := r.db.QueryRow(query, orderID, restaurantID).Scan(
		&order.ID, &order.RestaurantID, &order.BranchID, &order.UserID, &order.TableNo, &order.Status,
		&order.Total, &order.IdempotencyKey, &order.InvoiceID, &order.PaymentRef,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return order, nil
}

func (r *orderRepository) GetOrderByIdempotencyKey(restaurantID int64, key string) (*models.Order, error) {
	order := &models.Order{}
	query := `SELECT id, restaurant_id, branch_id, user_id, table_no, status, total,
	                 idempotency_key, invoice_id, payment_ref, created_at, updated_at
	          FROM orders
	          WHERE restaurant_id = $1 AND idempotency_key = $2`
	err := r.db.QueryRow(query, restaurantID, key).Scan(
		&order.ID, &order.RestaurantID, &order.BranchID, &order.UserID, &order.TableNo, &order.Status,
		&order.Total, &order.IdempotencyKey, &order.InvoiceID, &order.PaymentRef,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by idempotency key: %v", ErrDatabaseError, err)
	}
	return order, nil
}

func (r *orderRepository) GetOrders(restaurantID int64, filters models.OrderFilters) ([]models.Order, int, error) {
	orders := []models.Order{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT
            o.id, o.restaurant_id, o.branch_id, o.user_id, o.table_no, o.status, o.total,
            o.idempotency_key, o.invoice_id, o.payment_ref, o.created_at, o.updated_at,
            COUNT(*) OVER() as total_count
        FROM orders o
    `)

	conditions := []string{"o.restaurant_id = $1"}
	args := []interface{}{restaurantID}
	argCounter := 2

	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.TableNo != nil && *filters.TableNo != "" {
		conditions = append(conditions, fmt.Sprintf("o.table_no = $%d", argCounter))
		args = append(args, *filters.TableNo)
		argCounter++
	}
	if filters.BranchID != nil {
		conditions = append(conditions, fmt.Sprintf("o.branch_id = $%d", argCounter))
		args = append(args, *filters.BranchID)
		argCounter++
	}
	if filters.DateFrom != nil && *filters.DateFrom != "" {
		if parsed, err := time.Parse("2006-01-02", *filters.DateFrom); err == nil {
			conditions = append(conditions, fmt.Sprintf("o.created_at >= $%d", argCounter))
			args = append(args, parsed)
			argCounter++
		}
	}
	if filters.DateTo != nil && *filters.DateTo != "" {
		if parsed, err := time.Parse("2006-01-02", *filters.DateTo); err == nil {
			endOfDay := parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
			conditions = append(conditions, fmt.Sprintf("o.created_at <= $%d", argCounter))
			args = append(args, endOfDay)
			argCounter++
		}
	}

	queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	queryBuilder.WriteString(" ORDER BY o.created_at DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.PageSize)
		argCounter++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		err := rows.Scan(
			&o.ID, &o.RestaurantID, &o.BranchID, &o.UserID, &o.TableNo, &o.Status, &o.Total,
			&o.IdempotencyKey, &o.InvoiceID, &o.PaymentRef, &o.CreatedAt, &o.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, totalCount, nil
}

func (r *orderRepository) GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	query := `SELECT id, order_id, menu_item_id, name, price, quantity
	          FROM order_items
	          WHERE order_id = $1
	          ORDER BY id`

	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.MenuItemID, &item.Name, &item.Price, &item.Quantity); err != nil {
			return nil, fmt.Errorf("%w: scanning order item for order ID %d: %v", ErrDatabaseError, orderID, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order item rows for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return items, nil
}

func (r *orderRepository) UpdateOrderStatus(executor SQLExecutor, restaurantID, orderID int64, newStatus string, updatedAt time.Time) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3 AND restaurant_id = $4`
	result, err := executor.Exec(query, newStatus, updatedAt, orderID, restaurantID)
	if err != nil {
		return fmt.Errorf("%w: updating order status for ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for order status update ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) CancelOrder(executor SQLExecutor, restaurantID, orderID int64, updatedAt time.Time) (bool, error) {
	query := `UPDATE orders SET status = $1, updated_at = $2
	          WHERE id = $3 AND restaurant_id = $4 AND status <> $1`
	result, err := executor.Exec(query, models.OrderStatusCancelled, updatedAt, orderID, restaurantID)
	if err != nil {
		return false, fmt.Errorf("%w: cancelling order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: getting rows affected for order cancel ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected > 0 {
		return true, nil
	}

	var exists bool
	err = executor.QueryRow(`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1 AND restaurant_id = $2)`,
		orderID, restaurantID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: checking order ID %d after cancel: %v", ErrDatabaseError, orderID, err)
	}
	if !exists {
		return false, ErrNotFound
	}
	return false, nil
}

func (r *orderRepository) SetInvoiceID(executor SQLExecutor, restaurantID, orderID int64, invoiceID string) error {
	query := `UPDATE orders SET invoice_id = $1, updated_at = $2
	          WHERE id = $3 AND restaurant_id = $4 AND invoice_id IS NULL`
	result, err := executor.Exec(query, invoiceID, time.Now(), orderID, restaurantID)
	if err != nil {
		return fmt.Errorf("%w: setting invoice for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for invoice update ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
