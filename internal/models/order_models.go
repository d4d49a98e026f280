package models

import "time"

// Order status constants. The platform deliberately treats status as an open
// string set: any status may follow any other (kitchen boards, payment
// webhooks and staff tablets all overwrite it independently).
const (
	OrderStatusNew       = "New"
	OrderStatusCooking   = "Cooking"
	OrderStatusReady     = "Ready"
	OrderStatusServed    = "Served"
	OrderStatusPaid      = "Paid"
	OrderStatusPending   = "Pending"
	OrderStatusPreparing = "Preparing"
	OrderStatusCompleted = "Completed"
	OrderStatusCancelled = "Cancelled"
)

// Order represents a placed order belonging to one restaurant.
type Order struct {
	ID             int64       `json:"id" db:"id"`
	RestaurantID   int64       `json:"restaurant_id" db:"restaurant_id"`
	BranchID       *int64      `json:"branch_id,omitempty" db:"branch_id"`
	UserID         *int64      `json:"user_id,omitempty" db:"user_id"`
	TableNo        string      `json:"table_no" db:"table_no"`
	Status         string      `json:"status" db:"status"`
	Total          float64     `json:"total" db:"total"`
	IdempotencyKey *string     `json:"idempotency_key,omitempty" db:"idempotency_key"`
	InvoiceID      *string     `json:"invoice_id,omitempty" db:"invoice_id"`
	PaymentRef     *string     `json:"payment_ref,omitempty" db:"payment_ref"`
	Items          []OrderItem `json:"items"`
	CreatedAt      time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" db:"updated_at"`
}

// OrderItem captures the name and price of a menu item at the time the order
// was placed. It is decoupled from live menu pricing on purpose: later price
// edits must not rewrite order history.
type OrderItem struct {
	ID         int64   `json:"id" db:"id"`
	OrderID    int64   `json:"order_id" db:"order_id"`
	MenuItemID *int64  `json:"menu_item_id,omitempty" db:"menu_item_id"`
	Name       string  `json:"name" db:"name"`
	Price      float64 `json:"price" db:"price"`
	Quantity   int     `json:"quantity" db:"quantity"`
}

// OrderFilters defines the available filters for querying orders.
// This struct is used by both the service and repository layers.
type OrderFilters struct {
	Status   *string `form:"status"`
	DateFrom *string `form:"date_from"` // Expected format YYYY-MM-DD
	DateTo   *string `form:"date_to"`   // Expected format YYYY-MM-DD
	TableNo  *string `form:"table_no"`
	BranchID *int64  `form:"branch_id"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}
