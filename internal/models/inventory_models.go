package models

import "time"

// StockRecord tracks the available quantity of one menu item in one
// restaurant (optionally per branch). Quantity is never negative; all
// mutation goes through the stock repository's atomic operations.
type StockRecord struct {
	ID                int64     `json:"id" db:"id"`
	RestaurantID      int64     `json:"restaurant_id" db:"restaurant_id"`
	BranchID          *int64    `json:"branch_id,omitempty" db:"branch_id"`
	MenuItemID        int64     `json:"menu_item_id" db:"menu_item_id"`
	MenuItemName      string    `json:"menu_item_name,omitempty"`
	Quantity          int       `json:"quantity" db:"quantity"`
	LowStockThreshold int       `json:"low_stock_threshold" db:"low_stock_threshold"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}
