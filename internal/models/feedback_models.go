package models

import "time"

// Feedback is a guest rating left for a visit, optionally tied to an order.
type Feedback struct {
	ID           int64     `json:"id" db:"id"`
	RestaurantID int64     `json:"restaurant_id" db:"restaurant_id"`
	BranchID     *int64    `json:"branch_id,omitempty" db:"branch_id"`
	OrderID      *int64    `json:"order_id,omitempty" db:"order_id"`
	TableNo      *string   `json:"table_no,omitempty" db:"table_no"`
	Rating       int       `json:"rating" db:"rating"` // 1..5
	Comment      *string   `json:"comment,omitempty" db:"comment"`
	Tags         []string  `json:"tags" db:"tags"` // e.g., "Food Quality", "Service"
	IsVisible    bool      `json:"is_visible" db:"is_visible"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
