package models

import "time"

// Menu item approval statuses. New items start pending and become visible to
// guests only after an admin approves them.
const (
	MenuStatusPending  = "pending"
	MenuStatusApproved = "approved"
)

// MenuItem represents a dish or drink offered by one restaurant.
type MenuItem struct {
	ID           int64     `json:"id" db:"id"`
	RestaurantID int64     `json:"restaurant_id" db:"restaurant_id"`
	Name         string    `json:"name" db:"name" binding:"required"`
	Category     string    `json:"category" db:"category" binding:"required"`
	Description  *string   `json:"description,omitempty" db:"description"`
	Price        float64   `json:"price" db:"price" binding:"required,gt=0"`
	Available    bool      `json:"available" db:"available"`
	Status       string    `json:"status" db:"status"` // pending or approved
	ImageURL     *string   `json:"image_url,omitempty" db:"image_url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
