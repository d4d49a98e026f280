package models

import "time"

// Branch is one physical location of a restaurant. Branch names are unique
// per restaurant.
type Branch struct {
	ID            int64     `json:"id" db:"id"`
	RestaurantID  int64     `json:"restaurant_id" db:"restaurant_id"`
	Name          string    `json:"name" db:"name" binding:"required"`
	Address       *string   `json:"address,omitempty" db:"address"`
	ContactNumber *string   `json:"contact_number,omitempty" db:"contact_number"`
	PrepTime      int       `json:"prep_time" db:"prep_time"` // minutes
	IsActive      bool      `json:"is_active" db:"is_active"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
