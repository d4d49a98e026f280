package models

import "time"

// Reservation statuses.
const (
	ReservationPending   = "Pending"
	ReservationConfirmed = "Confirmed"
	ReservationCancelled = "Cancelled"
	ReservationCompleted = "Completed"
)

// Reservation is a table booking for a future time slot.
type Reservation struct {
	ID            int64     `json:"id" db:"id"`
	RestaurantID  int64     `json:"restaurant_id" db:"restaurant_id"`
	BranchID      *int64    `json:"branch_id,omitempty" db:"branch_id"`
	TableNo       string    `json:"table_no" db:"table_no" binding:"required"`
	CustomerName  string    `json:"customer_name" db:"customer_name" binding:"required"`
	ContactNumber *string   `json:"contact_number,omitempty" db:"contact_number"`
	Time          time.Time `json:"time" db:"time" binding:"required"`
	Guests        int       `json:"guests" db:"guests" binding:"required,gt=0"`
	Status        string    `json:"status" db:"status"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
