package models

import "time"

// User roles. "admin" is the platform operator; every other role belongs to
// one restaurant.
const (
	RoleAdmin   = "admin"
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleChef    = "chef"
	RoleWaiter  = "waiter"
	RoleCashier = "cashier"
)

// User account statuses.
const (
	UserStatusActive    = "active"
	UserStatusPending   = "pending"
	UserStatusSuspended = "suspended"
)

// User represents an account in the system.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"` // '-' means don't send in JSON response
	Role         string    `json:"role" db:"role"`
	Status       string    `json:"status" db:"status"`
	RestaurantID *int64    `json:"restaurant_id,omitempty" db:"restaurant_id"`
	BranchID     *int64    `json:"branch_id,omitempty" db:"branch_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
