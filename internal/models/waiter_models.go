package models

import "time"

// Waiter call types and statuses.
const (
	WaiterCallGeneral = "General"
	WaiterCallBill    = "Bill"
	WaiterCallWater   = "Water"
	WaiterCallCustom  = "Custom"

	WaiterCallPending  = "Pending"
	WaiterCallResolved = "Resolved"
)

// WaiterCall is a guest request for service at a table.
type WaiterCall struct {
	ID           int64      `json:"id" db:"id"`
	RestaurantID int64      `json:"restaurant_id" db:"restaurant_id"`
	BranchID     *int64     `json:"branch_id,omitempty" db:"branch_id"`
	TableNo      string     `json:"table_no" db:"table_no"`
	Type         string     `json:"type" db:"type"`
	Status       string     `json:"status" db:"status"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}
