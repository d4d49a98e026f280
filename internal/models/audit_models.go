package models

import "time"

// Audit log severities.
const (
	AuditInfo      = "info"
	AuditWarning   = "warning"
	AuditSuccess   = "success"
	AuditError     = "error"
	AuditImportant = "important"
)

// AuditLog is an append-only record of a notable action.
type AuditLog struct {
	ID           int64     `json:"id" db:"id"`
	UserID       *int64    `json:"user_id,omitempty" db:"user_id"`
	RestaurantID *int64    `json:"restaurant_id,omitempty" db:"restaurant_id"`
	Action       string    `json:"action" db:"action"`
	Details      *string   `json:"details,omitempty" db:"details"`
	Severity     string    `json:"severity" db:"severity"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// WebhookEvent records a payment-provider webhook delivery so that retried
// deliveries of the same event are applied at most once.
type WebhookEvent struct {
	ID          int64     `json:"id" db:"id"`
	EventID     string    `json:"event_id" db:"event_id"`
	EventType   string    `json:"event_type" db:"event_type"`
	ProcessedAt time.Time `json:"processed_at" db:"processed_at"`
}
