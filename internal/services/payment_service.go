package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tap2serve_backend/internal/models"
	"tap2serve_backend/internal/notifier"
	"tap2serve_backend/internal/repositories"
)

// Webhook event types accepted from the payment provider.
const (
	PaymentEventSucceeded = "payment.succeeded"
	PaymentEventFailed    = "payment.failed"
)

var ErrUnknownPaymentEvent = errors.New("unknown payment event type")

// --- DTOs ---

// PaymentWebhookRequest is the payment provider's delivery payload. EventID is
// the provider's unique delivery identifier; retried deliveries reuse it.
type PaymentWebhookRequest struct {
	EventID      string `json:"event_id" binding:"required"`
	EventType    string `json:"event_type" binding:"required"`
	RestaurantID int64  `json:"restaurant_id" binding:"required"`
	OrderID      int64  `json:"order_id" binding:"required"`
	PaymentRef   string `json:"payment_ref"`
}

// PaymentWebhookResult reports what the webhook did. Processed is false when
// the event had already been applied by an earlier delivery.
type PaymentWebhookResult struct {
	Processed bool   `json:"processed"`
	OrderID   int64  `json:"order_id"`
	Status    string `json:"status,omitempty"`
}

// --- PaymentService Interface ---

type PaymentService interface {
	HandleWebhook(req PaymentWebhookRequest) (*PaymentWebhookResult, error)
}

type paymentService struct {
	orderRepo repositories.OrderRepository
	auditRepo repositories.AuditRepository
	hub       *notifier.Hub
	db        *sql.DB
}

// NewPaymentService creates a new instance of PaymentService.
func NewPaymentService(
	or repositories.OrderRepository,
	ar repositories.AuditRepository,
	hub *notifier.Hub,
	db *sql.DB,
) PaymentService {
	return &paymentService{orderRepo: or, auditRepo: ar, hub: hub, db: db}
}

// HandleWebhook applies a provider delivery at most once. The event id is
// inserted under a unique constraint in the same transaction that mutates the
// order, so a redelivered event either fully applied before or not at all.
func (s *paymentService) HandleWebhook(req PaymentWebhookRequest) (*PaymentWebhookResult, error) {
	var newStatus string
	switch req.EventType {
	case PaymentEventSucceeded:
		newStatus = models.OrderStatusPaid
	case PaymentEventFailed:
		newStatus = models.OrderStatusPending
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPaymentEvent, req.EventType)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	err = s.auditRepo.RecordWebhookEvent(tx, &models.WebhookEvent{
		EventID:   req.EventID,
		EventType: req.EventType,
	})
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return &PaymentWebhookResult{Processed: false, OrderID: req.OrderID}, nil
		}
		return nil, fmt.Errorf("failed to record webhook event: %w", err)
	}

	if err = s.orderRepo.UpdateOrderStatus(tx, req.RestaurantID, req.OrderID, newStatus, time.Now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to apply payment status: %w", err)
	}

	details := fmt.Sprintf("order #%d -> %s (event %s, ref %s)", req.OrderID, newStatus, req.EventID, req.PaymentRef)
	if _, err = s.auditRepo.CreateEntry(tx, &models.AuditLog{
		RestaurantID: &req.RestaurantID,
		Action:       "payment_webhook",
		Details:      &details,
		Severity:     models.AuditSuccess,
	}); err != nil {
		return nil, fmt.Errorf("failed to record payment audit entry: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit webhook transaction: %w", err)
	}

	go s.hub.Publish(tenantRoom(req.RestaurantID), EventOrderStatusUpdated, map[string]interface{}{
		"order_id": req.OrderID,
		"status":   newStatus,
	})

	return &PaymentWebhookResult{Processed: true, OrderID: req.OrderID, Status: newStatus}, nil
}
