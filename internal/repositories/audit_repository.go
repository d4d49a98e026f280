package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tap2serve_backend/internal/models"

	"github.com/lib/pq"
)

// AuditRepository defines the interface for audit log and webhook event
// database operations. Audit entries are append-only.
type AuditRepository interface {
	CreateEntry(executor SQLExecutor, entry *models.AuditLog) (int64, error)
	GetEntries(restaurantID *int64, page, pageSize int) ([]models.AuditLog, int, error)

	// RecordWebhookEvent inserts the event id; ErrDuplicateKey signals the
	// event was already processed and must not be applied again.
	RecordWebhookEvent(executor SQLExecutor, event *models.WebhookEvent) error
}

type auditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new instance of AuditRepository.
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) CreateEntry(executor SQLExecutor, entry *models.AuditLog) (int64, error) {
	query := `INSERT INTO audit_logs (user_id, restaurant_id, action, details, severity, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	if entry.Severity == "" {
		entry.Severity = models.AuditInfo
	}
	err := executor.QueryRow(query,
		entry.UserID, entry.RestaurantID, entry.Action, entry.Details, entry.Severity, entry.CreatedAt,
	).Scan(&entry.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating audit log entry: %v", ErrDatabaseError, err)
	}
	return entry.ID, nil
}

func (r *auditRepository) GetEntries(restaurantID *int64, page, pageSize int) ([]models.AuditLog, int, error) {
	entries := []models.AuditLog{}
	totalCount := 0

	query := `SELECT id, user_id, restaurant_id, action, details, severity, created_at, COUNT(*) OVER() AS total_count
	          FROM audit_logs`
	args := []interface{}{}
	argCount := 1
	if restaurantID != nil {
		query += fmt.Sprintf(" WHERE restaurant_id = $%d", argCount)
		args = append(args, *restaurantID)
		argCount++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying audit logs: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry models.AuditLog
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.RestaurantID, &entry.Action,
			&entry.Details, &entry.Severity, &entry.CreatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning audit log entry: %v", ErrDatabaseError, err)
		}
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating audit log entries: %v", ErrDatabaseError, err)
	}
	return entries, totalCount, nil
}

func (r *auditRepository) RecordWebhookEvent(executor SQLExecutor, event *models.WebhookEvent) error {
	query := `INSERT INTO webhook_events (event_id, event_type, processed_at)
	          VALUES ($1, $2, $3)
	          RETURNING id`
	if event.ProcessedAt.IsZero() {
		event.ProcessedAt = time.Now()
	}
	err := executor.QueryRow(query, event.EventID, event.EventType, event.ProcessedAt).Scan(&event.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: webhook event '%s' already processed", ErrDuplicateKey, event.EventID)
		}
		return fmt.Errorf("%w: recording webhook event: %v", ErrDatabaseError, err)
	}
	return nil
}
