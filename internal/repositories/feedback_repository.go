package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"tap2serve_backend/internal/models"

	"github.com/lib/pq"
)

// FeedbackRepository defines the interface for guest feedback database operations.
type FeedbackRepository interface {
	CreateFeedback(executor SQLExecutor, fb *models.Feedback) (int64, error)
	GetFeedback(restaurantID int64, visibleOnly bool) ([]models.Feedback, error)
	SetVisibility(executor SQLExecutor, restaurantID, id int64, visible bool) error
}

type feedbackRepository struct {
	db *sql.DB
}

// NewFeedbackRepository creates a new instance of FeedbackRepository.
func NewFeedbackRepository(db *sql.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) CreateFeedback(executor SQLExecutor, fb *models.Feedback) (int64, error) {
	query := `INSERT INTO feedback (restaurant_id, branch_id, order_id, table_no, rating, comment, tags, is_visible, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now()
	}
	err := executor.QueryRow(query,
		fb.RestaurantID, fb.BranchID, fb.OrderID, fb.TableNo, fb.Rating,
		fb.Comment, pq.Array(fb.Tags), fb.IsVisible, fb.CreatedAt,
	).Scan(&fb.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating feedback: %v", ErrDatabaseError, err)
	}
	return fb.ID, nil
}

func (r *feedbackRepository) GetFeedback(restaurantID int64, visibleOnly bool) ([]models.Feedback, error) {
	entries := []models.Feedback{}
	query := `SELECT id, restaurant_id, branch_id, order_id, table_no, rating, comment, tags, is_visible, created_at
	          FROM feedback
	          WHERE restaurant_id = $1`
	args := []interface{}{restaurantID}
	if visibleOnly {
		query += ` AND is_visible = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying feedback: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var fb models.Feedback
		var tags pq.StringArray
		if err := rows.Scan(&fb.ID, &fb.RestaurantID, &fb.BranchID, &fb.OrderID, &fb.TableNo,
			&fb.Rating, &fb.Comment, &tags, &fb.IsVisible, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning feedback: %v", ErrDatabaseError, err)
		}
		fb.Tags = []string(tags)
		entries = append(entries, fb)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating feedback: %v", ErrDatabaseError, err)
	}
	return entries, nil
}

func (r *feedbackRepository) SetVisibility(executor SQLExecutor, restaurantID, id int64, visible bool) error {
	query := `UPDATE feedback SET is_visible = $1 WHERE id = $2 AND restaurant_id = $3`
	result, err := executor.Exec(query, visible, id, restaurantID)
	if err != nil {
		return fmt.Errorf("%w: updating feedback visibility for ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
