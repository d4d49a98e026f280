package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tap2serve_backend/internal/models"
)

// WaiterCallRepository defines the interface for waiter call database operations.
type WaiterCallRepository interface {
	CreateCall(executor SQLExecutor, call *models.WaiterCall) (int64, error)
	GetPendingCalls(restaurantID int64, branchID *int64) ([]models.WaiterCall, error)
	ResolveCall(executor SQLExecutor, restaurantID, callID int64, resolvedAt time.Time) (*models.WaiterCall, error)
}

type waiterCallRepository struct {
	db *sql.DB
}

// NewWaiterCallRepository creates a new instance of WaiterCallRepository.
func NewWaiterCallRepository(db *sql.DB) WaiterCallRepository {
	return &waiterCallRepository{db: db}
}

func (r *waiterCallRepository) CreateCall(executor SQLExecutor, call *models.WaiterCall) (int64, error) {
	query := `INSERT INTO waiter_calls (restaurant_id, branch_id, table_no, type, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`
	if call.CreatedAt.IsZero() {
		call.CreatedAt = time.Now()
	}
	err := executor.QueryRow(query,
		call.RestaurantID, call.BranchID, call.TableNo, call.Type, call.Status, call.CreatedAt,
	).Scan(&call.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating waiter call: %v", ErrDatabaseError, err)
	}
	return call.ID, nil
}

func (r *waiterCallRepository) GetPendingCalls(restaurantID int64, branchID *int64) ([]models.WaiterCall, error) {
	calls := []models.WaiterCall{}
	query := `SELECT id, restaurant_id, branch_id, table_no, type, status, resolved_at, created_at
	          FROM waiter_calls
	          WHERE restaurant_id = $1 AND status = $2`
	args := []interface{}{restaurantID, models.WaiterCallPending}
	if branchID != nil {
		query += ` AND branch_id = $3`
		args = append(args, *branchID)
	}
	query += ` ORDER BY created_at ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying pending waiter calls: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var call models.WaiterCall
		var resolvedAt sql.NullTime
		if err := rows.Scan(&call.ID, &call.RestaurantID, &call.BranchID, &call.TableNo,
			&call.Type, &call.Status, &resolvedAt, &call.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning waiter call: %v", ErrDatabaseError, err)
		}
		if resolvedAt.Valid {
			call.ResolvedAt = &resolvedAt.Time
		}
		calls = append(calls, call)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating waiter calls: %v", ErrDatabaseError, err)
	}
	return calls, nil
}

func (r *waiterCallRepository) ResolveCall(executor SQLExecutor, restaurantID, callID int64, resolvedAt time.Time) (*models.WaiterCall, error) {
	call := &models.WaiterCall{}
	var resolved sql.NullTime
	query := `UPDATE waiter_calls SET status = $1, resolved_at = $2
	          WHERE id = $3 AND restaurant_id = $4
	          RETURNING id, restaurant_id, branch_id, table_no, type, status, resolved_at, created_at`
	err := executor.QueryRow(query, models.WaiterCallResolved, resolvedAt, callID, restaurantID).Scan(
		&call.ID, &call.RestaurantID, &call.BranchID, &call.TableNo,
		&call.Type, &call.Status, &resolved, &call.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: resolving waiter call ID %d: %v", ErrDatabaseError, callID, err)
	}
	if resolved.Valid {
		call.ResolvedAt = &resolved.Time
	}
	return call, nil
}
