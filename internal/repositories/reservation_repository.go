package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tap2serve_backend/internal/models"
)

// ReservationRepository defines the interface for reservation database operations.
type ReservationRepository interface {
	CreateReservation(executor SQLExecutor, res *models.Reservation) (int64, error)
	GetReservationByID(restaurantID, id int64) (*models.Reservation, error)
	GetReservations(restaurantID int64, status *string) ([]models.Reservation, error)
	UpdateReservation(executor SQLExecutor, res *models.Reservation) error
	UpdateReservationStatus(executor SQLExecutor, restaurantID, id int64, status string) error
	DeleteReservation(executor SQLExecutor, restaurantID, id int64) error
}

type reservationRepository struct {
	db *sql.DB
}

// NewReservationRepository creates a new instance of ReservationRepository.
func NewReservationRepository(db *sql.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) CreateReservation(executor SQLExecutor, res *models.Reservation) (int64, error) {
	query := `INSERT INTO reservations
	          (restaurant_id, branch_id, table_no, customer_name, contact_number, time, guests, status, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`
	currentTime := time.Now()
	if res.Status == "" {
		res.Status = models.ReservationPending
	}
	err := executor.QueryRow(query,
		res.RestaurantID, res.BranchID, res.TableNo, res.CustomerName, res.ContactNumber,
		res.Time, res.Guests, res.Status, currentTime, currentTime,
	).Scan(&res.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating reservation: %v", ErrDatabaseError, err)
	}
	return res.ID, nil
}

func (r *reservationRepository) GetReservationByID(restaurantID, id int64) (*models.Reservation, error) {
	res := &models.Reservation{}
	query := `SELECT id, restaurant_id, branch_id, table_no, customer_name, contact_number, time, guests, status, created_at, updated_at
	          FROM reservations
	          WHERE id = $1 AND restaurant_id = $2`
	err := r.db.QueryRow(query, id, restaurantID).Scan(
		&res.ID, &res.RestaurantID, &res.BranchID, &res.TableNo, &res.CustomerName,
		&res.ContactNumber, &res.Time, &res.Guests, &res.Status, &res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting reservation by ID %d: %v", ErrDatabaseError, id, err)
	}
	return res, nil
}

func (r *reservationRepository) GetReservations(restaurantID int64, status *string) ([]models.Reservation, error) {
	reservations := []models.Reservation{}
	query := `SELECT id, restaurant_id, branch_id, table_no, customer_name, contact_number, time, guests, status, created_at, updated_at
	          FROM reservations
	          WHERE restaurant_id = $1`
	args := []interface{}{restaurantID}
	if status != nil && *status != "" {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY time ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying reservations: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var res models.Reservation
		if err := rows.Scan(&res.ID, &res.RestaurantID, &res.BranchID, &res.TableNo, &res.CustomerName,
			&res.ContactNumber, &res.Time, &res.Guests, &res.Status, &res.CreatedAt, &res.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning reservation: %v", ErrDatabaseError, err)
		}
		reservations = append(reservations, res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating reservations: %v", ErrDatabaseError, err)
	}
	return reservations, nil
}

func (r *reservationRepository) UpdateReservation(executor SQLExecutor, res *models.Reservation) error {
	query := `UPDATE reservations SET
	            table_no = $1, customer_name = $2, contact_number = $3, time = $4, guests = $5, updated_at = $6
	          WHERE id = $7 AND restaurant_id = $8`
	result, err := executor.Exec(query,
		res.TableNo, res.CustomerName, res.ContactNumber, res.Time, res.Guests, time.Now(),
		res.ID, res.RestaurantID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating reservation ID %d: %v", ErrDatabaseError, res.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reservationRepository) UpdateReservationStatus(executor SQLExecutor, restaurantID, id int64, status string) error {
	query := `UPDATE reservations SET status = $1, updated_at = $2 WHERE id = $3 AND restaurant_id = $4`
	result, err := executor.Exec(query, status, time.Now(), id, restaurantID)
	if err != nil {
		return fmt.Errorf("%w: updating reservation status for ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reservationRepository) DeleteReservation(executor SQLExecutor, restaurantID, id int64) error {
	query := `DELETE FROM reservations WHERE id = $1 AND restaurant_id = $2`
	result, err := executor.Exec(query, id, restaurantID)
	if err != nil {
		return fmt.Errorf("%w: deleting reservation ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
