package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tap2serve_backend/internal/models"
)

// StockRepository is the only component allowed to mutate stock quantities.
// Reserve and Release are single-statement conditional updates so that the
// check and the decrement are indivisible with respect to concurrent callers:
// Postgres row locking serializes all writers of one (restaurant, item) row.
type StockRepository interface {
	// Reserve decrements quantity by qty only if the current quantity is at
	// least qty. On insufficient stock it returns ErrNotFound-free typed
	// data: remaining holds the quantity observed after the failed attempt.
	// A missing stock record is reported as ErrNoStockRecord.
	Reserve(executor SQLExecutor, restaurantID, menuItemID int64, qty int) (remaining int, err error)

	// Release increments quantity by qty. It is a pure arithmetic add;
	// callers must not double-release.
	Release(executor SQLExecutor, restaurantID, menuItemID int64, qty int) error

	// UpsertStock creates or overwrites the stock record. Last writer wins:
	// the final quantity is exactly the submitted value, not additive.
	UpsertStock(executor SQLExecutor, record *models.StockRecord) error

	GetStock(restaurantID int64, branchID *int64) ([]models.StockRecord, error)
	GetRecord(restaurantID, menuItemID int64) (*models.StockRecord, error)
}

type stockRepository struct {
	db *sql.DB
}

// NewStockRepository creates a new instance of StockRepository.
func NewStockRepository(db *sql.DB) StockRepository {
	return &stockRepository{db: db}
}

func (r *stockRepository) Reserve(executor SQLExecutor, restaurantID, menuItemID int64, qty int) (int, error) {
	var remaining int
	query := `UPDATE stock_records
	          SET quantity = quantity - $1, updated_at = $2
	          WHERE restaurant_id = $3 AND menu_item_id = $4 AND quantity >= $1
	          RETURNING quantity`
	err := executor.QueryRow(query, qty, time.Now(), restaurantID, menuItemID).Scan(&remaining)
	if err == nil {
		return remaining, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: reserving %d of item %d: %v", ErrDatabaseError, qty, menuItemID, err)
	}

	// The guarded update matched no row: either the record does not exist or
	// the quantity was too low. Read it back through the same executor so a
	// surrounding transaction sees its own earlier writes.
	var current int
	checkQuery := `SELECT quantity FROM stock_records WHERE restaurant_id = $1 AND menu_item_id = $2`
	checkErr := executor.QueryRow(checkQuery, restaurantID, menuItemID).Scan(&current)
	if errors.Is(checkErr, sql.ErrNoRows) {
		return 0, ErrNoStockRecord
	}
	if checkErr != nil {
		return 0, fmt.Errorf("%w: checking stock for item %d: %v", ErrDatabaseError, menuItemID, checkErr)
	}
	return current, ErrInsufficientStock
}

func (r *stockRepository) Release(executor SQLExecutor, restaurantID, menuItemID int64, qty int) error {
	query := `UPDATE stock_records
	          SET quantity = quantity + $1, updated_at = $2
	          WHERE restaurant_id = $3 AND menu_item_id = $4`
	_, err := executor.Exec(query, qty, time.Now(), restaurantID, menuItemID)
	if err != nil {
		return fmt.Errorf("%w: releasing %d of item %d: %v", ErrDatabaseError, qty, menuItemID, err)
	}
	// A missing record is not an error here: releasing stock for an item
	// that was never tracked is a no-op by contract.
	return nil
}

func (r *stockRepository) UpsertStock(executor SQLExecutor, record *models.StockRecord) error {
	query := `INSERT INTO stock_records (restaurant_id, branch_id, menu_item_id, quantity, low_stock_threshold, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (restaurant_id, menu_item_id)
	          DO UPDATE SET quantity = EXCLUDED.quantity,
	                        low_stock_threshold = EXCLUDED.low_stock_threshold,
	                        branch_id = EXCLUDED.branch_id,
	                        updated_at = EXCLUDED.updated_at
	          RETURNING id`
	var branchID sql.NullInt64
	if record.BranchID != nil {
		branchID = sql.NullInt64{Int64: *record.BranchID, Valid: true}
	}
	record.UpdatedAt = time.Now()
	err := executor.QueryRow(query,
		record.RestaurantID, branchID, record.MenuItemID,
		record.Quantity, record.LowStockThreshold, record.UpdatedAt,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("%w: upserting stock for item %d: %v", ErrDatabaseError, record.MenuItemID, err)
	}
	return nil
}

func (r *stockRepository) GetStock(restaurantID int64, branchID *int64) ([]models.StockRecord, error) {
	records := []models.StockRecord{}
	query := `SELECT s.id, s.restaurant_id, s.branch_id, s.menu_item_id, s.quantity,
	                 s.low_stock_threshold, s.updated_at, m.name
	          FROM stock_records s
	          JOIN menu_items m ON s.menu_item_id = m.id
	          WHERE s.restaurant_id = $1`
	args := []interface{}{restaurantID}
	if branchID != nil {
		query += ` AND s.branch_id = $2`
		args = append(args, *branchID)
	}
	query += ` ORDER BY m.name`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying stock records: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec models.StockRecord
		var recBranchID sql.NullInt64
		if err := rows.Scan(&rec.ID, &rec.RestaurantID, &recBranchID, &rec.MenuItemID,
			&rec.Quantity, &rec.LowStockThreshold, &rec.UpdatedAt, &rec.MenuItemName); err != nil {
			return nil, fmt.Errorf("%w: scanning stock record: %v", ErrDatabaseError, err)
		}
		if recBranchID.Valid {
			rec.BranchID = &recBranchID.Int64
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating stock records: %v", ErrDatabaseError, err)
	}
	return records, nil
}

func (r *stockRepository) GetRecord(restaurantID, menuItemID int64) (*models.StockRecord, error) {
	rec := &models.StockRecord{}
	var branchID sql.NullInt64
	query := `SELECT id, restaurant_id, branch_id, menu_item_id, quantity, low_stock_threshold, updated_at
	          FROM stock_records
	          WHERE restaurant_id = $1 AND menu_item_id = $2`
	err := r.db.QueryRow(query, restaurantID, menuItemID).Scan(
		&rec.ID, &rec.RestaurantID, &branchID, &rec.MenuItemID,
		&rec.Quantity, &rec.LowStockThreshold, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting stock record for item %d: %v", ErrDatabaseError, menuItemID, err)
	}
	if branchID.Valid {
		rec.BranchID = &branchID.Int64
	}
	return rec, nil
}
