package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tap2serve_backend/internal/models"

	"github.com/lib/pq"
)

// MenuRepository defines the interface for menu-item database operations.
type MenuRepository interface {
	CreateItem(executor SQLExecutor, item *models.MenuItem) (int64, error)
	GetItemByID(restaurantID, id int64) (*models.MenuItem, error)
	GetItems(restaurantID int64, category *string, page, pageSize int) ([]models.MenuItem, int, error)
	// GetPublicItems returns only approved, available items for the guest menu.
	GetPublicItems(restaurantID int64) ([]models.MenuItem, error)
	UpdateItem(executor SQLExecutor, item *models.MenuItem) error
	DeleteItem(executor SQLExecutor, restaurantID, id int64) error
	ApproveItem(executor SQLExecutor, id int64) error
}

type menuRepository struct {
	db *sql.DB
}

// NewMenuRepository creates a new instance of MenuRepository.
func NewMenuRepository(db *sql.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) CreateItem(executor SQLExecutor, item *models.MenuItem) (int64, error) {
	query := `INSERT INTO menu_items
	          (restaurant_id, name, category, description, price, available, status, image_url, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          RETURNING id`
	currentTime := time.Now()
	if item.Status == "" {
		item.Status = models.MenuStatusPending
	}
	err := executor.QueryRow(query,
		item.RestaurantID, item.Name, item.Category, item.Description, item.Price,
		item.Available, item.Status, item.ImageURL, currentTime, currentTime,
	).Scan(&item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: menu item '%s' already exists (constraint: %s)", ErrDuplicateKey, item.Name, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating menu item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *menuRepository) GetItemByID(restaurantID, id int64) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	query := `SELECT id, restaurant_id, name, category, description, price, available, status, image_url, created_at, updated_at
	          FROM menu_items
	          WHERE id = $1 AND restaurant_id = $2`
	err := r.db.QueryRow(query, id, restaurantID).Scan(
		&item.ID, &item.RestaurantID, &item.Name, &item.Category, &item.Description,
		&item.Price, &item.Available, &item.Status, &item.ImageURL, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting menu item by ID %d: %v", ErrDatabaseError, id, err)
	}
	return item, nil
}

func (r *menuRepository) GetItems(restaurantID int64, category *string, page, pageSize int) ([]models.MenuItem, int, error) {
	items := []models.MenuItem{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, restaurant_id, name, category, description, price, available, status, image_url,
	    created_at, updated_at, COUNT(*) OVER() AS total_count
	  FROM menu_items`)

	conditions := []string{"restaurant_id = $1"}
	args := []interface{}{restaurantID}
	argCount := 2

	if category != nil && *category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", argCount))
		args = append(args, *category)
		argCount++
	}

	queryBuilder.WriteString(" WHERE ")
	queryBuilder.WriteString(strings.Join(conditions, " AND "))
	queryBuilder.WriteString(" ORDER BY name")
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1))
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: getting menu items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(
			&item.ID, &item.RestaurantID, &item.Name, &item.Category, &item.Description,
			&item.Price, &item.Available, &item.Status, &item.ImageURL,
			&item.CreatedAt, &item.UpdatedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning menu item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating menu items: %v", ErrDatabaseError, err)
	}
	return items, totalCount, nil
}

func (r *menuRepository) GetPublicItems(restaurantID int64) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	query := `SELECT id, restaurant_id, name, category, description, price, available, status, image_url, created_at, updated_at
	          FROM menu_items
	          WHERE restaurant_id = $1 AND available = TRUE AND status = $2
	          ORDER BY category, name`
	rows, err := r.db.Query(query, restaurantID, models.MenuStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("%w: getting public menu items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.MenuItem
		if err := rows.Scan(
			&item.ID, &item.RestaurantID, &item.Name, &item.Category, &item.Description,
			&item.Price, &item.Available, &item.Status, &item.ImageURL, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scanning public menu item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating public menu items: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *menuRepository) UpdateItem(executor SQLExecutor, item *models.MenuItem) error {
	query := `UPDATE menu_items SET
	            name = $1, category = $2, description = $3, price = $4,
	            available = $5, image_url = $6, updated_at = $7
	          WHERE id = $8 AND restaurant_id = $9`
	result, err := executor.Exec(query,
		item.Name, item.Category, item.Description, item.Price,
		item.Available, item.ImageURL, time.Now(), item.ID, item.RestaurantID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating menu item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) DeleteItem(executor SQLExecutor, restaurantID, id int64) error {
	query := `DELETE FROM menu_items WHERE id = $1 AND restaurant_id = $2`
	result, err := executor.Exec(query, id, restaurantID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("%w: menu item ID %d is referenced by other records (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting menu item ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) ApproveItem(executor SQLExecutor, id int64) error {
	query := `UPDATE menu_items SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, models.MenuStatusApproved, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: approving menu item ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
