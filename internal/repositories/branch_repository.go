package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tap2serve_backend/internal/models"

	"github.com/lib/pq"
)

// BranchRepository defines the interface for branch database operations.
type BranchRepository interface {
	CreateBranch(executor SQLExecutor, branch *models.Branch) (int64, error)
	GetBranchByID(restaurantID, id int64) (*models.Branch, error)
	GetBranches(restaurantID int64) ([]models.Branch, error)
	UpdateBranch(executor SQLExecutor, branch *models.Branch) error
	DeleteBranch(executor SQLExecutor, restaurantID, id int64) error
}

type branchRepository struct {
	db *sql.DB
}

// NewBranchRepository creates a new instance of BranchRepository.
func NewBranchRepository(db *sql.DB) BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) CreateBranch(executor SQLExecutor, branch *models.Branch) (int64, error) {
	query := `INSERT INTO branches (restaurant_id, name, address, contact_number, prep_time, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`
	currentTime := time.Now()
	if branch.PrepTime == 0 {
		branch.PrepTime = 20
	}
	err := executor.QueryRow(query,
		branch.RestaurantID, branch.Name, branch.Address, branch.ContactNumber,
		branch.PrepTime, branch.IsActive, currentTime, currentTime,
	).Scan(&branch.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: branch name '%s' already exists (constraint: %s)", ErrDuplicateKey, branch.Name, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating branch: %v", ErrDatabaseError, err)
	}
	return branch.ID, nil
}

func (r *branchRepository) GetBranchByID(restaurantID, id int64) (*models.Branch, error) {
	branch := &models.Branch{}
	query := `SELECT id, restaurant_id, name, address, contact_number, prep_time, is_active, created_at, updated_at
	          FROM branches
	          WHERE id = $1 AND restaurant_id = $2`
	err := r.db.QueryRow(query, id, restaurantID).Scan(
		&branch.ID, &branch.RestaurantID, &branch.Name, &branch.Address, &branch.ContactNumber,
		&branch.PrepTime, &branch.IsActive, &branch.CreatedAt, &branch.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting branch by ID %d: %v", ErrDatabaseError, id, err)
	}
	return branch, nil
}

func (r *branchRepository) GetBranches(restaurantID int64) ([]models.Branch, error) {
	branches := []models.Branch{}
	query := `SELECT id, restaurant_id, name, address, contact_number, prep_time, is_active, created_at, updated_at
	          FROM branches
	          WHERE restaurant_id = $1
	          ORDER BY name`
	rows, err := r.db.Query(query, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying branches: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var branch models.Branch
		if err := rows.Scan(&branch.ID, &branch.RestaurantID, &branch.Name, &branch.Address,
			&branch.ContactNumber, &branch.PrepTime, &branch.IsActive, &branch.CreatedAt, &branch.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning branch: %v", ErrDatabaseError, err)
		}
		branches = append(branches, branch)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating branches: %v", ErrDatabaseError, err)
	}
	return branches, nil
}

func (r *branchRepository) UpdateBranch(executor SQLExecutor, branch *models.Branch) error {
	query := `UPDATE branches SET
	            name = $1, address = $2, contact_number = $3, prep_time = $4, is_active = $5, updated_at = $6
	          WHERE id = $7 AND restaurant_id = $8`
	result, err := executor.Exec(query,
		branch.Name, branch.Address, branch.ContactNumber, branch.PrepTime, branch.IsActive,
		time.Now(), branch.ID, branch.RestaurantID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: branch name '%s' already exists (constraint: %s)", ErrDuplicateKey, branch.Name, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating branch ID %d: %v", ErrDatabaseError, branch.ID, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *branchRepository) DeleteBranch(executor SQLExecutor, restaurantID, id int64) error {
	query := `DELETE FROM branches WHERE id = $1 AND restaurant_id = $2`
	result, err := executor.Exec(query, id, restaurantID)
	if err != nil {
		return fmt.Errorf("%w: deleting branch ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
