package services

import (
	"database/sql"
	"errors"
	"fmt"

	"tap2serve_backend/internal/models"
	"tap2serve_backend/internal/repositories"
)

var (
	ErrBranchNotFound = errors.New("branch not found")
	ErrBranchExists   = errors.New("branch name already exists")
)

// --- DTOs ---

// BranchRequest creates or replaces a branch.
type BranchRequest struct {
	Name          string  `json:"name" binding:"required"`
	Address       *string `json:"address"`
	ContactNumber *string `json:"contact_number"`
	PrepTime      int     `json:"prep_time" binding:"gte=0"`
	IsActive      bool    `json:"is_active"`
}

// --- BranchService Interface ---

type BranchService interface {
	CreateBranch(restaurantID int64, req BranchRequest) (*models.Branch, error)
	GetBranchByID(restaurantID, id int64) (*models.Branch, error)
	GetBranches(restaurantID int64) ([]models.Branch, error)
	UpdateBranch(restaurantID, id int64, req BranchRequest) (*models.Branch, error)
	DeleteBranch(restaurantID, id int64) error
}

type branchService struct {
	branchRepo repositories.BranchRepository
	db         *sql.DB
}

// NewBranchService creates a new instance of BranchService.
func NewBranchService(br repositories.BranchRepository, db *sql.DB) BranchService {
	return &branchService{branchRepo: br, db: db}
}

func (s *branchService) CreateBranch(restaurantID int64, req BranchRequest) (*models.Branch, error) {
	branch := &models.Branch{
		RestaurantID:  restaurantID,
		Name:          req.Name,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
		PrepTime:      req.PrepTime,
		IsActive:      req.IsActive,
	}
	if _, err := s.branchRepo.CreateBranch(s.db, branch); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: '%s'", ErrBranchExists, req.Name)
		}
		return nil, fmt.Errorf("failed to create branch: %w", err)
	}
	return branch, nil
}

func (s *branchService) GetBranchByID(restaurantID, id int64) (*models.Branch, error) {
	branch, err := s.branchRepo.GetBranchByID(restaurantID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBranchNotFound
		}
		return nil, fmt.Errorf("failed to get branch: %w", err)
	}
	return branch, nil
}

func (s *branchService) GetBranches(restaurantID int64) ([]models.Branch, error) {
	branches, err := s.branchRepo.GetBranches(restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get branches: %w", err)
	}
	return branches, nil
}

func (s *branchService) UpdateBranch(restaurantID, id int64, req BranchRequest) (*models.Branch, error) {
	branch := &models.Branch{
		ID:            id,
		RestaurantID:  restaurantID,
		Name:          req.Name,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
		PrepTime:      req.PrepTime,
		IsActive:      req.IsActive,
	}
	if err := s.branchRepo.UpdateBranch(s.db, branch); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrBranchNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: '%s'", ErrBranchExists, req.Name)
		}
		return nil, fmt.Errorf("failed to update branch: %w", err)
	}
	return s.GetBranchByID(restaurantID, id)
}

func (s *branchService) DeleteBranch(restaurantID, id int64) error {
	if err := s.branchRepo.DeleteBranch(s.db, restaurantID, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrBranchNotFound
		}
		return fmt.Errorf("failed to delete branch: %w", err)
	}
	return nil
}
