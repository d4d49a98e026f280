package services

import (
	"database/sql"
	"errors"
	"fmt"

	"tap2serve_backend/internal/models"
	"tap2serve_backend/internal/repositories"
)

var (
	ErrMenuItemExists = errors.New("menu item already exists")
)

// --- DTOs ---

// CreateMenuItemRequest is used for creating a new menu item.
type CreateMenuItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Description *string `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Available   bool    `json:"available"`
	ImageURL    *string `json:"image_url"`
}

// UpdateMenuItemRequest is used for updating an existing menu item.
type UpdateMenuItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Description *string `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Available   bool    `json:"available"`
	ImageURL    *string `json:"image_url"`
}

// --- MenuService Interface ---

type MenuService interface {
	CreateItem(restaurantID int64, req CreateMenuItemRequest) (*models.MenuItem, error)
	GetItemByID(restaurantID, id int64) (*models.MenuItem, error)
	GetItems(restaurantID int64, category *string, page, pageSize int) ([]models.MenuItem, int, error)
	GetPublicMenu(restaurantID int64) ([]models.MenuItem, error)
	UpdateItem(restaurantID, id int64, req UpdateMenuItemRequest) (*models.MenuItem, error)
	DeleteItem(restaurantID, id int64) error
	ApproveItem(id int64) error
}

type menuService struct {
	menuRepo repositories.MenuRepository
	db       *sql.DB
}

// NewMenuService creates a new instance of MenuService.
func NewMenuService(mr repositories.MenuRepository, db *sql.DB) MenuService {
	return &menuService{menuRepo: mr, db: db}
}

func (s *menuService) CreateItem(restaurantID int64, req CreateMenuItemRequest) (*models.MenuItem, error) {
	if req.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	item := &models.MenuItem{
		RestaurantID: restaurantID,
		Name:         req.Name,
		Category:     req.Category,
		Description:  req.Description,
		Price:        req.Price,
		Available:    req.Available,
		Status:       models.MenuStatusPending,
		ImageURL:     req.ImageURL,
	}
	if _, err := s.menuRepo.CreateItem(s.db, item); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: '%s'", ErrMenuItemExists, req.Name)
		}
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}
	return item, nil
}

func (s *menuService) GetItemByID(restaurantID, id int64) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetItemByID(restaurantID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return item, nil
}

func (s *menuService) GetItems(restaurantID int64, category *string, page, pageSize int) ([]models.MenuItem, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	items, total, err := s.menuRepo.GetItems(restaurantID, category, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get menu items: %w", err)
	}
	return items, total, nil
}

func (s *menuService) GetPublicMenu(restaurantID int64) ([]models.MenuItem, error) {
	items, err := s.menuRepo.GetPublicItems(restaurantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get public menu: %w", err)
	}
	return items, nil
}

func (s *menuService) UpdateItem(restaurantID, id int64, req UpdateMenuItemRequest) (*models.MenuItem, error) {
	if req.Price <= 0 {
		return nil, fmt.Errorf("%w: price must be positive", ErrValidation)
	}
	item := &models.MenuItem{
		ID:           id,
		RestaurantID: restaurantID,
		Name:         req.Name,
		Category:     req.Category,
		Description:  req.Description,
		Price:        req.Price,
		Available:    req.Available,
		ImageURL:     req.ImageURL,
	}
	if err := s.menuRepo.UpdateItem(s.db, item); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: '%s'", ErrMenuItemExists, req.Name)
		}
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	return s.GetItemByID(restaurantID, id)
}

func (s *menuService) DeleteItem(restaurantID, id int64) error {
	if err := s.menuRepo.DeleteItem(s.db, restaurantID, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMenuItemNotFound
		}
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	return nil
}

func (s *menuService) ApproveItem(id int64) error {
	if err := s.menuRepo.ApproveItem(s.db, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMenuItemNotFound
		}
		return fmt.Errorf("failed to approve menu item: %w", err)
	}
	return nil
}
