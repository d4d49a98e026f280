package services

import (
	"database/sql"
	"errors"
	"fmt"

	"tap2serve_backend/internal/models"
	"tap2serve_backend/internal/repositories"
)

// defaultLowStockThreshold applies when a stock update does not carry one.
const defaultLowStockThreshold = 5

// --- DTOs ---

// SetStockRequest replaces the stock record of one menu item. The submitted
// quantity is the new absolute value, not a delta.
type SetStockRequest struct {
	Quantity          int    `json:"quantity" binding:"gte=0"`
	LowStockThreshold int    `json:"low_stock_threshold" binding:"gte=0"`
	BranchID          *int64 `json:"branch_id"`
}

// --- InventoryService Interface ---

type InventoryService interface {
	GetStock(restaurantID int64, branchID *int64) ([]models.StockRecord, error)
	SetStock(restaurantID, menuItemID int64, userID *int64, req SetStockRequest) (*models.StockRecord, error)
}

type inventoryService struct {
	stockRepo repositories.StockRepository
	menuRepo  repositories.MenuRepository
	auditRepo repositories.AuditRepository
	db        *sql.DB
}

// NewInventoryService creates a new instance of InventoryService.
func NewInventoryService(
	sr repositories.StockRepository,
	mr repositories.MenuRepository,
	ar repositories.AuditRepository,
	db *sql.DB,
) InventoryService {
	return &inventoryService{stockRepo: sr, menuRepo: mr, auditRepo: ar, db: db}
}

func (s *inventoryService) GetStock(restaurantID int64, branchID *int64) ([]models.StockRecord, error) {
	records, err := s.stockRepo.GetStock(restaurantID, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stock records: %w", err)
	}
	return records, nil
}

// SetStock overwrites the record with the submitted quantity. Last writer
// wins; restocking is a deliberate replacement, not an increment.
func (s *inventoryService) SetStock(restaurantID, menuItemID int64, userID *int64, req SetStockRequest) (*models.StockRecord, error) {
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}

	menuItem, err := s.menuRepo.GetItemByID(restaurantID, menuItemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: item ID %d", ErrMenuItemNotFound, menuItemID)
		}
		return nil, fmt.Errorf("failed to fetch menu item for stock update: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	threshold := req.LowStockThreshold
	if threshold == 0 {
		threshold = defaultLowStockThreshold
	}

	record := &models.StockRecord{
		RestaurantID:      restaurantID,
		BranchID:          req.BranchID,
		MenuItemID:        menuItemID,
		Quantity:          req.Quantity,
		LowStockThreshold: threshold,
	}
	if err = s.stockRepo.UpsertStock(tx, record); err != nil {
		return nil, fmt.Errorf("failed to upsert stock: %w", err)
	}

	details := fmt.Sprintf("stock for '%s' set to %d", menuItem.Name, req.Quantity)
	if _, err = s.auditRepo.CreateEntry(tx, &models.AuditLog{
		UserID:       userID,
		RestaurantID: &restaurantID,
		Action:       "stock_updated",
		Details:      &details,
		Severity:     models.AuditInfo,
	}); err != nil {
		return nil, fmt.Errorf("failed to record stock audit entry: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit stock update: %w", err)
	}

	record.MenuItemName = menuItem.Name
	return record, nil
}
