package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tap2serve_backend/internal/models"
	"tap2serve_backend/internal/notifier"
	"tap2serve_backend/internal/repositories"
)

var ErrWaiterCallNotFound = errors.New("waiter call not found")

// --- DTOs ---

// CreateWaiterCallRequest is a guest's request for table service.
type CreateWaiterCallRequest struct {
	TableNo  string `json:"table_no" binding:"required"`
	Type     string `json:"type"`
	BranchID *int64 `json:"branch_id"`
}

// --- WaiterService Interface ---

type WaiterService interface {
	CreateCall(restaurantID int64, req CreateWaiterCallRequest) (*models.WaiterCall, error)
	GetPendingCalls(restaurantID int64, branchID *int64) ([]models.WaiterCall, error)
	ResolveCall(restaurantID, callID int64) (*models.WaiterCall, error)
}

type waiterService struct {
	callRepo repositories.WaiterCallRepository
	hub      *notifier.Hub
	db       *sql.DB
}

// NewWaiterService creates a new instance of WaiterService.
func NewWaiterService(wr repositories.WaiterCallRepository, hub *notifier.Hub, db *sql.DB) WaiterService {
	return &waiterService{callRepo: wr, hub: hub, db: db}
}

func (s *waiterService) CreateCall(restaurantID int64, req CreateWaiterCallRequest) (*models.WaiterCall, error) {
	if strings.TrimSpace(req.TableNo) == "" {
		return nil, fmt.Errorf("%w: table number is required", ErrValidation)
	}
	callType := req.Type
	if callType == "" {
		callType = models.WaiterCallGeneral
	}

	call := &models.WaiterCall{
		RestaurantID: restaurantID,
		BranchID:     req.BranchID,
		TableNo:      req.TableNo,
		Type:         callType,
		Status:       models.WaiterCallPending,
	}
	if _, err := s.callRepo.CreateCall(s.db, call); err != nil {
		return nil, fmt.Errorf("failed to create waiter call: %w", err)
	}

	go s.hub.Publish(tenantRoom(restaurantID), EventWaiterCall, call)

	return call, nil
}

func (s *waiterService) GetPendingCalls(restaurantID int64, branchID *int64) ([]models.WaiterCall, error) {
	calls, err := s.callRepo.GetPendingCalls(restaurantID, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending waiter calls: %w", err)
	}
	return calls, nil
}

func (s *waiterService) ResolveCall(restaurantID, callID int64) (*models.WaiterCall, error) {
	call, err := s.callRepo.ResolveCall(s.db, restaurantID, callID, time.Now())
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrWaiterCallNotFound
		}
		return nil, fmt.Errorf("failed to resolve waiter call: %w", err)
	}
	return call, nil
}
