package services

import (
	"database/sql"
	"errors"
	"fmt"

	"tap2serve_backend/internal/models"
	"tap2serve_backend/internal/repositories"
)

var ErrFeedbackNotFound = errors.New("feedback not found")

// --- DTOs ---

// CreateFeedbackRequest is a guest's rating of a visit.
type CreateFeedbackRequest struct {
	Rating   int      `json:"rating" binding:"required,gte=1,lte=5"`
	Comment  *string  `json:"comment"`
	Tags     []string `json:"tags"`
	OrderID  *int64   `json:"order_id"`
	TableNo  *string  `json:"table_no"`
	BranchID *int64   `json:"branch_id"`
}

// --- FeedbackService Interface ---

type FeedbackService interface {
	CreateFeedback(restaurantID int64, req CreateFeedbackRequest) (*models.Feedback, error)
	GetFeedback(restaurantID int64, visibleOnly bool) ([]models.Feedback, error)
	SetVisibility(restaurantID, id int64, visible bool) error
}

type feedbackService struct {
	feedbackRepo repositories.FeedbackRepository
	db           *sql.DB
}

// NewFeedbackService creates a new instance of FeedbackService.
func NewFeedbackService(fr repositories.FeedbackRepository, db *sql.DB) FeedbackService {
	return &feedbackService{feedbackRepo: fr, db: db}
}

func (s *feedbackService) CreateFeedback(restaurantID int64, req CreateFeedbackRequest) (*models.Feedback, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	fb := &models.Feedback{
		RestaurantID: restaurantID,
		BranchID:     req.BranchID,
		OrderID:      req.OrderID,
		TableNo:      req.TableNo,
		Rating:       req.Rating,
		Comment:      req.Comment,
		Tags:         req.Tags,
		IsVisible:    true,
	}
	if _, err := s.feedbackRepo.CreateFeedback(s.db, fb); err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}
	return fb, nil
}

func (s *feedbackService) GetFeedback(restaurantID int64, visibleOnly bool) ([]models.Feedback, error) {
	entries, err := s.feedbackRepo.GetFeedback(restaurantID, visibleOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback: %w", err)
	}
	return entries, nil
}

func (s *feedbackService) SetVisibility(restaurantID, id int64, visible bool) error {
	if err := s.feedbackRepo.SetVisibility(s.db, restaurantID, id, visible); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrFeedbackNotFound
		}
		return fmt.Errorf("failed to update feedback visibility: %w", err)
	}
	return nil
}
