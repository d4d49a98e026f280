package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tap2serve_backend/internal/models"
	"tap2serve_backend/internal/repositories"
)

var ErrReservationNotFound = errors.New("reservation not found")

// --- DTOs ---

// CreateReservationRequest books a table for a future slot.
type CreateReservationRequest struct {
	TableNo       string    `json:"table_no" binding:"required"`
	CustomerName  string    `json:"customer_name" binding:"required"`
	ContactNumber *string   `json:"contact_number"`
	Time          time.Time `json:"time" binding:"required"`
	Guests        int       `json:"guests" binding:"required,gt=0"`
	BranchID      *int64    `json:"branch_id"`
}

// UpdateReservationRequest edits an existing booking.
type UpdateReservationRequest struct {
	TableNo       string    `json:"table_no" binding:"required"`
	CustomerName  string    `json:"customer_name" binding:"required"`
	ContactNumber *string   `json:"contact_number"`
	Time          time.Time `json:"time" binding:"required"`
	Guests        int       `json:"guests" binding:"required,gt=0"`
}

// --- ReservationService Interface ---

type ReservationService interface {
	CreateReservation(restaurantID int64, req CreateReservationRequest) (*models.Reservation, error)
	GetReservationByID(restaurantID, id int64) (*models.Reservation, error)
	GetReservations(restaurantID int64, status *string) ([]models.Reservation, error)
	UpdateReservation(restaurantID, id int64, req UpdateReservationRequest) (*models.Reservation, error)
	UpdateReservationStatus(restaurantID, id int64, status string) (*models.Reservation, error)
	DeleteReservation(restaurantID, id int64) error
}

type reservationService struct {
	resRepo repositories.ReservationRepository
	db      *sql.DB
}

// NewReservationService creates a new instance of ReservationService.
func NewReservationService(rr repositories.ReservationRepository, db *sql.DB) ReservationService {
	return &reservationService{resRepo: rr, db: db}
}

func (s *reservationService) CreateReservation(restaurantID int64, req CreateReservationRequest) (*models.Reservation, error) {
	if req.Guests <= 0 {
		return nil, fmt.Errorf("%w: guest count must be positive", ErrValidation)
	}
	if req.Time.Before(time.Now()) {
		return nil, fmt.Errorf("%w: reservation time must be in the future", ErrValidation)
	}

	res := &models.Reservation{
		RestaurantID:  restaurantID,
		BranchID:      req.BranchID,
		TableNo:       req.TableNo,
		CustomerName:  req.CustomerName,
		ContactNumber: req.ContactNumber,
		Time:          req.Time,
		Guests:        req.Guests,
		Status:        models.ReservationPending,
	}
	if _, err := s.resRepo.CreateReservation(s.db, res); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}
	return res, nil
}

func (s *reservationService) GetReservationByID(restaurantID, id int64) (*models.Reservation, error) {
	res, err := s.resRepo.GetReservationByID(restaurantID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return res, nil
}

func (s *reservationService) GetReservations(restaurantID int64, status *string) ([]models.Reservation, error) {
	reservations, err := s.resRepo.GetReservations(restaurantID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to get reservations: %w", err)
	}
	return reservations, nil
}

func (s *reservationService) UpdateReservation(restaurantID, id int64, req UpdateReservationRequest) (*models.Reservation, error) {
	if req.Guests <= 0 {
		return nil, fmt.Errorf("%w: guest count must be positive", ErrValidation)
	}
	res := &models.Reservation{
		ID:            id,
		RestaurantID:  restaurantID,
		TableNo:       req.TableNo,
		CustomerName:  req.CustomerName,
		ContactNumber: req.ContactNumber,
		Time:          req.Time,
		Guests:        req.Guests,
	}
	if err := s.resRepo.UpdateReservation(s.db, res); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}
	return s.GetReservationByID(restaurantID, id)
}

func (s *reservationService) UpdateReservationStatus(restaurantID, id int64, status string) (*models.Reservation, error) {
	switch status {
	case models.ReservationPending, models.ReservationConfirmed,
		models.ReservationCancelled, models.ReservationCompleted:
	default:
		return nil, fmt.Errorf("%w: unknown reservation status %q", ErrValidation, status)
	}
	if err := s.resRepo.UpdateReservationStatus(s.db, restaurantID, id, status); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to update reservation status: %w", err)
	}
	return s.GetReservationByID(restaurantID, id)
}

func (s *reservationService) DeleteReservation(restaurantID, id int64) error {
	if err := s.resRepo.DeleteReservation(s.db, restaurantID, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrReservationNotFound
		}
		return fmt.Errorf("failed to delete reservation: %w", err)
	}
	return nil
}
