package handlers

import (
	"errors"
	"net/http"

	"tap2serve_backend/internal/services"
	"tap2serve_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReservationHandler holds the reservation service.
type ReservationHandler struct {
	reservationService services.ReservationService
}

// NewReservationHandler creates a new ReservationHandler.
func NewReservationHandler(rs services.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservationService: rs}
}

// CreateReservation is public: guests book from the restaurant's page.
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	restaurantID, ok := pathID(c, "restaurantId")
	if !ok {
		return
	}
	var req services.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	res, err := h.reservationService.CreateReservation(restaurantID, req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid reservation payload.", err.Error()))
			return
		}
		utils.LogError(err, "CreateReservation: Error from reservationService.CreateReservation")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create reservation.", "Internal error"))
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GetReservations lists the restaurant's bookings, optionally by status.
func (h *ReservationHandler) GetReservations(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	var status *string
	if s := c.Query("status"); s != "" {
		status = &s
	}

	reservations, err := h.reservationService.GetReservations(restaurantID, status)
	if err != nil {
		utils.LogError(err, "GetReservations: Error from reservationService.GetReservations")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve reservations.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, reservations)
}

// GetReservationByID fetches one booking.
func (h *ReservationHandler) GetReservationByID(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	res, err := h.reservationService.GetReservationByID(restaurantID, id)
	if err != nil {
		if errors.Is(err, services.ErrReservationNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Reservation not found.", ""))
			return
		}
		utils.LogError(err, "GetReservationByID: Error from reservationService.GetReservationByID")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve reservation.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, res)
}

// UpdateReservation edits a booking's details.
func (h *ReservationHandler) UpdateReservation(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	res, err := h.reservationService.UpdateReservation(restaurantID, id, req)
	if err != nil {
		if errors.Is(err, services.ErrReservationNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Reservation not found.", ""))
			return
		}
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid reservation payload.", err.Error()))
			return
		}
		utils.LogError(err, "UpdateReservation: Error from reservationService.UpdateReservation")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update reservation.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, res)
}

// UpdateReservationStatus changes only the booking's status.
func (h *ReservationHandler) UpdateReservationStatus(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	res, err := h.reservationService.UpdateReservationStatus(restaurantID, id, req.Status)
	if err != nil {
		if errors.Is(err, services.ErrReservationNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Reservation not found.", ""))
			return
		}
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid reservation status.", err.Error()))
			return
		}
		utils.LogError(err, "UpdateReservationStatus: Error from reservationService.UpdateReservationStatus")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update reservation status.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeleteReservation removes a booking.
func (h *ReservationHandler) DeleteReservation(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.reservationService.DeleteReservation(restaurantID, id); err != nil {
		if errors.Is(err, services.ErrReservationNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Reservation not found.", ""))
			return
		}
		utils.LogError(err, "DeleteReservation: Error from reservationService.DeleteReservation")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete reservation.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation deleted successfully"})
}
