package handlers

import (
	"errors"
	"net/http"

	"tap2serve_backend/internal/services"
	"tap2serve_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// FeedbackHandler holds the feedback service.
type FeedbackHandler struct {
	feedbackService services.FeedbackService
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(fs services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedbackService: fs}
}

// CreateFeedback is public: guests rate their visit from the table QR page.
func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
	restaurantID, ok := pathID(c, "restaurantId")
	if !ok {
		return
	}
	var req services.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	fb, err := h.feedbackService.CreateFeedback(restaurantID, req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid feedback payload.", err.Error()))
			return
		}
		utils.LogError(err, "CreateFeedback: Error from feedbackService.CreateFeedback")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create feedback.", "Internal error"))
		return
	}
	c.JSON(http.StatusCreated, fb)
}

// GetFeedback lists the restaurant's feedback. Staff see everything; pass
// visible_only=true to match what guests would see.
func (h *FeedbackHandler) GetFeedback(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	visibleOnly := c.Query("visible_only") == "true"

	entries, err := h.feedbackService.GetFeedback(restaurantID, visibleOnly)
	if err != nil {
		utils.LogError(err, "GetFeedback: Error from feedbackService.GetFeedback")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve feedback.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, entries)
}

// SetVisibility hides or shows one feedback entry.
func (h *FeedbackHandler) SetVisibility(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req struct {
		IsVisible *bool `json:"is_visible" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	if err := h.feedbackService.SetVisibility(restaurantID, id, *req.IsVisible); err != nil {
		if errors.Is(err, services.ErrFeedbackNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Feedback not found.", ""))
			return
		}
		utils.LogError(err, "SetVisibility: Error from feedbackService.SetVisibility")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update feedback visibility.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Feedback visibility updated"})
}
