package handlers

import (
	"errors"
	"net/http"

	"tap2serve_backend/internal/services"
	"tap2serve_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// BranchHandler holds the branch service.
type BranchHandler struct {
	branchService services.BranchService
}

// NewBranchHandler creates a new BranchHandler.
func NewBranchHandler(bs services.BranchService) *BranchHandler {
	return &BranchHandler{branchService: bs}
}

// CreateBranch adds a new location to the restaurant.
func (h *BranchHandler) CreateBranch(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	var req services.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	branch, err := h.branchService.CreateBranch(restaurantID, req)
	if err != nil {
		if errors.Is(err, services.ErrBranchExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Branch name already exists.", err.Error()))
			return
		}
		utils.LogError(err, "CreateBranch: Error from branchService.CreateBranch")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create branch.", "Internal error"))
		return
	}
	c.JSON(http.StatusCreated, branch)
}

// GetBranches lists the restaurant's locations.
func (h *BranchHandler) GetBranches(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	branches, err := h.branchService.GetBranches(restaurantID)
	if err != nil {
		utils.LogError(err, "GetBranches: Error from branchService.GetBranches")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve branches.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, branches)
}

// GetBranchByID fetches one location.
func (h *BranchHandler) GetBranchByID(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	branch, err := h.branchService.GetBranchByID(restaurantID, id)
	if err != nil {
		if errors.Is(err, services.ErrBranchNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Branch not found.", ""))
			return
		}
		utils.LogError(err, "GetBranchByID: Error from branchService.GetBranchByID")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve branch.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, branch)
}

// UpdateBranch replaces a location's details.
func (h *BranchHandler) UpdateBranch(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.BranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	branch, err := h.branchService.UpdateBranch(restaurantID, id, req)
	if err != nil {
		if errors.Is(err, services.ErrBranchNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Branch not found.", ""))
			return
		}
		if errors.Is(err, services.ErrBranchExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Branch name already exists.", err.Error()))
			return
		}
		utils.LogError(err, "UpdateBranch: Error from branchService.UpdateBranch")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update branch.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, branch)
}

// DeleteBranch removes a location.
func (h *BranchHandler) DeleteBranch(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.branchService.DeleteBranch(restaurantID, id); err != nil {
		if errors.Is(err, services.ErrBranchNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Branch not found.", ""))
			return
		}
		utils.LogError(err, "DeleteBranch: Error from branchService.DeleteBranch")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete branch.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Branch deleted successfully"})
}
