package handlers

import (
	"errors"
	"net/http"

	"tap2serve_backend/internal/middleware"
	"tap2serve_backend/internal/services"
	"tap2serve_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// InventoryHandler holds the inventory service.
type InventoryHandler struct {
	inventoryService services.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(is services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: is}
}

// GetStock lists all tracked stock records for the restaurant.
func (h *InventoryHandler) GetStock(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	branchID, ok := optionalBranchID(c)
	if !ok {
		return
	}

	records, err := h.inventoryService.GetStock(restaurantID, branchID)
	if err != nil {
		utils.LogError(err, "GetStock: Error from inventoryService.GetStock")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve stock records.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, records)
}

// SetStock overwrites the stock record of one menu item.
func (h *InventoryHandler) SetStock(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	menuItemID, ok := pathID(c, "menuItemId")
	if !ok {
		return
	}
	var req services.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	record, err := h.inventoryService.SetStock(restaurantID, menuItemID, middleware.UserID(c), req)
	if err != nil {
		if errors.Is(err, services.ErrMenuItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found.", err.Error()))
			return
		}
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid stock payload.", err.Error()))
			return
		}
		utils.LogError(err, "SetStock: Error from inventoryService.SetStock")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update stock.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, record)
}
