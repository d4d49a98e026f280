package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tap2serve_backend/internal/services"
	"tap2serve_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MenuHandler holds the menu service.
type MenuHandler struct {
	menuService services.MenuService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(ms services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: ms}
}

// GetPublicMenu serves the guest-facing menu for one restaurant. No auth: the
// restaurant id comes from the QR code URL.
func (h *MenuHandler) GetPublicMenu(c *gin.Context) {
	restaurantID, ok := pathID(c, "restaurantId")
	if !ok {
		return
	}
	items, err := h.menuService.GetPublicMenu(restaurantID)
	if err != nil {
		utils.LogError(err, "GetPublicMenu: Error from menuService.GetPublicMenu")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve menu.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, items)
}

// CreateItem handles creation of a menu item. New items start pending.
func (h *MenuHandler) CreateItem(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	var req services.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	item, err := h.menuService.CreateItem(restaurantID, req)
	if err != nil {
		if errors.Is(err, services.ErrMenuItemExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Menu item already exists.", err.Error()))
			return
		}
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid menu item payload.", err.Error()))
			return
		}
		utils.LogError(err, "CreateItem: Error from menuService.CreateItem")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create menu item.", "Internal error"))
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetItems lists the restaurant's menu items, paginated.
func (h *MenuHandler) GetItems(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	var category *string
	if cat := c.Query("category"); cat != "" {
		category = &cat
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	items, totalCount, err := h.menuService.GetItems(restaurantID, category, page, pageSize)
	if err != nil {
		utils.LogError(err, "GetItems: Error from menuService.GetItems")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve menu items.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":        items,
		"total_count": totalCount,
		"page":        page,
		"page_size":   pageSize,
	})
}

// GetItemByID fetches one menu item.
func (h *MenuHandler) GetItemByID(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.menuService.GetItemByID(restaurantID, id)
	if err != nil {
		if errors.Is(err, services.ErrMenuItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found.", ""))
			return
		}
		utils.LogError(err, "GetItemByID: Error from menuService.GetItemByID")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve menu item.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateItem replaces a menu item's editable fields.
func (h *MenuHandler) UpdateItem(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	item, err := h.menuService.UpdateItem(restaurantID, id, req)
	if err != nil {
		if errors.Is(err, services.ErrMenuItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found.", ""))
			return
		}
		if errors.Is(err, services.ErrMenuItemExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Menu item name already in use.", err.Error()))
			return
		}
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid menu item payload.", err.Error()))
			return
		}
		utils.LogError(err, "UpdateItem: Error from menuService.UpdateItem")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update menu item.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem removes a menu item.
func (h *MenuHandler) DeleteItem(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.menuService.DeleteItem(restaurantID, id); err != nil {
		if errors.Is(err, services.ErrMenuItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found.", ""))
			return
		}
		utils.LogError(err, "DeleteItem: Error from menuService.DeleteItem")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete menu item.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
}
