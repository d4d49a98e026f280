package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tap2serve_backend/internal/services"
	"tap2serve_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler groups the platform operator's endpoints. All of its routes
// sit behind RoleAuthMiddleware(RoleAdmin).
type AdminHandler struct {
	reportService services.ReportService
	menuService   services.MenuService
	authService   services.AuthService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(rs services.ReportService, ms services.MenuService, as services.AuthService) *AdminHandler {
	return &AdminHandler{reportService: rs, menuService: ms, authService: as}
}

// GetStats serves the platform-wide dashboard.
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.reportService.GetAdminStats()
	if err != nil {
		utils.LogError(err, "GetStats: Error from reportService.GetAdminStats")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve platform stats.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ApproveMenuItem makes a pending menu item visible to guests.
func (h *AdminHandler) ApproveMenuItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.menuService.ApproveItem(id); err != nil {
		if errors.Is(err, services.ErrMenuItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found.", ""))
			return
		}
		utils.LogError(err, "ApproveMenuItem: Error from menuService.ApproveItem")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to approve menu item.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item approved"})
}

// SetUserStatus activates or suspends an account.
func (h *AdminHandler) SetUserStatus(c *gin.Context) {
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

	if err := h.authService.SetUserStatus(id, req.Status); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found.", ""))
			return
		}
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid user status.", err.Error()))
			return
		}
		utils.LogError(err, "SetUserStatus: Error from authService.SetUserStatus")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update user status.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User status updated"})
}

// GetAuditLogs lists audit entries, optionally scoped to one restaurant.
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	var restaurantID *int64
	if ridStr := c.Query("restaurant_id"); ridStr != "" {
		rid, err := utils.StrToInt64(ridStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid restaurant_id format.", err.Error()))
			return
		}
		restaurantID = &rid
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	entries, totalCount, err := h.reportService.GetAuditLogs(restaurantID, page, pageSize)
	if err != nil {
		utils.LogError(err, "GetAuditLogs: Error from reportService.GetAuditLogs")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve audit logs.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":        entries,
		"total_count": totalCount,
		"page":        page,
		"page_size":   pageSize,
	})
}
