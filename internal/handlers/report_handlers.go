package handlers

import (
	"net/http"

	"tap2serve_backend/internal/services"
	"tap2serve_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the report service.
type ReportHandler struct {
	reportService services.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: rs}
}

// GetDashboardStats serves the owner dashboard summary.
func (h *ReportHandler) GetDashboardStats(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	branchID, ok := optionalBranchID(c)
	if !ok {
		return
	}

	stats, err := h.reportService.GetDashboardStats(restaurantID, branchID)
	if err != nil {
		utils.LogError(err, "GetDashboardStats: Error from reportService.GetDashboardStats")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve dashboard stats.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetDetailedReport serves the 30-day revenue trend and the order status
// distribution.
func (h *ReportHandler) GetDetailedReport(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}

	report, err := h.reportService.GetDetailedReport(restaurantID)
	if err != nil {
		utils.LogError(err, "GetDetailedReport: Error from reportService.GetDetailedReport")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve report.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, report)
}
