package handlers

import (
	"errors"
	"net/http"

	"tap2serve_backend/internal/services"
	"tap2serve_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// WaiterHandler holds the waiter call service.
type WaiterHandler struct {
	waiterService services.WaiterService
}

// NewWaiterHandler creates a new WaiterHandler.
func NewWaiterHandler(ws services.WaiterService) *WaiterHandler {
	return &WaiterHandler{waiterService: ws}
}

// CreateCall is the public endpoint guests hit from the table QR page.
func (h *WaiterHandler) CreateCall(c *gin.Context) {
	restaurantID, ok := pathID(c, "restaurantId")
	if !ok {
		return
	}
	var req services.CreateWaiterCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	call, err := h.waiterService.CreateCall(restaurantID, req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid waiter call payload.", err.Error()))
			return
		}
		utils.LogError(err, "CreateCall: Error from waiterService.CreateCall")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create waiter call.", "Internal error"))
		return
	}
	c.JSON(http.StatusCreated, call)
}

// GetPendingCalls lists unresolved calls for staff tablets.
func (h *WaiterHandler) GetPendingCalls(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	branchID, ok := optionalBranchID(c)
	if !ok {
		return
	}

	calls, err := h.waiterService.GetPendingCalls(restaurantID, branchID)
	if err != nil {
		utils.LogError(err, "GetPendingCalls: Error from waiterService.GetPendingCalls")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to retrieve waiter calls.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, calls)
}

// ResolveCall marks a call as handled.
func (h *WaiterHandler) ResolveCall(c *gin.Context) {
	restaurantID, ok := requireTenant(c)
	if !ok {
		return
	}
	callID, ok := pathID(c, "id")
	if !ok {
		return
	}

	call, err := h.waiterService.ResolveCall(restaurantID, callID)
	if err != nil {
		if errors.Is(err, services.ErrWaiterCallNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Waiter call not found.", ""))
			return
		}
		utils.LogError(err, "ResolveCall: Error from waiterService.ResolveCall")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to resolve waiter call.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, call)
}
