package handlers

import (
	"errors"
	"net/http"

	"tap2serve_backend/internal/services"
	"tap2serve_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PaymentHandler holds the payment service.
type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(ps services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: ps}
}

// Webhook receives payment provider deliveries. The provider retries until it
// gets a 2xx, so duplicates are expected and answered with 200.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var req services.PaymentWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid webhook payload: "+err.Error(), err.Error()))
		return
	}

	result, err := h.paymentService.HandleWebhook(req)
	if err != nil {
		if errors.Is(err, services.ErrUnknownPaymentEvent) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Unknown event type.", err.Error()))
			return
		}
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found.", ""))
			return
		}
		utils.LogError(err, "Webhook: Error from paymentService.HandleWebhook")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to process webhook.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, result)
}
