package api

import (
	"errors"
	"net/http"

	reqdto "gearbook/internal/handler/dto/request"
	"gearbook/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

// WebhookHandler receives the payment gateway's server-to-server callbacks.
// The route is unauthenticated; the HMAC signature is the only credential.
type WebhookHandler struct {
	paymentCommands commands.PaymentCommands
}

func NewWebhookHandler(paymentCommands commands.PaymentCommands) *WebhookHandler {
	return &WebhookHandler{paymentCommands: paymentCommands}
}

// @Summary Payment callback
// @Description Gateway server-to-server payment notification, HMAC-verified
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.PaymentCallbackRequest true "Callback payload"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /payments/callback [post]
func (h *WebhookHandler) HandleCallback(c *gin.Context) {
	var req reqdto.PaymentCallbackRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid callback format"})
		return
	}

	if err := h.paymentCommands.HandleCallback(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidSignature):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		case errors.Is(err, commands.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown transaction"})
		case errors.Is(err, commands.ErrCallbackAmountBad):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Amount does not match the payment"})
		case errors.Is(err, commands.ErrPaymentStateConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Payment already settled with a different outcome"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
