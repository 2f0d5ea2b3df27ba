package api

import (
	"errors"
	"net/http"

	reqdto "gearbook/internal/handler/dto/request"
	resdto "gearbook/internal/handler/dto/response"
	"gearbook/internal/handler/middleware"
	"gearbook/internal/infra/gateway"
	"gearbook/internal/usecase/commands"
	"gearbook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	paymentCommands commands.PaymentCommands
	paymentQueries  queries.PaymentQueries
}

func NewPaymentHandler(paymentCommands commands.PaymentCommands, paymentQueries queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{
		paymentCommands: paymentCommands,
		paymentQueries:  paymentQueries,
	}
}

// @Summary Initiate payment
// @Description Open a gateway transaction for a booking (renter only)
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.InitiatePaymentRequest true "Payment request"
// @Success 201 {object} resdto.InitiatePaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /payments [post]
func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.InitiatePaymentRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	result, err := h.paymentCommands.InitiatePayment(c.Request.Context(), req, userID)
	if err != nil {
		h.respondPaymentError(c, err)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromInitiateResult(result))
}

// @Summary Check payment status
// @Description Ask the gateway for the transaction's current state and apply it
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Payment ID"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /payments/{id} [get]
func (h *PaymentHandler) CheckPaymentStatus(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	role, _ := middleware.GetUserRole(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment ID format"})
		return
	}

	// Authorization happens on the read side before any gateway traffic.
	if _, err := h.paymentQueries.GetByID(c.Request.Context(), userID, role, id); err != nil {
		h.respondPaymentError(c, err)
		return
	}

	if _, err := h.paymentCommands.CheckStatus(c.Request.Context(), id); err != nil {
		h.respondPaymentError(c, err)
		return
	}

	view, err := h.paymentQueries.GetByID(c.Request.Context(), userID, role, id)
	if err != nil {
		h.respondPaymentError(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPaymentView(view))
}

func (h *PaymentHandler) respondPaymentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
	case errors.Is(err, commands.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
	case errors.Is(err, commands.ErrPaymentAccessDenied), errors.Is(err, queries.ErrPaymentViewAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to act on this payment"})
	case errors.Is(err, commands.ErrBookingNotPayable):
		c.JSON(http.StatusConflict, gin.H{"error": "Booking cannot accept a payment in its current state"})
	case errors.Is(err, commands.ErrAlreadyPaid):
		c.JSON(http.StatusConflict, gin.H{"error": "Booking is already paid"})
	case errors.Is(err, commands.ErrPaymentStateConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Payment is in a conflicting state"})
	case errors.Is(err, gateway.ErrUpstreamUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Payment gateway unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
