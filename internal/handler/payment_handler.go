package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"drawbook/internal/service"
)

// PaymentHandler handles top-up order and gateway notification endpoints.
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateOrder handles POST /api/v1/pay/orders
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var input service.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	order, err := h.paymentService.CreateOrder(c.Request.Context(), userID, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, order)
}

// ListOrders handles GET /api/v1/pay/orders
func (h *PaymentHandler) ListOrders(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	offset, limit := pagination(c)

	orders, total, err := h.paymentService.ListOrders(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, orders, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Notify handles POST /api/v1/pay/notify. Called by the payment gateway, not
// by users; authenticity comes from the checksum, not a session.
func (h *PaymentHandler) Notify(c *gin.Context) {
	var input service.NotificationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
		return
	}

	if err := h.paymentService.HandleNotification(c.Request.Context(), input); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"acknowledged": true})
}
