package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerrors "stagepass.backend/internal/domain/errors"
	"stagepass.backend/internal/interfaces/http/response"
	"stagepass.backend/internal/usecases"
)

// PaymentHandler handles payment reconciliation endpoints
type PaymentHandler struct {
	eligibility *usecases.EligibilityUsecase
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(eligibility *usecases.EligibilityUsecase) *PaymentHandler {
	return &PaymentHandler{eligibility: eligibility}
}

// Verify reconciles a payment reference against the gateway. The
// client calls this after the payment UI closes; the gateway webhook
// covers the case where it never does.
// GET /api/v1/payments/verify/:reference
func (h *PaymentHandler) Verify(c *gin.Context) {
	reference := c.Param("reference")
	if reference == "" {
		response.Error(c, domainerrors.BadRequest("Payment reference is required"))
		return
	}

	result, err := h.eligibility.ReconcilePayment(c.Request.Context(), reference)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
