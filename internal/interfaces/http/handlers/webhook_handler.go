package handlers

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stagepass.backend/internal/usecases"
	"stagepass.backend/pkg/logger"
)

// SignatureHeader carries the gateway's HMAC of the raw body
const SignatureHeader = "x-paystack-signature"

// WebhookHandler handles payment gateway webhooks
type WebhookHandler struct {
	eligibility *usecases.EligibilityUsecase
	secretKey   string
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(eligibility *usecases.EligibilityUsecase, secretKey string) *WebhookHandler {
	return &WebhookHandler{eligibility: eligibility, secretKey: secretKey}
}

// HandlePaystackWebhook processes gateway events. Only charge events
// carrying a known reference trigger reconciliation; everything else
// is acknowledged and dropped. Replayed deliveries are harmless
// because reconciliation is idempotent.
// POST /api/v1/webhooks/paystack
func (h *WebhookHandler) HandlePaystackWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_INPUT", "message": "Unreadable body"})
		return
	}

	if !h.validSignature(body, c.GetHeader(SignatureHeader)) {
		c.JSON(http.StatusUnauthorized, gin.H{"code": "INVALID_SIGNATURE", "message": "Signature mismatch"})
		return
	}

	var event struct {
		Event string `json:"event"`
		Data  struct {
			Reference string `json:"reference"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": "INVALID_INPUT", "message": "Malformed event"})
		return
	}

	switch event.Event {
	case "charge.success", "charge.failed":
		if event.Data.Reference == "" {
			break
		}
		if _, err := h.eligibility.ReconcilePayment(c.Request.Context(), event.Data.Reference); err != nil {
			// A non-2xx makes the gateway redeliver, which is what we
			// want for transient failures.
			logger.Error(c.Request.Context(), "Webhook reconciliation failed",
				zap.String("event", event.Event),
				zap.String("reference", event.Data.Reference),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL", "message": "Reconciliation failed"})
			return
		}
	default:
		logger.Debug(c.Request.Context(), "Webhook event ignored", zap.String("event", event.Event))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *WebhookHandler) validSignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha512.New, []byte(h.secretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
