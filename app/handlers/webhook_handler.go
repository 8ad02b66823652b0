package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"

	"github.com/copromote/henry-help/app/dto"
	businessflow "github.com/copromote/henry-help/business_flow"
	"github.com/gofiber/fiber/v3"
)

// WebhookHandlerInterface defines the contract for provider webhook handlers
type WebhookHandlerInterface interface {
	CallStatus(c fiber.Ctx) error
}

// WebhookHandler receives voice-provider status callbacks
type WebhookHandler struct {
	BaseHandler
	webhookFlow   businessflow.WebhookFlow
	signingSecret string
}

// NewWebhookHandler creates a new webhook handler. An empty signing secret
// disables signature verification.
func NewWebhookHandler(webhookFlow businessflow.WebhookFlow, signingSecret string) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler:   NewBaseHandler(),
		webhookFlow:   webhookFlow,
		signingSecret: signingSecret,
	}
}

// CallStatus ingests a call status update from the voice provider
// @Summary Call Status Webhook
// @Description Receives call lifecycle and outcome callbacks from the voice provider
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param X-Signature header string false "Hex HMAC-SHA256 of the raw body"
// @Param request body dto.CallWebhookRequest true "Provider status payload"
// @Success 200 {object} dto.APIResponse{data=dto.CallWebhookResponse} "Acknowledged"
// @Failure 401 {object} dto.APIResponse "Bad signature"
// @Router /api/v1/webhooks/call-status [post]
func (h *WebhookHandler) CallStatus(c fiber.Ctx) error {
	if h.signingSecret != "" && !h.verifySignature(c.Body(), c.Get("X-Signature")) {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid webhook signature", "INVALID_SIGNATURE", nil)
	}

	var req dto.CallWebhookRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if resp, failed := h.validateStruct(c, &req); failed {
		return resp
	}

	result, err := h.webhookFlow.HandleCallStatus(h.createRequestContext(c, "/api/v1/webhooks/call-status"), &req, h.clientMetadata(c))
	if err != nil {
		var be *businessflow.BusinessError
		if errors.As(err, &be) && (be.Code == "PROVIDER_CALL_ID_REQUIRED" || be.Code == "INVALID_CALL_STATUS") {
			return h.ErrorResponse(c, fiber.StatusBadRequest, be.Message, be.Code, nil)
		}

		log.Println("Webhook processing failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Webhook processing failed", "WEBHOOK_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Acknowledged", result)
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(h.signingSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
