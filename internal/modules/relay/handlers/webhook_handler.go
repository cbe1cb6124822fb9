package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/signature"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/whatsapp"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/shared/apperror"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/shared/config"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/shared/metrics"
)

// EventReceived is the acknowledgment body Meta expects for every accepted delivery.
const EventReceived = "EVENT_RECEIVED"

// MessageHandler reacts to a classified WhatsApp notification.
type MessageHandler interface {
	Handle(ctx context.Context, event whatsapp.Event) error
}

type WebhookHandler struct {
	cfg      config.WhatsAppConfig
	messages MessageHandler
}

func NewWebhookHandler(cfg config.WhatsAppConfig, messages MessageHandler) *WebhookHandler {
	return &WebhookHandler{cfg: cfg, messages: messages}
}

// VerifyWebhook godoc
// @Summary WhatsApp webhook verification
// @Description Answer Meta's subscription handshake by echoing hub.challenge
// @Tags Webhook
// @Produce plain
// @Param hub.mode query string true "Must be subscribe"
// @Param hub.verify_token query string true "Verify token configured in the Meta app"
// @Param hub.challenge query string true "Value to echo back"
// @Success 200 {string} string "challenge"
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /webhook [get]
func (h *WebhookHandler) VerifyWebhook(c *fiber.Ctx) error {
	challenge, err := whatsapp.HandleChallenge(
		c.Query("hub.mode"),
		c.Query("hub.verify_token"),
		c.Query("hub.challenge"),
		h.cfg.VerifyToken,
	)
	switch {
	case errors.Is(err, whatsapp.ErrMissingParameters):
		return apperror.Validation("missing hub.mode or hub.verify_token", err)
	case err != nil:
		return apperror.Authentication("verification failed", err)
	}

	log.Info().Msg("✅ Webhook verified")
	return c.Status(fiber.StatusOK).SendString(challenge)
}

// ReceiveWebhook godoc
// @Summary WhatsApp webhook receiver
// @Description Receive Cloud API notifications signed with X-Hub-Signature-256
// @Tags Webhook
// @Accept json
// @Produce plain
// @Param X-Hub-Signature-256 header string true "sha256=<hex HMAC of the raw body>"
// @Param payload body whatsapp.WebhookPayload true "Webhook payload"
// @Success 200 {string} string "EVENT_RECEIVED"
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /webhook [post]
func (h *WebhookHandler) ReceiveWebhook(c *fiber.Ctx) error {
	// fasthttp reuses the request buffer after the handler returns
	raw := append([]byte(nil), c.Request().Body()...)

	if err := signature.VerifyHub(raw, c.Get(signature.HubHeader), h.cfg.AppSecret); err != nil {
		metrics.SignatureFailuresTotal.WithLabelValues("whatsapp", signature.Reason(err)).Inc()
		return apperror.Authentication("invalid signature", err)
	}

	payload, err := whatsapp.DecodePayload(raw)
	if err != nil {
		return apperror.Validation("invalid payload", err)
	}

	if payload.Object != whatsapp.ObjectWhatsAppBusinessAccount {
		metrics.WebhookEventsTotal.WithLabelValues("whatsapp", "foreign_object").Inc()
		log.Warn().Str("object", payload.Object).Msg("⏭️ Webhook for unsupported object")
		if h.cfg.StrictObject {
			return apperror.NotFound("unsupported object", nil)
		}
		return c.Status(fiber.StatusOK).SendString(EventReceived)
	}

	event := whatsapp.Classify(payload)
	metrics.WebhookEventsTotal.WithLabelValues("whatsapp", event.Kind.String()).Inc()

	if err := h.messages.Handle(c.UserContext(), event); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).SendString(EventReceived)
}
