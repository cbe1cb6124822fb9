package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/payment"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/core/signature"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/shared/apperror"
	"github.com/MuhamadAgungGumelar/wa-order-relay/internal/shared/metrics"
)

var errWebhookSecretMissing = errors.New("STRIPE_WEBHOOK_SECRET is not configured")

// PaymentEventHandler reacts to a verified Stripe event.
type PaymentEventHandler interface {
	Handle(ctx context.Context, event payment.Event) error
}

type StripeHandler struct {
	verifier *signature.StripeVerifier
	payments PaymentEventHandler
}

func NewStripeHandler(verifier *signature.StripeVerifier, payments PaymentEventHandler) *StripeHandler {
	return &StripeHandler{verifier: verifier, payments: payments}
}

// ReceiveStripeWebhook godoc
// @Summary Stripe webhook receiver
// @Description Receive Stripe events and relay payment outcomes to the customer on WhatsApp
// @Tags Webhook
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Stripe signature header"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Failure 502 {object} map[string]interface{}
// @Router /webhook/stripe [post]
func (h *StripeHandler) ReceiveStripeWebhook(c *fiber.Ctx) error {
	header := c.Get(signature.StripeHeader)
	if header == "" {
		metrics.SignatureFailuresTotal.WithLabelValues("stripe", signature.Reason(signature.ErrMissingSignature)).Inc()
		return apperror.Authentication("invalid signature", signature.ErrMissingSignature)
	}
	if h.verifier == nil || !h.verifier.Configured() {
		return apperror.Internal("webhook secret not configured", errWebhookSecretMissing)
	}

	raw := append([]byte(nil), c.Request().Body()...)

	stripeEvent, err := h.verifier.ConstructEvent(raw, header)
	if err != nil {
		if reason := signature.Reason(err); reason != "unknown" {
			metrics.SignatureFailuresTotal.WithLabelValues("stripe", reason).Inc()
			return apperror.Authentication("invalid signature", err)
		}
		return apperror.Validation("invalid payload", err)
	}

	event, err := payment.ParseEvent(stripeEvent)
	if err != nil {
		return err
	}
	metrics.WebhookEventsTotal.WithLabelValues("stripe", event.Kind.String()).Inc()

	log.Info().
		Str("event_id", event.EventID).
		Str("type", event.Type).
		Msg("✅ Received valid Stripe webhook event")

	if err := h.payments.Handle(c.UserContext(), event); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"received": true})
}
