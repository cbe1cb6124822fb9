package handlers

import "github.com/gofiber/fiber/v2"

// RegisterRoutes mounts the webhook and health endpoints.
func RegisterRoutes(router fiber.Router, webhook *WebhookHandler, stripe *StripeHandler, health *HealthHandler) {
	router.Get("/health", health.GetHealth)

	router.Get("/webhook", webhook.VerifyWebhook)
	router.Post("/webhook", webhook.ReceiveWebhook)
	router.Post("/webhook/stripe", stripe.ReceiveStripeWebhook)
}
