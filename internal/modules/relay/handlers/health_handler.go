package handlers

import (
	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	env             string
	paymentsEnabled bool
}

func NewHealthHandler(env string, paymentsEnabled bool) *HealthHandler {
	return &HealthHandler{env: env, paymentsEnabled: paymentsEnabled}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API is alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "wa-order-relay",
		"env":      h.env,
		"provider": "WhatsApp Cloud API (Official)",
		"payments": h.paymentsEnabled,
	})
}
