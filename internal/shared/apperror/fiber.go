package apperror

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// FiberErrorHandler is installed as fiber.Config.ErrorHandler.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	kind := KindOf(err)
	event := log.Warn()
	if kind == KindInternal || kind == KindUpstream {
		event = log.Error()
	}
	event.Err(err).
		Str("kind", kind.String()).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
		Msg("❌ Request failed")

	return c.Status(kind.HTTPStatus()).JSON(fiber.Map{"error": PublicMessage(err)})
}
