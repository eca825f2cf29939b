package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const internalMessage = "Internal server error"

// FiberErrorHandler renders every handler error as {"error": msg}. Anything
// that is neither an *Error nor a *fiber.Error is logged and hidden behind a
// generic 500.
func FiberErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *Error
		if errors.As(err, &appErr) {
			return c.Status(appErr.StatusCode()).JSON(fiber.Map{
				"error": appErr.Message,
			})
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error": fiberErr.Message,
			})
		}

		log.Error("unexpected error",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": internalMessage,
		})
	}
}
