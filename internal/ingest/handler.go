package ingest

import (
	"scale-monitor-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

const (
	HeaderDeviceID  = "x-device-id"
	HeaderDeviceKey = "x-device-key"
)

// POST /ingest/weight
// Device-key auth only; no bearer token.
func IngestWeightHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body Payload
		if err := c.BodyParser(&body); err != nil {
			return apperr.BadRequest("Invalid request body")
		}

		ack, err := svc.Ingest(c.UserContext(), c.Get(HeaderDeviceID), c.Get(HeaderDeviceKey), body)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(ack)
	}
}
