package alerts

import (
	"scale-monitor-backend/internal/apperr"
	"scale-monitor-backend/internal/auth"
	"scale-monitor-backend/internal/timerange"

	"github.com/gofiber/fiber/v2"
)

// GET /alerts/config?branchId=...
func GetConfigHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := c.Query("branchId")
		if branchID == "" {
			return apperr.BadRequest("branchId is required")
		}
		resp, err := svc.GetConfig(c.UserContext(), auth.ActorFrom(c), branchID)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	}
}

// PUT /alerts/config/branch/:branchId
func UpsertBranchConfigHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body BranchConfigInput
		if err := c.BodyParser(&body); err != nil {
			return apperr.BadRequest("Invalid request body")
		}
		cfg, err := svc.UpsertBranchConfig(c.UserContext(), auth.ActorFrom(c), c.Params("branchId"), body)
		if err != nil {
			return err
		}
		return c.JSON(cfg)
	}
}

// PUT /alerts/config/scale/:scaleId
func UpsertScaleConfigHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ScaleConfigInput
		if err := c.BodyParser(&body); err != nil {
			return apperr.BadRequest("Invalid request body")
		}
		cfg, err := svc.UpsertScaleConfig(c.UserContext(), auth.ActorFrom(c), c.Params("scaleId"), body)
		if err != nil {
			return err
		}
		return c.JSON(cfg)
	}
}

// DELETE /alerts/config/scale/:scaleId
func DeleteScaleConfigHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.DeleteScaleConfig(c.UserContext(), auth.ActorFrom(c), c.Params("scaleId"))
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// GET /alerts/status?branchId=...&from=...&to=...
func StatusHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := c.Query("branchId")
		if branchID == "" {
			return apperr.BadRequest("branchId is required")
		}
		r, err := timerange.Parse(c.Query("from"), c.Query("to"))
		if err != nil {
			return err
		}
		st, err := svc.Status(c.UserContext(), auth.ActorFrom(c), branchID, r)
		if err != nil {
			return err
		}
		return c.JSON(st)
	}
}
