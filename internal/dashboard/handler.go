package dashboard

import (
	"scale-monitor-backend/internal/apperr"
	"scale-monitor-backend/internal/auth"
	"scale-monitor-backend/internal/timerange"

	"github.com/gofiber/fiber/v2"
)

// GET /dashboard/trend?branchId=...&from=...&to=...&mode=hour|day
func TrendHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := c.Query("branchId")
		if branchID == "" {
			return apperr.BadRequest("branchId is required")
		}
		r, err := timerange.Parse(c.Query("from"), c.Query("to"))
		if err != nil {
			return err
		}

		resp, err := svc.Trend(c.UserContext(), auth.ActorFrom(c), branchID, r, c.Query("mode", ModeHour))
		if err != nil {
			return err
		}
		return c.JSON(resp)
	}
}

// GET /dashboard/stats?branchId=...&from=...&to=...
func StatsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		branchID := c.Query("branchId")
		if branchID == "" {
			return apperr.BadRequest("branchId is required")
		}
		r, err := timerange.Parse(c.Query("from"), c.Query("to"))
		if err != nil {
			return err
		}

		resp, err := svc.Stats(c.UserContext(), auth.ActorFrom(c), branchID, r)
		if err != nil {
			return err
		}
		return c.JSON(resp)
	}
}
