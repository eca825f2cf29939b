package audit

import (
	"strconv"

	"scale-monitor-backend/internal/apperr"
	"scale-monitor-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// GET /audit-logs?branchId=...&limit=...
func ListAuditLogsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var limit int
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return apperr.BadRequest("limit must be an integer")
			}
			limit = n
		}

		logs, err := svc.List(c.UserContext(), auth.ActorFrom(c), c.Query("branchId"), limit)
		if err != nil {
			return err
		}
		return c.JSON(logs)
	}
}
