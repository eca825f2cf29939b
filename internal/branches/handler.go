package branches

import (
	"scale-monitor-backend/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// GET /branches
func ListBranchesHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp, err := svc.List(c.UserContext(), auth.ActorFrom(c))
		if err != nil {
			return err
		}
		return c.JSON(resp)
	}
}
