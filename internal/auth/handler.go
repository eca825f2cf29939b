package auth

import (
	"scale-monitor-backend/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /auth/login
func LoginHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.BadRequest("Invalid request body")
		}
		if body.Email == "" || body.Password == "" {
			return apperr.BadRequest("email and password are required")
		}

		res, err := svc.Login(c.UserContext(), body.Email, body.Password)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// GET /auth/me
func MeHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFrom(c)
		if actor == nil {
			return apperr.Unauthorized("Missing session")
		}
		me, err := svc.Me(c.UserContext(), actor)
		if err != nil {
			return err
		}
		return c.JSON(me)
	}
}
