package auth

import (
	"errors"
	"strings"

	"scale-monitor-backend/internal/access"
	"scale-monitor-backend/internal/apperr"
	"scale-monitor-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const ctxActorKey = "actor"

func JWTMiddleware(tokens *TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperr.Unauthorized("Authorization header missing")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
			return apperr.Unauthorized("Authorization header must be 'Bearer <token>'")
		}

		claims, err := tokens.Parse(parts[1])
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				return apperr.Unauthorized("Token expired")
			}
			return apperr.Unauthorized("Invalid token")
		}

		SetActor(c, claims.Actor())
		return c.Next()
	}
}

// RequireRole lets the request through only for the given roles.
func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFrom(c)
		if actor == nil {
			return apperr.Unauthorized("Missing session")
		}
		for _, r := range allowedRoles {
			if r == actor.Role {
				return c.Next()
			}
		}
		return apperr.Forbidden("Insufficient role")
	}
}

// SetActor attaches the actor to the request.
func SetActor(c *fiber.Ctx, actor *access.Actor) {
	c.Locals(ctxActorKey, actor)
}

// ActorFrom returns the actor stored by JWTMiddleware, or nil.
func ActorFrom(c *fiber.Ctx) *access.Actor {
	actor, _ := c.Locals(ctxActorKey).(*access.Actor)
	return actor
}
