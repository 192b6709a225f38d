package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"hiring-engine/internal/apperrors"
	"hiring-engine/internal/models"
	"hiring-engine/internal/repositories"
	"hiring-engine/internal/services"
)

const userLocalKey = "currentUser"

// AuthRequired is the authentication gate: it verifies the bearer token,
// loads the user and rejects deactivated accounts. Mounted centrally on
// every mutating or user-scoped route group.
func AuthRequired(tokens services.TokenService, users repositories.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperrors.Auth("No authentication token, access denied")
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return apperrors.Auth("Token is not valid")
		}

		claims, err := tokens.ValidateToken(parts[1])
		if err != nil {
			return apperrors.Auth("Token is not valid")
		}

		user, err := users.FindByID(claims.UserID)
		if err != nil {
			return apperrors.Auth("Token is not valid")
		}

		if !user.IsActive {
			return apperrors.Auth("User account is deactivated")
		}

		c.Locals(userLocalKey, user)
		return c.Next()
	}
}

// RequireRecruiter gates a route on recruiter privileges. Admins pass.
func RequireRecruiter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !user.IsRecruiter() {
			return apperrors.Authorization("Access denied. Recruiter privileges required.")
		}
		return c.Next()
	}
}

// RequireAdmin gates a route on admin privileges.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			return apperrors.Authorization("Access denied. Admin privileges required.")
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated user set by AuthRequired, or nil
// on unauthenticated routes.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalKey).(*models.User)
	return user
}
