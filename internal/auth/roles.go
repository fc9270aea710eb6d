package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/infinitetechnologys/crm/pkg/util"
)

// RequireAdmin gates routes to admin accounts.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := SessionFromContext(c)
		if !ok || sess.Account == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !sess.Account.IsAdmin() {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}

// RequireManager gates routes to manager and admin accounts.
func RequireManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, ok := SessionFromContext(c)
		if !ok || sess.Account == nil {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !sess.Account.IsManager() {
			return apperrors.NewForbidden("manager role required")
		}
		return c.Next()
	}
}
