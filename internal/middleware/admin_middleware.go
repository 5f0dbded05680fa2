package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminTokenHeader carries the shared admin secret.
const AdminTokenHeader = "X-Admin-Token"

// AdminRequired lets a request through only when it presents the configured
// admin token. With no token configured every admin request is refused.
func AdminRequired(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		got := c.Get(AdminTokenHeader)
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			zap.L().Warn("admin request rejected", zap.String("path", c.Path()), zap.String("ip", c.IP()))
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"message": "Admin token required",
			})
		}
		return c.Next()
	}
}
