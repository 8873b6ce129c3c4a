package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wishfund/wishfund-backend/pkg/config"
	"github.com/wishfund/wishfund-backend/pkg/utils"
)

// JWTProtected verifies the bearer token and stores its claims under utils.LocalsUserKey.
func JWTProtected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := utils.BearerToken(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing Authorization bearer token",
			})
		}

		secret := config.AppConfig.JWTSecret
		if secret == "" {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "JWT secret not set",
			})
		}

		claims, err := utils.ParseToken(secret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(utils.LocalsUserKey, claims)
		return c.Next()
	}
}

// RequireAccountType lets the request through only for the listed account types. Admins always pass.
// It must run after JWTProtected.
func RequireAccountType(types ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(types))
	for _, t := range types {
		allowed[t] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		_, claims, err := utils.CurrentUser(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		if utils.IsAdmin(claims) {
			return c.Next()
		}
		if _, ok := allowed[claims.AccountType]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "This action is not available for your account type",
			})
		}
		return c.Next()
	}
}
