package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/walklet/walklet-backend/internal/config"
)

// DevOnly hides development-only routes outside dev mode.
func DevOnly(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !cfg.DevMode {
			return fiber.ErrNotFound
		}
		return c.Next()
	}
}
