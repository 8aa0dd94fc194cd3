package middleware

import "github.com/gofiber/fiber/v2"

// NoStore marks responses as uncacheable. The quote routes change on every write and
// /random must yield a fresh draw per request.
func NoStore() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Next()
	}
}
