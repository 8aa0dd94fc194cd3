package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"spruchapi/internal/backup"
	"spruchapi/internal/http/middleware"
	"spruchapi/internal/service"
)

// healthTimeout bounds the store ping behind /health.
const healthTimeout = 2 * time.Second

// Pinger is satisfied by service.QuoteService.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// The quote routes are served under /sprueche and /api/sprueche. backups may be nil,
// in which case POST /sprueche/backup answers 404.
func RegisterRoutes(app *fiber.App, svc service.QuoteService, backups backup.Service) {
	app.Get("/health", HealthCheck(svc))
	app.Get("/healthz", LivenessProbe())

	for _, prefix := range []string{"/sprueche", "/api/sprueche"} {
		g := app.Group(prefix, middleware.NoStore())
		g.Get("/", ListQuotes(svc))
		g.Post("/", CreateQuote(svc))
		// Static segments before /:id.
		g.Get("/random", RandomQuote(svc))
		g.Post("/backup", CreateBackup(backups))
		g.Get("/:id", GetQuote(svc))
		g.Delete("/:id", DeleteQuote(svc))
	}
}

// HealthCheck godoc
// @Summary Store readiness
// @Tags health
// @Produce json
// @Success 200 {object} handler.healthResponse
// @Failure 503 {object} handler.errorPayload
// @Router /health [get]
func HealthCheck(p Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return writeData(c, fiber.StatusOK, fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe godoc
// @Summary Process liveness
// @Tags health
// @Success 200
// @Router /healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}
