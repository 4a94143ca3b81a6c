package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger dependencia verificable por /health (pool de Postgres, Redis).
type Pinger func(ctx context.Context) error

// Health responde 200 si todas las dependencias responden, 503 en otro caso.
func Health(checks map[string]Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		status := fiber.StatusOK
		deps := fiber.Map{}
		for name, ping := range checks {
			if err := ping(ctx); err != nil {
				deps[name] = "error"
				status = fiber.StatusServiceUnavailable
				continue
			}
			deps[name] = "connected"
		}
		state := "ok"
		if status != fiber.StatusOK {
			state = "degraded"
		}
		return c.Status(status).JSON(fiber.Map{"status": state, "dependencies": deps})
	}
}
