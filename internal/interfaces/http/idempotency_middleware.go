package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Tesoreria-api/internal/application/dto"
)

// HeaderIdempotencyKey header obligatorio en las rutas de comando.
const HeaderIdempotencyKey = "Idempotency-Key"

const localIdempotencyKey = "idempotency_key"

// RequireIdempotencyKey rechaza con 400 los comandos sin Idempotency-Key y guarda la
// clave en Locals. El cliente debe reenviar la misma clave al reintentar.
func RequireIdempotencyKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := strings.TrimSpace(c.Get(HeaderIdempotencyKey))
		if key == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "MISSING_IDEMPOTENCY_KEY",
				Message: "falta el header Idempotency-Key",
				Field:   HeaderIdempotencyKey,
			})
		}
		if len(key) > 200 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "VALIDATION",
				Message: "Idempotency-Key demasiado larga",
				Field:   HeaderIdempotencyKey,
			})
		}
		c.Locals(localIdempotencyKey, key)
		return c.Next()
	}
}

// GetIdempotencyKey obtiene la clave guardada por RequireIdempotencyKey.
func GetIdempotencyKey(c *fiber.Ctx) string {
	v, _ := c.Locals(localIdempotencyKey).(string)
	return v
}
