package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Tesoreria-api/internal/application/dto"
	"github.com/jhoicas/Tesoreria-api/internal/domain"
)

// conflictCodes código específico por sentinela de conflicto.
var conflictCodes = []struct {
	err  error
	code string
}{
	{domain.ErrOverpayment, "OVERPAYMENT"},
	{domain.ErrOrderClosed, "ORDER_CLOSED"},
	{domain.ErrOrderHasSales, "ORDER_HAS_SALES"},
	{domain.ErrSaleClosed, "SALE_CLOSED"},
	{domain.ErrAlreadyAdjusted, "ALREADY_ADJUSTED"},
	{domain.ErrStaleCorte, "STALE_CORTE"},
	{domain.ErrAlreadyReversed, "ALREADY_REVERSED"},
	{domain.ErrInsufficientCapital, "INSUFFICIENT_CAPITAL"},
	{domain.ErrInsufficientStock, "INSUFFICIENT_STOCK"},
	{domain.ErrIdempotencyMismatch, "IDEMPOTENCY_MISMATCH"},
	{domain.ErrDuplicate, "DUPLICATE"},
}

// statusFor traduce un error de dominio a status HTTP y código estable.
func statusFor(err error) (int, string) {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return fiber.StatusBadRequest, "VALIDATION"
	case domain.KindNotFound:
		return fiber.StatusNotFound, "NOT_FOUND"
	case domain.KindConflict:
		for _, c := range conflictCodes {
			if errors.Is(err, c.err) {
				return fiber.StatusConflict, c.code
			}
		}
		return fiber.StatusConflict, "CONFLICT"
	case domain.KindConcurrency:
		return fiber.StatusServiceUnavailable, "RETRY"
	}
	if errors.Is(err, domain.ErrTransactionTimeout) {
		return fiber.StatusGatewayTimeout, "TIMEOUT"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// writeError responde con dto.ErrorResponse. Los errores internos no exponen la causa.
func writeError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	body := dto.ErrorResponse{Code: code, Message: err.Error()}
	var de *domain.Error
	if errors.As(err, &de) {
		body.Entity, body.ID, body.Field = de.Entity, de.ID, de.Field
	}
	if status == fiber.StatusInternalServerError {
		body.Message = domain.ErrPersistence.Error()
	}
	if status == fiber.StatusServiceUnavailable {
		c.Set(fiber.HeaderRetryAfter, "1")
	}
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
