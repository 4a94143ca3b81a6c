package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Tesoreria-api/internal/application/coordinator"
	"github.com/jhoicas/Tesoreria-api/internal/application/dto"
)

// SalesHandler ventas, pagos de clientes y reembolsos.
type SalesHandler struct {
	coord *coordinator.Coordinator
}

// NewSalesHandler construye el handler.
func NewSalesHandler(coord *coordinator.Coordinator) *SalesHandler {
	return &SalesHandler{coord: coord}
}

// Register godoc
// @Summary      Registrar venta
// @Description  Crea la venta con precios unitarios fijos. El pago inicial, si lo hay,
//
//	se distribuye entre bóveda monte, fletes y utilidades.
//
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                   true  "clave única del comando"
// @Param        body             body    dto.RegisterSaleRequest  true  "venta"
// @Success      201  {object}  dto.SaleResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ventas [post]
func (h *SalesHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coord.RegisterSale(c.UserContext(), GetIdempotencyKey(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta
// @Tags         ventas
// @Produce      json
// @Param        id   path      string  true  "ID de la venta"
// @Success      200  {object}  dto.VentaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ventas/{id} [get]
func (h *SalesHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.coord.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RegisterPayment godoc
// @Summary      Registrar abono de cliente
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                  true  "clave única del comando"
// @Param        id               path    string                  true  "ID de la venta"
// @Param        body             body    dto.SalePaymentRequest  true  "monto y referencia"
// @Success      201  {object}  dto.SaleResult
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ventas/{id}/pagos [post]
func (h *SalesHandler) RegisterPayment(c *fiber.Ctx) error {
	var in dto.SalePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.VentaID = c.Params("id")
	out, err := h.coord.RegisterSalePayment(c.UserContext(), GetIdempotencyKey(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Refund godoc
// @Summary      Reembolsar venta
// @Description  Revierte los abonos de la venta y devuelve las unidades al stock.
// @Tags         ventas
// @Produce      json
// @Param        Idempotency-Key  header  string  true  "clave única del comando"
// @Param        id               path    string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResult
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ventas/{id}/reembolso [post]
func (h *SalesHandler) Refund(c *fiber.Ctx) error {
	var in dto.RefundSaleRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	in.VentaID = c.Params("id")
	out, err := h.coord.RefundSale(c.UserContext(), GetIdempotencyKey(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
