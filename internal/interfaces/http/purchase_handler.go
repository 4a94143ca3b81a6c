package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Tesoreria-api/internal/application/coordinator"
	"github.com/jhoicas/Tesoreria-api/internal/application/dto"
)

// PurchaseHandler órdenes de compra a distribuidores.
type PurchaseHandler struct {
	coord *coordinator.Coordinator
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(coord *coordinator.Coordinator) *PurchaseHandler {
	return &PurchaseHandler{coord: coord}
}

// Register godoc
// @Summary      Registrar orden de compra
// @Description  Suma el lote al stock del producto y la deuda al distribuidor.
// @Tags         ordenes-compra
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                    true  "clave única del comando"
// @Param        body             body    dto.PurchaseOrderRequest  true  "orden"
// @Success      201  {object}  dto.OrderResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ordenes-compra [post]
func (h *PurchaseHandler) Register(c *fiber.Ctx) error {
	var in dto.PurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coord.RegisterPurchaseOrder(c.UserContext(), GetIdempotencyKey(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         ordenes-compra
// @Produce      json
// @Param        id   path      string  true  "ID de la orden"
// @Success      200  {object}  dto.OrdenCompraResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ordenes-compra/{id} [get]
func (h *PurchaseHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.coord.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RegisterPayment godoc
// @Summary      Pagar a distribuidor
// @Tags         ordenes-compra
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                      true  "clave única del comando"
// @Param        id               path    string                      true  "ID de la orden"
// @Param        body             body    dto.PurchasePaymentRequest  true  "monto y referencia"
// @Success      201  {object}  dto.OrderResult
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ordenes-compra/{id}/pagos [post]
func (h *PurchaseHandler) RegisterPayment(c *fiber.Ctx) error {
	var in dto.PurchasePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.OrdenCompraID = c.Params("id")
	out, err := h.coord.RegisterPurchasePayment(c.UserContext(), GetIdempotencyKey(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Cancel godoc
// @Summary      Cancelar orden de compra
// @Tags         ordenes-compra
// @Produce      json
// @Param        Idempotency-Key  header  string  true  "clave única del comando"
// @Param        id               path    string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResult
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ordenes-compra/{id}/cancelar [post]
func (h *PurchaseHandler) Cancel(c *fiber.Ctx) error {
	in, err := orderAction(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.coord.CancelPurchaseOrder(c.UserContext(), GetIdempotencyKey(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar orden de compra
// @Description  Solo si no tiene unidades vendidas. Los movimientos quedan como rastro.
// @Tags         ordenes-compra
// @Produce      json
// @Param        Idempotency-Key  header  string  true  "clave única del comando"
// @Param        id               path    string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResult
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/ordenes-compra/{id} [delete]
func (h *PurchaseHandler) Delete(c *fiber.Ctx) error {
	in, err := orderAction(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.coord.DeletePurchaseOrder(c.UserContext(), GetIdempotencyKey(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// orderAction body opcional (referencia) más el id de la ruta.
func orderAction(c *fiber.Ctx) (dto.OrderActionRequest, error) {
	var in dto.OrderActionRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return in, err
		}
	}
	in.OrdenCompraID = c.Params("id")
	return in, nil
}
