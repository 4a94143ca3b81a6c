package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Tesoreria-api/internal/application/coordinator"
	"github.com/jhoicas/Tesoreria-api/internal/application/dto"
)

// BankHandler gastos, ingresos, transferencias y consultas de bancos y movimientos.
type BankHandler struct {
	coord *coordinator.Coordinator
}

// NewBankHandler construye el handler.
func NewBankHandler(coord *coordinator.Coordinator) *BankHandler {
	return &BankHandler{coord: coord}
}

// RegisterExpense godoc
// @Summary      Registrar gasto
// @Tags         bancos
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                   true  "clave única del comando"
// @Param        body             body    dto.BankMovementRequest  true  "banco, monto, concepto"
// @Success      201  {object}  dto.MovementResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/gastos [post]
func (h *BankHandler) RegisterExpense(c *fiber.Ctx) error {
	var in dto.BankMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coord.RegisterExpense(c.UserContext(), GetIdempotencyKey(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RegisterIncome godoc
// @Summary      Registrar ingreso
// @Tags         bancos
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                   true  "clave única del comando"
// @Param        body             body    dto.BankMovementRequest  true  "banco, monto, concepto"
// @Success      201  {object}  dto.MovementResult
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ingresos [post]
func (h *BankHandler) RegisterIncome(c *fiber.Ctx) error {
	var in dto.BankMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coord.RegisterIncome(c.UserContext(), GetIdempotencyKey(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RegisterTransfer godoc
// @Summary      Transferir entre bancos
// @Tags         bancos
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string               true  "clave única del comando"
// @Param        body             body    dto.TransferRequest  true  "origen, destino, monto"
// @Success      201  {object}  dto.MovementResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transferencias [post]
func (h *BankHandler) RegisterTransfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coord.RegisterTransfer(c.UserContext(), GetIdempotencyKey(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar bancos
// @Tags         bancos
// @Produce      json
// @Success      200  {array}  dto.BankAccountResponse
// @Router       /api/bancos [get]
func (h *BankHandler) List(c *fiber.Ctx) error {
	list, err := h.coord.ListBankAccounts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetByID godoc
// @Summary      Obtener banco
// @Tags         bancos
// @Produce      json
// @Param        id   path      string  true  "ID del banco (boveda_monte, utilidades, ...)"
// @Success      200  {object}  dto.BankAccountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bancos/{id} [get]
func (h *BankHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.coord.GetBankAccount(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos
// @Tags         movimientos
// @Produce      json
// @Param        tipo      query  string  false  "ingreso | gasto | transferencia | ajuste"
// @Param        estado    query  string  false  "completado | pendiente | cancelado"
// @Param        banco_id  query  string  false  "banco origen o destino"
// @Param        desde     query  string  false  "YYYY-MM-DD"
// @Param        hasta     query  string  false  "YYYY-MM-DD"
// @Param        limit     query  int     false  "máximo 500"
// @Param        offset    query  int     false  "desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movimientos [get]
func (h *BankHandler) ListMovements(c *fiber.Ctx) error {
	var in dto.MovementListRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	list, err := h.coord.ListMovements(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	in.DefaultPage()
	return c.JSON(fiber.Map{
		"items": list,
		"page":  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	})
}

// ListByTrace godoc
// @Summary      Trazabilidad de movimientos
// @Tags         movimientos
// @Produce      json
// @Param        campo  path  string  true  "venta_id | orden_compra_id | distribuidor_id | cliente_id | producto_id | corte_id"
// @Param        valor  path  string  true  "ID buscado"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/trazabilidad/{campo}/{valor} [get]
func (h *BankHandler) ListByTrace(c *fiber.Ctx) error {
	list, err := h.coord.ListByTrace(c.UserContext(), c.Params("campo"), c.Params("valor"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}
