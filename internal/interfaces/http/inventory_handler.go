package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Tesoreria-api/internal/application/coordinator"
	"github.com/jhoicas/Tesoreria-api/internal/application/dto"
)

// InventoryHandler cortes de inventario y catálogo (productos, distribuidores).
type InventoryHandler struct {
	coord *coordinator.Coordinator
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(coord *coordinator.Coordinator) *InventoryHandler {
	return &InventoryHandler{coord: coord}
}

// RegisterCut godoc
// @Summary      Registrar corte de inventario
// @Description  Compara el conteo físico con el stock en sistema. No modifica el stock.
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                   true  "clave única del comando"
// @Param        body             body    dto.InventoryCutRequest  true  "producto_id, stock_fisico"
// @Success      201  {object}  dto.CorteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cortes [post]
func (h *InventoryHandler) RegisterCut(c *fiber.Ctx) error {
	var in dto.InventoryCutRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coord.RegisterInventoryCut(c.UserContext(), GetIdempotencyKey(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ApplyAdjustment godoc
// @Summary      Aplicar ajuste de un corte
// @Tags         inventario
// @Produce      json
// @Param        Idempotency-Key  header  string  true  "clave única del comando"
// @Param        id               path    string  true  "ID del corte"
// @Success      200  {object}  dto.AdjustmentResult
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cortes/{id}/ajuste [post]
func (h *InventoryHandler) ApplyAdjustment(c *fiber.Ctx) error {
	in := dto.ApplyAdjustmentRequest{CorteID: c.Params("id")}
	out, err := h.coord.ApplyInventoryAdjustment(c.UserContext(), GetIdempotencyKey(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListPendientes godoc
// @Summary      Cortes pendientes de ajuste
// @Tags         inventario
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/cortes/pendientes [get]
func (h *InventoryHandler) ListPendientes(c *fiber.Ctx) error {
	list, err := h.coord.ListCortesPendientesDeAjuste(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":  len(list),
		"cortes": list,
	})
}

// CreateProduct godoc
// @Summary      Crear producto
// @Tags         catalogo
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                    true  "clave única del comando"
// @Param        body             body    dto.CreateProductRequest  true  "nombre, stock_inicial"
// @Success      201  {object}  dto.ProductResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/productos [post]
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coord.RegisterProduct(c.UserContext(), GetIdempotencyKey(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateDistributor godoc
// @Summary      Crear distribuidor
// @Tags         catalogo
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string                        true  "clave única del comando"
// @Param        body             body    dto.CreateDistributorRequest  true  "nombre"
// @Success      201  {object}  dto.DistributorResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/distribuidores [post]
func (h *InventoryHandler) CreateDistributor(c *fiber.Ctx) error {
	var in dto.CreateDistributorRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.coord.RegisterDistributor(c.UserContext(), GetIdempotencyKey(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
