package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/Tesoreria-api/internal/application/analytics"
)

// DashboardHandler resumen de tesorería.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve capital total, flujo del día y del mes y bancos en sobregiro.
// GET /api/dashboard/resumen
//
// No requiere parámetros; las fechas se calculan en el servidor.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
