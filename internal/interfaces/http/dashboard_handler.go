package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/salestrack-api/internal/application/analytics"
)

// DashboardHandler maneja los endpoints del tablero.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve los totales de clientes, citas del día y vendedores activos.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO acotado al alcance del actor (sede o vendedor).
// No requiere parámetros; el día se calcula en el servidor.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	actor, err := mustActor(c)
	if err != nil {
		return writeError(c, err)
	}
	summary, err := h.uc.GetSummary(c.UserContext(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
