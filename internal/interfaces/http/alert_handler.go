package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/estoque-api/internal/application/analytics"
)

// AlertHandler expone las alertas de vencimiento y stock bajo.
type AlertHandler struct {
	uc *analytics.AlertsUseCase
}

// NewAlertHandler construye el handler.
func NewAlertHandler(uc *analytics.AlertsUseCase) *AlertHandler {
	return &AlertHandler{uc: uc}
}

// Get godoc
// @Summary      Alertas de vencimiento próximo y stock bajo
// @Tags         alerts
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AlertsResponse
// @Router       /api/alerts [get]
func (h *AlertHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetAlerts(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
