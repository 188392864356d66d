package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/invorya/erp-admin-gateway/internal/application/analytics"
	"github.com/invorya/erp-admin-gateway/internal/application/auth"
)

// DashboardHandler expone el resumen inicial de la aplicación.
type DashboardHandler struct {
	dashboard *analytics.DashboardUseCase
	uc        *auth.UseCase
}

// NewDashboardHandler construye el handler del dashboard.
func NewDashboardHandler(dashboard *analytics.DashboardUseCase, uc *auth.UseCase) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, uc: uc}
}

// Summary devuelve los contadores del dashboard. Las tarjetas cuyo origen
// falló se listan en "unavailable" en lugar de tumbar toda la respuesta.
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	token := h.uc.Token(c.Context(), SessionID(c))
	out := h.dashboard.Build(c.Context(), token)
	if !out.OK {
		return failJSON(c, out.Kind, out.Message)
	}
	return c.JSON(out.Value)
}
