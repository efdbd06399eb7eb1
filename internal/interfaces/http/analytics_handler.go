package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jfigueroa/stockcore/internal/application/analytics"
	"github.com/jfigueroa/stockcore/internal/application/dto"
)

// AnalyticsHandler read-only analytics reports (protected).
type AnalyticsHandler struct {
	uc *analytics.OverviewUseCase
}

func NewAnalyticsHandler(uc *analytics.OverviewUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{uc: uc}
}

// Overview godoc
// @Summary      Inventory overview
// @Tags         analytics
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryOverviewResponse
// @Router       /api/analytics/inventory [get]
func (h *AnalyticsHandler) Overview(c *fiber.Ctx) error {
	out, err := h.uc.Overview(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(out)
}
