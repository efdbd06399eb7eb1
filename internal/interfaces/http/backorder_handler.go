package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jfigueroa/stockcore/internal/application/dto"
	"github.com/jfigueroa/stockcore/internal/domain/repository"
)

// BackorderHandler read-only listing of unmet demand (protected).
type BackorderHandler struct {
	repo repository.BackorderRepository
}

func NewBackorderHandler(repo repository.BackorderRepository) *BackorderHandler {
	return &BackorderHandler{repo: repo}
}

// List godoc
// @Summary      List backorders
// @Tags         backorders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Limit"   default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.BackorderResponse
// @Router       /api/backorders [get]
func (h *BackorderHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.Normalize()
	list, err := h.repo.List(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.BackorderResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.BackorderResponse{
			ID:           b.ID,
			ProductID:    b.ProductID,
			CustomerID:   b.CustomerID,
			Quantity:     b.Quantity,
			ExpectedDate: b.ExpectedDate,
			Status:       b.Status,
			CreatedAt:    b.CreatedAt,
		})
	}
	return c.JSON(out)
}
