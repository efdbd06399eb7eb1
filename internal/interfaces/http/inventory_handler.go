package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jfigueroa/stockcore/internal/application/dto"
	"github.com/jfigueroa/stockcore/internal/application/ledger"
	"github.com/jfigueroa/stockcore/internal/domain"
	"github.com/jfigueroa/stockcore/internal/domain/entity"
	"github.com/jfigueroa/stockcore/internal/domain/repository"
)

// InventoryHandler handles stock level reads and writes (protected). Writes go
// through the ledger; reads hit the repositories directly.
type InventoryHandler struct {
	ledger       *ledger.Ledger
	stockRepo    repository.StockEntryRepository
	movementRepo repository.StockMovementRepository
}

func NewInventoryHandler(
	l *ledger.Ledger,
	stockRepo repository.StockEntryRepository,
	movementRepo repository.StockMovementRepository,
) *InventoryHandler {
	return &InventoryHandler{ledger: l, stockRepo: stockRepo, movementRepo: movementRepo}
}

// ListByProduct godoc
// @Summary      List stock entries of a product
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productID  path  string  true  "Product ID"
// @Success      200  {array}  dto.StockEntryResponse
// @Router       /api/inventory/{productID} [get]
func (h *InventoryHandler) ListByProduct(c *fiber.Ctx) error {
	productID := c.Params("productID")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "productID is required"})
	}
	entries, err := h.stockRepo.ListByProduct(c.Context(), productID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.StockEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toStockEntryResponse(e))
	}
	return c.JSON(out)
}

// UpdateLevel godoc
// @Summary      Set stock level and threshold
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        productID  path  string  true  "Product ID"
// @Param        body  body  dto.UpdateInventoryRequest  true  "warehouse_id, quantity, low_stock_threshold"
// @Success      200   {object}  dto.StockEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/{productID}/update [post]
func (h *InventoryHandler) UpdateLevel(c *fiber.Ctx) error {
	productID := c.Params("productID")
	var in dto.UpdateInventoryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	entry, err := h.ledger.SetLevel(c.Context(), productID, in.WarehouseID, in.Quantity, in.LowStockThreshold)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "warehouse_id is required; quantity and threshold must be >= 0"})
		case errors.Is(err, domain.ErrStoreUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "storage temporarily unavailable"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := toStockEntryResponse(entry)
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      List stock movements of a product
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productID  path   string  true   "Product ID"
// @Param        limit      query  int     false  "Limit"   default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/inventory/{productID}/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	productID := c.Params("productID")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "productID is required"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.Normalize()
	movements, err := h.movementRepo.ListByProduct(c.Context(), productID, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.StockMovementResponse{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			ProductID:     m.ProductID,
			WarehouseID:   m.WarehouseID,
			Type:          m.Type,
			Quantity:      m.Quantity,
			CreatedAt:     m.CreatedAt,
		})
	}
	return c.JSON(out)
}

func toStockEntryResponse(e *entity.StockEntry) dto.StockEntryResponse {
	return dto.StockEntryResponse{
		ProductID:         e.ProductID,
		WarehouseID:       e.WarehouseID,
		Quantity:          e.Quantity,
		ReservedQuantity:  e.ReservedQuantity,
		LowStockThreshold: e.LowStockThreshold,
		UpdatedAt:         e.UpdatedAt,
	}
}
