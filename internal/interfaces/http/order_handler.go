package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jfigueroa/stockcore/internal/application/dto"
	"github.com/jfigueroa/stockcore/internal/application/fulfillment"
	"github.com/jfigueroa/stockcore/internal/domain"
	"github.com/jfigueroa/stockcore/internal/domain/entity"
	"github.com/jfigueroa/stockcore/internal/domain/repository"
)

// OrderHandler handles order placement and reads (protected).
type OrderHandler struct {
	engine    *fulfillment.Engine
	orderRepo repository.OrderRepository
}

func NewOrderHandler(engine *fulfillment.Engine, orderRepo repository.OrderRepository) *OrderHandler {
	return &OrderHandler{engine: engine, orderRepo: orderRepo}
}

// Create godoc
// @Summary      Place order
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "customer_id, warehouse_id, items"
// @Success      201   {object}  dto.OrderResponse  "Order completed"
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.OrderResponse  "Order rejected for insufficient stock"
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "invalid body"})
	}
	items := make([]fulfillment.Item, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, fulfillment.Item{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	result, err := h.engine.Fulfill(c.Context(), in.CustomerID, in.WarehouseID, items)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "customer_id, warehouse_id and non-empty items with positive quantities are required"})
		case errors.Is(err, domain.ErrStoreUnavailable):
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "STORE_UNAVAILABLE", Message: "storage temporarily unavailable"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	out := toOrderResponse(result.Order)
	if !result.Completed() {
		// A rejection is a terminal business outcome, reported with the order body.
		return c.Status(fiber.StatusConflict).JSON(out)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Get order by ID
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "Order ID"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	order, err := h.orderRepo.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	if order == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "order not found"})
	}
	return c.JSON(toOrderResponse(order))
}

// ListByCustomer godoc
// @Summary      List orders of a customer
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        customer_id  query  string  true   "Customer ID"
// @Param        limit        query  int     false  "Limit"   default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.OrderResponse
// @Router       /api/orders [get]
func (h *OrderHandler) ListByCustomer(c *fiber.Ctx) error {
	customerID := c.Query("customer_id")
	if customerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "customer_id is required"})
	}
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.Normalize()
	orders, err := h.orderRepo.ListByCustomer(c.Context(), customerID, page.Limit, page.Offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]*dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return c.JSON(out)
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	out := &dto.OrderResponse{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		WarehouseID:     o.WarehouseID,
		Status:          string(o.Status),
		RejectionReason: o.RejectionReason,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for _, it := range o.Items {
		out.Items = append(out.Items, dto.OrderItemResponse{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return out
}
