package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jfigueroa/stockcore/internal/application/analytics"
	"github.com/jfigueroa/stockcore/internal/application/auth"
	"github.com/jfigueroa/stockcore/internal/application/fulfillment"
	"github.com/jfigueroa/stockcore/internal/application/ledger"
	"github.com/jfigueroa/stockcore/internal/application/transfer"
	"github.com/jfigueroa/stockcore/internal/application/usecase"
	"github.com/jfigueroa/stockcore/internal/domain/repository"
	"github.com/jfigueroa/stockcore/internal/events"
	"github.com/jfigueroa/stockcore/pkg/logger"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	WarehouseUC   *usecase.WarehouseUseCase
	AuthUC        *auth.UseCase
	Ledger        *ledger.Ledger
	Engine        *fulfillment.Engine
	Coordinator   *transfer.Coordinator
	OverviewUC    *analytics.OverviewUseCase
	Broadcaster   *events.Broadcaster
	StockRepo     repository.StockEntryRepository
	MovementRepo  repository.StockMovementRepository
	OrderRepo     repository.OrderRepository
	BackorderRepo repository.BackorderRepository
	Log           *logger.Logger
	JWTSecret     string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Event stream (public; upgrade gate rejects plain HTTP)
	wsHandler := NewWSHandler(deps.Broadcaster, deps.Log)
	app.Use("/ws", wsHandler.Upgrade)
	app.Get("/ws", wsHandler.Serve())

	// Protected routes (Bearer token required)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Post("/:id/variants", productHandler.CreateVariant)
	products.Get("/:id/variants", productHandler.ListVariants)

	// Warehouses and transfers
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, deps.Coordinator)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Post("/transfer", warehouseHandler.Transfer)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Inventory ledger
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.StockRepo, deps.MovementRepo)
	invGroup.Get("/:productID", inventoryHandler.ListByProduct)
	invGroup.Post("/:productID/update", inventoryHandler.UpdateLevel)
	invGroup.Get("/:productID/movements", inventoryHandler.ListMovements)

	// Orders
	orders := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.Engine, deps.OrderRepo)
	orders.Post("/", orderHandler.Create)
	orders.Get("/", orderHandler.ListByCustomer)
	orders.Get("/:id", orderHandler.GetByID)

	// Backorders
	backorders := protected.Group("/backorders")
	backorderHandler := NewBackorderHandler(deps.BackorderRepo)
	backorders.Get("/", backorderHandler.List)

	// Analytics
	analyticsGroup := protected.Group("/analytics")
	analyticsHandler := NewAnalyticsHandler(deps.OverviewUC)
	analyticsGroup.Get("/inventory", analyticsHandler.Overview)
}
