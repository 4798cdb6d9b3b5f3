package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Guztaver/licitacao-sub002/internal/application/inventory"
	"github.com/Guztaver/licitacao-sub002/internal/application/usecase"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	ItemUC          *usecase.ItemUseCase
	LocationUC      *usecase.LocationUseCase
	StockUC         *inventory.StockUseCase
	MovementUC      *inventory.MovementUseCase
	AlertUC         *inventory.AlertUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	ChecksUC        *inventory.ChecksUseCase
	JWTSecret       string
}

// Router registra as rotas da API. Tudo sob /api exige Bearer Token; a emissão
// do token é responsabilidade do módulo de autenticação da plataforma.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Catálogo
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)

	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)

	// Razão de estoque (somente leitura)
	stock := api.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Get("/", stockHandler.List)
	stock.Get("/:id", stockHandler.GetByID)

	// Movimentações e varredura
	inv := api.Group("/inventory")
	movementHandler := NewMovementHandler(deps.MovementUC)
	inv.Post("/movements", movementHandler.RegisterMovement)
	inv.Get("/movements", movementHandler.List)
	inv.Post("/movements/:id/reverse", movementHandler.ReverseMovement)
	checksHandler := NewChecksHandler(deps.ChecksUC)
	inv.Post("/checks", checksHandler.Run)

	// Alertas
	alerts := api.Group("/alerts")
	alertHandler := NewAlertHandler(deps.AlertUC)
	alerts.Get("/", alertHandler.List)
	alerts.Post("/:id/acknowledge", alertHandler.Acknowledge)
	alerts.Post("/:id/resolve", alertHandler.Resolve)
	alerts.Post("/:id/dismiss", alertHandler.Dismiss)

	// Reposições
	repl := api.Group("/replenishments")
	replHandler := NewReplenishmentHandler(deps.ReplenishmentUC)
	repl.Get("/", replHandler.List)
	repl.Get("/:id", replHandler.GetByID)
	repl.Post("/:id/approve", replHandler.Approve)
	repl.Post("/:id/request", replHandler.Request)
	repl.Post("/:id/in-transit", replHandler.MarkInTransit)
	repl.Post("/:id/receive", replHandler.Receive)
	repl.Post("/:id/cancel", replHandler.Cancel)
}
