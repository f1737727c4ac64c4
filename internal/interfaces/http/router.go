package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC  *usecase.ItemUseCase
	StockUC *stock.UseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Artículos
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", itemHandler.Create)
	items.Post("/import", itemHandler.Import)
	items.Get("/", itemHandler.List)
	items.Get("/categories", itemHandler.Categories)
	items.Post("/categories/rename", itemHandler.RenameCategory)
	items.Post("/categories/clear", itemHandler.ClearCategory)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", itemHandler.Delete)

	// Libro de stock y consultas derivadas
	stockGroup := api.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Post("/in", stockHandler.In)
	stockGroup.Post("/out", stockHandler.Out)
	stockGroup.Post("/adjust", stockHandler.Adjust)
	stockGroup.Get("/balances", stockHandler.Balances)
	stockGroup.Get("/balance/:id", stockHandler.Balance)
	stockGroup.Get("/movements/:id", stockHandler.Movements)
	stockGroup.Get("/search", stockHandler.Search)
	stockGroup.Get("/export/csv", stockHandler.Export)
	stockGroup.Get("/trend/:id", stockHandler.Trend)
}
