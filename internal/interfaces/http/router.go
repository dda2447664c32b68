package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/caioaugustofs/api-vendas/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Recorder  *stock.MovementRecorder
	Query     *stock.QueryUseCase
	JWTSecret string
	JWTIssuer string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Inventario: escrituras solo admin/estoquista; lecturas también vendedor
	inv := protected.Group("/inventory")
	stockHandler := NewStockHandler(deps.Recorder, deps.Query)
	canWrite := RequireRole(RoleAdmin, RoleEstoquista)
	canRead := RequireRole(RoleAdmin, RoleEstoquista, RoleVendedor)

	inv.Post("/inbound", canWrite, stockHandler.RecordInbound)
	inv.Get("/inbound", canRead, stockHandler.ListInbound)
	inv.Get("/inbound/:id", canRead, stockHandler.GetInbound)

	inv.Post("/outbound", canWrite, stockHandler.RecordOutbound)
	inv.Get("/outbound", canRead, stockHandler.ListOutbound)
	inv.Get("/outbound/:id", canRead, stockHandler.GetOutbound)

	inv.Get("/balances", canRead, stockHandler.ListBalances)
	inv.Get("/balances/:sku", canRead, stockHandler.GetBalance)
}
