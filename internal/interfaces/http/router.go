package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/Tesoreria-api/internal/application/analytics"
	"github.com/jhoicas/Tesoreria-api/internal/application/coordinator"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Coordinator *coordinator.Coordinator
	DashboardUC *appanalytics.DashboardUseCase
	Health      map[string]Pinger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", Health(deps.Health))

	api := app.Group("/api")
	// Comandos: exigen Idempotency-Key
	cmd := RequireIdempotencyKey()

	sales := NewSalesHandler(deps.Coordinator)
	ventas := api.Group("/ventas")
	ventas.Post("/", cmd, sales.Register)
	ventas.Get("/:id", sales.GetByID)
	ventas.Post("/:id/pagos", cmd, sales.RegisterPayment)
	ventas.Post("/:id/reembolso", cmd, sales.Refund)

	banks := NewBankHandler(deps.Coordinator)
	api.Post("/gastos", cmd, banks.RegisterExpense)
	api.Post("/ingresos", cmd, banks.RegisterIncome)
	api.Post("/transferencias", cmd, banks.RegisterTransfer)
	api.Get("/bancos", banks.List)
	api.Get("/bancos/:id", banks.GetByID)
	api.Get("/movimientos", banks.ListMovements)
	api.Get("/trazabilidad/:campo/:valor", banks.ListByTrace)

	purchases := NewPurchaseHandler(deps.Coordinator)
	ordenes := api.Group("/ordenes-compra")
	ordenes.Post("/", cmd, purchases.Register)
	ordenes.Get("/:id", purchases.GetByID)
	ordenes.Post("/:id/pagos", cmd, purchases.RegisterPayment)
	ordenes.Post("/:id/cancelar", cmd, purchases.Cancel)
	ordenes.Delete("/:id", cmd, purchases.Delete)

	inventory := NewInventoryHandler(deps.Coordinator)
	cortes := api.Group("/cortes")
	cortes.Post("/", cmd, inventory.RegisterCut)
	// antes de /:id para que "pendientes" no se tome como id
	cortes.Get("/pendientes", inventory.ListPendientes)
	cortes.Post("/:id/ajuste", cmd, inventory.ApplyAdjustment)
	api.Post("/productos", cmd, inventory.CreateProduct)
	api.Post("/distribuidores", cmd, inventory.CreateDistributor)

	if deps.DashboardUC != nil {
		dashboard := NewDashboardHandler(deps.DashboardUC)
		api.Get("/dashboard/resumen", dashboard.GetSummary)
	}
}
