package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/application/ledger"
	"github.com/thiagoschoeffel/TSAdmin-sub000/internal/infrastructure/xlsx"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ManualMovements *ledger.ManualMovements
	ProductionSync  *ledger.ProductionSync
	Balances        *ledger.BalanceService
	Reservations    *ledger.ReservationService
	Exporter        *xlsx.StockReportExporter
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api/ledger", ActorMiddleware())

	// Movimientos manuales (requieren usuario)
	movementHandler := NewMovementHandler(deps.ManualMovements)
	movements := api.Group("/movements")
	movements.Get("/", movementHandler.List)
	movements.Get("/:id", movementHandler.GetByID)
	movements.Post("/", RequireActor(), movementHandler.Create)
	movements.Put("/:id", RequireActor(), movementHandler.Update)
	movements.Delete("/:id", movementHandler.Delete)

	// Ganchos del módulo de producción
	productionHandler := NewProductionHandler(deps.ProductionSync)
	productions := api.Group("/productions")
	productions.Put("/blocks/:id", productionHandler.SyncBlock)
	productions.Delete("/blocks/:id", productionHandler.RetractBlock)
	productions.Put("/molded/:id", productionHandler.SyncMolded)
	productions.Delete("/molded/:id", productionHandler.RetractMolded)

	// Reservas por apontamiento
	reservationHandler := NewReservationHandler(deps.Reservations, deps.Balances)
	pointings := api.Group("/pointings")
	pointings.Get("/:id/reservations", reservationHandler.List)
	pointings.Put("/:id/reservations", reservationHandler.Reserve)
	pointings.Delete("/:id/reservations", reservationHandler.Release)
	api.Get("/availability", reservationHandler.Availability)

	// Reportes (solo lectura)
	reportHandler := NewReportHandler(deps.Balances, deps.Exporter)
	api.Get("/balance", reportHandler.Balance)
	reports := api.Group("/reports")
	reports.Get("/raw-materials", reportHandler.RawMaterials)
	reports.Get("/silos", reportHandler.Silos)
	reports.Get("/blocks", reportHandler.Blocks)
	reports.Get("/molded", reportHandler.Molded)
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/stock.xlsx", reportHandler.StockXLSX)
}
