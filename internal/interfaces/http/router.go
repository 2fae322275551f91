package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/stockkeeping"
)

// Roles con permiso para mover stock.
var stockRoles = []string{"admin", "bodeguero"}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Registry  *stockkeeping.Registry
	Catalog   *stockkeeping.CatalogUseCase
	Slip      *stockkeeping.SlipUseCase // nil sin bitácora
	JWTSecret string
	JWTIssuer string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Todas las rutas requieren Bearer Token
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	mutate := RequireRole(stockRoles...)

	// Catálogo (solo lectura)
	catalogHandler := NewCatalogHandler(deps.Catalog)
	protected.Get("/warehouses", catalogHandler.ListWarehouses)
	protected.Get("/products/:id/breakdown", catalogHandler.Breakdown)

	// Traslados entre bodegas
	transfers := protected.Group("/transfers", mutate)
	transferHandler := NewTransferHandler(deps.Registry)
	transfers.Post("/", transferHandler.Open)
	transfers.Get("/:id", transferHandler.Get)
	transfers.Delete("/:id", transferHandler.Close)
	transfers.Get("/:id/stock", transferHandler.SourceStock)
	transfers.Put("/:id/source", transferHandler.SelectSource)
	transfers.Post("/:id/refresh", transferHandler.Refresh)
	transfers.Post("/:id/lines", transferHandler.AddLine)
	transfers.Post("/:id/seed", transferHandler.Seed)
	transfers.Patch("/:id/lines/:lineId", transferHandler.UpdateLine)
	transfers.Delete("/:id/lines/:lineId", transferHandler.RemoveLine)
	transfers.Put("/:id/destination", transferHandler.ApplyDestination)
	transfers.Post("/:id/submit", transferHandler.Submit)

	// Conciliación de stock no atribuido
	reconciliations := protected.Group("/reconciliations", mutate)
	reconciliationHandler := NewReconciliationHandler(deps.Registry)
	reconciliations.Post("/", reconciliationHandler.Open)
	reconciliations.Get("/:id", reconciliationHandler.Get)
	reconciliations.Delete("/:id", reconciliationHandler.Close)
	reconciliations.Get("/:id/search", reconciliationHandler.Search)
	reconciliations.Post("/:id/lines", reconciliationHandler.AddLine)
	reconciliations.Patch("/:id/lines/:lineId", reconciliationHandler.UpdateLine)
	reconciliations.Delete("/:id/lines/:lineId", reconciliationHandler.RemoveLine)
	reconciliations.Put("/:id/target", reconciliationHandler.ApplyTarget)
	reconciliations.Post("/:id/submit", reconciliationHandler.Submit)

	// Comprobantes (requiere bitácora)
	if deps.Slip != nil {
		submissionHandler := NewSubmissionHandler(deps.Slip)
		protected.Get("/submissions/:id/slip", submissionHandler.TransferSlip)
	}
}
