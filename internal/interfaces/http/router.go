package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Inventario-scanner/internal/application/ledger"
	"github.com/jhoicas/Inventario-scanner/internal/infrastructure/realtime"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ScanUC    *ledger.ScanUseCase
	LedgerUC  *ledger.LedgerUseCase
	ExportUC  *ledger.ExportUseCase
	Hub       *realtime.Hub
	JWTSecret string
	Log       zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Escáner (público, como la estación de lectura)
	scanHandler := NewScanHandler(deps.ScanUC)
	api.Post("/scan", scanHandler.Scan)
	api.Get("/status", scanHandler.Status)

	// Inventario
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	api.Get("/inventory", ledgerHandler.List)

	// Correcciones manuales y borrado (supervisor si hay JWT_SECRET)
	supervisor := SupervisorOnly(deps.JWTSecret)
	api.Put("/inventory/:barcode/quantity", append(supervisor, ledgerHandler.SetQuantity)...)
	api.Post("/clear-database", append(supervisor, ledgerHandler.Clear)...)

	// Exportación
	if deps.ExportUC != nil {
		exportHandler := NewExportHandler(deps.ExportUC)
		api.Get("/export", exportHandler.XLSX)
		api.Get("/export/pdf", exportHandler.PDF)
	}

	// Difusión en tiempo real
	if deps.Hub != nil {
		wsHandler := NewWSHandler(deps.Hub, deps.Log)
		app.Use("/ws", wsHandler.Upgrade)
		app.Get("/ws", websocket.New(wsHandler.Stream))
	}
}
