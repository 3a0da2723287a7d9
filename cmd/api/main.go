package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Inventario-scanner/internal/application/ledger"
	"github.com/jhoicas/Inventario-scanner/internal/bootstrap"
	"github.com/jhoicas/Inventario-scanner/internal/domain/scan"
	"github.com/jhoicas/Inventario-scanner/internal/infrastructure/events/kafka"
	"github.com/jhoicas/Inventario-scanner/internal/infrastructure/events/mqtt"
	infrapdf "github.com/jhoicas/Inventario-scanner/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-scanner/internal/infrastructure/realtime"
	"github.com/jhoicas/Inventario-scanner/internal/infrastructure/spreadsheet"
	httpRouter "github.com/jhoicas/Inventario-scanner/internal/interfaces/http"
	"github.com/jhoicas/Inventario-scanner/pkg/config"
	"github.com/jhoicas/Inventario-scanner/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Dur("idle_timeout", cfg.Scan.IdleTimeout).
		Msg("iniciando aplicación")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := bootstrap.OpenStore(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir libro de inventario")
	}
	defer store.Close()

	catalog, err := bootstrap.LoadDescriptions(ctx, cfg.Descriptions, log.Component("descriptions"))
	if err != nil {
		log.Fatal().Err(err).Msg("cargar catálogo de descripciones")
	}

	// Difusión: visores WebSocket + sumideros opcionales
	hub := realtime.NewHub(cfg.Broadcast.SubscriberBuffer, log.Component("realtime"))
	defer hub.Close()

	if len(cfg.Broadcast.KafkaBrokers) > 0 {
		// Attach cierra el sumidero al terminar
		hub.Attach(ctx, kafka.NewPublisher(cfg.Broadcast.KafkaBrokers, cfg.Broadcast.KafkaTopic))
		log.Info().Strs("brokers", cfg.Broadcast.KafkaBrokers).Str("topic", cfg.Broadcast.KafkaTopic).Msg("sumidero Kafka activo")
	}
	if cfg.Broadcast.MQTTBroker != "" {
		mp, err := mqtt.Connect(mqtt.Config{
			Broker:   cfg.Broadcast.MQTTBroker,
			Topic:    cfg.Broadcast.MQTTTopic,
			ClientID: cfg.Broadcast.MQTTClientID,
		}, log.Component("mqtt"))
		if err != nil {
			log.Fatal().Err(err).Msg("conexión MQTT")
		}
		hub.Attach(ctx, mp)
	}

	clock := time.Now
	guard := scan.NewGuard(cfg.Scan.IdleTimeout)
	processor := ledger.NewProcessor(store.Tx, catalog, hub, log.Component("processor"))
	scanUC := ledger.NewScanUseCase(guard, processor, hub, clock, log.Component("scan"))
	ledgerUC := ledger.NewLedgerUseCase(store.Repo, store.Tx, processor, hub, clock, log.Component("ledger"))
	exportUC := ledger.NewExportUseCase(ledgerUC, spreadsheet.NewXLSXWriter(), infrapdf.NewLedgerPDFWriter(cfg.App.Name), clock)

	// Migración de la planilla histórica (solo inserta códigos nuevos)
	if path := cfg.Storage.LegacyImportPath; path != "" {
		importUC := ledger.NewImportUseCase(store.Tx, catalog, clock, log.Component("import"))
		if _, err := os.Stat(path); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("planilla histórica no disponible, se omite la importación")
		} else if _, err := bootstrap.ImportLegacyFile(ctx, path, importUC); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("importar planilla histórica")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Immutable:    true,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.HTTP.SwaggerPath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.HTTP.SwaggerPath,
			Path:     "docs",
			Title:    "Inventario Scanner API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "broadcast": hub.Stats()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ScanUC:    scanUC,
		LedgerUC:  ledgerUC,
		ExportUC:  exportUC,
		Hub:       hub,
		JWTSecret: cfg.JWT.Secret,
		Log:       log.Component("ws"),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	// Cerrar el hub primero libera los WebSocket abiertos
	hub.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
