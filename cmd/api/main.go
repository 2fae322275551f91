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

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/stockkeeping"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/repository"
	"github.com/jhoicas/Inventario-stockkeeping/internal/infrastructure/inventoryapi"
	infrapdf "github.com/jhoicas/Inventario-stockkeeping/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-stockkeeping/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Inventario-stockkeeping/internal/interfaces/http"
	"github.com/jhoicas/Inventario-stockkeeping/pkg/config"
	"github.com/jhoicas/Inventario-stockkeeping/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("inventory_api", cfg.Inventory.BaseURL).
		Msg("iniciando aplicación")

	ctx := context.Background()

	// Bitácora de envíos: opcional, solo si hay base de datos configurada.
	var journal repository.SubmissionJournalRepository
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.EnsureJournalSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("esquema de bitácora")
		}
		journal = postgres.NewSubmissionJournalRepository(pool)
	} else {
		log.Warn().Msg("sin base de datos: los envíos no quedan en bitácora")
	}

	gateway := inventoryapi.NewClient(cfg.Inventory.BaseURL, cfg.Inventory.Token, cfg.Inventory.Timeout, log.Component("inventoryapi"))
	orchestrator := stockkeeping.NewOrchestrator(gateway, journal, log.Component("orchestrator"))
	registry := stockkeeping.NewRegistry(gateway, orchestrator, log.Component("session"), cfg.Search.MinTermLength)
	catalogUC := stockkeeping.NewCatalogUseCase(gateway)

	var slipUC *stockkeeping.SlipUseCase
	if journal != nil {
		slipUC = stockkeeping.NewSlipUseCase(journal, gateway, infrapdf.NewTransferSlipGenerator(cfg.App.Name))
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Inventory.Timeout*2 + time.Second*10, // un envío puede encadenar varios lotes
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	// Swagger UI en local: http://localhost:<port>/docs (requiere swag init)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Stockkeeping API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "journal": journal != nil})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Registry:  registry,
		Catalog:   catalogUC,
		Slip:      slipUC,
		JWTSecret: cfg.JWT.Secret,
		JWTIssuer: cfg.JWT.Issuer,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	registry.CloseAll()

	log.Info().Msg("aplicación detenida")
}
