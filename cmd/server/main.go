package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/portalenergy/chargehub/internal/adapter/cache"
	"github.com/portalenergy/chargehub/internal/adapter/http/fiber/handlers"
	"github.com/portalenergy/chargehub/internal/adapter/http/fiber/middleware"
	"github.com/portalenergy/chargehub/internal/adapter/queue"
	"github.com/portalenergy/chargehub/internal/adapter/storage/memory"
	"github.com/portalenergy/chargehub/internal/adapter/storage/postgres"
	"github.com/portalenergy/chargehub/internal/ledger"
	"github.com/portalenergy/chargehub/internal/observability/telemetry"
	"github.com/portalenergy/chargehub/internal/ports"
	"github.com/portalenergy/chargehub/internal/service/access"
	"github.com/portalenergy/chargehub/internal/service/station"
	"github.com/portalenergy/chargehub/internal/service/tariff"
	"github.com/portalenergy/chargehub/internal/service/transaction"
	"github.com/portalenergy/chargehub/pkg/config"
)

const (
	serviceName    = "chargehub"
	serviceVersion = "v1.0.0"
)

func main() {
	// 1. Initialize Logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("Starting chargehub",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
	)

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// 3. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, serviceVersion, cfg.OpenTelemetry.JaegerEndpoint)
		if err != nil {
			logger.Fatal("Failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 4. Initialize Message Queue
	messageQueue, err := newMessageQueue(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize message queue", zap.Error(err))
	}
	defer messageQueue.Close()

	// 5. Initialize Cache (Redis with local fallback)
	stationCache := newCache(cfg, logger)
	defer stationCache.Close()

	// 6. Initialize Event Journal (optional Postgres observer)
	if cfg.Journal.Enabled {
		db, err := postgres.NewConnection(cfg.Database.URL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer postgres.Close(db)

		journal, err := postgres.NewJournal(db, logger)
		if err != nil {
			logger.Fatal("Failed to initialize event journal", zap.Error(err))
		}
		if err := journal.Attach(messageQueue); err != nil {
			logger.Fatal("Failed to attach event journal", zap.Error(err))
		}
	}

	// 7. Initialize Ledger Stores and Commit Guard
	guard := ledger.NewGuard()
	stationRepo := memory.NewStationRepository(logger)
	transactionRepo := memory.NewTransactionRepository(logger)
	tariffRepo := memory.NewTariffRepository(logger)
	partnerRepo := memory.NewPartnerRepository()

	// 8. Initialize Services (Business Logic Layer)
	accessService := access.NewService(partnerRepo, cfg.Access.Operators, logger)
	tariffService := tariff.NewService(tariffRepo, messageQueue, logger)
	stationService := station.NewService(stationRepo, accessService, stationCache, messageQueue, guard, cfg.Cache.StationTTL, logger)
	transactionService := transaction.NewService(transactionRepo, stationRepo, tariffService, accessService, messageQueue, guard, logger)
	stationService.SetConnectorStatusSink(transactionService)

	// 9. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.Metrics())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.HTTP.AllowedOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	// Health Check Endpoints
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/health/ready", func(c *fiber.Ctx) error {
		if err := stationCache.Ping(); err != nil {
			return c.Status(503).SendString("Cache not ready")
		}
		return c.SendString("Ready")
	})

	// Metrics endpoint for Prometheus
	app.Get("/metrics", func(c *fiber.Ctx) error {
		handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		handler(c.Context())
		return nil
	})

	// API v1 Routes
	v1 := app.Group("/api/v1")
	protected := v1.Group("", middleware.AuthRequired(cfg.JWT.Secret))

	// Station routes
	stationHandler := handlers.NewStationHandler(stationService, logger)
	protected.Post("/stations", stationHandler.Add)
	protected.Get("/stations", stationHandler.List)
	protected.Get("/stations/count", stationHandler.Count)
	protected.Get("/stations/url/:url", stationHandler.GetByUrl)
	protected.Get("/stations/:id", stationHandler.Get)
	protected.Patch("/stations/:url/state", stationHandler.SetState)
	protected.Get("/stations/:id/connectors/:connectorId", stationHandler.GetConnector)
	protected.Post("/stations/reindex", stationHandler.Reindex)

	// Device boundary routes (translated charge-box messages)
	deviceHandler := handlers.NewDeviceHandler(stationService, transactionService, logger)
	protected.Post("/stations/:url/boot", deviceHandler.BootNotification)
	protected.Post("/stations/:url/heartbeat", deviceHandler.Heartbeat)
	protected.Post("/stations/:url/status", deviceHandler.StatusNotification)
	protected.Post("/stations/:url/start", deviceHandler.StartTransaction)
	protected.Post("/stations/:url/stop", deviceHandler.StopTransaction)
	protected.Post("/stations/:url/meter-values", deviceHandler.MeterValues)

	// Transaction routes
	txHandler := handlers.NewTransactionHandler(transactionService, logger)
	protected.Post("/transactions/remote-start", txHandler.RemoteStart)
	protected.Post("/transactions/remote-stop", txHandler.RemoteStop)
	protected.Post("/transactions/:id/reject", txHandler.Reject)
	protected.Post("/transactions/:id/cancel", txHandler.Cancel)
	protected.Get("/transactions", txHandler.List)
	protected.Get("/transactions/count", txHandler.Count)
	protected.Get("/transactions/station/:stationId", txHandler.ListByStation)
	protected.Get("/transactions/user/:idtag", txHandler.GetUserTransaction)
	protected.Get("/transactions/:id/meter-values", txHandler.GetMeterValues)
	protected.Get("/transactions/:id", txHandler.Get)
	protected.Get("/invoices/:id", txHandler.GetInvoice)

	// Tariff routes
	tariffHandler := handlers.NewTariffHandler(tariffService, logger)
	protected.Post("/tariffs", tariffHandler.Add)
	protected.Get("/tariffs/:id", tariffHandler.Get)
	protected.Post("/tariffs/:id/price", tariffHandler.ComputePrice)

	// Partner allow-list routes
	accessHandler := handlers.NewAccessHandler(accessService, logger)
	protected.Post("/partners", accessHandler.AddPartner)
	protected.Delete("/partners/:identity", accessHandler.DeletePartner)
	protected.Get("/partners/:owner/:identity", accessHandler.CheckPartner)

	// 10. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 11. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	logger.Info("Shutdown complete")
}

func newMessageQueue(cfg *config.Config, logger *zap.Logger) (queue.MessageQueue, error) {
	switch cfg.Queue.Driver {
	case "nats":
		return queue.NewNATSQueue(cfg.Queue.NATSURL, cfg.Queue.MaxReconnects, cfg.Queue.ReconnectWait, logger)
	case "rabbitmq":
		return queue.NewRabbitMQQueue(cfg.Queue.RabbitMQURL, logger)
	default:
		return queue.NewMemoryQueue(logger), nil
	}
}

func newCache(cfg *config.Config, logger *zap.Logger) ports.Cache {
	if cfg.Redis.URL != "" {
		if c, err := cache.NewRedisCache(cfg.Redis.URL, logger); err == nil {
			return c
		}
		logger.Warn("Redis unavailable, falling back to local cache")
	}
	return cache.NewLocalCache(cfg.Cache.CleanupInterval, logger)
}
