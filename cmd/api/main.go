package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"babytracker/docs"
	"babytracker/internal/config"
	handlers "babytracker/internal/http/handler"
	"babytracker/internal/http/middleware"
	"babytracker/internal/logger"
	"babytracker/internal/otel"
	"babytracker/internal/repository/backend"
	"babytracker/internal/service"
	"babytracker/internal/storage"
)

// @title Baby Development Tracker API
// @version 1.0
// @description Records a baby's profile, developmental milestones and growth measurements.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log, err := logger.New(cfg.Log, cfg.AppName)
	if err != nil {
		os.Stderr.WriteString("failed to build logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log, cfg.AppName)
	if err != nil {
		log.Fatal("tracing_init_failed", zap.Error(err))
	}

	// Document store; a nil store means the API runs degraded and /test reports it
	store, closeStore, err := backend.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal("document_store_init_failed", zap.Error(err))
	}
	defer closeStore()

	records := service.NewRecordGateway(store, cfg.Database.URL != "")

	// Exports are optional and only enabled when object storage is configured
	var exports service.ExportService
	if cfg.MinIO.Configured() {
		objStore, err := storage.NewMinIO(cfg.MinIO)
		if err != nil {
			log.Fatal("object_storage_init_failed", zap.Error(err))
		}
		exports = service.NewExportService(records, objStore, time.Duration(cfg.ExportURLExpirySec)*time.Second)
		log.Info("object_storage_ready", zap.String("bucket", cfg.MinIO.Bucket))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatal("metrics_init_failed", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	// Register global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS,HEAD",
		AllowHeaders: "*",
	}))
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	app.Get(middleware.MetricsPath, middleware.MetricsHandler(reg))

	// Register HTTP routes with injected services
	handlers.RegisterRoutes(app, store, records, exports)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	go func() {
		log.Info("server_starting", zap.String("addr", addr), zap.Bool("document_store", store != nil), zap.Bool("exports", exports != nil))
		if err := app.Listen(addr); err != nil {
			log.Error("server_failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("server_stopping")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server_shutdown_failed", zap.Error(err))
	}

	tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(tctx); err != nil {
		log.Error("tracing_shutdown_failed", zap.Error(err))
	}
}
