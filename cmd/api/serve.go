package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"invoiceapi/internal/archive"
	"invoiceapi/internal/database"
	"invoiceapi/internal/database/migration"
	handlers "invoiceapi/internal/http/handler"
	"invoiceapi/internal/http/middleware"
	"invoiceapi/internal/importer"
	"invoiceapi/internal/logger"
	"invoiceapi/internal/metrics"
	"invoiceapi/internal/otel"
	"invoiceapi/internal/repository/postgres"
	"invoiceapi/internal/service"
	"invoiceapi/internal/storage"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig(cmd)
	if err := cfg.Validate(); err != nil {
		return err
	}
	log := logger.WithComponent("api")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger.WithComponent("otel"))
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Error().Err(err).Msg("tracer shutdown failed")
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database, logger.WithComponent("database"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := migration.EnsureMigrated(ctx, db, logger.WithComponent("migration")); err != nil {
			return err
		}
	}

	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	importMetrics, err := metrics.NewImportMetrics(reg)
	if err != nil {
		return err
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	repo := postgres.NewInvoicePostgres(db)
	svc := service.NewInvoiceService(
		repo,
		importer.New(repo, logger.WithComponent("importer")),
		archive.New(objStore, cfg.MinIO.PresignExpiry()),
		service.Options{
			ArchiveTimeout: cfg.Import.ArchiveTimeout(),
			Metrics:        importMetrics,
			Logger:         logger.WithComponent("service"),
		},
	)

	app := fiber.New(fiber.Config{
		AppName:               "invoiceapi",
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             cfg.Import.MaxUploadMB * 1024 * 1024,
		DisableStartupMessage: true,
	})

	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	})))
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger.WithComponent("http")))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, db, svc)
	handlers.RegisterMetrics(app, reg)

	handlers.RegisterSwagger(app)

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("version", version).Msg("server listening")
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	return app.ShutdownWithTimeout(shutdownTimeout)
}
