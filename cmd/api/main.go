package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"spruchapi/docs"
	"spruchapi/internal/backup"
	"spruchapi/internal/config"
	"spruchapi/internal/database"
	"spruchapi/internal/database/migration"
	handlers "spruchapi/internal/http/handler"
	"spruchapi/internal/http/middleware"
	"spruchapi/internal/logging"
	"spruchapi/internal/model"
	"spruchapi/internal/otel"
	"spruchapi/internal/repository"
	"spruchapi/internal/repository/memory"
	"spruchapi/internal/repository/postgres"
	"spruchapi/internal/repository/sqlite"
	"spruchapi/internal/service"
	"spruchapi/internal/storage"
)

// @title Spruch des Tages API
// @version 1.0
// @description Stores sayings (Sprueche) and serves them individually, as a list or at random.
// @BasePath /
func main() {
	cfg := config.Load()
	logger := logging.New(cfg.Location(), cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server_exit", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing_shutdown_failed", slog.String("error", err.Error()))
		}
	}()

	repo, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	metrics, err := service.NewMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("register store metrics: %w", err)
	}
	quoteSvc := service.NewQuoteService(repo,
		service.WithTimeout(cfg.Store.QueryTimeout()),
		service.WithMetrics(metrics),
	)

	if cfg.Store.SeedDefaults {
		n, err := quoteSvc.Seed(ctx, model.DefaultQuotes)
		if err != nil {
			return fmt.Errorf("seed default quotes: %w", err)
		}
		logger.Info("store_seeded", slog.Int("inserted", n))
	}

	var backups backup.Service
	if cfg.MinIO.Enabled() {
		objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
		backups = backup.New(quoteSvc, objStore, backup.WithLogger(logger))
		logger.Info("backups_enabled", slog.String("bucket", cfg.MinIO.Bucket))
	}

	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer, "/healthz")
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
		BodyLimit:             64 * 1024,
	})

	app.Use(recover.New())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == "/metrics" || c.Path() == "/healthz"
	})))
	// RequestID must run before Logger so every log line carries request_id.
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(promMiddleware.Handler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.CORSOrigins, ","),
		AllowMethods: "GET,POST,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept," + middleware.RequestIDHeader,
	}))

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.RegisterRoutes(app, quoteSvc, backups)

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

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		logger.Info("server_listening", slog.String("addr", addr), slog.String("store", cfg.Store.Driver))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server_shutdown")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(sctx)
}

// openStore connects the configured backend, runs the bootstrap DDL for SQL stores and
// returns a close func for the underlying handle.
func openStore(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (repository.QuoteRepository, func(), error) {
	var (
		db      *sql.DB
		dialect migration.Dialect
		host    string
		err     error
	)

	switch cfg.Store.Driver {
	case config.DriverMemory:
		logger.Warn("store_memory", slog.String("detail", "quotes are lost on restart"))
		return memory.NewQuoteMemory(), func() {}, nil
	case config.DriverPostgres:
		db, err = database.NewPostgres(ctx, cfg.Database)
		dialect, host = migration.Postgres, cfg.Database.Host
	case config.DriverSQLite:
		db, err = database.NewSQLite(ctx, cfg.Store.SQLitePath)
		dialect, host = migration.SQLite, cfg.Store.SQLitePath
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("connect %s: %w", cfg.Store.Driver, err)
	}

	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Warn("store_close_failed", slog.String("error", err.Error()))
		}
	}

	if err := migration.EnsureMigrated(ctx, db, dialect, logger, host); err != nil {
		closeDB()
		return nil, nil, fmt.Errorf("bootstrap schema: %w", err)
	}

	if dialect == migration.SQLite {
		return sqlite.NewQuoteSQLite(db), closeDB, nil
	}
	return postgres.NewQuotePostgres(db), closeDB, nil
}
