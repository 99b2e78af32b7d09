package main

import (
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/apperror"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/apps"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/apps/accounts"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/apps/allowlist"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/apps/capstone"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/apps/forum"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/apps/jobs"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/apps/profiles"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/apps/proposals"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/config"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/database"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/dto"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/handlers"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/logging"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/middleware"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/routes"
)

func main() {
	// Structured logging (JSON to stdout)
	logging.Setup()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Database
	db, err := database.Connect(cfg)
	if err != nil {
		slog.Error("database connection failed", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}

	if err := database.MigrateShared(db); err != nil {
		slog.Error("shared migration failed", "error", err)
		os.Exit(1)
	}

	plugins := []apps.Plugin{
		accounts.New(),
		profiles.New(),
		forum.New(),
		capstone.New(),
		jobs.New(),
		proposals.New(),
		allowlist.New(),
	}

	for _, p := range plugins {
		if models := p.Models(); len(models) > 0 {
			if err := database.MigrateModels(db, models); err != nil {
				slog.Error("plugin migration failed", "plugin", p.ID(), "error", err)
				os.Exit(1)
			}
			slog.Info("plugin migrated", "plugin", p.ID(), "models", len(models))
		}
	}

	// ERROR+ records also go to system_logs
	dbLogHandler := logging.AttachDatabase(db)

	cleanupDone := make(chan struct{})
	logging.StartCleanup(db, cfg.LogRetentionDays, cleanupDone)

	// Sentry error tracking
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              dsn,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      os.Getenv("APP_ENV"),
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		}
	}

	fiberCfg := fiber.Config{
		BodyLimit:    4 * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	}
	// c.IP() only honours X-Forwarded-For from these addresses.
	if proxies := cfg.TrustedProxyList(); len(proxies) > 0 {
		fiberCfg.EnableTrustedProxyCheck = true
		fiberCfg.TrustedProxies = proxies
		fiberCfg.ProxyHeader = fiber.HeaderXForwardedFor
	}
	app := fiber.New(fiberCfg)

	app.Use(sentryfiber.New(sentryfiber.Options{
		Repanic:         true,
		WaitForDelivery: false,
	}))
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
	}))
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	prom := fiberprometheus.New("kdt-platform")
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	routes.Setup(app, cfg, db,
		handlers.NewHealthHandler(db),
		handlers.NewSystemLogHandler(db),
		plugins,
	)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "auth_mode", cfg.AuthMode, "strict_transitions", cfg.ProposalStrictTransitions)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	close(cleanupDone)
	dbLogHandler.Stop()
	sentry.Flush(2 * time.Second)

	if err := database.Close(db); err != nil {
		slog.Error("database close error", "error", err)
	}

	slog.Info("server stopped")
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Error: fe.Message})
	}
	return apperror.Respond(c, err)
}
