package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/apps"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/config"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/dto"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/handlers"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/middleware"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	healthHandler *handlers.HealthHandler,
	systemLogHandler *handlers.SystemLogHandler,
	plugins []apps.Plugin,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(rateLimiter(60))

	api.Get("/health", healthHandler.Check)

	// Signup and signin: 10 req/min per IP
	api.Use("/auth", rateLimiter(10))

	if cfg.TokenMode() {
		api.Use(middleware.SessionToken(cfg))
	}

	admin := api.Group("/admin", middleware.AdminRequired(cfg))
	admin.Get("/system-logs", systemLogHandler.List)

	for _, p := range plugins {
		p.RegisterRoutes(api, db, cfg)
		if ap, ok := p.(apps.AdminPlugin); ok {
			ap.RegisterAdminRoutes(admin, db, cfg)
		}
	}
}

// rateLimiter keys on the socket address. Proxy headers only count when the
// app is configured with trusted proxies (see main).
func rateLimiter(limit int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               limit,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error: "요청이 너무 많습니다. 잠시 후 다시 시도해주세요.",
			})
		},
	})
}
