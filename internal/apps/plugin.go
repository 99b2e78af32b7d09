package apps

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/config"
)

// Plugin is a feature module: its own models, services and routes.
type Plugin interface {
	// ID names the module in logs.
	ID() string

	// Models returns the GORM model pointers the module owns, for AutoMigrate.
	Models() []interface{}

	// RegisterRoutes mounts the module's routes on the /api group. In token
	// mode the group already carries the session token middleware.
	RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}

// AdminPlugin is a Plugin that also serves routes behind the admin gate.
type AdminPlugin interface {
	Plugin

	// RegisterAdminRoutes mounts routes on the /api/admin group.
	RegisterAdminRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config)
}
