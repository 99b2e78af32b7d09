package allowlist

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/config"
)

type AllowListPlugin struct{}

func New() *AllowListPlugin {
	return &AllowListPlugin{}
}

func (p *AllowListPlugin) ID() string { return "allowlist" }

func (p *AllowListPlugin) Models() []interface{} {
	return nil
}

// RegisterRoutes mounts nothing outside the admin group.
func (p *AllowListPlugin) RegisterRoutes(fiber.Router, *gorm.DB, *config.Config) {}

func (p *AllowListPlugin) RegisterAdminRoutes(router fiber.Router, db *gorm.DB, _ *config.Config) {
	h := NewAllowListHandler(NewAllowListService(db))

	router.Get("/allowed-users", h.List)
	router.Post("/allowed-users", h.Add)
	router.Delete("/allowed-users", h.Remove)
	router.Post("/bulk-add", h.BulkAdd)
}
