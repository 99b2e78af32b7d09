package profiles

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/config"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/identity"
)

type ProfilesPlugin struct{}

func New() *ProfilesPlugin {
	return &ProfilesPlugin{}
}

func (p *ProfilesPlugin) ID() string { return "profiles" }

func (p *ProfilesPlugin) Models() []interface{} {
	return nil
}

func (p *ProfilesPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	h := NewProfileHandler(NewProfileService(db), identity.ForConfig(db, cfg))

	router.Get("/profile", h.Get)
	router.Post("/profile", h.Save)
}
