package capstone

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/config"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/identity"
)

type CapstonePlugin struct{}

func New() *CapstonePlugin {
	return &CapstonePlugin{}
}

func (p *CapstonePlugin) ID() string { return "capstone" }

func (p *CapstonePlugin) Models() []interface{} {
	return []interface{}{
		&Project{},
		&ProjectComment{},
		&ProjectLike{},
	}
}

func (p *CapstonePlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	h := NewCapstoneHandler(NewCapstoneService(db), identity.ForConfig(db, cfg))

	router.Get("/capstone", h.List)
	router.Post("/capstone", h.Create)
	router.Get("/capstone/:projectId", h.Get)
	router.Post("/capstone/:projectId/like", h.Like)
	router.Post("/capstone/:projectId/comments", h.AddComment)
}
