package jobs

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/config"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/identity"
)

type JobsPlugin struct{}

func New() *JobsPlugin {
	return &JobsPlugin{}
}

func (p *JobsPlugin) ID() string { return "jobs" }

func (p *JobsPlugin) Models() []interface{} {
	return []interface{}{&Job{}}
}

func (p *JobsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	h := NewJobHandler(NewJobService(db), identity.ForConfig(db, cfg))

	router.Get("/jobs", h.List)
	router.Post("/jobs", h.Create)
}
