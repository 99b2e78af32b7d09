package forum

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/config"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/identity"
)

type ForumPlugin struct{}

func New() *ForumPlugin {
	return &ForumPlugin{}
}

func (p *ForumPlugin) ID() string { return "forum" }

func (p *ForumPlugin) Models() []interface{} {
	return []interface{}{
		&Post{},
		&Comment{},
	}
}

func (p *ForumPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	h := NewForumHandler(NewForumService(db), identity.ForConfig(db, cfg))

	router.Get("/posts", h.ListPosts)
	router.Post("/posts", h.CreatePost)
	router.Post("/comments", h.CreateComment)
}
