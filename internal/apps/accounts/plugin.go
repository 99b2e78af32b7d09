package accounts

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/config"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/identity"
)

type AccountsPlugin struct{}

func New() *AccountsPlugin {
	return &AccountsPlugin{}
}

func (p *AccountsPlugin) ID() string { return "accounts" }

// Models is empty: users and the allow-list are shared models.
func (p *AccountsPlugin) Models() []interface{} {
	return nil
}

func (p *AccountsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewAccountService(db, identity.IssuerForConfig(cfg))
	h := NewAccountHandler(svc, identity.ForConfig(db, cfg))

	router.Post("/auth/signup", h.Signup)
	router.Post("/auth/signin", h.Signin)
	router.Get("/users", h.ListUsers)
}
