package proposals

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/config"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/identity"
)

type ProposalsPlugin struct{}

func New() *ProposalsPlugin {
	return &ProposalsPlugin{}
}

func (p *ProposalsPlugin) ID() string { return "proposals" }

func (p *ProposalsPlugin) Models() []interface{} {
	return []interface{}{&MeetingProposal{}}
}

func (p *ProposalsPlugin) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	svc := NewProposalService(db, PolicyFor(cfg.ProposalStrictTransitions))
	h := NewProposalHandler(svc, identity.ForConfig(db, cfg))

	// Static paths before the :proposalId parameter.
	router.Post("/proposals", h.Create)
	router.Get("/proposals/sent", h.Sent)
	router.Get("/proposals/received", h.Received)
	router.Get("/proposals/:proposalId", h.Get)
	router.Patch("/proposals/:proposalId", h.UpdateStatus)
}
