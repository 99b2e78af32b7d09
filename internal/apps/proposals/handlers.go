package proposals

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/apperror"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/identity"
)

type ProposalHandler struct {
	service *ProposalService
	callers identity.Resolver
}

func NewProposalHandler(service *ProposalService, callers identity.Resolver) *ProposalHandler {
	return &ProposalHandler{service: service, callers: callers}
}

// --- Request DTOs ---

type CreateProposalRequest struct {
	ProposerID       string `json:"proposerId"`
	ReceiverID       string `json:"receiverId"`
	Title            string `json:"title"`
	Message          string `json:"message"`
	ProposedDateTime string `json:"proposedDateTime"`
	Location         string `json:"location"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
	UserID string `json:"userId"`
}

var (
	proposer = identity.Responses{
		Missing: ErrFieldsRequired,
		Unknown: apperror.Unauthenticated("인증되지 않은 사용자입니다."),
	}
	listOwner = identity.Responses{
		Missing: apperror.Validation("userId가 필요합니다."),
		Unknown: apperror.NotFound("사용자를 찾을 수 없습니다."),
	}
	participant = identity.Responses{
		Missing: apperror.Unauthenticated("인증이 필요합니다. userId를 제공해주세요."),
		Unknown: apperror.Unauthenticated("인증되지 않은 사용자입니다."),
	}
)

func (h *ProposalHandler) Create(c *fiber.Ctx) error {
	var req CreateProposalRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, ErrFieldsRequired)
	}
	if req.ReceiverID == "" || req.Title == "" || req.Message == "" {
		return apperror.Respond(c, ErrFieldsRequired)
	}

	from, err := h.callers.Resolve(c, req.ProposerID)
	if err != nil {
		return apperror.Respond(c, proposer.Map(err))
	}

	proposal, err := h.service.Create(c.UserContext(), from, CreateInput{
		ReceiverID:       req.ReceiverID,
		Title:            req.Title,
		Message:          req.Message,
		ProposedDateTime: req.ProposedDateTime,
		Location:         req.Location,
	})
	if err != nil {
		return apperror.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "만남 제안이 성공적으로 생성되었습니다.",
		"proposal": proposal,
	})
}

func (h *ProposalHandler) Sent(c *fiber.Ctx) error {
	user, err := h.callers.Resolve(c, c.Query("userId"))
	if err != nil {
		return apperror.Respond(c, listOwner.Map(err))
	}

	proposals, err := h.service.Sent(c.UserContext(), user)
	if err != nil {
		return apperror.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message":   "보낸 제안 목록 조회가 완료되었습니다.",
		"proposals": proposals,
	})
}

func (h *ProposalHandler) Received(c *fiber.Ctx) error {
	user, err := h.callers.Resolve(c, c.Query("userId"))
	if err != nil {
		return apperror.Respond(c, listOwner.Map(err))
	}

	proposals, err := h.service.Received(c.UserContext(), user)
	if err != nil {
		return apperror.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message":   "받은 제안 목록 조회가 완료되었습니다.",
		"proposals": proposals,
	})
}

func (h *ProposalHandler) Get(c *fiber.Ctx) error {
	caller, err := h.callers.Resolve(c, c.Query("userId"))
	if err != nil {
		return apperror.Respond(c, participant.Map(err))
	}

	proposal, err := h.service.Get(c.UserContext(), caller, c.Params("proposalId"))
	if err != nil {
		return apperror.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "제안 조회가 완료되었습니다.",
		"proposal": proposal,
	})
}

func (h *ProposalHandler) UpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, ErrStatusRequired)
	}

	// A missing caller is reported before status errors, an unknown one after.
	caller, callerErr := h.callers.Resolve(c, req.UserID)
	if errors.Is(callerErr, identity.ErrMissing) {
		return apperror.Respond(c, participant.Map(callerErr))
	}
	status, err := ParseRequestedStatus(req.Status)
	if err != nil {
		return apperror.Respond(c, err)
	}
	if callerErr != nil {
		return apperror.Respond(c, participant.Map(callerErr))
	}

	proposal, err := h.service.UpdateStatus(c.UserContext(), caller, c.Params("proposalId"), status)
	if err != nil {
		return apperror.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "제안 상태가 성공적으로 업데이트되었습니다.",
		"proposal": proposal,
	})
}
