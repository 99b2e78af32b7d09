package profiles

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/apperror"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/identity"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
)

type ProfileHandler struct {
	service *ProfileService
	callers identity.Resolver
}

func NewProfileHandler(service *ProfileService, callers identity.Resolver) *ProfileHandler {
	return &ProfileHandler{service: service, callers: callers}
}

type SaveProfileRequest struct {
	UserID       string          `json:"userId"`
	Introduction string          `json:"introduction"`
	Skills       string          `json:"skills"`
	Experiences  json.RawMessage `json:"experiences"`
	Educations   json.RawMessage `json:"educations"`
	Portfolios   json.RawMessage `json:"portfolios"`
}

type ProfileOwner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ProfileView is a profile with its owner's public fields.
type ProfileView struct {
	models.Profile
	User ProfileOwner `json:"user"`
}

type saveResponse struct {
	Message string          `json:"message"`
	Profile *models.Profile `json:"profile"`
}

var profileOwner = identity.Responses{
	Missing: ErrUserIDRequired,
	Unknown: ErrUserNotFound,
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	profile, owner, err := h.service.Get(c.UserContext(), c.Query("userId"))
	if err != nil {
		return apperror.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"profile": ProfileView{
			Profile: *profile,
			User:    ProfileOwner{Name: owner.Name, Email: owner.Email},
		},
	})
}

func (h *ProfileHandler) Save(c *fiber.Ctx) error {
	var req SaveProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, apperror.Validation("잘못된 요청 형식입니다."))
	}

	owner, err := h.callers.Resolve(c, req.UserID)
	if err != nil {
		return apperror.Respond(c, profileOwner.Map(err))
	}

	profile, err := h.service.Save(c.UserContext(), owner, ProfileInput{
		Introduction: req.Introduction,
		Skills:       req.Skills,
		Experiences:  req.Experiences,
		Educations:   req.Educations,
		Portfolios:   req.Portfolios,
	})
	if err != nil {
		return apperror.Respond(c, err)
	}

	return c.JSON(saveResponse{Message: "프로필이 저장되었습니다.", Profile: profile})
}
