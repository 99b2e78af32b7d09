package allowlist

import (
	"bytes"
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/apperror"
)

var ErrUsersArrayRequired = apperror.Validation("users 배열이 필요합니다.")

type AllowListHandler struct {
	service *AllowListService
}

func NewAllowListHandler(service *AllowListService) *AllowListHandler {
	return &AllowListHandler{service: service}
}

type DeleteRequest struct {
	Email string `json:"email"`
}

type BulkAddRequest struct {
	Users json.RawMessage `json:"users"`
}

func (h *AllowListHandler) List(c *fiber.Ctx) error {
	entries, err := h.service.List(c.UserContext())
	if err != nil {
		return apperror.Respond(c, err)
	}
	return c.JSON(entries)
}

func (h *AllowListHandler) Add(c *fiber.Ctx) error {
	var req Entry
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, ErrEmailRequired)
	}

	entry, err := h.service.Add(c.UserContext(), req)
	if err != nil {
		return apperror.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "허용 사용자가 추가되었습니다.",
		"user":    entry,
	})
}

func (h *AllowListHandler) Remove(c *fiber.Ctx) error {
	var req DeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, ErrEmailRequired)
	}

	if err := h.service.Remove(c.UserContext(), req.Email); err != nil {
		return apperror.Respond(c, err)
	}

	return c.JSON(fiber.Map{"message": "허용 사용자가 삭제되었습니다."})
}

func (h *AllowListHandler) BulkAdd(c *fiber.Ctx) error {
	var req BulkAddRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, ErrUsersArrayRequired)
	}

	raw := bytes.TrimSpace(req.Users)
	if len(raw) == 0 || raw[0] != '[' {
		return apperror.Respond(c, ErrUsersArrayRequired)
	}
	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return apperror.Respond(c, ErrUsersArrayRequired)
	}

	result := h.service.BulkAdd(c.UserContext(), entries)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "대량 추가가 완료되었습니다.",
		"summary": result.Summary,
		"details": result.Details,
	})
}
