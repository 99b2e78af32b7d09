package accounts

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/apperror"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/dto"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/identity"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
)

const directoryFailure = "서버 내부 오류가 발생했습니다. 잠시 후 다시 시도해주세요."

type AccountHandler struct {
	service *AccountService
	callers identity.Resolver
}

func NewAccountHandler(service *AccountService, callers identity.Resolver) *AccountHandler {
	return &AccountHandler{service: service, callers: callers}
}

// --- Request / response DTOs ---

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Message string           `json:"message"`
	User    dto.UserResponse `json:"user"`
	Token   string           `json:"token,omitempty"`
}

// DirectoryUser is a user with its profile, or null when none was saved.
type DirectoryUser struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      models.Role     `json:"role"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Profile   *models.Profile `json:"profile"`
}

type DirectoryResponse struct {
	Message string          `json:"message"`
	Users   []DirectoryUser `json:"users"`
	Count   int             `json:"count"`
}

var directoryCaller = identity.Responses{
	Missing: apperror.Unauthenticated("인증이 필요합니다. 로그인 후 다시 시도해주세요."),
	Unknown: apperror.Unauthenticated("유효하지 않은 사용자입니다."),
}

// --- Handlers ---

func (h *AccountHandler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, ErrSignupFieldsRequired)
	}

	user, err := h.service.Signup(c.UserContext(), SignupInput(req))
	if err != nil {
		return apperror.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{
		Message: "회원가입이 완료되었습니다.",
		User:    dto.NewUserResponse(user),
	})
}

func (h *AccountHandler) Signin(c *fiber.Ctx) error {
	var req SigninRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, ErrSigninFieldsRequired)
	}

	user, token, err := h.service.Signin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return apperror.Respond(c, err)
	}

	return c.JSON(AuthResponse{
		Message: "로그인이 완료되었습니다.",
		User:    dto.NewUserResponse(user),
		Token:   token,
	})
}

func (h *AccountHandler) ListUsers(c *fiber.Ctx) error {
	if _, err := h.callers.Resolve(c, c.Query("currentUserId")); err != nil {
		return apperror.Respond(c, directoryCaller.Map(err), directoryFailure)
	}

	users, err := h.service.ListUsers(c.UserContext())
	if err != nil {
		return apperror.Respond(c, err, directoryFailure)
	}

	out := make([]DirectoryUser, 0, len(users))
	for _, u := range users {
		out = append(out, DirectoryUser{
			ID:        u.ID,
			Name:      u.Name,
			Email:     u.Email,
			Role:      u.Role,
			CreatedAt: u.CreatedAt,
			UpdatedAt: u.UpdatedAt,
			Profile:   u.Profile,
		})
	}

	return c.JSON(DirectoryResponse{
		Message: "사용자 및 프로필 목록 조회가 완료되었습니다.",
		Users:   out,
		Count:   len(out),
	})
}
