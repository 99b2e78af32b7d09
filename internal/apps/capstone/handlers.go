package capstone

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/apperror"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/identity"
)

const (
	listFailure   = "캡스톤 프로젝트를 불러오는 중 오류가 발생했습니다."
	createFailure = "캡스톤 프로젝트 등록 중 오류가 발생했습니다."
)

type CapstoneHandler struct {
	service *CapstoneService
	callers identity.Resolver
}

func NewCapstoneHandler(service *CapstoneService, callers identity.Resolver) *CapstoneHandler {
	return &CapstoneHandler{service: service, callers: callers}
}

// --- Request DTOs ---

type CreateProjectRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	TechStack   json.RawMessage `json:"techStack"`
	GithubURL   string          `json:"githubUrl"`
	DemoURL     string          `json:"demoUrl"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category"`
	TeamSize    int             `json:"teamSize"`
	Duration    string          `json:"duration"`
	StartDate   string          `json:"startDate"`
	EndDate     string          `json:"endDate"`
	AuthorID    string          `json:"authorId"`
}

type LikeRequest struct {
	UserID string `json:"userId"`
}

type AddCommentRequest struct {
	Content  string `json:"content"`
	AuthorID string `json:"authorId"`
}

var (
	viewer = identity.Responses{
		Missing: apperror.Unauthenticated("인증이 필요합니다."),
		Unknown: apperror.Unauthenticated("유효하지 않은 사용자입니다."),
	}
	projectAuthor = identity.Responses{
		Missing: ErrProjectFieldsRequired,
		Unknown: ErrUnauthenticatedAuthor,
	}
	commentAuthor = identity.Responses{
		Missing: ErrCommentFieldsRequired,
		Unknown: ErrUnauthenticatedAuthor,
	}
)

func (h *CapstoneHandler) List(c *fiber.Ctx) error {
	if _, err := h.callers.Resolve(c, c.Query("userId")); err != nil {
		return apperror.Respond(c, viewer.Map(err), listFailure)
	}

	projects, err := h.service.List(c.UserContext(), ProjectFilter{
		Category: c.Query("category"),
		Featured: c.Query("featured") == "true",
		AuthorID: c.Query("authorId"),
	})
	if err != nil {
		return apperror.Respond(c, err, listFailure)
	}

	return c.JSON(fiber.Map{"projects": projects})
}

func (h *CapstoneHandler) Get(c *fiber.Ctx) error {
	if _, err := h.callers.Resolve(c, c.Query("userId")); err != nil {
		return apperror.Respond(c, viewer.Map(err), listFailure)
	}

	project, err := h.service.View(c.UserContext(), c.Params("projectId"))
	if err != nil {
		return apperror.Respond(c, err, listFailure)
	}

	return c.JSON(fiber.Map{"project": project})
}

func (h *CapstoneHandler) Create(c *fiber.Ctx) error {
	var req CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, ErrProjectFieldsRequired)
	}
	if req.Title == "" || req.Description == "" {
		return apperror.Respond(c, ErrProjectFieldsRequired)
	}

	author, err := h.callers.Resolve(c, req.AuthorID)
	if err != nil {
		return apperror.Respond(c, projectAuthor.Map(err), createFailure)
	}

	project, err := h.service.Create(c.UserContext(), author, ProjectInput{
		Title:       req.Title,
		Description: req.Description,
		TechStack:   req.TechStack,
		GithubURL:   req.GithubURL,
		DemoURL:     req.DemoURL,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		TeamSize:    req.TeamSize,
		Duration:    req.Duration,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return apperror.Respond(c, err, createFailure)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"project": project,
		"message": "캡스톤 프로젝트가 성공적으로 등록되었습니다.",
	})
}

func (h *CapstoneHandler) Like(c *fiber.Ctx) error {
	var req LikeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, viewer.Missing)
	}

	user, err := h.callers.Resolve(c, req.UserID)
	if err != nil {
		return apperror.Respond(c, viewer.Map(err))
	}

	result, err := h.service.ToggleLike(c.UserContext(), user, c.Params("projectId"))
	if err != nil {
		return apperror.Respond(c, err)
	}

	return c.JSON(result)
}

func (h *CapstoneHandler) AddComment(c *fiber.Ctx) error {
	var req AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, ErrCommentFieldsRequired)
	}
	if req.Content == "" {
		return apperror.Respond(c, ErrCommentFieldsRequired)
	}

	author, err := h.callers.Resolve(c, req.AuthorID)
	if err != nil {
		return apperror.Respond(c, commentAuthor.Map(err))
	}

	comment, err := h.service.AddComment(c.UserContext(), author, c.Params("projectId"), req.Content)
	if err != nil {
		return apperror.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "댓글이 작성되었습니다.",
		"comment": comment,
	})
}
