package forum

import (
	"github.com/gofiber/fiber/v2"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/apperror"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/identity"
)

const forumFailure = "서버 내부 오류가 발생했습니다."

type ForumHandler struct {
	service *ForumService
	callers identity.Resolver
}

func NewForumHandler(service *ForumService, callers identity.Resolver) *ForumHandler {
	return &ForumHandler{service: service, callers: callers}
}

// --- Request DTOs ---

type CreatePostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	AuthorID string `json:"authorId"`
}

type CreateCommentRequest struct {
	Content  string `json:"content"`
	PostID   string `json:"postId"`
	AuthorID string `json:"authorId"`
}

var (
	reader = identity.Responses{
		Missing: apperror.Unauthenticated("인증이 필요합니다."),
		Unknown: apperror.Unauthenticated("유효하지 않은 사용자입니다."),
	}
	postAuthor = identity.Responses{
		Missing: ErrPostFieldsRequired,
		Unknown: ErrInvalidAuthor,
	}
	commentAuthor = identity.Responses{
		Missing: ErrCommentFieldsRequired,
		Unknown: ErrInvalidAuthor,
	}
)

func (h *ForumHandler) ListPosts(c *fiber.Ctx) error {
	if _, err := h.callers.Resolve(c, c.Query("userId")); err != nil {
		return apperror.Respond(c, reader.Map(err), forumFailure)
	}

	posts, err := h.service.ListPosts(c.UserContext())
	if err != nil {
		return apperror.Respond(c, err, forumFailure)
	}

	return c.JSON(fiber.Map{
		"message": "게시글 목록 조회가 완료되었습니다.",
		"posts":   posts,
	})
}

func (h *ForumHandler) CreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, ErrPostFieldsRequired)
	}
	if req.Title == "" || req.Content == "" {
		return apperror.Respond(c, ErrPostFieldsRequired)
	}

	author, err := h.callers.Resolve(c, req.AuthorID)
	if err != nil {
		return apperror.Respond(c, postAuthor.Map(err), forumFailure)
	}

	post, err := h.service.CreatePost(c.UserContext(), author, req.Title, req.Content)
	if err != nil {
		return apperror.Respond(c, err, forumFailure)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "게시글이 성공적으로 작성되었습니다.",
		"post":    post,
	})
}

func (h *ForumHandler) CreateComment(c *fiber.Ctx) error {
	var req CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, ErrCommentFieldsRequired)
	}
	if req.Content == "" || req.PostID == "" {
		return apperror.Respond(c, ErrCommentFieldsRequired)
	}

	author, err := h.callers.Resolve(c, req.AuthorID)
	if err != nil {
		return apperror.Respond(c, commentAuthor.Map(err), forumFailure)
	}

	comment, err := h.service.AddComment(c.UserContext(), author, req.PostID, req.Content)
	if err != nil {
		return apperror.Respond(c, err, forumFailure)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "댓글이 성공적으로 작성되었습니다.",
		"comment": comment,
	})
}
