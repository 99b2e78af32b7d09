package forum

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/apperror"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
)

var (
	ErrPostFieldsRequired    = apperror.Validation("제목, 내용, 작성자 정보가 모두 필요합니다.")
	ErrCommentFieldsRequired = apperror.Validation("댓글 내용, 게시글 ID, 작성자 정보가 모두 필요합니다.")
	ErrInvalidAuthor         = apperror.Unauthenticated("유효하지 않은 작성자입니다.")
	ErrPostNotFound          = apperror.NotFound("존재하지 않는 게시글입니다.")
)

// ForumService handles posts and their comments.
type ForumService struct {
	db *gorm.DB
}

func NewForumService(db *gorm.DB) *ForumService {
	return &ForumService{db: db}
}

// ListPosts returns posts newest first, each with comments oldest first.
func (s *ForumService) ListPosts(ctx context.Context) ([]Post, error) {
	var posts []Post
	err := s.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Comments.Author").
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return posts, nil
}

func (s *ForumService) CreatePost(ctx context.Context, author *models.User, title, content string) (*Post, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, ErrPostFieldsRequired
	}

	post := &Post{
		Title:    title,
		Content:  content,
		AuthorID: author.ID,
	}
	db := s.db.WithContext(ctx)
	if err := db.Omit("Author", "Comments").Create(post).Error; err != nil {
		return nil, apperror.Internal(err)
	}

	if err := db.Preload("Author").Preload("Comments.Author").First(post, "id = ?", post.ID).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	return post, nil
}

func (s *ForumService) AddComment(ctx context.Context, author *models.User, postID, content string) (*Comment, error) {
	if strings.TrimSpace(content) == "" || postID == "" {
		return nil, ErrCommentFieldsRequired
	}

	db := s.db.WithContext(ctx)
	id, err := uuid.Parse(postID)
	if err != nil {
		return nil, ErrPostNotFound
	}
	var post PostRef
	if err := db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, apperror.Internal(err)
	}

	comment := &Comment{
		Content:  content,
		PostID:   post.ID,
		AuthorID: author.ID,
	}
	if err := db.Omit("Author", "Post").Create(comment).Error; err != nil {
		return nil, apperror.Internal(err)
	}

	if err := db.Preload("Author").Preload("Post").First(comment, "id = ?", comment.ID).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	return comment, nil
}
