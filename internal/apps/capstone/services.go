package capstone

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/apperror"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
)

var (
	ErrProjectFieldsRequired = apperror.Validation("필수 필드가 누락되었습니다. (title, description, authorId)")
	ErrCommentFieldsRequired = apperror.Validation("댓글 내용과 작성자 정보가 필요합니다.")
	ErrUnauthenticatedAuthor = apperror.Unauthenticated("인증되지 않은 사용자입니다.")
	ErrProjectNotFound       = apperror.NotFound("프로젝트를 찾을 수 없습니다.")
	ErrInvalidTechStack      = apperror.Validation("techStack은 배열 또는 문자열이어야 합니다.")
	ErrInvalidDate           = apperror.Validation("날짜 형식이 올바르지 않습니다.")
)

type ProjectFilter struct {
	Category string
	Featured bool
	AuthorID string
}

type ProjectInput struct {
	Title       string
	Description string
	TechStack   json.RawMessage
	GithubURL   string
	DemoURL     string
	ImageURL    string
	Category    string
	TeamSize    int
	Duration    string
	StartDate   string
	EndDate     string
}

// LikeResult is the state after a like toggle.
type LikeResult struct {
	Liked bool `json:"liked"`
	Likes int  `json:"likes"`
}

// CapstoneService handles capstone projects, their comments and likes.
type CapstoneService struct {
	db *gorm.DB
}

func NewCapstoneService(db *gorm.DB) *CapstoneService {
	return &CapstoneService{db: db}
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Comments.Author")
}

// List orders featured projects first, then by likes, then newest.
func (s *CapstoneService) List(ctx context.Context, f ProjectFilter) ([]Project, error) {
	query := s.db.WithContext(ctx).Scopes(withDetails)
	if f.Category != "" && f.Category != "ALL" {
		query = query.Where("category = ?", f.Category)
	}
	if f.Featured {
		query = query.Where("featured = ?", true)
	}
	if f.AuthorID != "" {
		authorID, err := uuid.Parse(f.AuthorID)
		if err != nil {
			return []Project{}, nil
		}
		query = query.Where("author_id = ?", authorID)
	}

	var projects []Project
	err := query.
		Order("featured DESC").
		Order("likes DESC").
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if err := s.attachCounts(ctx, projects); err != nil {
		return nil, apperror.Internal(err)
	}
	return projects, nil
}

func (s *CapstoneService) attachCounts(ctx context.Context, projects []Project) error {
	if len(projects) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(projects))
	for i := range projects {
		ids[i] = projects[i].ID
	}

	var rows []struct {
		ProjectID uuid.UUID
		Total     int64
	}
	err := s.db.WithContext(ctx).Model(&ProjectLike{}).
		Select("project_id, COUNT(*) AS total").
		Where("project_id IN ?", ids).
		Group("project_id").
		Scan(&rows).Error
	if err != nil {
		return err
	}
	likes := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		likes[r.ProjectID] = r.Total
	}

	for i := range projects {
		projects[i].Count = ProjectCounts{
			LikesUsers: likes[projects[i].ID],
			Comments:   int64(len(projects[i].Comments)),
		}
	}
	return nil
}

func (s *CapstoneService) Create(ctx context.Context, author *models.User, in ProjectInput) (*Project, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, ErrProjectFieldsRequired
	}
	techStack, err := ParseTechStack(in.TechStack)
	if err != nil {
		return nil, err
	}
	start, err := parseDate(in.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(in.EndDate)
	if err != nil {
		return nil, err
	}

	teamSize := in.TeamSize
	if teamSize <= 0 {
		teamSize = 1
	}
	category := in.Category
	if category == "" {
		category = DefaultCategory
	}

	project := &Project{
		Title:       in.Title,
		Description: in.Description,
		TechStack:   techStack,
		GithubURL:   optional(in.GithubURL),
		DemoURL:     optional(in.DemoURL),
		ImageURL:    optional(in.ImageURL),
		Category:    category,
		Status:      DefaultStatus,
		TeamSize:    teamSize,
		Duration:    optional(in.Duration),
		StartDate:   start,
		EndDate:     end,
		AuthorID:    author.ID,
	}

	db := s.db.WithContext(ctx)
	if err := db.Omit("Author", "Comments").Create(project).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	return s.load(ctx, project.ID)
}

// View returns a project and counts the view.
func (s *CapstoneService) View(ctx context.Context, projectID string) (*Project, error) {
	id, err := uuid.Parse(projectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}

	db := s.db.WithContext(ctx)
	result := db.Model(&Project{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return nil, apperror.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrProjectNotFound
	}
	return s.load(ctx, id)
}

func (s *CapstoneService) load(ctx context.Context, id uuid.UUID) (*Project, error) {
	var project Project
	if err := s.db.WithContext(ctx).Scopes(withDetails).First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, apperror.Internal(err)
	}
	projects := []Project{project}
	if err := s.attachCounts(ctx, projects); err != nil {
		return nil, apperror.Internal(err)
	}
	return &projects[0], nil
}

// ToggleLike likes the project for user, or removes an existing like.
func (s *CapstoneService) ToggleLike(ctx context.Context, user *models.User, projectID string) (*LikeResult, error) {
	id, err := uuid.Parse(projectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}

	var result LikeResult
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project Project
		if err := tx.Select("id").First(&project, "id = ?", id).Error; err != nil {
			return err
		}

		var existing ProjectLike
		err := tx.Where("project_id = ? AND user_id = ?", id, user.ID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if err := tx.Model(&Project{}).Where("id = ?", id).
				UpdateColumn("likes", gorm.Expr("likes - 1")).Error; err != nil {
				return err
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(&ProjectLike{ProjectID: id, UserID: user.ID}).Error; err != nil {
				return err
			}
			if err := tx.Model(&Project{}).Where("id = ?", id).
				UpdateColumn("likes", gorm.Expr("likes + 1")).Error; err != nil {
				return err
			}
			result.Liked = true
		default:
			return err
		}

		return tx.Model(&Project{}).Select("likes").Where("id = ?", id).Scan(&result.Likes).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, apperror.Internal(err)
	}
	return &result, nil
}

func (s *CapstoneService) AddComment(ctx context.Context, author *models.User, projectID, content string) (*ProjectComment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrCommentFieldsRequired
	}
	id, err := uuid.Parse(projectID)
	if err != nil {
		return nil, ErrProjectNotFound
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&Project{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	if count == 0 {
		return nil, ErrProjectNotFound
	}

	comment := &ProjectComment{Content: content, ProjectID: id, AuthorID: author.ID}
	if err := db.Omit("Author").Create(comment).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	if err := db.Preload("Author").First(comment, "id = ?", comment.ID).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	return comment, nil
}

// ParseTechStack accepts a JSON array, a string holding a JSON array, or a
// comma-separated string, and returns a JSON array.
func ParseTechStack(raw json.RawMessage) (datatypes.JSON, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return datatypes.JSON("[]"), nil
	}

	switch trimmed[0] {
	case '[':
		if !json.Valid(trimmed) {
			return nil, ErrInvalidTechStack
		}
		return datatypes.JSON(trimmed), nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, ErrInvalidTechStack
		}
		s = strings.TrimSpace(s)
		if strings.HasPrefix(s, "[") && json.Valid([]byte(s)) {
			return datatypes.JSON(s), nil
		}
		items := []string{}
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		b, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		return datatypes.JSON(b), nil
	default:
		return nil, ErrInvalidTechStack
	}
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, ErrInvalidDate
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
