package jobs

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/apperror"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
)

var (
	ErrJobFieldsRequired = apperror.Validation("제목, 회사명, 설명, 작성자 정보가 모두 필요합니다.")
	ErrInvalidAuthor     = apperror.Unauthenticated("유효하지 않은 작성자입니다.")
	ErrCEOOnly           = apperror.Forbidden("CEO만 채용 공고를 작성할 수 있습니다.")
)

type JobFilter struct {
	JobType    string
	Experience string
	Location   string
	Skills     string
	Search     string
}

type JobInput struct {
	Title        string
	Company      string
	Location     string
	Description  string
	Requirements string
	Salary       string
	JobType      string
	Experience   string
	Skills       string
	Benefits     string
	ContactEmail string
}

type JobService struct {
	db *gorm.DB
}

func NewJobService(db *gorm.DB) *JobService {
	return &JobService{db: db}
}

// List returns active jobs matching every supplied filter, newest first.
func (s *JobService) List(ctx context.Context, f JobFilter) ([]Job, error) {
	var jobs []Job
	err := s.db.WithContext(ctx).
		Scopes(
			Active(),
			Exact("job_type", f.JobType),
			Exact("experience", f.Experience),
			Contains("location", f.Location),
			Contains("skills", f.Skills),
			Search(f.Search, "title", "company", "description"),
		).
		Preload("Author").
		Order("created_at DESC").
		Find(&jobs).Error
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return jobs, nil
}

// Create posts a job as author, who must be a CEO.
func (s *JobService) Create(ctx context.Context, author *models.User, in JobInput) (*Job, error) {
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Company) == "" || strings.TrimSpace(in.Description) == "" {
		return nil, ErrJobFieldsRequired
	}
	if author.Role != models.RoleCEO {
		return nil, ErrCEOOnly
	}

	job := &Job{
		Title:        in.Title,
		Company:      in.Company,
		Location:     optional(in.Location),
		Description:  in.Description,
		Requirements: optional(in.Requirements),
		Salary:       optional(in.Salary),
		JobType:      orDefault(in.JobType, DefaultJobType),
		Experience:   optional(in.Experience),
		Skills:       optional(in.Skills),
		Benefits:     optional(in.Benefits),
		ContactEmail: orDefault(in.ContactEmail, author.Email),
		IsActive:     true,
		AuthorID:     author.ID,
	}

	db := s.db.WithContext(ctx)
	if err := db.Omit("Author").Create(job).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	if err := db.Preload("Author").First(job, "id = ?", job.ID).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	return job, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
