package jobs

import (
	"github.com/gofiber/fiber/v2"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/apperror"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/identity"
)

const jobsFailure = "서버 내부 오류가 발생했습니다."

type JobHandler struct {
	service *JobService
	callers identity.Resolver
}

func NewJobHandler(service *JobService, callers identity.Resolver) *JobHandler {
	return &JobHandler{service: service, callers: callers}
}

type CreateJobRequest struct {
	Title        string `json:"title"`
	Company      string `json:"company"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Salary       string `json:"salary"`
	JobType      string `json:"jobType"`
	Experience   string `json:"experience"`
	Skills       string `json:"skills"`
	Benefits     string `json:"benefits"`
	ContactEmail string `json:"contactEmail"`
	AuthorID     string `json:"authorId"`
}

var (
	jobReader = identity.Responses{
		Missing: apperror.Unauthenticated("인증이 필요합니다."),
		Unknown: apperror.Unauthenticated("유효하지 않은 사용자입니다."),
	}
	jobAuthor = identity.Responses{
		Missing: ErrJobFieldsRequired,
		Unknown: ErrInvalidAuthor,
	}
)

func (h *JobHandler) List(c *fiber.Ctx) error {
	if _, err := h.callers.Resolve(c, c.Query("userId")); err != nil {
		return apperror.Respond(c, jobReader.Map(err), jobsFailure)
	}

	jobs, err := h.service.List(c.UserContext(), JobFilter{
		JobType:    c.Query("jobType"),
		Experience: c.Query("experience"),
		Location:   c.Query("location"),
		Skills:     c.Query("skills"),
		Search:     c.Query("search"),
	})
	if err != nil {
		return apperror.Respond(c, err, jobsFailure)
	}

	return c.JSON(fiber.Map{
		"message": "채용 공고 목록 조회가 완료되었습니다.",
		"jobs":    jobs,
	})
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	var req CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.Respond(c, ErrJobFieldsRequired)
	}
	if req.Title == "" || req.Company == "" || req.Description == "" {
		return apperror.Respond(c, ErrJobFieldsRequired)
	}

	author, err := h.callers.Resolve(c, req.AuthorID)
	if err != nil {
		return apperror.Respond(c, jobAuthor.Map(err), jobsFailure)
	}

	job, err := h.service.Create(c.UserContext(), author, JobInput{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Description:  req.Description,
		Requirements: req.Requirements,
		Salary:       req.Salary,
		JobType:      req.JobType,
		Experience:   req.Experience,
		Skills:       req.Skills,
		Benefits:     req.Benefits,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		return apperror.Respond(c, err, jobsFailure)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "채용 공고가 성공적으로 작성되었습니다.",
		"job":     job,
	})
}
