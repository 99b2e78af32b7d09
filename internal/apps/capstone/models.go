package capstone

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
)

const (
	DefaultCategory = "WEB"
	DefaultStatus   = "IN_PROGRESS"
)

// Project is a capstone showcase entry.
type Project struct {
	ID          uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string           `gorm:"size:200;not null" json:"title"`
	Description string           `gorm:"type:text;not null" json:"description"`
	TechStack   datatypes.JSON   `json:"techStack"`
	GithubURL   *string          `gorm:"size:500" json:"githubUrl"`
	DemoURL     *string          `gorm:"size:500" json:"demoUrl"`
	ImageURL    *string          `gorm:"size:500" json:"imageUrl"`
	Category    string           `gorm:"size:30;not null;index" json:"category"`
	Status      string           `gorm:"size:30;not null" json:"status"`
	TeamSize    int              `gorm:"not null;default:1" json:"teamSize"`
	Duration    *string          `gorm:"size:50" json:"duration"`
	StartDate   *time.Time       `json:"startDate"`
	EndDate     *time.Time       `json:"endDate"`
	Likes       int              `gorm:"not null;default:0" json:"likes"`
	Views       int              `gorm:"not null;default:0" json:"views"`
	Featured    bool             `gorm:"not null;default:false;index" json:"featured"`
	AuthorID    uuid.UUID        `gorm:"type:uuid;not null;index" json:"authorId"`
	Author      models.UserRef   `gorm:"foreignKey:AuthorID" json:"author"`
	Comments    []ProjectComment `gorm:"foreignKey:ProjectID" json:"comments"`
	Count       ProjectCounts    `gorm:"-" json:"_count"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func (Project) TableName() string {
	return "capstone_projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (p *Project) AfterFind(tx *gorm.DB) error {
	p.TechStack = models.ListOrEmpty(p.TechStack)
	return nil
}

type ProjectCounts struct {
	LikesUsers int64 `json:"likesUsers"`
	Comments   int64 `json:"comments"`
}

// ProjectComment is a comment on a capstone project.
type ProjectComment struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	ProjectID uuid.UUID      `gorm:"type:uuid;not null;index" json:"projectId"`
	AuthorID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"authorId"`
	Author    models.UserRef `gorm:"foreignKey:AuthorID" json:"author"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (ProjectComment) TableName() string {
	return "capstone_comments"
}

func (c *ProjectComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// ProjectLike records that a user likes a project; at most one per pair.
type ProjectLike struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_capstone_like_project_user" json:"projectId"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_capstone_like_project_user" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (ProjectLike) TableName() string {
	return "capstone_likes"
}

func (l *ProjectLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
