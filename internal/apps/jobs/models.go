package jobs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
)

const DefaultJobType = "FULL_TIME"

// Job is a posting written by a CEO. Optional fields are null when not supplied.
type Job struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title        string         `gorm:"size:200;not null" json:"title"`
	Company      string         `gorm:"size:200;not null" json:"company"`
	Location     *string        `gorm:"size:200" json:"location"`
	Description  string         `gorm:"type:text;not null" json:"description"`
	Requirements *string        `gorm:"type:text" json:"requirements"`
	Salary       *string        `gorm:"size:100" json:"salary"`
	JobType      string         `gorm:"size:30;not null;index" json:"jobType"`
	Experience   *string        `gorm:"size:50;index" json:"experience"`
	Skills       *string        `gorm:"type:text" json:"skills"`
	Benefits     *string        `gorm:"type:text" json:"benefits"`
	ContactEmail string         `gorm:"size:255" json:"contactEmail"`
	IsActive     bool           `gorm:"not null;default:true;index" json:"isActive"`
	AuthorID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"authorId"`
	Author       models.UserRef `gorm:"foreignKey:AuthorID" json:"author"`
	CreatedAt    time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}
