package forum

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
)

// Post is a forum thread.
type Post struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string         `gorm:"size:200;not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	AuthorID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"authorId"`
	Author    models.UserRef `gorm:"foreignKey:AuthorID" json:"author"`
	Comments  []Comment      `gorm:"foreignKey:PostID" json:"comments"`
	CreatedAt time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Comment belongs to exactly one post and one author.
type Comment struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	PostID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"postId"`
	Post      *PostRef       `gorm:"foreignKey:PostID" json:"post,omitempty"`
	AuthorID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"authorId"`
	Author    models.UserRef `gorm:"foreignKey:AuthorID" json:"author"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// PostRef is the post summary embedded in a newly created comment.
type PostRef struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title string    `json:"title"`
}

func (PostRef) TableName() string {
	return "posts"
}
