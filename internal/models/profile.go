package models

import (
	"bytes"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile holds a user's self-description. The three list fields are JSON columns of
// free-form records; the API contract is a plain JSON array for each.
type Profile struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`
	Introduction string         `gorm:"type:text" json:"introduction"`
	Skills       string         `gorm:"type:text" json:"skills"`
	Experiences  datatypes.JSON `json:"experiences"`
	Educations   datatypes.JSON `json:"educations"`
	Portfolios   datatypes.JSON `json:"portfolios"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// AfterFind replaces absent or null lists with empty arrays.
func (p *Profile) AfterFind(tx *gorm.DB) error {
	p.Experiences = ListOrEmpty(p.Experiences)
	p.Educations = ListOrEmpty(p.Educations)
	p.Portfolios = ListOrEmpty(p.Portfolios)
	return nil
}

var emptyList = datatypes.JSON("[]")

// ListOrEmpty returns raw unchanged unless it is missing, blank or JSON null.
func ListOrEmpty(raw []byte) datatypes.JSON {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return emptyList
	}
	return datatypes.JSON(trimmed)
}
