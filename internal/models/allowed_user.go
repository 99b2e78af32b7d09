package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllowedUser is an operator-approved email that may sign up exactly once.
type AllowedUser struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name         *string   `gorm:"size:100" json:"name"`
	Role         Role      `gorm:"size:20;not null;default:'TALENT'" json:"role"`
	IsRegistered bool      `gorm:"not null;default:false" json:"isRegistered"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (a *AllowedUser) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// NormalizeEmail is the canonical form used for allow-list and user lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AllowListRole maps operator input to a role: "ceo" or "CEO" is CEO, anything else TALENT.
func AllowListRole(s string) Role {
	if s == "ceo" || s == string(RoleCEO) {
		return RoleCEO
	}
	return RoleTalent
}
