package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleCEO    Role = "CEO"
	RoleTalent Role = "TALENT"
)

// ParseSignupRole accepts only the lowercase role names offered on the signup form.
func ParseSignupRole(s string) (Role, bool) {
	switch s {
	case "talent":
		return RoleTalent, true
	case "ceo":
		return RoleCEO, true
	}
	return "", false
}

// User is a registered member. Password holds the bcrypt hash and never leaves the server.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"size:20;not null;default:'TALENT'" json:"role"`
	Profile   *Profile  `gorm:"foreignKey:UserID" json:"profile,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// UserRef is the public projection of a user embedded in other records.
type UserRef struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

func (UserRef) TableName() string {
	return "users"
}
