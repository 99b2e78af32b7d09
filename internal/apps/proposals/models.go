package proposals

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
)

// MeetingProposal is an invitation from proposer to receiver. Only the
// receiver changes its status.
type MeetingProposal struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProposerID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"proposerId"`
	Proposer         models.UserRef `gorm:"foreignKey:ProposerID" json:"proposer"`
	ReceiverID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"receiverId"`
	Receiver         models.UserRef `gorm:"foreignKey:ReceiverID" json:"receiver"`
	Title            string         `gorm:"size:200;not null" json:"title"`
	Message          string         `gorm:"type:text;not null" json:"message"`
	Status           Status         `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	ProposedDateTime *time.Time     `json:"proposedDateTime"`
	Location         *string        `gorm:"size:255" json:"location"`
	CreatedAt        time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

func (p *MeetingProposal) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
