package profiles

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/apperror"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
)

var (
	ErrUserIDRequired    = apperror.Validation("userId가 필요합니다.")
	ErrProfileNotFound   = apperror.NotFound("프로필을 찾을 수 없습니다.")
	ErrUserNotFound      = apperror.NotFound("사용자를 찾을 수 없습니다.")
	ErrListsMustBeArrays = apperror.Validation("experiences, educations, portfolios는 배열이어야 합니다.")
)

// ProfileInput is a complete profile. Omitted fields are stored empty.
type ProfileInput struct {
	Introduction string
	Skills       string
	Experiences  json.RawMessage
	Educations   json.RawMessage
	Portfolios   json.RawMessage
}

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// Get loads the profile of userId with its owner's name and email.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, *models.UserRef, error) {
	if userID == "" {
		return nil, nil, ErrUserIDRequired
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, nil, ErrProfileNotFound
	}

	db := s.db.WithContext(ctx)
	var profile models.Profile
	if err := db.Where("user_id = ?", id).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrProfileNotFound
		}
		return nil, nil, apperror.Internal(err)
	}

	var owner models.UserRef
	if err := db.First(&owner, "id = ?", id).Error; err != nil {
		return nil, nil, apperror.Internal(err)
	}
	return &profile, &owner, nil
}

// Save replaces the whole profile of user, creating it on first save.
func (s *ProfileService) Save(ctx context.Context, user *models.User, in ProfileInput) (*models.Profile, error) {
	for _, list := range []json.RawMessage{in.Experiences, in.Educations, in.Portfolios} {
		if !isArrayOrAbsent(list) {
			return nil, ErrListsMustBeArrays
		}
	}

	profile := models.Profile{
		UserID:       user.ID,
		Introduction: in.Introduction,
		Skills:       in.Skills,
		Experiences:  models.ListOrEmpty(in.Experiences),
		Educations:   models.ListOrEmpty(in.Educations),
		Portfolios:   models.ListOrEmpty(in.Portfolios),
	}

	db := s.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"introduction", "skills", "experiences", "educations", "portfolios", "updated_at",
		}),
	}).Create(&profile).Error
	if err != nil {
		return nil, apperror.Internal(err)
	}

	var stored models.Profile
	if err := db.Where("user_id = ?", user.ID).First(&stored).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	return &stored, nil
}

func isArrayOrAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	return trimmed[0] == '['
}
