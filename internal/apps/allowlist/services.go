package allowlist

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/apperror"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/metrics"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
)

var (
	ErrEmailRequired = apperror.Validation("이메일은 필수입니다.")
	ErrDuplicate     = apperror.Conflict("이미 등록된 이메일입니다.")
	ErrNotFound      = apperror.NotFound("허용 사용자를 찾을 수 없습니다.")
)

// Per-record reasons reported by BulkAdd.
const (
	ReasonMalformedEmail = "잘못된 이메일 형식"
	ReasonDuplicate      = "이미 등록된 이메일"
	ReasonDatabase       = "데이터베이스 오류"
)

type Entry struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type ImportedEntry struct {
	Email string      `json:"email"`
	Name  *string     `json:"name"`
	Role  models.Role `json:"role"`
}

type RejectedEntry struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

type ImportSummary struct {
	Total      int `json:"total"`
	Success    int `json:"success"`
	Failed     int `json:"failed"`
	Duplicates int `json:"duplicates"`
}

type ImportDetails struct {
	Success    []ImportedEntry `json:"success"`
	Failed     []RejectedEntry `json:"failed"`
	Duplicates []RejectedEntry `json:"duplicates"`
}

type ImportResult struct {
	Summary ImportSummary `json:"summary"`
	Details ImportDetails `json:"details"`
}

// AllowListService administers who may sign up.
type AllowListService struct {
	db *gorm.DB
}

func NewAllowListService(db *gorm.DB) *AllowListService {
	return &AllowListService{db: db}
}

func (s *AllowListService) List(ctx context.Context) ([]models.AllowedUser, error) {
	var entries []models.AllowedUser
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, apperror.Internal(err)
	}
	return entries, nil
}

func (s *AllowListService) Add(ctx context.Context, in Entry) (*models.AllowedUser, error) {
	email := models.NormalizeEmail(in.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}

	entry := newEntry(email, in)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := emailExists(tx, email)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicate
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, ErrDuplicate
		}
		return nil, apperror.Internal(err)
	}
	return entry, nil
}

func (s *AllowListService) Remove(ctx context.Context, email string) error {
	email = models.NormalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}

	result := s.db.WithContext(ctx).Where("email = ?", email).Delete(&models.AllowedUser{})
	if result.Error != nil {
		return apperror.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// BulkAdd imports each record in its own transaction. A failed record never
// undoes the ones before it.
func (s *AllowListService) BulkAdd(ctx context.Context, entries []Entry) *ImportResult {
	result := &ImportResult{
		Summary: ImportSummary{Total: len(entries)},
		Details: ImportDetails{
			Success:    []ImportedEntry{},
			Failed:     []RejectedEntry{},
			Duplicates: []RejectedEntry{},
		},
	}

	db := s.db.WithContext(ctx)
	for _, in := range entries {
		email := models.NormalizeEmail(in.Email)
		if email == "" || !strings.Contains(email, "@") {
			reject(&result.Details.Failed, orUnknown(in.Email), ReasonMalformedEmail)
			continue
		}

		entry := newEntry(email, in)
		err := db.Transaction(func(tx *gorm.DB) error {
			exists, err := emailExists(tx, email)
			if err != nil {
				return err
			}
			if exists {
				return ErrDuplicate
			}
			return tx.Create(entry).Error
		})
		switch {
		case err == nil:
			result.Details.Success = append(result.Details.Success, ImportedEntry{
				Email: entry.Email,
				Name:  entry.Name,
				Role:  entry.Role,
			})
			metrics.BulkImportRecords.WithLabelValues("success").Inc()
		case errors.Is(err, ErrDuplicate):
			reject(&result.Details.Duplicates, email, ReasonDuplicate)
		default:
			slog.ErrorContext(ctx, "bulk allow-list insert failed", "email", email, "error", err)
			reject(&result.Details.Failed, email, ReasonDatabase)
		}
	}

	result.Summary.Success = len(result.Details.Success)
	result.Summary.Failed = len(result.Details.Failed)
	result.Summary.Duplicates = len(result.Details.Duplicates)
	return result
}

func reject(into *[]RejectedEntry, email, reason string) {
	*into = append(*into, RejectedEntry{Email: email, Reason: reason})
	label := "failed"
	if reason == ReasonDuplicate {
		label = "duplicate"
	}
	metrics.BulkImportRecords.WithLabelValues(label).Inc()
}

func newEntry(email string, in Entry) *models.AllowedUser {
	var name *string
	if trimmed := strings.TrimSpace(in.Name); trimmed != "" {
		name = &trimmed
	}
	return &models.AllowedUser{
		Email: email,
		Name:  name,
		Role:  models.AllowListRole(in.Role),
	}
}

func emailExists(tx *gorm.DB, email string) (bool, error) {
	var count int64
	if err := tx.Model(&models.AllowedUser{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func orUnknown(email string) string {
	if strings.TrimSpace(email) == "" {
		return "unknown"
	}
	return email
}
