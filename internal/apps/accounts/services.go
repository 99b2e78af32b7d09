package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/apperror"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/identity"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/metrics"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
)

var (
	ErrSignupFieldsRequired = apperror.Validation("모든 필드를 입력해 주세요.")
	ErrInvalidRole          = apperror.Validation("유효하지 않은 역할입니다.")
	ErrNotAllowed           = apperror.Forbidden("가입이 허용되지 않은 이메일입니다.")
	ErrAlreadyRegistered    = apperror.Conflict("이미 가입된 사용자입니다.")
	ErrEmailTaken           = apperror.Conflict("이미 존재하는 이메일입니다.")

	ErrSigninFieldsRequired = apperror.Validation("이메일과 비밀번호를 입력해 주세요.")
	ErrUnknownEmail         = apperror.NotFound("존재하지 않는 이메일입니다.")
	ErrWrongPassword        = apperror.Unauthenticated("비밀번호가 올바르지 않습니다.")
)

type SignupInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AccountService handles the allow-list signup gate, sign-in and the user directory.
type AccountService struct {
	db     *gorm.DB
	issuer *identity.Issuer
	hash   func(password []byte, cost int) ([]byte, error)
}

// NewAccountService wires the service. issuer may be nil, in which case sign-in
// returns no session token.
func NewAccountService(db *gorm.DB, issuer *identity.Issuer) *AccountService {
	return &AccountService{db: db, issuer: issuer, hash: bcrypt.GenerateFromPassword}
}

// Signup consumes an allow-list entry. The user insert and the
// isRegistered flip commit together or not at all.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" || in.Role == "" {
		metrics.SignupAttempts.WithLabelValues("invalid").Inc()
		return nil, ErrSignupFieldsRequired
	}
	role, ok := models.ParseSignupRole(in.Role)
	if !ok {
		metrics.SignupAttempts.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidRole
	}
	email := models.NormalizeEmail(in.Email)

	user := &models.User{
		Name:  strings.TrimSpace(in.Name),
		Email: email,
		Role:  role,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var allowed models.AllowedUser
		if err := tx.Where("email = ?", email).First(&allowed).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotAllowed
			}
			return err
		}
		if allowed.IsRegistered {
			return ErrAlreadyRegistered
		}

		var existing int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrEmailTaken
		}

		// Hash only once the gate has admitted the email.
		hash, err := s.hash([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		user.Password = string(hash)

		if err := tx.Create(user).Error; err != nil {
			return err
		}

		// Conditional flip: a concurrent signup for the same entry loses here.
		result := tx.Model(&models.AllowedUser{}).
			Where("email = ? AND is_registered = ?", email, false).
			Update("is_registered", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyRegistered
		}
		return nil
	})
	if err != nil {
		metrics.SignupAttempts.WithLabelValues(signupOutcome(err)).Inc()
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperror.Internal(fmt.Errorf("signup %s: %w", email, err))
	}

	metrics.SignupAttempts.WithLabelValues("created").Inc()
	return user, nil
}

func signupOutcome(err error) string {
	switch {
	case errors.Is(err, ErrNotAllowed):
		return "not_allowed"
	case errors.Is(err, ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, ErrEmailTaken):
		return "email_taken"
	default:
		return "error"
	}
}

// Signin verifies credentials. The token is empty unless an issuer is configured.
func (s *AccountService) Signin(ctx context.Context, email, password string) (*models.User, string, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", ErrSigninFieldsRequired
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", models.NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrUnknownEmail
		}
		return nil, "", apperror.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrWrongPassword
	}

	if s.issuer == nil {
		return &user, "", nil
	}
	token, err := s.issuer.Issue(&user)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}
	return &user, token, nil
}

// ListUsers returns every user, newest first, with profiles attached.
func (s *AccountService) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Preload("Profile").
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return users, nil
}
