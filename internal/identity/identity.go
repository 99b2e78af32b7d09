// Package identity resolves the caller of a request to a stored user.
//
// Two resolvers exist. AmbientResolver trusts a caller-supplied user id after
// checking that it exists. TokenResolver takes the user from a signed session
// token and only accepts a caller-supplied id that agrees with it. Handlers see
// the same *models.User either way.
package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/apperror"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
)

var (
	ErrMissing  = errors.New("caller identity missing")
	ErrUnknown  = errors.New("caller identity unknown")
	ErrMismatch = errors.New("caller identity does not match session")
)

type Resolver interface {
	// Resolve returns the calling user. claimed is the user id the request
	// carries in its query or body, possibly empty.
	Resolve(c *fiber.Ctx, claimed string) (*models.User, error)
}

// Responses maps resolver failures to the endpoint's own error responses.
type Responses struct {
	Missing *apperror.Error
	Unknown *apperror.Error
}

// Map converts a Resolve error. A mismatch is always forbidden.
func (r Responses) Map(err error) error {
	switch {
	case errors.Is(err, ErrMissing):
		return r.Missing
	case errors.Is(err, ErrUnknown):
		return r.Unknown
	case errors.Is(err, ErrMismatch):
		return apperror.Forbidden("요청한 사용자와 인증된 사용자가 일치하지 않습니다.")
	default:
		return apperror.Internal(err)
	}
}

// FindUser loads a user by its textual id. Unparseable ids are unknown, not errors.
func FindUser(db *gorm.DB, id string) (*models.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUnknown
	}
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknown
		}
		return nil, err
	}
	return &user, nil
}

// AmbientResolver trusts the caller-supplied id.
type AmbientResolver struct {
	db *gorm.DB
}

func NewAmbientResolver(db *gorm.DB) *AmbientResolver {
	return &AmbientResolver{db: db}
}

func (r *AmbientResolver) Resolve(c *fiber.Ctx, claimed string) (*models.User, error) {
	if claimed == "" {
		return nil, ErrMissing
	}
	return FindUser(r.db.WithContext(c.UserContext()), claimed)
}
