package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
)

// Issuer signs HS256 session tokens whose subject is the user id.
type Issuer struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

func NewIssuer(secret string, expiry time.Duration) *Issuer {
	return &Issuer{secret: []byte(secret), expiry: expiry, now: time.Now}
}

func (i *Issuer) Issue(user *models.User) (string, error) {
	now := i.now()
	claims := jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(i.expiry).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// TokenResolver reads the session token the JWT middleware stored under
// c.Locals("user").
type TokenResolver struct {
	db *gorm.DB
}

func NewTokenResolver(db *gorm.DB) *TokenResolver {
	return &TokenResolver{db: db}
}

func (r *TokenResolver) Resolve(c *fiber.Ctx, claimed string) (*models.User, error) {
	subject, err := SubjectFromContext(c)
	if err != nil {
		return nil, ErrMissing
	}
	if claimed != "" && claimed != subject {
		return nil, ErrMismatch
	}
	return FindUser(r.db.WithContext(c.UserContext()), subject)
}

// SubjectFromContext extracts the sub claim of a validated token.
func SubjectFromContext(c *fiber.Ctx) (string, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return "", errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", errors.New("missing sub claim")
	}
	return sub, nil
}
