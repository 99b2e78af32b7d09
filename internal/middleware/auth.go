package middleware

import (
	"strings"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/config"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/dto"
)

// Paths that never carry a session token.
var sessionSkipPaths = []string{
	"/api/health",
	"/api/auth/",
	"/api/admin/",
}

// SessionToken validates the bearer session token and stores it under
// c.Locals("user") for identity.TokenResolver. Only mounted when AUTH_MODE=token.
func SessionToken(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		Filter: func(c *fiber.Ctx) bool {
			path := c.Path()
			for _, skip := range sessionSkipPaths {
				if strings.HasPrefix(path, skip) {
					return true
				}
			}
			return false
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: "인증이 필요합니다. 다시 로그인해 주세요.",
			})
		},
	})
}
