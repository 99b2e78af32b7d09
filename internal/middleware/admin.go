package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/config"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/dto"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/metrics"
)

// AdminRequired guards /api/admin/* with a shared bearer secret and an optional
// client IP allow-list. It is not tied to any user account.
func AdminRequired(cfg *config.Config) fiber.Handler {
	allowedIPs := parseCSV(cfg.AdminAllowedIPs)
	secret := cfg.AdminSecretKey

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || secret == "" {
			return deny(c, fiber.StatusUnauthorized, "missing_token", "인증되지 않은 접근입니다.")
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return deny(c, fiber.StatusUnauthorized, "malformed_token", "잘못된 토큰 형식입니다.")
		}

		if token != secret {
			return deny(c, fiber.StatusForbidden, "invalid_token", "유효하지 않은 토큰입니다.")
		}

		ip := ClientIP(c)
		if len(allowedIPs) > 0 && !contains(allowedIPs, ip) {
			slog.Warn("admin access blocked by ip allow-list", "ip", ip, "path", c.Path())
			return deny(c, fiber.StatusForbidden, "ip_blocked", "허용되지 않은 IP입니다.")
		}

		slog.Info("admin api access", "path", c.Path(), "method", c.Method(), "ip", ip)
		metrics.AdminGate.WithLabelValues("admitted").Inc()
		return c.Next()
	}
}

func deny(c *fiber.Ctx, status int, outcome, message string) error {
	metrics.AdminGate.WithLabelValues(outcome).Inc()
	return c.Status(status).JSON(dto.ErrorResponse{Error: message})
}

// ClientIP prefers proxy headers: the first X-Forwarded-For hop, then X-Real-IP,
// then the socket address.
func ClientIP(c *fiber.Ctx) string {
	if fwd := c.Get(fiber.HeaderXForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(c.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return c.IP()
}

func parseCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func contains(list []string, val string) bool {
	for _, item := range list {
		if item == val {
			return true
		}
	}
	return false
}
