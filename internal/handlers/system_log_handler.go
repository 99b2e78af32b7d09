package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/apperror"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
)

const (
	defaultLogLimit = 100
	maxLogLimit     = 500
)

// SystemLogHandler lists records captured by the database log sink.
type SystemLogHandler struct {
	db *gorm.DB
}

func NewSystemLogHandler(db *gorm.DB) *SystemLogHandler {
	return &SystemLogHandler{db: db}
}

func (h *SystemLogHandler) List(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultLogLimit)
	switch {
	case limit < 1:
		limit = defaultLogLimit
	case limit > maxLogLimit:
		limit = maxLogLimit
	}

	query := h.db.WithContext(c.UserContext()).Order("timestamp DESC").Limit(limit)
	if level := strings.ToUpper(c.Query("level")); level != "" {
		query = query.Where("level = ?", level)
	}

	var logs []models.SystemLog
	if err := query.Find(&logs).Error; err != nil {
		return apperror.Respond(c, err)
	}

	return c.JSON(fiber.Map{
		"logs":  logs,
		"count": len(logs),
	})
}
