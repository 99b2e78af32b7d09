package logging

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
)

// StartCleanup purges system_logs older than retentionDays once at start and
// then daily until done is closed.
func StartCleanup(db *gorm.DB, retentionDays int, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			purge(db, retentionDays)
			select {
			case <-ticker.C:
			case <-done:
				return
			}
		}
	}()
}

func purge(db *gorm.DB, retentionDays int) {
	deleted, err := PurgeOlderThan(db, time.Now().AddDate(0, 0, -retentionDays))
	if err != nil {
		slog.Error("log cleanup failed", "error", err)
		return
	}
	if deleted > 0 {
		slog.Info("log cleanup completed", "deleted", deleted, "retention_days", retentionDays)
	}
}

// PurgeOlderThan deletes system_logs with a timestamp before cutoff.
func PurgeOlderThan(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}
