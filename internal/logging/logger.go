package logging

import (
	"log/slog"
	"os"

	"gorm.io/gorm"
)

// Setup installs a JSON stdout logger. Call it before anything logs.
func Setup() {
	slog.SetDefault(slog.New(stdoutHandler()))
}

// AttachDatabase re-installs the default logger so ERROR records are also
// persisted to system_logs. The returned sink must be stopped at shutdown.
func AttachDatabase(db *gorm.DB) *DBHandler {
	sink := NewDBHandler(db)
	slog.SetDefault(slog.New(NewMultiHandler(stdoutHandler(), sink)))
	return sink
}

func stdoutHandler() slog.Handler {
	return slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
}
