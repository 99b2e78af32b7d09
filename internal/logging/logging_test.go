package logging

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/testutil"
)

func TestDBHandler_PersistsErrorsOnly(t *testing.T) {
	db := testutil.NewDB(t)
	sink := NewDBHandler(db)
	logger := slog.New(sink).With("request_id", "req-1")

	logger.Info("ignored")
	logger.Error("boom",
		"method", "POST",
		"path", "/api/proposals",
		"error", errors.New("db down"),
		"user_id", "u-1",
		"attempt", 2,
	)
	sink.Stop()

	var logs []models.SystemLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)

	entry := logs[0]
	assert.Equal(t, "ERROR", entry.Level)
	assert.Equal(t, "boom", entry.Message)
	assert.Equal(t, "req-1", entry.RequestID)
	assert.Equal(t, "POST", entry.Method)
	assert.Equal(t, "/api/proposals", entry.Path)
	assert.Equal(t, "db down", entry.Error)
	require.NotNil(t, entry.UserID)
	assert.Equal(t, "u-1", *entry.UserID)

	var extra map[string]any
	require.NoError(t, json.Unmarshal(entry.Extra, &extra))
	assert.EqualValues(t, 2, extra["attempt"])
}

func TestDBHandler_StopIsIdempotent(t *testing.T) {
	sink := NewDBHandler(testutil.NewDB(t))
	sink.Stop()
	sink.Stop()
}

type recordingHandler struct {
	level   slog.Level
	records []string
	err     error
}

func (r *recordingHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= r.level }
func (r *recordingHandler) Handle(_ context.Context, rec slog.Record) error {
	r.records = append(r.records, rec.Message)
	return r.err
}
func (r *recordingHandler) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *recordingHandler) WithGroup(string) slog.Handler      { return r }

func TestMultiHandler_FansOutPastFailures(t *testing.T) {
	failing := &recordingHandler{level: slog.LevelDebug, err: errors.New("sink down")}
	errorsOnly := &recordingHandler{level: slog.LevelError}
	multi := NewMultiHandler(failing, nil, errorsOnly)

	assert.True(t, multi.Enabled(context.Background(), slog.LevelInfo))

	info := slog.NewRecord(time.Now(), slog.LevelInfo, "info", 0)
	assert.Error(t, multi.Handle(context.Background(), info))

	errRec := slog.NewRecord(time.Now(), slog.LevelError, "error", 0)
	assert.Error(t, multi.Handle(context.Background(), errRec))

	assert.Equal(t, []string{"info", "error"}, failing.records)
	assert.Equal(t, []string{"error"}, errorsOnly.records)
}

func TestPurgeOlderThan(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Now()
	require.NoError(t, db.Create(&[]models.SystemLog{
		{Timestamp: now.AddDate(0, 0, -40), Level: "ERROR", Message: "old"},
		{Timestamp: now.Add(-time.Hour), Level: "ERROR", Message: "recent"},
	}).Error)

	deleted, err := PurgeOlderThan(db, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	var remaining []models.SystemLog
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "recent", remaining[0].Message)
}
