package database

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/HYOJIN-JEON1/KDT-platform/internal/config"
	"github.com/HYOJIN-JEON1/KDT-platform/internal/models"
)

func TestConnect_SQLiteMigrateAndClose(t *testing.T) {
	cfg := &config.Config{DBDriver: config.DriverSQLite, DBPath: filepath.Join(t.TempDir(), "kdt.db")}

	db, err := Connect(cfg)
	require.NoError(t, err)
	require.NoError(t, MigrateShared(db))
	require.NoError(t, MigrateModels(db, nil))

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.AllowedUser{}))
	assert.True(t, db.Migrator().HasTable(&models.Profile{}))
	assert.True(t, db.Migrator().HasTable(&models.SystemLog{}))

	require.NoError(t, Ping(db))
	require.NoError(t, Close(db))
	assert.Error(t, Ping(db), "ping after close must fail")
}

func TestPing_ReportsDriverFailure(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer func() { _ = sqlDB.Close() }()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	assert.EqualError(t, Ping(db), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}
