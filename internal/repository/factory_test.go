package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestGormDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestNewRepositories(t *testing.T) {
	t.Run("SQLite", func(t *testing.T) {
		db := newTestGormDB(t)
		repos, err := NewRepositories(db, "sqlite")
		require.NoError(t, err)
		require.NotNil(t, repos)
		assert.NotNil(t, repos.Run)
		assert.NotNil(t, repos.Task)
	})

	t.Run("Default", func(t *testing.T) {
		db := newTestGormDB(t)
		repos, err := NewRepositories(db, "unknown")
		require.NoError(t, err)
		require.NotNil(t, repos)
		assert.NotNil(t, repos.Run)
		assert.NotNil(t, repos.Task)
	})
}

func TestRepositories_Close(t *testing.T) {
	db := newTestGormDB(t)
	repos, err := NewRepositories(db, "sqlite")
	require.NoError(t, err)

	assert.NoError(t, repos.Close())
}

func TestRepositories_DB(t *testing.T) {
	db := newTestGormDB(t)
	repos, err := NewRepositories(db, "sqlite")
	require.NoError(t, err)

	sqlDB := repos.DB()
	assert.NotNil(t, sqlDB)
}

func TestRepositories_GormDB(t *testing.T) {
	db := newTestGormDB(t)
	repos, err := NewRepositories(db, "sqlite")
	require.NoError(t, err)

	gormDB := repos.GormDB()
	assert.Equal(t, db, gormDB)
}

func TestDBConfig_Validation(t *testing.T) {
	t.Run("ValidPostgresConfig", func(t *testing.T) {
		cfg := &DBConfig{
			Type:     "postgres",
			Host:     "localhost",
			Port:     5432,
			Database: "testdb",
			User:     "testuser",
			Password: "testpass",
			MaxConns: 10,
		}
		assert.Equal(t, "postgres", cfg.Type)
		assert.Equal(t, 5432, cfg.Port)
	})

	t.Run("ValidMySQLConfig", func(t *testing.T) {
		cfg := &DBConfig{
			Type:     "mysql",
			Host:     "localhost",
			Port:     3306,
			Database: "testdb",
			User:     "testuser",
			Password: "testpass",
			MaxConns: 10,
		}
		assert.Equal(t, "mysql", cfg.Type)
		assert.Equal(t, 3306, cfg.Port)
	})

	t.Run("ValidSQLiteConfig", func(t *testing.T) {
		cfg := &DBConfig{Type: "sqlite", Database: ":memory:"}
		assert.Equal(t, "sqlite", cfg.Type)
	})
}
