package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openMemory(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestPassword(t *testing.T) {
	u := &User{}
	assert.False(t, u.CheckPassword(""))

	require.NoError(t, u.SetPassword("hunter22"))
	assert.NotEqual(t, "hunter22", u.Pwd)
	assert.True(t, u.CheckPassword("hunter22"))
	assert.False(t, u.CheckPassword("hunter23"))

	var nobody *User
	assert.False(t, nobody.CheckPassword("hunter22"))
}

func TestDisplayNames(t *testing.T) {
	api := Interface{Method: "GET", Format: "/items/{id}"}
	assert.Equal(t, "[ GET ] /items/{id}", api.String())
	assert.Equal(t, "Web API", api.Caption())

	url := "https://github.com/example/repo"
	assert.Equal(t, url, (&Project{GithubURL: &url}).GithubLink())
	assert.Empty(t, (&Project{}).GithubLink())

	var item ProjectItem = &Download{ProjectID: 3}
	item.SetOwner(7)
	assert.Equal(t, uint(7), item.OwnerID())
}

func TestColumnMismatchReport(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, db.AutoMigrate(All()...))

	report, err := ColumnMismatchReport(db)
	require.NoError(t, err)
	assert.Empty(t, report)

	require.NoError(t, db.Exec("ALTER TABLE projects ADD COLUMN legacy_flag INTEGER").Error)
	require.NoError(t, db.Exec("ALTER TABLE projects ADD COLUMN created_at DATETIME").Error)

	report, err = ColumnMismatchReport(db)
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"projects": {"created_at", "legacy_flag"}}, report)
}

func TestColumnMismatchReportSkipsMissingTables(t *testing.T) {
	db := openMemory(t)
	require.NoError(t, db.AutoMigrate(&User{}))

	report, err := ColumnMismatchReport(db)
	require.NoError(t, err)
	assert.Empty(t, report)
}
