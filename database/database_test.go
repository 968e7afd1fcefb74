package database

import (
	"context"
	"testing"
	"time"

	"github.com/rpupo63/research-project-pages/config"
	"github.com/rpupo63/research-project-pages/errs"
	"github.com/rpupo63/research-project-pages/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func newTestDB(t *testing.T) Database {
	t.Helper()
	gdb, err := Open(&config.Config{DBType: "sqlite", DBDSN: ":memory:?_foreign_keys=on"})
	require.NoError(t, err)
	db := New(gdb)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func seedProject(t *testing.T, db Database, slug string) *models.Project {
	t.Helper()
	p := &models.Project{Name: "Project " + slug, ShortName: slug, ShortDesc: "short", Desc: "long", APIDesc: "api"}
	require.NoError(t, db.ProjectRepo().Create(p))
	return p
}

func TestRecordsGet(t *testing.T) {
	db := newTestDB(t)
	p := seedProject(t, db, "alpha")

	for _, id := range []any{p.ID, int(p.ID), int64(p.ID), float64(p.ID), "1"} {
		got, err := db.ProjectRepo().Get(id)
		require.NoError(t, err)
		require.NotNil(t, got, "id %v", id)
		assert.Equal(t, "alpha", got.ShortName)
	}

	for _, id := range []any{"-1", "abc", "", " 1", "1.5", 1.5, 0, -3, nil, "999"} {
		got, err := db.ProjectRepo().Get(id)
		assert.NoError(t, err)
		assert.Nil(t, got, "id %v", id)
	}
}

func TestRecordsCreateSaveDelete(t *testing.T) {
	db := newTestDB(t)
	p := seedProject(t, db, "alpha")
	assert.NotZero(t, p.ID)
	assert.False(t, p.UpdateDate.IsZero())

	first := p.UpdateDate
	time.Sleep(10 * time.Millisecond)
	p.Name = "Renamed"
	require.NoError(t, db.ProjectRepo().Save(p))

	got, err := db.ProjectRepo().Get(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.True(t, got.UpdateDate.After(first))

	dl := &models.Download{Name: "data", URL: "https://example.org/data.zip", ProjectID: p.ID}
	require.NoError(t, db.DownloadRepo().Save(dl))
	assert.NotZero(t, dl.ID)

	require.NoError(t, db.DownloadRepo().Delete(dl))
	gone, err := db.DownloadRepo().Get(dl.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	n, err := db.ProjectRepo().Count()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestUniqueSlug(t *testing.T) {
	db := newTestDB(t)
	seedProject(t, db, "alpha")

	dup := &models.Project{Name: "Other", ShortName: "alpha", ShortDesc: "s", Desc: "d", APIDesc: "a"}
	err := db.ProjectRepo().Create(dup)
	require.Error(t, err)
	assert.True(t, errs.IsUniqueViolation(err))

	all, err := db.ProjectRepo().All()
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFindBySlug(t *testing.T) {
	db := newTestDB(t)
	seedProject(t, db, "alpha")

	p, err := db.ProjectRepo().FindBySlug("alpha")
	require.NoError(t, err)
	require.NotNil(t, p)

	missing, err := db.ProjectRepo().FindBySlug("nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLoadChildren(t *testing.T) {
	db := newTestDB(t)
	p := seedProject(t, db, "alpha")
	other := seedProject(t, db, "beta")

	require.NoError(t, db.PublicationRepo().Create(&models.Publication{
		Title: "Paper", Authors: "A. Author", Publisher: "Journal",
		Date: datatypes.Date(time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)), ProjectID: p.ID,
	}))
	api := &models.Interface{Method: "GET", Format: "/items", Desc: "d", Returns: "r", Example: "e", ProjectID: p.ID}
	require.NoError(t, db.InterfaceRepo().Create(api))
	require.NoError(t, db.ParameterRepo().Create(&models.Parameter{Name: "id", Desc: "item id", APIID: api.ID}))
	require.NoError(t, db.ContactRepo().Create(&models.Contact{Name: "Ann", Email: "ann@example.org", ProjectID: other.ID}))

	require.NoError(t, db.ProjectRepo().LoadChildren(p))
	assert.Len(t, p.Publications, 1)
	assert.Len(t, p.Interfaces, 1)
	assert.Empty(t, p.Contacts)

	params, err := db.InterfaceRepo().Params(api)
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "id", params[0].Name)
}

func TestManagers(t *testing.T) {
	db := newTestDB(t)
	p := seedProject(t, db, "alpha")
	q := seedProject(t, db, "beta")

	u := &models.User{Email: "m@example.org", Name: "Manager"}
	require.NoError(t, u.SetPassword("secret"))
	require.NoError(t, db.UserRepo().Create(u))

	ok, err := db.ProjectRepo().IsManager(p, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.UserRepo().SetProjects(u, []uint{p.ID, q.ID}))
	ok, err = db.ProjectRepo().IsManager(p, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, db.UserRepo().SetProjects(u, []uint{q.ID}))
	ok, err = db.ProjectRepo().IsManager(p, u.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	projects, err := db.UserRepo().Projects(u)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "beta", projects[0].ShortName)

	managers, err := db.ProjectRepo().Managers(q)
	require.NoError(t, err)
	require.Len(t, managers, 1)
	assert.Equal(t, u.Email, managers[0].Email)

	require.NoError(t, db.UserRepo().SetProjects(u, nil))
	projects, err = db.UserRepo().Projects(u)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestDeleteInterfaceWithParams(t *testing.T) {
	db := newTestDB(t)
	p := seedProject(t, db, "alpha")
	api := &models.Interface{Method: "GET", Format: "/items", Desc: "d", Returns: "r", Example: "e", ProjectID: p.ID}
	require.NoError(t, db.InterfaceRepo().Create(api))
	kept := &models.Interface{Method: "POST", Format: "/items", Desc: "d", Returns: "r", Example: "e", ProjectID: p.ID}
	require.NoError(t, db.InterfaceRepo().Create(kept))
	require.NoError(t, db.ParameterRepo().Create(&models.Parameter{Name: "id", Desc: "item id", APIID: api.ID}))
	require.NoError(t, db.ParameterRepo().Create(&models.Parameter{Name: "q", Desc: "query", APIID: api.ID}))
	require.NoError(t, db.ParameterRepo().Create(&models.Parameter{Name: "body", Desc: "payload", APIID: kept.ID}))

	err := db.InterfaceRepo().Delete(api)
	require.Error(t, err)
	assert.True(t, errs.IsForeignKeyViolation(err))

	require.NoError(t, db.InterfaceRepo().DeleteWithParams(api))

	gone, err := db.InterfaceRepo().Get(api.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	params, err := db.ParameterRepo().All()
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "body", params[0].Name)
}

func TestSaveWithProjects(t *testing.T) {
	db := newTestDB(t)
	p := seedProject(t, db, "alpha")
	q := seedProject(t, db, "beta")

	u := &models.User{Email: "m@example.org", Name: "Manager"}
	require.NoError(t, u.SetPassword("secret"))
	require.NoError(t, db.UserRepo().CreateWithProjects(u, []uint{p.ID}))
	projects, err := db.UserRepo().Projects(u)
	require.NoError(t, err)
	require.Len(t, projects, 1)

	u.Name = "Renamed"
	require.NoError(t, db.UserRepo().SaveWithProjects(u, []uint{q.ID}))
	saved, err := db.UserRepo().Get(u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", saved.Name)
	projects, err = db.UserRepo().Projects(u)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "beta", projects[0].ShortName)

	t.Run("rolled back when projects cannot be written", func(t *testing.T) {
		require.NoError(t, db.db.Migrator().DropTable("project_managers"))

		u.Name = "Lost"
		require.Error(t, db.UserRepo().SaveWithProjects(u, []uint{p.ID}))
		saved, err := db.UserRepo().Get(u.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", saved.Name)

		fresh := &models.User{Email: "n@example.org", Name: "New"}
		require.Error(t, db.UserRepo().CreateWithProjects(fresh, []uint{p.ID}))
		missing, err := db.UserRepo().FindByEmail("n@example.org")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestEnsureAdmin(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, db.EnsureAdmin("", "x", "y"))
	users, err := db.UserRepo().FindAll()
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, db.EnsureAdmin("admin@example.org", "Admin", "hunter22"))
	require.NoError(t, db.EnsureAdmin("admin@example.org", "Admin", "hunter22"))

	admin, err := db.UserRepo().FindByEmail("admin@example.org")
	require.NoError(t, err)
	require.NotNil(t, admin)
	assert.True(t, admin.IsAdmin)
	assert.NotEqual(t, "hunter22", admin.Pwd)
	assert.True(t, admin.CheckPassword("hunter22"))

	users, err = db.UserRepo().FindAll()
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestPing(t *testing.T) {
	db := newTestDB(t)
	assert.NoError(t, db.Ping(context.Background()))
}

func TestOpenUnsupported(t *testing.T) {
	_, err := Open(&config.Config{DBType: "oracle", DBDSN: "x"})
	assert.Error(t, err)
}
