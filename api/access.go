package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/research-project-pages/database"
	"github.com/rpupo63/research-project-pages/errs"
	"github.com/rpupo63/research-project-pages/models"
)

// access resolves the project named in the URL and decides who may change it.
type access struct {
	projects *database.ProjectRepo
}

func newAccess(projects *database.ProjectRepo) access {
	return access{projects: projects}
}

// project returns the project whose short name is the {slug} URL parameter, or a 404 error.
func (a access) project(r *http.Request) (*models.Project, error) {
	slug := chi.URLParam(r, "slug")
	project, err := a.projects.FindBySlug(slug)
	if err != nil {
		return nil, wrapDatabaseError("find", "project", err)
	}
	if project == nil {
		return nil, errs.NewNotFoundError("project " + slug)
	}
	return project, nil
}

// authorize allows admins and the project's managers.
func (a access) authorize(r *http.Request, project *models.Project) error {
	user := ctxGetUser(r.Context())
	if user == nil {
		return errs.Unauthorized
	}
	if user.IsAdmin {
		return nil
	}
	ok, err := a.projects.IsManager(project, user.ID)
	if err != nil {
		return wrapDatabaseError("check managers of", "project", err)
	}
	if !ok {
		return errs.NewNotProjectManagerError(project.ShortName)
	}
	return nil
}

// requireAdmin allows admins only.
func requireAdmin(r *http.Request) error {
	if user := ctxGetUser(r.Context()); user == nil || !user.IsAdmin {
		return errs.NewAdminRequiredError()
	}
	return nil
}
