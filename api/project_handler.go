package api

import (
	"net/http"

	"github.com/rpupo63/research-project-pages/auth"
	"github.com/rpupo63/research-project-pages/database"
	"github.com/rpupo63/research-project-pages/errs"
	"github.com/rpupo63/research-project-pages/forms"
	"github.com/rpupo63/research-project-pages/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const msgSlugTaken = "This short name is already in use."

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	access      access
	projectRepo *database.ProjectRepo
}

func newProjectHandler(db database.Database, access access, sessions *auth.Manager, views *views) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger, views, sessions),
		logger:      logger,
		access:      access,
		projectRepo: db.ProjectRepo(),
	}
}

// index lists every project
func (h projectHandler) index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projects, err := h.projectRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("find", "projects", err))
			return
		}

		h.responder.Render(w, r, http.StatusOK, "index.html", viewData{
			"Title":    "Projects",
			"Projects": projects,
		})
	}
}

// listProjects is the admin overview of all projects
func (h projectHandler) listProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := requireAdmin(r); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		projects, err := h.projectRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("find", "projects", err))
			return
		}

		h.responder.Render(w, r, http.StatusOK, "list_projects.html", viewData{
			"Title":    "Manage Projects",
			"Projects": projects,
		})
	}
}

// showProject is the public page of one project
func (h projectHandler) showProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.access.project(r)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		if err := h.projectRepo.LoadChildren(project); err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("load children of", "project", err))
			return
		}

		canEdit := false
		if ctxGetUser(r.Context()) != nil {
			err := h.access.authorize(r, project)
			if err != nil && !errs.IsNotProjectManagerError(err) {
				h.responder.WriteError(w, r, err)
				return
			}
			canEdit = err == nil
		}

		h.responder.Render(w, r, http.StatusOK, "show_project.html", viewData{
			"Title":   project.Name,
			"Project": project,
			"CanEdit": canEdit,
		})
	}
}

// editProject edits a project's own fields and lists its children
func (h projectHandler) editProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, err := h.access.project(r)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		if err := h.access.authorize(r, project); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		if err := h.projectRepo.LoadChildren(project); err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("load children of", "project", err))
			return
		}

		form := &forms.ProjectForm{}
		form.Fill(project)

		if r.Method == http.MethodPost {
			if err := parseBody(w, r); err != nil {
				h.responder.WriteError(w, r, err)
				return
			}
			form.Parse(r.PostForm)
			if form.Validate() {
				updated := *project
				form.Apply(&updated)
				saved, err := h.save(form, &updated, h.projectRepo.Save)
				if err != nil {
					h.responder.WriteError(w, r, err)
					return
				}
				if saved {
					h.responder.Flash(w, r, "Project information was successfully updated.")
					h.responder.Redirect(w, r, editProjectURL(updated.ShortName))
					return
				}
			}
		}

		h.responder.Render(w, r, http.StatusOK, "edit_item.html", viewData{
			"Title":     project.Name,
			"Name":      project.Caption(),
			"Project":   project,
			"Item":      project.String(),
			"Fields":    form.Fields(),
			"Sections":  projectSections(project),
			"CancelURL": projectURL(project.ShortName),
		})
	}
}

// createProject adds a new project; admins only
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := requireAdmin(r); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		project := &models.Project{}
		form := &forms.ProjectForm{}

		if r.Method == http.MethodPost {
			if err := parseBody(w, r); err != nil {
				h.responder.WriteError(w, r, err)
				return
			}
			form.Parse(r.PostForm)
			if form.Validate() {
				form.Apply(project)
				saved, err := h.save(form, project, h.projectRepo.Create)
				if err != nil {
					h.responder.WriteError(w, r, err)
					return
				}
				if saved {
					h.logger.Info().Str("slug", project.ShortName).Msg("Project created")
					h.responder.Flash(w, r, "Project was successfully created.")
					h.responder.Redirect(w, r, editProjectURL(project.ShortName))
					return
				}
			}
		}

		h.responder.Render(w, r, http.StatusOK, "edit_item.html", viewData{
			"Title":     "New Project",
			"Name":      project.Caption(),
			"Fields":    form.Fields(),
			"CancelURL": "/projects",
		})
	}
}

// save stores project with write. A taken short name becomes a form error and saved is false.
func (h projectHandler) save(form *forms.ProjectForm, project *models.Project, write func(*models.Project) error) (bool, error) {
	err := write(project)
	switch {
	case err == nil:
		return true, nil
	case errs.IsUniqueViolation(err):
		form.AddError("short_name", msgSlugTaken)
		return false, nil
	default:
		return false, wrapDatabaseError("save", "project", err)
	}
}
