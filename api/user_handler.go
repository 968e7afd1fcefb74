package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/research-project-pages/auth"
	"github.com/rpupo63/research-project-pages/database"
	"github.com/rpupo63/research-project-pages/errs"
	"github.com/rpupo63/research-project-pages/forms"
	"github.com/rpupo63/research-project-pages/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const msgEmailTaken = "This email is already in use."

type userHandler struct {
	responder   Responder
	logger      zerolog.Logger
	userRepo    *database.UserRepo
	projectRepo *database.ProjectRepo
}

func newUserHandler(db database.Database, sessions *auth.Manager, views *views) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder:   NewResponder(logger, views, sessions),
		logger:      logger,
		userRepo:    db.UserRepo(),
		projectRepo: db.ProjectRepo(),
	}
}

// listUsers shows every account; admins only
func (h userHandler) listUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := requireAdmin(r); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		users, err := h.userRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("find", "users", err))
			return
		}

		h.responder.Render(w, r, http.StatusOK, "list_users.html", viewData{
			"Title": "Users",
			"Users": users,
		})
	}
}

// editUser edits an account. Admins may edit anyone; other users only themselves, and they
// cannot change their projects or admin flag.
func (h userHandler) editUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := ctxGetUser(r.Context())

		userID, err := strconv.ParseUint(chi.URLParam(r, "userID"), 10, 64)
		if err != nil {
			h.responder.WriteError(w, r, errs.NewNotFoundError("user"))
			return
		}

		if !current.IsAdmin && uint64(current.ID) != userID {
			h.responder.WriteError(w, r, errs.NewForbiddenError("edit another user"))
			return
		}

		user, err := h.userRepo.Get(userID)
		if err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("find", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, r, errs.NewNotFoundError("user"))
			return
		}

		managed, err := h.userRepo.Projects(user)
		if err != nil {
			h.responder.WriteError(w, r, wrapDatabaseError("find projects of", "user", err))
			return
		}
		form, err := h.newUserForm(current)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		form.Fill(user, managed)

		if r.Method == http.MethodPost {
			if err := parseBody(w, r); err != nil {
				h.responder.WriteError(w, r, err)
				return
			}
			form.Parse(r.PostForm)
			if form.Validate() {
				switch {
				case !current.IsAdmin:
					form.IsAdmin = user.IsAdmin
				case current.ID == user.ID:
					form.IsAdmin = true
				}

				updated := *user
				form.Apply(&updated)
				write := h.userRepo.Save
				if current.IsAdmin {
					write = func(u *models.User) error { return h.userRepo.SaveWithProjects(u, form.ProjectIDs) }
				}
				saved, err := h.save(form, &updated, write)
				if err != nil {
					h.responder.WriteError(w, r, err)
					return
				}
				if saved {
					h.responder.Flash(w, r, "User information was successfully updated.")
					h.responder.Redirect(w, r, editUserURL(updated.ID))
					return
				}
			}
		}

		h.responder.Render(w, r, http.StatusOK, "edit_user.html", viewData{
			"Title":  "Edit User",
			"User":   user,
			"Fields": form.Fields(),
		})
	}
}

// createUser adds an account with a password; admins only
func (h userHandler) createUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := ctxGetUser(r.Context())
		if err := requireAdmin(r); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}

		userForm, err := h.newUserForm(current)
		if err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		form := &forms.SignupForm{UserForm: *userForm}

		if r.Method == http.MethodPost {
			if err := parseBody(w, r); err != nil {
				h.responder.WriteError(w, r, err)
				return
			}
			form.Parse(r.PostForm)
			if form.Validate() {
				user := &models.User{}
				if err := form.Apply(user); err != nil {
					h.responder.WriteError(w, r, errs.NewInternalErrorWithCause("hashing password", err))
					return
				}
				saved, err := h.save(&form.UserForm, user, func(u *models.User) error {
					return h.userRepo.CreateWithProjects(u, form.ProjectIDs)
				})
				if err != nil {
					h.responder.WriteError(w, r, err)
					return
				}
				if saved {
					h.logger.Info().Str("email", user.Email).Msg("User created")
					h.responder.Flash(w, r, "User was successfully created.")
					h.responder.Redirect(w, r, "/users")
					return
				}
			}
		}

		h.responder.Render(w, r, http.StatusOK, "edit_user.html", viewData{
			"Title":  "New User",
			"Fields": form.Fields(),
		})
	}
}

// newUserForm offers every project as a choice. The selection is mandatory when an admin edits.
func (h userHandler) newUserForm(editor *models.User) (*forms.UserForm, error) {
	projects, err := h.projectRepo.FindAll()
	if err != nil {
		return nil, wrapDatabaseError("find", "projects", err)
	}
	return &forms.UserForm{Choices: projects, RequireProjects: editor.IsAdmin}, nil
}

// save stores user with write. A taken email becomes a form error and saved is false.
func (h userHandler) save(form *forms.UserForm, user *models.User, write func(*models.User) error) (bool, error) {
	err := write(user)
	switch {
	case err == nil:
		return true, nil
	case errs.IsUniqueViolation(err):
		form.AddError("email", msgEmailTaken)
		return false, nil
	default:
		return false, wrapDatabaseError("save", "user", err)
	}
}
