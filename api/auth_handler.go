package api

import (
	"errors"
	"net/http"

	"github.com/rpupo63/research-project-pages/auth"
	"github.com/rpupo63/research-project-pages/database"
	"github.com/rpupo63/research-project-pages/errs"
	"github.com/rpupo63/research-project-pages/forms"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	sessions  *auth.Manager
	userRepo  *database.UserRepo
}

func newAuthHandler(userRepo *database.UserRepo, sessions *auth.Manager, views *views) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		responder: NewResponder(logger, views, sessions),
		logger:    logger,
		sessions:  sessions,
		userRepo:  userRepo,
	}
}

// signin checks the credentials and continues to ?next= (local paths only) or the index
func (h authHandler) signin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ctxGetUser(r.Context()) != nil {
			h.responder.Redirect(w, r, "/")
			return
		}

		form := forms.NewSigninForm(h.userRepo)

		if r.Method == http.MethodPost {
			if err := parseBody(w, r); err != nil {
				h.responder.WriteError(w, r, err)
				return
			}
			form.Parse(r.PostForm)
			switch err := form.Validate(); {
			case errors.Is(err, errs.ErrInvalidCredentials):
				h.logger.Warn().Str("email", form.Email).Msg("Sign in rejected")
			case err != nil:
				h.responder.WriteError(w, r, wrapDatabaseError("find", "user", err))
				return
			default:
				if err := h.sessions.Login(w, r, form.User.ID, form.Remember); err != nil {
					h.responder.WriteError(w, r, err)
					return
				}
				h.logger.Info().Uint("userID", form.User.ID).Bool("remember", form.Remember).Msg("User signed in")
				h.responder.Redirect(w, r, safeNext(r.URL.Query().Get("next")))
				return
			}
		}

		h.responder.Render(w, r, http.StatusOK, "signin.html", viewData{
			"Title":  "Sign In",
			"Fields": form.Fields(),
		})
	}
}

func (h authHandler) signout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.sessions.Logout(w, r); err != nil {
			h.responder.WriteError(w, r, err)
			return
		}
		h.responder.Redirect(w, r, "/")
	}
}
