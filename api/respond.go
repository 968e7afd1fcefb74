package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/rpupo63/research-project-pages/auth"
	"github.com/rpupo63/research-project-pages/errs"
	"github.com/rs/zerolog"
)

type Responder struct {
	logger   zerolog.Logger
	views    *views
	sessions *auth.Manager
}

func NewResponder(logger zerolog.Logger, views *views, sessions *auth.Manager) Responder {
	return Responder{logger: logger, views: views, sessions: sessions}
}

// Render writes an HTML page. The signed-in user, pending flash messages and the CSRF token
// are added to data.
func (r Responder) Render(w http.ResponseWriter, req *http.Request, status int, page string, data viewData) {
	if data == nil {
		data = viewData{}
	}
	data["CurrentUser"] = ctxGetUser(req.Context())
	data["Flashes"] = r.sessions.Flashes(w, req)
	data["CSRFToken"] = csrf.Token(req)

	var buf bytes.Buffer
	if err := r.views.render(&buf, page, data); err != nil {
		r.logger.Error().Err(err).Str("page", page).Msg("error rendering page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteJSON(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteError renders the error page with the status carried by err. Anything that is not an
// ApiErr is logged and shown as a generic 500.
func (r Responder) WriteError(w http.ResponseWriter, req *http.Request, err error) {
	status := errs.StatusCode(err)
	message := http.StatusText(status)

	var apiErr *errs.ApiErr
	switch {
	case !errors.As(err, &apiErr):
		r.logger.Error().Err(err).Str("path", req.URL.Path).Msg("unexpected error")
	case status >= http.StatusInternalServerError:
		r.logger.Error().Str("error", apiErr.GetFullError()).Str("path", req.URL.Path).Msg("request failed")
	default:
		r.logger.Debug().Str("error", apiErr.Error()).Str("path", req.URL.Path).Msg("request rejected")
	}

	r.Render(w, req, status, "error.html", viewData{
		"Title":   message,
		"Status":  status,
		"Message": message,
	})
}

// Flash queues msg for the next page shown to this browser.
func (r Responder) Flash(w http.ResponseWriter, req *http.Request, msg string) {
	if err := r.sessions.AddFlash(w, req, msg); err != nil {
		r.logger.Error().Err(err).Msg("error saving flash message")
	}
}

// Redirect answers with 303 See Other so the browser follows up with a GET.
func (r Responder) Redirect(w http.ResponseWriter, req *http.Request, target string) {
	http.Redirect(w, req, target, http.StatusSeeOther)
}

// wrapDatabaseError wraps a database error with context information
func wrapDatabaseError(operation, entity string, cause error) error {
	return errs.NewDatabaseError(operation, entity, cause)
}
