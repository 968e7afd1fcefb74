package api

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/rpupo63/research-project-pages/auth"
	"github.com/rpupo63/research-project-pages/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	csrfField  = "csrf_token"
	csrfHeader = "X-CSRF-Token"
)

// csrfGuard rejects POSTs that do not carry the token issued with the page.
type csrfGuard struct {
	responder Responder
	logger    zerolog.Logger
	protect   func(http.Handler) http.Handler
	plaintext bool
}

func newCSRFGuard(sessions *auth.Manager, views *views) csrfGuard {
	logger := log.With().Str("handlerName", "csrfGuard").Logger()

	g := csrfGuard{
		responder: NewResponder(logger, views, sessions),
		logger:    logger,
		plaintext: !sessions.Secure(),
	}
	g.protect = csrf.Protect(sessions.CSRFKey(),
		csrf.Secure(sessions.Secure()),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.FieldName(csrfField),
		csrf.RequestHeader(csrfHeader),
		csrf.ErrorHandler(http.HandlerFunc(g.reject)),
	)
	return g
}

// Middleware reads form bodies under the size limit before the token check, and exposes the
// token in the X-CSRF-Token response header.
func (g csrfGuard) Middleware(next http.Handler) http.Handler {
	protected := g.protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(csrfHeader, csrf.Token(r))
		next.ServeHTTP(w, r)
	}))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if err := parseBody(w, r); err != nil {
				g.responder.WriteError(w, r, err)
				return
			}
		}
		// without TLS there is no Referer to compare against
		if g.plaintext {
			r = csrf.PlaintextHTTPRequest(r)
		}
		protected.ServeHTTP(w, r)
	})
}

func (g csrfGuard) reject(w http.ResponseWriter, r *http.Request) {
	reason := "missing or invalid token"
	if err := csrf.FailureReason(r); err != nil {
		reason = err.Error()
	}
	g.logger.Warn().Str("path", r.URL.Path).Str("reason", reason).Msg("CSRF check failed")
	g.responder.WriteError(w, r, errs.NewForbiddenError("csrf: "+reason))
}
