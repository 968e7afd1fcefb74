// Package auth keeps track of who is signed in: a cookie session holding the user id and
// flash messages, plus an optional long-lived remember-me token.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/rpupo63/research-project-pages/errs"
	"github.com/rs/zerolog/log"
)

const (
	sessionName = "session"
	userIDKey   = "user_id"
)

type Manager struct {
	store  *sessions.CookieStore
	secret []byte
	secure bool
}

// New builds a Manager signing cookies with secret. An empty secret is replaced by a random
// one, which signs everyone out on restart.
func New(secret string, secure bool) *Manager {
	key := []byte(secret)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
		if key == nil {
			panic("generating session key failed")
		}
		log.Warn().Msg("SESSION_SECRET is not set; using a random key")
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store, secret: key, secure: secure}
}

// Secure reports whether cookies are restricted to HTTPS.
func (m *Manager) Secure() bool {
	return m.secure
}

// CSRFKey derives the 32-byte key signing the CSRF cookie from the session secret.
func (m *Manager) CSRFKey() []byte {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte("csrf"))
	return mac.Sum(nil)
}

// session returns the request's session. A cookie that cannot be decoded yields a fresh one.
func (m *Manager) session(r *http.Request) *sessions.Session {
	s, err := m.store.Get(r, sessionName)
	if err != nil {
		log.Debug().Err(err).Msg("Discarding undecodable session cookie")
	}
	return s
}

// CurrentUserID returns the signed-in user's id, or 0. When only a valid remember-me cookie
// is present the session is restored from it.
func (m *Manager) CurrentUserID(w http.ResponseWriter, r *http.Request) uint {
	s := m.session(r)
	if id, ok := s.Values[userIDKey].(uint); ok && id > 0 {
		return id
	}

	c, err := r.Cookie(RememberCookie)
	if err != nil || c.Value == "" {
		return 0
	}
	id, err := m.parseRemember(c.Value)
	if err != nil {
		event := log.Error()
		if errs.IsInvalidTokenError(err) {
			event = log.Debug()
		}
		event.Err(err).Msg("Rejecting remember token")
		m.clearRemember(w)
		return 0
	}
	s.Values[userIDKey] = id
	if err := s.Save(r, w); err != nil {
		log.Error().Err(err).Msg("Error saving restored session")
	}
	return id
}

// Login stores userID in the session and, with remember, issues a remember-me cookie.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, userID uint, remember bool) error {
	s := m.session(r)
	s.Values[userIDKey] = userID
	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	if !remember {
		return nil
	}
	token, err := m.issueRemember(userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     RememberCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(rememberFor.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Logout forgets the user id and the remember-me cookie. Pending flashes are kept.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	s := m.session(r)
	delete(s.Values, userIDKey)
	m.clearRemember(w)
	return s.Save(r, w)
}

func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, msg string) error {
	s := m.session(r)
	s.AddFlash(msg)
	return s.Save(r, w)
}

// Flashes pops the pending flash messages.
func (m *Manager) Flashes(w http.ResponseWriter, r *http.Request) []string {
	s := m.session(r)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := s.Save(r, w); err != nil {
		log.Error().Err(err).Msg("Error saving session after reading flashes")
	}
	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func (m *Manager) clearRemember(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RememberCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
