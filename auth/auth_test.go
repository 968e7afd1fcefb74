package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/research-project-pages/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// carry copies the cookies set on rec onto a new request, dropping deleted ones.
func carry(rec *httptest.ResponseRecorder, prev *http.Request) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	jar := map[string]*http.Cookie{}
	if prev != nil {
		for _, c := range prev.Cookies() {
			jar[c.Name] = c
		}
	}
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(jar, c.Name)
			continue
		}
		jar[c.Name] = &http.Cookie{Name: c.Name, Value: c.Value}
	}
	for _, c := range jar {
		r.AddCookie(c)
	}
	return r
}

func TestLoginLogout(t *testing.T) {
	m := New("test-secret", false)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	assert.Zero(t, m.CurrentUserID(rec, r))

	require.NoError(t, m.Login(rec, r, 7, false))
	r = carry(rec, nil)

	rec = httptest.NewRecorder()
	assert.Equal(t, uint(7), m.CurrentUserID(rec, r))

	require.NoError(t, m.Logout(rec, r))
	r = carry(rec, r)
	assert.Zero(t, m.CurrentUserID(httptest.NewRecorder(), r))
}

func TestRememberRestoresSession(t *testing.T) {
	m := New("test-secret", false)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, m.Login(rec, r, 42, true))

	var remember *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == RememberCookie {
			remember = c
		}
	}
	require.NotNil(t, remember)
	assert.True(t, remember.HttpOnly)

	// browser restarted: only the remember cookie survives
	fresh := httptest.NewRequest(http.MethodGet, "/", nil)
	fresh.AddCookie(&http.Cookie{Name: RememberCookie, Value: remember.Value})
	rec = httptest.NewRecorder()
	assert.Equal(t, uint(42), m.CurrentUserID(rec, fresh))

	// the restored session works without the token
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		if c.Name != RememberCookie {
			r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	assert.Equal(t, uint(42), m.CurrentUserID(httptest.NewRecorder(), r))
}

func TestRememberRejectsForeignTokens(t *testing.T) {
	m := New("test-secret", false)
	other := New("other-secret", false)

	token, err := other.issueRemember(1)
	require.NoError(t, err)
	_, err = m.parseRemember(token)
	assert.True(t, errs.IsInvalidTokenError(err))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    rememberIssuer,
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	raw, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = m.parseRemember(raw)
	assert.True(t, errs.IsInvalidTokenError(err))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: RememberCookie, Value: raw})
	rec := httptest.NewRecorder()
	assert.Zero(t, m.CurrentUserID(rec, r))
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == RememberCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared)
}

func TestFlashesShownOnce(t *testing.T) {
	m := New("test-secret", false)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, m.AddFlash(rec, r, "Saved."))
	r = carry(rec, nil)

	rec = httptest.NewRecorder()
	assert.Equal(t, []string{"Saved."}, m.Flashes(rec, r))
	r = carry(rec, r)

	assert.Empty(t, m.Flashes(httptest.NewRecorder(), r))
}

func TestRandomSecret(t *testing.T) {
	m := New("", true)
	assert.Len(t, m.secret, 32)
	assert.True(t, m.store.Options.Secure)
	assert.True(t, m.Secure())
}

func TestCSRFKey(t *testing.T) {
	m := New("test-secret", false)
	assert.Len(t, m.CSRFKey(), 32)
	assert.Equal(t, m.CSRFKey(), New("test-secret", false).CSRFKey())
	assert.NotEqual(t, m.CSRFKey(), New("other-secret", false).CSRFKey())
	assert.NotEqual(t, m.secret, m.CSRFKey())
}
