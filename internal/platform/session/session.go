package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/renoflade/renoflade-api/internal/platform/token"
)

// CookieName is the stable name of the staff session cookie.
const CookieName = "rf_admin_session"

// PrincipalKind tags how a session was established. Only the shared-secret
// admin principal exists today; per-staff accounts would become a second kind
// without touching the route gate.
type PrincipalKind string

const PrincipalSharedSecretAdmin PrincipalKind = "shared-secret-admin"

var ErrAuthFailed = errors.New("authentication failed")

type Session struct {
	Principal PrincipalKind
	Subject   string
	ExpiresAt time.Time
}

// Manager issues and verifies staff sessions and owns the cookie lifecycle.
type Manager struct {
	codec        *token.Codec
	passwordHash string
	ttl          time.Duration
	secureCookie bool
}

func NewManager(codec *token.Codec, passwordHash string, ttl time.Duration, secureCookie bool) *Manager {
	return &Manager{
		codec:        codec,
		passwordHash: passwordHash,
		ttl:          ttl,
		secureCookie: secureCookie,
	}
}

// Login validates the shared staff password and returns a session token.
// An empty configured hash means login is disabled outright.
func (m *Manager) Login(password string) (string, error) {
	if m.passwordHash == "" || password == "" {
		return "", ErrAuthFailed
	}
	match, err := argon2id.ComparePasswordAndHash(password, m.passwordHash)
	if err != nil || !match {
		return "", ErrAuthFailed
	}
	return m.codec.Issue(token.KindAdminSession, "admin", m.ttl)
}

// Current resolves a cookie value to a session. The false return covers every
// failure cause; callers never learn whether a token was expired or forged.
func (m *Manager) Current(cookieValue string) (Session, bool) {
	claims, err := m.codec.Verify(cookieValue, token.KindAdminSession)
	if err != nil {
		return Session{}, false
	}
	s := Session{
		Principal: PrincipalSharedSecretAdmin,
		Subject:   claims.Subject,
	}
	if claims.ExpiresAt != nil {
		s.ExpiresAt = claims.ExpiresAt.Time
	}
	return s, true
}

func (m *Manager) SetCookie(w http.ResponseWriter, tok string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(m.ttl.Seconds()),
		HttpOnly: true,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie overwrites the session cookie with an empty value and Max-Age=0
// so the browser drops it immediately. Safe to call when no session exists.
func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}
