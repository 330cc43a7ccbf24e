package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/renoflade/renoflade-api/internal/platform/session"
	"github.com/renoflade/renoflade-api/pkg/logger"
)

// LoginPath is the single admin path reachable without a session. The gate
// works from an allow-list of exactly this entry so it fails closed by
// default.
const LoginPath = "/admin/login"

// pathHintHeaders are probed in priority order when a proxy rewrites the URL
// before it reaches this service; the first non-empty value wins. Without any
// hint the request's own URL path is used.
var pathHintHeaders = []string{
	"X-Original-Uri",
	"X-Forwarded-Uri",
	"X-Original-Url",
}

func requestPath(r *http.Request) string {
	for _, h := range pathHintHeaders {
		if v := r.Header.Get(h); v != "" {
			if i := strings.IndexByte(v, '?'); i >= 0 {
				v = v[:i]
			}
			return v
		}
	}
	return r.URL.Path
}

type gateCtxKey string

const ctxSession gateCtxKey = "admin_session"

// AdminGate requires a valid staff session for every admin request except the
// login page itself. Anything unresolved or unverifiable redirects to login;
// the gate never distinguishes missing, expired, and forged cookies.
func AdminGate(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := requestPath(r)
			if path == LoginPath {
				next.ServeHTTP(w, r)
				return
			}

			cookie, err := r.Cookie(session.CookieName)
			if err != nil {
				redirectToLogin(w, r)
				return
			}
			sess, ok := sessions.Current(cookie.Value)
			if !ok {
				logger.WarnContext(r.Context(), "admin request without valid session",
					"path", path,
					"outcome", "redirect_login",
				)
				redirectToLogin(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxSession, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

// AdminSession returns the session placed in the context by AdminGate.
func AdminSession(r *http.Request) (session.Session, bool) {
	v := r.Context().Value(ctxSession)
	if v == nil {
		return session.Session{}, false
	}
	s, ok := v.(session.Session)
	return s, ok
}
