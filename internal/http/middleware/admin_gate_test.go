package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	mw "github.com/renoflade/renoflade-api/internal/http/middleware"
	"github.com/renoflade/renoflade-api/internal/platform/session"
	"github.com/renoflade/renoflade-api/internal/platform/token"
)

const testPassword = "staff-password"

func newGateEnv(t *testing.T, now func() time.Time) (*session.Manager, http.Handler) {
	t.Helper()
	hash, err := argon2id.CreateHash(testPassword, argon2id.DefaultParams)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	sessions := session.NewManager(token.NewCodec("test-secret", now), hash, 12*time.Hour, false)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("admin content"))
	})
	return sessions, mw.AdminGate(sessions)(next)
}

func TestGateAllowsLoginWithoutSession(t *testing.T) {
	_, gate := newGateEnv(t, nil)

	req := httptest.NewRequest("GET", "/admin/login", nil)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestGateRedirectsWithoutSession(t *testing.T) {
	_, gate := newGateEnv(t, nil)

	for _, path := range []string{"/admin", "/admin/", "/admin/bookings", "/admin/leads/42"} {
		req := httptest.NewRequest("GET", path, nil)
		rec := httptest.NewRecorder()
		gate.ServeHTTP(rec, req)

		if rec.Code != http.StatusSeeOther {
			t.Fatalf("GET %s: status = %d, want 303", path, rec.Code)
		}
		if loc := rec.Header().Get("Location"); loc != mw.LoginPath {
			t.Fatalf("GET %s: location = %q", path, loc)
		}
	}
}

func TestGateAllowsValidSession(t *testing.T) {
	sessions, gate := newGateEnv(t, nil)

	tok, err := sessions.Login(testPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	req := httptest.NewRequest("GET", "/admin/bookings", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tok})
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestGateRedirectsExpiredSession(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	issuing, _ := newGateEnv(t, func() time.Time { return issuedAt })
	tok, err := issuing.Login(testPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	_, gate := newGateEnv(t, func() time.Time { return issuedAt.Add(13 * time.Hour) })

	req := httptest.NewRequest("GET", "/admin/bookings", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tok})
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
}

func TestGateRedirectsForgedCookie(t *testing.T) {
	_, gate := newGateEnv(t, nil)

	forged := token.NewCodec("attacker-secret", nil)
	bad, err := forged.Issue(token.KindAdminSession, "admin", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest("GET", "/admin/bookings", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: bad})
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
}

func TestGateRejectsBookingManageTokenAsCookie(t *testing.T) {
	_, gate := newGateEnv(t, nil)

	codec := token.NewCodec("test-secret", nil)
	manage, err := codec.Issue(token.KindBookingManage, "some-booking", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req := httptest.NewRequest("GET", "/admin/bookings", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: manage})
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
}

func TestGatePathHintHeaderPriority(t *testing.T) {
	_, gate := newGateEnv(t, nil)

	// The proxy says this is the login page even though the proxied URL
	// differs; the first non-empty hint wins.
	req := httptest.NewRequest("GET", "/some/internal/rewrite", nil)
	req.Header.Set("X-Original-Uri", "/admin/login?next=%2Fadmin")
	req.Header.Set("X-Forwarded-Uri", "/admin/bookings")
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (hint header should identify login)", rec.Code)
	}

	// A lower-priority hint naming a gated path still gates.
	req = httptest.NewRequest("GET", "/some/internal/rewrite", nil)
	req.Header.Set("X-Forwarded-Uri", "/admin/bookings")
	rec = httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
}

func TestGateFailsClosedOnUnresolvablePath(t *testing.T) {
	_, gate := newGateEnv(t, nil)

	// No hint headers and a rewritten URL that is not the login page: the
	// request must still require a session.
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
}

func TestLogoutThenRequestRedirects(t *testing.T) {
	sessions, gate := newGateEnv(t, nil)

	tok, err := sessions.Login(testPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	req := httptest.NewRequest("GET", "/admin/bookings", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: tok})
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("pre-logout status = %d, want 200", rec.Code)
	}

	// Logout clears the cookie in the browser; the follow-up request
	// arrives without one.
	rec = httptest.NewRecorder()
	sessions.ClearCookie(rec)
	cleared := rec.Result().Cookies()[0]
	if cleared.Value != "" || cleared.MaxAge >= 0 {
		t.Fatalf("logout cookie not cleared: %+v", cleared)
	}

	req = httptest.NewRequest("GET", "/admin/bookings", nil)
	rec = httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
}
