package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/renoflade/renoflade-api/internal/platform/token"
)

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestIssueVerifyRoundtrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := token.NewCodec("test-secret", fixedClock(now))

	raw, err := c.Issue(token.KindAdminSession, "admin", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if strings.ContainsAny(raw, " \t\n&?=/") {
		t.Fatalf("token not URL-safe: %q", raw)
	}

	claims, err := c.Verify(raw, token.KindAdminSession)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "admin" {
		t.Fatalf("subject = %q, want admin", claims.Subject)
	}
	if claims.Kind != token.KindAdminSession {
		t.Fatalf("kind = %q", claims.Kind)
	}
}

func TestVerifyExpiry(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := token.NewCodec("test-secret", fixedClock(issuedAt))

	raw, err := issuer.Issue(token.KindAdminSession, "admin", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := []struct {
		name  string
		at    time.Time
		valid bool
	}{
		{"just issued", issuedAt, true},
		{"one second before expiry", issuedAt.Add(time.Hour - time.Second), true},
		{"exactly at expiry", issuedAt.Add(time.Hour), false},
		{"after expiry", issuedAt.Add(2 * time.Hour), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verifier := token.NewCodec("test-secret", fixedClock(tc.at))
			_, err := verifier.Verify(raw, token.KindAdminSession)
			if tc.valid && err != nil {
				t.Fatalf("verify: %v", err)
			}
			if !tc.valid && err != token.ErrInvalid {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestVerifyNoExpiryClaim(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := token.NewCodec("test-secret", fixedClock(issuedAt))

	raw, err := issuer.Issue(token.KindBookingManage, "bk-1", 0)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Still valid years later when no ttl was set.
	verifier := token.NewCodec("test-secret", fixedClock(issuedAt.AddDate(3, 0, 0)))
	if _, err := verifier.Verify(raw, token.KindBookingManage); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	c := token.NewCodec("test-secret", nil)
	raw, err := c.Issue(token.KindAdminSession, "admin", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// The final character is excluded: its low base64 bits are padding and a
	// flip there may decode to the same signature bytes.
	for i := 0; i < len(raw)-1; i++ {
		if raw[i] == '.' {
			continue
		}
		mutated := []byte(raw)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		if _, err := c.Verify(string(mutated), token.KindAdminSession); err != token.ErrInvalid {
			t.Fatalf("byte %d flipped: err = %v, want ErrInvalid", i, err)
		}
	}

	if _, err := c.Verify(raw[:len(raw)-4], token.KindAdminSession); err != token.ErrInvalid {
		t.Fatalf("truncated token: err = %v, want ErrInvalid", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := token.NewCodec("secret-a", nil)
	raw, err := issuer.Issue(token.KindAdminSession, "admin", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	verifier := token.NewCodec("secret-b", nil)
	if _, err := verifier.Verify(raw, token.KindAdminSession); err != token.ErrInvalid {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}

func TestKindIsolation(t *testing.T) {
	c := token.NewCodec("test-secret", nil)

	adminTok, err := c.Issue(token.KindAdminSession, "admin", time.Hour)
	if err != nil {
		t.Fatalf("issue admin: %v", err)
	}
	manageTok, err := c.Issue(token.KindBookingManage, "bk-1", time.Hour)
	if err != nil {
		t.Fatalf("issue manage: %v", err)
	}

	if _, err := c.Verify(adminTok, token.KindBookingManage); err != token.ErrInvalid {
		t.Fatalf("admin token accepted as booking-manage: %v", err)
	}
	if _, err := c.Verify(manageTok, token.KindAdminSession); err != token.ErrInvalid {
		t.Fatalf("booking token accepted as admin-session: %v", err)
	}
}

func TestVerifyGarbage(t *testing.T) {
	c := token.NewCodec("test-secret", nil)

	for _, raw := range []string{"", "garbage", "a.b", "a.b.c", "....", strings.Repeat("x", 4096)} {
		if _, err := c.Verify(raw, token.KindAdminSession); err != token.ErrInvalid {
			t.Fatalf("Verify(%q) err = %v, want ErrInvalid", raw, err)
		}
	}
}
