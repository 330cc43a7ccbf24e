package capability_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/renoflade/renoflade-api/internal/platform/capability"
	"github.com/renoflade/renoflade-api/internal/platform/token"
)

func TestMintResolveRoundtrip(t *testing.T) {
	codec := token.NewCodec("test-secret", nil)
	issuer := capability.NewIssuer(codec, 180*24*time.Hour)

	id := uuid.New()
	tok, err := issuer.Mint(id)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	got, err := issuer.Resolve(tok)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != id {
		t.Fatalf("resolved %v, want %v", got, id)
	}
}

func TestResolveGarbage(t *testing.T) {
	codec := token.NewCodec("test-secret", nil)
	issuer := capability.NewIssuer(codec, time.Hour)

	for _, raw := range []string{"", "not-a-token", "a.b.c", uuid.NewString()} {
		id, err := issuer.Resolve(raw)
		if err != capability.ErrInvalid {
			t.Fatalf("Resolve(%q) err = %v, want ErrInvalid", raw, err)
		}
		if id != uuid.Nil {
			t.Fatalf("Resolve(%q) leaked id %v", raw, id)
		}
	}
}

func TestResolveRejectsAdminSession(t *testing.T) {
	codec := token.NewCodec("test-secret", nil)
	issuer := capability.NewIssuer(codec, time.Hour)

	adminTok, err := codec.Issue(token.KindAdminSession, "admin", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Resolve(adminTok); err != capability.ErrInvalid {
		t.Fatalf("admin session accepted as manage link: %v", err)
	}
}

func TestResolveExpired(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	minting := capability.NewIssuer(token.NewCodec("test-secret", func() time.Time { return issuedAt }), 24*time.Hour)

	id := uuid.New()
	tok, err := minting.Mint(id)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	later := capability.NewIssuer(token.NewCodec("test-secret", func() time.Time { return issuedAt.Add(25 * time.Hour) }), 24*time.Hour)
	if _, err := later.Resolve(tok); err != capability.ErrInvalid {
		t.Fatalf("expired link accepted: %v", err)
	}
}

func TestResolveNonUUIDSubject(t *testing.T) {
	codec := token.NewCodec("test-secret", nil)
	issuer := capability.NewIssuer(codec, time.Hour)

	raw, err := codec.Issue(token.KindBookingManage, "not-a-uuid", time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := issuer.Resolve(raw); err != capability.ErrInvalid {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}
