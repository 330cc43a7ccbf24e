package capability

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/renoflade/renoflade-api/internal/platform/token"
)

// ErrInvalid is the only failure a caller sees; the public surface renders it
// as a generic "link invalid or expired" message regardless of cause.
var ErrInvalid = errors.New("invalid or expired manage link")

// Issuer mints and resolves booking-manage tokens. A token addresses exactly
// one booking and carries no staff privilege.
type Issuer struct {
	codec *token.Codec
	ttl   time.Duration
}

func NewIssuer(codec *token.Codec, ttl time.Duration) *Issuer {
	return &Issuer{codec: codec, ttl: ttl}
}

// Mint creates the manage token embedded in a booking's self-service link.
// Called once at booking-confirmation time; tokens are never rotated.
func (i *Issuer) Mint(bookingID uuid.UUID) (string, error) {
	return i.codec.Issue(token.KindBookingManage, bookingID.String(), i.ttl)
}

// Resolve maps a manage token back to the single booking it addresses.
// Mutating callers must resolve again on every request; nothing is cached.
func (i *Issuer) Resolve(raw string) (uuid.UUID, error) {
	claims, err := i.codec.Verify(raw, token.KindBookingManage)
	if err != nil {
		return uuid.Nil, ErrInvalid
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalid
	}
	return id, nil
}
