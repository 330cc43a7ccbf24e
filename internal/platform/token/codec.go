package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind discriminates what a token grants. A token issued as one kind never
// verifies as another, so a booking-manage link can never open the admin area.
type Kind string

const (
	KindAdminSession  Kind = "admin-session"
	KindBookingManage Kind = "booking-manage"
)

// ErrInvalid covers every verification failure: malformed input, bad
// signature, wrong kind, missing subject, or expiry. Callers never learn
// which, so probing clients get nothing to work with.
var ErrInvalid = errors.New("invalid token")

type Claims struct {
	Kind Kind `json:"knd"`
	jwt.RegisteredClaims
}

// Codec issues and verifies signed tokens. Secret and clock are fixed at
// construction; verification never reads ambient state.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret string, now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}
	return &Codec{secret: []byte(secret), now: now}
}

// Issue signs a token of the given kind for subject. A ttl <= 0 omits the
// expiry claim entirely, which some booking links want.
func (c *Codec) Issue(kind Kind, subject string, ttl time.Duration) (string, error) {
	now := c.now()
	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks signature, expiry, and kind. A token expiring exactly now is
// already expired.
func (c *Codec) Verify(raw string, want Kind) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{},
		func(t *jwt.Token) (interface{}, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, ErrInvalid
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.Kind != want || claims.Subject == "" {
		return nil, ErrInvalid
	}
	return claims, nil
}
