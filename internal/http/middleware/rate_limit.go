package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/renoflade/renoflade-api/internal/http/response"
	"github.com/renoflade/renoflade-api/internal/ratelimit"
	"github.com/renoflade/renoflade-api/pkg/logger"
)

// RateLimit rejects requests once a client identity has used up its window
// for the rule's action. The underlying write never runs for a throttled
// request.
func RateLimit(limiter ratelimit.Limiter, rule ratelimit.Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := ClientIdentity(r)

			decision, err := limiter.Check(r.Context(), identity, rule)
			if err != nil {
				// Limiting is advisory, not a security boundary.
				decision = ratelimit.Allowed
			}
			if decision == ratelimit.Throttled {
				logger.WarnContext(r.Context(), "request throttled",
					"action", rule.Action,
					"identity", ratelimit.MaskIdentity(identity),
					"outcome", "throttled",
				)
				response.RateLimited(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIdentity derives the rate-limit identity for a request: first entry
// of the forwarded-for chain, then X-Real-IP, then the connection address.
// Clients with no address at all share a single "unknown" bucket.
func ClientIdentity(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := xff
		if i := strings.IndexByte(xff, ','); i >= 0 {
			first = xff[:i]
		}
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-Ip")); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
