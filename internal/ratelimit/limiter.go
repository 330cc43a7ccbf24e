package ratelimit

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"
)

type Decision int

const (
	Allowed Decision = iota
	Throttled
)

// Rule bounds one public action: at most Requests per Window per client
// identity. Windows are fixed, starting at the identity's first attempt.
type Rule struct {
	Action   string
	Requests int
	Window   time.Duration
}

// Limiter decides whether a client identity may perform an action.
// Implementations must count atomically under concurrent requests and must
// not keep incrementing once the threshold is crossed.
type Limiter interface {
	Check(ctx context.Context, identity string, rule Rule) (Decision, error)
}

// bucketKey hashes the identity so raw client addresses never reach the
// counter store or its logs.
func bucketKey(identity string, rule Rule) string {
	sum := sha256.Sum256([]byte(rule.Action + ":" + identity))
	return fmt.Sprintf("ratelimit:%s:%x", rule.Action, sum)
}

// MaskIdentity returns a short stable digest of an identity for log lines.
func MaskIdentity(identity string) string {
	sum := sha256.Sum256([]byte(identity))
	return fmt.Sprintf("%x", sum[:6])
}
