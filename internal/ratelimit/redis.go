package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/renoflade/renoflade-api/pkg/logger"
)

// checkScript only increments while under the threshold, so concurrent
// requests can never push the counter past it and a throttled client does
// not extend its own window pressure.
var checkScript = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0")
if current >= tonumber(ARGV[1]) then
	return -1
end
current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return current
`)

// RedisLimiter is the production limiter. Redis trouble fails open: blocking
// a legitimate lead is worse than letting the occasional abuser through.
type RedisLimiter struct {
	client *redis.Client
}

func NewRedisLimiter(client *redis.Client) *RedisLimiter {
	return &RedisLimiter{client: client}
}

func (l *RedisLimiter) Check(ctx context.Context, identity string, rule Rule) (Decision, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	n, err := checkScript.Run(ctx, l.client,
		[]string{bucketKey(identity, rule)},
		rule.Requests, rule.Window.Milliseconds(),
	).Int64()
	if err != nil {
		logger.WarnContext(ctx, "rate limit store unavailable, allowing request",
			"action", rule.Action,
			"identity", MaskIdentity(identity),
			"error", err,
		)
		return Allowed, nil
	}
	if n < 0 {
		return Throttled, nil
	}
	return Allowed, nil
}
