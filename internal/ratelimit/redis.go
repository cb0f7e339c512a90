package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counts the attempt and arms the expiry on the first hit of a window.
// Returns {count, pttl}.
var admitScript = redis.NewScript(`
local c = redis.call('INCR', KEYS[1])
if c == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {c, ttl}
`)

// Redis is a fixed-window limiter shared by every replica.
type Redis struct {
	client redis.UniversalClient
	prefix string
	opts   Options
}

func NewRedis(client redis.UniversalClient, prefix string, opts Options) *Redis {
	return &Redis{client: client, prefix: prefix, opts: opts}
}

func (r *Redis) key(identity string) string {
	return fmt.Sprintf("%s:rl:%s", r.prefix, identity)
}

func (r *Redis) Admit(ctx context.Context, identity string) (Decision, error) {
	res, err := admitScript.Run(ctx, r.client, []string{r.key(identity)}, r.opts.Window.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit admit: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("rate limit admit: unexpected reply %v", res)
	}

	count, ttl := int(res[0]), time.Duration(res[1])*time.Millisecond
	if count > r.opts.Capacity {
		return Decision{Allowed: false, RetryAfter: ttl}, nil
	}
	return Decision{Allowed: true, Remaining: r.opts.Capacity - count}, nil
}
