package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/brainbolt/backend/internal/models"
)

const pendingMarker = "__pending__"

// Deletes the key only while it still holds the pending marker.
var releaseScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0
`)

// Redis keeps the claim and the result in the same key, so a recorded
// result always blocks later claims.
type Redis struct {
	client redis.UniversalClient
	prefix string
	opts   Options
}

func NewRedis(client redis.UniversalClient, prefix string, opts Options) *Redis {
	return &Redis{client: client, prefix: prefix, opts: opts}
}

func (r *Redis) key(key string) string {
	return fmt.Sprintf("%s:idem:%s", r.prefix, key)
}

func (r *Redis) Lookup(ctx context.Context, key string) (models.AnswerResult, bool, error) {
	raw, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.AnswerResult{}, false, nil
	}
	if err != nil {
		return models.AnswerResult{}, false, fmt.Errorf("idempotency lookup: %w", err)
	}
	if string(raw) == pendingMarker {
		return models.AnswerResult{}, false, nil
	}

	var res models.AnswerResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return models.AnswerResult{}, false, fmt.Errorf("decode idempotent result: %w", err)
	}
	return res, true, nil
}

func (r *Redis) Reserve(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.key(key), pendingMarker, r.opts.ClaimTTL).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency reserve: %w", err)
	}
	return ok, nil
}

func (r *Redis) Record(ctx context.Context, key string, result models.AnswerResult) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode idempotent result: %w", err)
	}
	if err := r.client.Set(ctx, r.key(key), raw, r.opts.TTL).Err(); err != nil {
		return fmt.Errorf("idempotency record: %w", err)
	}
	return nil
}

func (r *Redis) Release(ctx context.Context, key string) error {
	if err := releaseScript.Run(ctx, r.client, []string{r.key(key)}, pendingMarker).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}
