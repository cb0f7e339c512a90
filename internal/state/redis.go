package state

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/brainbolt/backend/internal/models"
)

const (
	fieldVersion = "version"
	fieldState   = "state"
)

// Redis stores each identity as a hash {version, state} and swaps under
// WATCH/MULTI.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) key(identity string) string {
	return fmt.Sprintf("%s:state:%s", r.prefix, identity)
}

func (r *Redis) Load(ctx context.Context, identity string) (models.AdaptiveState, int64, error) {
	vals, err := r.client.HMGet(ctx, r.key(identity), fieldVersion, fieldState).Result()
	if err != nil {
		return models.AdaptiveState{}, 0, fmt.Errorf("load state: %w", err)
	}
	if vals[0] == nil || vals[1] == nil {
		return models.NewAdaptiveState(), 0, nil
	}

	version, err := strconv.ParseInt(vals[0].(string), 10, 64)
	if err != nil {
		return models.AdaptiveState{}, 0, fmt.Errorf("parse state version: %w", err)
	}
	s, err := decode([]byte(vals[1].(string)))
	if err != nil {
		return models.AdaptiveState{}, 0, err
	}
	return s, version, nil
}

type hashGetter interface {
	HGet(ctx context.Context, key, field string) *redis.StringCmd
}

func (r *Redis) currentVersion(ctx context.Context, c hashGetter, key string) (int64, error) {
	v, err := c.HGet(ctx, key, fieldVersion).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read state version: %w", err)
	}
	return v, nil
}

func (r *Redis) CompareAndSwap(ctx context.Context, identity string, expected int64, next models.AdaptiveState) (int64, error) {
	payload, err := encode(next)
	if err != nil {
		return 0, err
	}
	key := r.key(identity)

	err = r.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := r.currentVersion(ctx, tx, key)
		if err != nil {
			return err
		}
		if cur != expected {
			return &ConflictError{Current: cur}
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.HSet(ctx, key, fieldVersion, expected+1, fieldState, payload)
			return nil
		})
		return err
	}, key)

	switch {
	case err == nil:
		return expected + 1, nil
	case errors.Is(err, redis.TxFailedErr):
		cur, verr := r.currentVersion(ctx, r.client, key)
		if verr != nil {
			return 0, verr
		}
		return 0, &ConflictError{Current: cur}
	case errors.Is(err, ErrVersionConflict):
		return 0, err
	default:
		return 0, fmt.Errorf("swap state: %w", err)
	}
}
