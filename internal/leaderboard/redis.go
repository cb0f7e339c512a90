package leaderboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/brainbolt/backend/internal/models"
)

// Members are fixed-width strings that sort in reverse of first-seen
// order, so ZREVRANGE's reverse-lexicographic tie order puts earlier
// identities first.
const (
	seqCeiling  = 9_999_999_999_999
	memberWidth = 13
)

// Redis keeps one sorted set per board plus the identity<->member maps.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) boardKey(b models.Board) string { return fmt.Sprintf("%s:lb:%s", r.prefix, b) }
func (r *Redis) memberKey() string             { return r.prefix + ":lb:member" }
func (r *Redis) identityKey() string           { return r.prefix + ":lb:identity" }
func (r *Redis) seqKey() string                { return r.prefix + ":lb:seq" }

func encodeMember(seq int64) string {
	return fmt.Sprintf("%0*d", memberWidth, seqCeiling-seq)
}

func (r *Redis) member(ctx context.Context, identity string, create bool) (string, error) {
	m, err := r.client.HGet(ctx, r.memberKey(), identity).Result()
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("leaderboard member: %w", err)
	}
	if !create {
		return "", nil
	}

	seq, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		return "", fmt.Errorf("leaderboard seq: %w", err)
	}
	m = encodeMember(seq)
	set, err := r.client.HSetNX(ctx, r.memberKey(), identity, m).Result()
	if err != nil {
		return "", fmt.Errorf("leaderboard member: %w", err)
	}
	if !set {
		// Lost a race with a concurrent first update; use the winner's.
		return r.member(ctx, identity, false)
	}
	if err := r.client.HSet(ctx, r.identityKey(), m, identity).Err(); err != nil {
		return "", fmt.Errorf("leaderboard identity: %w", err)
	}
	return m, nil
}

func (r *Redis) Update(ctx context.Context, identity string, totalScore float64, maxStreak int) error {
	m, err := r.member(ctx, identity, true)
	if err != nil {
		return err
	}
	// GT keeps a late, lower update from moving a member backwards.
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZAddGT(ctx, r.boardKey(models.BoardScore), redis.Z{Score: totalScore, Member: m})
		p.ZAddGT(ctx, r.boardKey(models.BoardStreak), redis.Z{Score: float64(maxStreak), Member: m})
		return nil
	})
	if err != nil {
		return fmt.Errorf("leaderboard update: %w", err)
	}
	return nil
}

func (r *Redis) Top(ctx context.Context, b models.Board, n int) ([]models.LeaderboardEntry, error) {
	if !b.Valid() {
		return nil, ErrUnknownBoard
	}
	n = clampLimit(n)

	zs, err := r.client.ZRevRangeWithScores(ctx, r.boardKey(b), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard top: %w", err)
	}
	if len(zs) == 0 {
		return []models.LeaderboardEntry{}, nil
	}

	members := make([]string, len(zs))
	for i, z := range zs {
		members[i] = z.Member.(string)
	}
	ids, err := r.client.HMGet(ctx, r.identityKey(), members...).Result()
	if err != nil {
		return nil, fmt.Errorf("leaderboard identities: %w", err)
	}

	out := make([]models.LeaderboardEntry, 0, len(zs))
	for i, z := range zs {
		id, _ := ids[i].(string)
		out = append(out, models.LeaderboardEntry{Rank: i + 1, Identity: id, Value: z.Score})
	}
	return out, nil
}

func (r *Redis) Rank(ctx context.Context, b models.Board, identity string) (int, error) {
	if !b.Valid() {
		return Unranked, ErrUnknownBoard
	}
	m, err := r.member(ctx, identity, false)
	if err != nil || m == "" {
		return Unranked, err
	}
	rank, err := r.client.ZRevRank(ctx, r.boardKey(b), m).Result()
	if errors.Is(err, redis.Nil) {
		return Unranked, nil
	}
	if err != nil {
		return Unranked, fmt.Errorf("leaderboard rank: %w", err)
	}
	return int(rank) + 1, nil
}
