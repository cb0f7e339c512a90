package idempotency

import (
	"context"
	"time"

	"github.com/brainbolt/backend/internal/models"
)

const (
	DefaultTTL      = 5 * time.Minute
	DefaultClaimTTL = 30 * time.Second

	// ClaimMargin covers the holder's own commit beyond the time waiters
	// are allowed to block on it.
	ClaimMargin = 5 * time.Second
)

// Cache maps a submission key to the result it produced.
//
// Reserve claims a key for one in-flight submission; it fails while
// another claim is live or a result is recorded. Record stores the
// result (replacing the claim) and Release drops an unfulfilled claim.
type Cache interface {
	Lookup(ctx context.Context, key string) (models.AnswerResult, bool, error)
	Reserve(ctx context.Context, key string) (bool, error)
	Record(ctx context.Context, key string, result models.AnswerResult) error
	Release(ctx context.Context, key string) error
}

type Options struct {
	// TTL bounds how long a recorded result is replayed.
	TTL time.Duration
	// ClaimTTL bounds how long an unfulfilled claim blocks the key.
	ClaimTTL time.Duration
}

func DefaultOptions() Options {
	return Options{TTL: DefaultTTL, ClaimTTL: DefaultClaimTTL}
}

// ClaimTTLFor derives the claim lifetime from how long a competing
// submission waits on it, so a crashed holder frees the key soon after
// the last waiter gives up.
func ClaimTTLFor(wait time.Duration) time.Duration {
	return wait + ClaimMargin
}
