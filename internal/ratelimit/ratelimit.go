package ratelimit

import (
	"context"
	"math"
	"time"
)

// Decision is the outcome of one admission attempt.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds; a rejection
// always reports at least 1.
func (d Decision) RetryAfterSeconds() int {
	if d.Allowed {
		return 0
	}
	secs := int(math.Ceil(d.RetryAfter.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}

// Limiter admits requests per identity under a fixed window.
type Limiter interface {
	Admit(ctx context.Context, identity string) (Decision, error)
}

type Options struct {
	Capacity int
	Window   time.Duration
}

func DefaultOptions() Options {
	return Options{Capacity: 30, Window: 60 * time.Second}
}
