package engine

import (
	"errors"
	"fmt"

	"github.com/brainbolt/backend/internal/state"
)

var (
	ErrItemNotFound       = errors.New("item not found")
	ErrInvalidChoice      = errors.New("invalid choice")
	ErrNoItemsAvailable   = errors.New("no items available")
	ErrInvalidIdentity    = errors.New("invalid identity")
	ErrSubmissionInFlight = errors.New("submission with this idempotency key is still in flight")
	ErrRateLimited        = errors.New("rate limited")

	// ErrVersionConflict is shared with the state store so callers can
	// match either layer's conflict.
	ErrVersionConflict = state.ErrVersionConflict
)

type VersionConflictError struct {
	Current int64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("version conflict: current version is %d", e.Current)
}

func (e *VersionConflictError) Is(target error) bool {
	return target == ErrVersionConflict
}

type RateLimitedError struct {
	RetryAfterSeconds int
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limited: retry after %ds", e.RetryAfterSeconds)
}

func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}

func conflictFrom(err error) (*VersionConflictError, bool) {
	var sc *state.ConflictError
	if errors.As(err, &sc) {
		return &VersionConflictError{Current: sc.Current}, true
	}
	return nil, false
}
