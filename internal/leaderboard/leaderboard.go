package leaderboard

import (
	"context"
	"errors"

	"github.com/brainbolt/backend/internal/models"
)

const (
	Unranked     = -1
	DefaultLimit = 10
	MaxLimit     = 100
)

var ErrUnknownBoard = errors.New("unknown leaderboard")

// Projection is the ranked view over committed state. Each board is a
// total order: higher value first, earlier first-seen identity on ties.
type Projection interface {
	Update(ctx context.Context, identity string, totalScore float64, maxStreak int) error
	Top(ctx context.Context, board models.Board, n int) ([]models.LeaderboardEntry, error)
	// Rank is 1-indexed; Unranked when identity has no entry.
	Rank(ctx context.Context, board models.Board, identity string) (int, error)
}

func clampLimit(n int) int {
	if n <= 0 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}
