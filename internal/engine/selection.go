package engine

import (
	"math/rand"
	"sync"

	"github.com/brainbolt/backend/internal/models"
)

const exactMatchBias = 0.7

// Rand is the randomness selection draws from.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

type lockedRand struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewRand returns a goroutine-safe Rand seeded with seed.
func NewRand(seed int64) Rand {
	return &lockedRand{r: rand.New(rand.NewSource(seed))}
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

func (l *lockedRand) Intn(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Intn(n)
}

// Selection is the chosen item plus whether the served cycle was reset
// to reach it.
type Selection struct {
	Item       models.Item
	CycleReset bool
}

// SelectItem picks the next item for s:
//  1. unanswered items within one level,
//  2. else unanswered items at exactly the current level,
//  3. else any item within two levels, starting a new cycle.
//
// Exact-level items are preferred with probability 0.7. The previously
// served item is skipped whenever something else qualifies.
func SelectItem(items []models.Item, s models.AdaptiveState, rng Rand) (Selection, error) {
	answered := make(map[string]struct{}, len(s.AnsweredItemIDs))
	for _, id := range s.AnsweredItemIDs {
		answered[id] = struct{}{}
	}
	unanswered := func(it models.Item) bool {
		_, seen := answered[it.ID]
		return !seen
	}

	var sel Selection
	candidates := filter(items, func(it models.Item) bool {
		return distance(it, s) <= 1 && unanswered(it)
	})
	if len(candidates) == 0 {
		candidates = filter(items, func(it models.Item) bool {
			return distance(it, s) == 0 && unanswered(it)
		})
	}
	if len(candidates) == 0 {
		sel.CycleReset = true
		candidates = filter(items, func(it models.Item) bool {
			return distance(it, s) <= 2
		})
	}
	if len(candidates) == 0 {
		return Selection{}, ErrNoItemsAvailable
	}

	if s.LastItemID != "" && len(candidates) > 1 {
		if rest := filter(candidates, func(it models.Item) bool { return it.ID != s.LastItemID }); len(rest) > 0 {
			candidates = rest
		}
	}

	exact := filter(candidates, func(it models.Item) bool { return distance(it, s) == 0 })
	if len(exact) > 0 && rng.Float64() < exactMatchBias {
		sel.Item = exact[rng.Intn(len(exact))]
	} else {
		sel.Item = candidates[rng.Intn(len(candidates))]
	}
	return sel, nil
}

func distance(it models.Item, s models.AdaptiveState) int {
	d := it.Difficulty - s.Difficulty
	if d < 0 {
		return -d
	}
	return d
}

func filter(items []models.Item, keep func(models.Item) bool) []models.Item {
	var out []models.Item
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
