package leaderboard

import (
	"context"
	"sync"

	"github.com/brainbolt/backend/internal/models"
)

type row struct {
	identity string
	seq      uint64
	value    float64
}

type board struct {
	ordered []row
	index   map[string]int
}

// Memory maintains both boards incrementally: one identity moves per
// update, so bubbling it into place keeps each board sorted.
type Memory struct {
	mu     sync.RWMutex
	seq    map[string]uint64
	next   uint64
	boards map[models.Board]*board
}

func NewMemory() *Memory {
	return &Memory{
		seq: make(map[string]uint64),
		boards: map[models.Board]*board{
			models.BoardScore:  {index: make(map[string]int)},
			models.BoardStreak: {index: make(map[string]int)},
		},
	}
}

func (m *Memory) Update(_ context.Context, identity string, totalScore float64, maxStreak int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seq, ok := m.seq[identity]
	if !ok {
		m.next++
		seq = m.next
		m.seq[identity] = seq
	}

	m.boards[models.BoardScore].set(identity, seq, totalScore)
	m.boards[models.BoardStreak].set(identity, seq, float64(maxStreak))
	return nil
}

// set raises identity's value. Both boards track non-decreasing values,
// so a lower value is a late update and is ignored.
func (b *board) set(identity string, seq uint64, value float64) {
	idx, ok := b.index[identity]
	if !ok {
		b.ordered = append(b.ordered, row{identity: identity, seq: seq, value: value})
		idx = len(b.ordered) - 1
		b.index[identity] = idx
	} else if value > b.ordered[idx].value {
		b.ordered[idx].value = value
	} else {
		return
	}
	b.bubble(idx)
}

func (b *board) bubble(idx int) {
	for idx > 0 && before(b.ordered[idx], b.ordered[idx-1]) {
		b.swap(idx, idx-1)
		idx--
	}
	for idx+1 < len(b.ordered) && before(b.ordered[idx+1], b.ordered[idx]) {
		b.swap(idx, idx+1)
		idx++
	}
}

func (b *board) swap(i, j int) {
	b.ordered[i], b.ordered[j] = b.ordered[j], b.ordered[i]
	b.index[b.ordered[i].identity] = i
	b.index[b.ordered[j].identity] = j
}

func before(a, b row) bool {
	if a.value != b.value {
		return a.value > b.value
	}
	return a.seq < b.seq
}

func (m *Memory) Top(_ context.Context, name models.Board, n int) ([]models.LeaderboardEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.boards[name]
	if !ok {
		return nil, ErrUnknownBoard
	}
	n = clampLimit(n)
	if n > len(b.ordered) {
		n = len(b.ordered)
	}

	out := make([]models.LeaderboardEntry, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.LeaderboardEntry{
			Rank:     i + 1,
			Identity: b.ordered[i].identity,
			Value:    b.ordered[i].value,
		})
	}
	return out, nil
}

func (m *Memory) Rank(_ context.Context, name models.Board, identity string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.boards[name]
	if !ok {
		return Unranked, ErrUnknownBoard
	}
	idx, ok := b.index[identity]
	if !ok {
		return Unranked, nil
	}
	return idx + 1, nil
}
