package state

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/brainbolt/backend/internal/models"
)

type record struct {
	version int64
	state   models.AdaptiveState
}

// Memory keeps each identity behind its own atomic pointer, so a swap is
// a single pointer compare-and-swap with no shared lock.
type Memory struct {
	entries sync.Map // identity -> *atomic.Pointer[record]
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) slot(identity string) *atomic.Pointer[record] {
	if p, ok := m.entries.Load(identity); ok {
		return p.(*atomic.Pointer[record])
	}
	p, _ := m.entries.LoadOrStore(identity, new(atomic.Pointer[record]))
	return p.(*atomic.Pointer[record])
}

func (m *Memory) Load(_ context.Context, identity string) (models.AdaptiveState, int64, error) {
	p, ok := m.entries.Load(identity)
	if !ok {
		return models.NewAdaptiveState(), 0, nil
	}
	rec := p.(*atomic.Pointer[record]).Load()
	if rec == nil {
		return models.NewAdaptiveState(), 0, nil
	}
	return rec.state.Clone(), rec.version, nil
}

func (m *Memory) CompareAndSwap(_ context.Context, identity string, expected int64, next models.AdaptiveState) (int64, error) {
	slot := m.slot(identity)
	cur := slot.Load()
	if v := versionOf(cur); v != expected {
		return 0, &ConflictError{Current: v}
	}

	rec := &record{version: expected + 1, state: next.Clone()}
	if !slot.CompareAndSwap(cur, rec) {
		return 0, &ConflictError{Current: versionOf(slot.Load())}
	}
	return rec.version, nil
}

func versionOf(rec *record) int64 {
	if rec == nil {
		return 0
	}
	return rec.version
}
