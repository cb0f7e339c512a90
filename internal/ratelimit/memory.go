package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	start time.Time
	count int
}

// Memory is an in-process fixed-window limiter. Expired windows are
// dropped at most once per window length, during admission.
type Memory struct {
	opts Options
	now  func() time.Time

	mu        sync.Mutex
	windows   map[string]*window
	lastSweep time.Time
}

func NewMemory(opts Options) *Memory {
	return &Memory{
		opts:    opts,
		now:     time.Now,
		windows: make(map[string]*window),
	}
}

// WithClock replaces the time source; used by tests.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) Admit(_ context.Context, identity string) (Decision, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if !now.Before(m.lastSweep.Add(m.opts.Window)) {
		m.sweep(now)
	}

	w, ok := m.windows[identity]
	if !ok || !now.Before(w.start.Add(m.opts.Window)) {
		w = &window{start: now}
		m.windows[identity] = w
	}

	if w.count >= m.opts.Capacity {
		return Decision{
			Allowed:    false,
			Remaining:  0,
			RetryAfter: w.start.Add(m.opts.Window).Sub(now),
		}, nil
	}

	w.count++
	return Decision{Allowed: true, Remaining: m.opts.Capacity - w.count}, nil
}

// sweep drops every window that has ended. Caller holds mu.
func (m *Memory) sweep(now time.Time) {
	for id, w := range m.windows {
		if !now.Before(w.start.Add(m.opts.Window)) {
			delete(m.windows, id)
		}
	}
	m.lastSweep = now
}

// Len reports how many identities currently hold a window.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}
