package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/brainbolt/backend/internal/logger"
	"github.com/brainbolt/backend/internal/models"
)

type entry struct {
	result    *models.AnswerResult
	createdAt time.Time
}

// Memory is an in-process cache. Expired entries are dropped on read and
// by the sweep worker.
type Memory struct {
	opts Options
	now  func() time.Time
	log  *logger.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

func NewMemory(opts Options, log *logger.Logger) *Memory {
	return &Memory{
		opts:    opts,
		now:     time.Now,
		log:     log,
		entries: make(map[string]*entry),
	}
}

func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.now = now
	return m
}

func (m *Memory) expired(e *entry, now time.Time) bool {
	ttl := m.opts.TTL
	if e.result == nil {
		ttl = m.opts.ClaimTTL
	}
	return !now.Before(e.createdAt.Add(ttl))
}

// live returns the entry for key, dropping it first if expired.
// Caller holds mu.
func (m *Memory) live(key string, now time.Time) *entry {
	e, ok := m.entries[key]
	if !ok {
		return nil
	}
	if m.expired(e, now) {
		delete(m.entries, key)
		return nil
	}
	return e
}

func (m *Memory) Lookup(_ context.Context, key string) (models.AnswerResult, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e := m.live(key, m.now())
	if e == nil || e.result == nil {
		return models.AnswerResult{}, false, nil
	}
	return *e.result, true, nil
}

func (m *Memory) Reserve(_ context.Context, key string) (bool, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.live(key, now) != nil {
		return false, nil
	}
	m.entries[key] = &entry{createdAt: now}
	return true, nil
}

func (m *Memory) Record(_ context.Context, key string, result models.AnswerResult) error {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	r := result
	m.entries[key] = &entry{result: &r, createdAt: now}
	return nil
}

func (m *Memory) Release(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[key]; ok && e.result == nil {
		delete(m.entries, key)
	}
	return nil
}

// Sweep removes every expired entry and returns how many were dropped.
func (m *Memory) Sweep() int {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for key, e := range m.entries {
		if m.expired(e, now) {
			delete(m.entries, key)
			n++
		}
	}
	return n
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// ── Background Worker ───────────────────────────────────

func (m *Memory) StartSweepWorker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.log.Info("idempotency sweep worker started", "interval", interval.String())

	for {
		select {
		case <-ctx.Done():
			m.log.Info("idempotency sweep worker shutting down")
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.log.Debug("idempotency sweep", "dropped", n, "remaining", m.Len())
			}
		}
	}
}
