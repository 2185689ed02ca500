package cache

import (
	"context"
	"sync"
	"time"

	"loandesk/internal/decision"
)

type entry struct {
	decision  decision.Decision
	expiresAt time.Time
}

// Memory is an in-process decision cache with per-entry expiry.
// Expired entries are evicted lazily on read and by StartSweeper.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Get(_ context.Context, key string) (decision.Decision, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return decision.Decision{}, false, nil
	}

	now := m.now()
	if now.Before(e.expiresAt) {
		return e.decision, true, nil
	}

	m.mu.Lock()
	// Another writer may have refreshed the key since the read lock was released.
	if cur, ok := m.entries[key]; ok && !now.Before(cur.expiresAt) {
		delete(m.entries, key)
	}
	m.mu.Unlock()
	return decision.Decision{}, false, nil
}

// Set stores d until now+ttl. A non-positive ttl removes any existing entry.
func (m *Memory) Set(_ context.Context, key string, d decision.Decision, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ttl <= 0 {
		delete(m.entries, key)
		return nil
	}
	m.entries[key] = entry{decision: d, expiresAt: m.now().Add(ttl)}
	return nil
}

// Clear removes every entry.
func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]entry)
	return nil
}

// Len reports the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Sweep deletes every entry that has expired and returns how many were removed.
func (m *Memory) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for key, e := range m.entries {
		if !now.Before(e.expiresAt) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// StartSweeper runs Sweep every interval until ctx is cancelled.
func (m *Memory) StartSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
